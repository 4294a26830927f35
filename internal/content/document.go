// Package content holds the document model this search subsystem indexes:
// a flattened content snapshot, the value-set builder turning documents
// into indexable field sets, and an in-memory store that doubles as the
// live content resolver for tree-scoped searches.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Document is a content snapshot handed to the indexing layer. Properties
// hold editor-defined values keyed by property alias; everything else is
// system state.
type Document struct {
	ID             string         `json:"id"`
	ContentType    string         `json:"contentType"`
	ParentID       string         `json:"parentId"`
	Path           string         `json:"path"`
	Culture        string         `json:"culture"`
	Published      bool           `json:"published"`
	Protected      bool           `json:"protected"`
	AllowedMembers []string       `json:"allowedMembers,omitempty"`
	AllowedRoles   []string       `json:"allowedRoles,omitempty"`
	Properties     map[string]any `json:"properties"`
}

// Validate checks the minimal invariants before indexing.
func (d Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("document has no id")
	}
	if d.Path != "" && !strings.HasPrefix(d.Path, "/") {
		return fmt.Errorf("document %s: path %q must start with /", d.ID, d.Path)
	}
	return nil
}

// Store is an in-memory document store. It backs the CLI and implements
// the content resolution the searcher needs for children/descendant hits.
type Store struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{docs: make(map[string]Document)}
}

// Put upserts documents.
func (s *Store) Put(docs ...Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		s.docs[d.ID] = d
	}
}

// Remove deletes a document by identifier.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
}

// Get returns a document by identifier.
func (s *Store) Get(id string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	return d, ok
}

// All returns every stored document, ordered by identifier.
func (s *Store) All() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]Document, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(a, b int) bool { return docs[a].ID < docs[b].ID })
	return docs
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Resolve reports whether the identifier maps to live published content.
// Implements the store.ContentResolver contract.
func (s *Store) Resolve(_ context.Context, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	return ok && d.Published
}

// LoadFile reads one JSON document file.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading document file: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parsing document %s: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// LoadDir reads every *.json document under dir, non-recursively.
func LoadDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory: %w", err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		doc, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
