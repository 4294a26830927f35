package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/gofrs/flock"

	"github.com/pagecms/searchkit/internal/search"
)

// engineDescriptor describes the embedded bleve engine. Static
// configuration data, never mutated.
var engineDescriptor = search.EngineDescriptor{
	Name:        "Bleve",
	Version:     "2.5.7",
	QuerySyntax: "bleve query string",
	DocsURL:     "https://blevesearch.com/docs/Query-String-Query/",
}

// EngineDescriptor returns the descriptor for the bleve engine backing
// indexes in this package.
func EngineDescriptor() search.EngineDescriptor {
	return engineDescriptor
}

// Index implements search.Index over a bleve engine instance. A memory-only
// index opens at construction; a disk-backed index opens on Create, guarded
// by a file lock so only one process writes the index directory.
//
// The engine tolerates concurrent searches during writes; the mutex guards
// engine replacement on Create/Close, and write batches are serialized.
type Index struct {
	name   string
	schema search.Schema
	path   string
	logger *slog.Logger

	mu     sync.RWMutex
	engine bleve.Index
	lock   *flock.Flock
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithPath makes the index disk-backed at the given directory instead of
// memory-only. The engine opens on Create, not at construction.
func WithPath(path string) IndexOption {
	return func(i *Index) {
		i.path = path
	}
}

// WithIndexLogger sets the logger for index diagnostics.
func WithIndexLogger(logger *slog.Logger) IndexOption {
	return func(i *Index) {
		i.logger = logger
	}
}

// NewIndex creates a named index over the given schema. The schema is
// merged with the well-known system fields. Memory-only indexes are created
// immediately, so Exists is true and Create is a no-op from then on.
func NewIndex(name string, schema search.Schema, opts ...IndexOption) (*Index, error) {
	idx := &Index{
		name:   name,
		schema: search.SystemSchema().Merge(schema),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(idx)
	}

	if idx.path == "" {
		indexMapping, err := buildIndexMapping(idx.schema)
		if err != nil {
			return nil, fmt.Errorf("building mapping for index %q: %w", name, err)
		}
		engine, err := bleve.NewMemOnly(indexMapping)
		if err != nil {
			return nil, fmt.Errorf("creating in-memory index %q: %w", name, err)
		}
		idx.engine = engine
	}

	return idx, nil
}

// Name returns the registry name, or the not-registered sentinel when no
// engine is bound and no path is configured.
func (i *Index) Name() string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.engine == nil && i.path == "" {
		return search.NotRegisteredIndexName
	}
	return i.name
}

// Schema returns the index's field schema, including system fields.
func (i *Index) Schema() search.Schema {
	return i.schema
}

// Engine implements search.Index.
func (i *Index) Engine() search.EngineDescriptor {
	return engineDescriptor
}

// Exists implements search.Index. Trivially true for an open memory-only
// index; disk-backed indexes check for engine metadata on disk.
func (i *Index) Exists() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.engine != nil {
		return true
	}
	if i.path == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(i.path, "index_meta.json"))
	return err == nil
}

// Create implements search.Index. Opens or creates the underlying engine;
// a no-op when the engine is already open. Disk-backed indexes take a file
// lock first to enforce single-writer discipline across processes.
func (i *Index) Create() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.engine != nil {
		return nil
	}
	if i.path == "" {
		return fmt.Errorf("index %q has no engine bound", i.name)
	}

	if err := os.MkdirAll(filepath.Dir(i.path), 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	lock := flock.New(i.path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("locking index %q: %w", i.name, err)
	}
	if !locked {
		return fmt.Errorf("index %q is locked by another process", i.name)
	}

	engine, err := bleve.Open(i.path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		im, merr := buildIndexMapping(i.schema)
		if merr != nil {
			_ = lock.Unlock()
			return fmt.Errorf("building mapping for index %q: %w", i.name, merr)
		}
		engine, err = bleve.New(i.path, im)
	}
	if err != nil {
		_ = lock.Unlock()
		return fmt.Errorf("opening index %q: %w", i.name, err)
	}

	i.engine = engine
	i.lock = lock
	return nil
}

// IndexValueSets implements search.Index. Documents are upserted in one
// batch; once this returns, subsequent searches observe the updates.
func (i *Index) IndexValueSets(ctx context.Context, sets []search.ValueSet) error {
	if len(sets) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.engine == nil {
		return fmt.Errorf("index %q is not created", i.name)
	}

	batch := i.engine.NewBatch()
	for _, set := range sets {
		if set.ID == "" {
			i.logger.Warn("skipping value set without identifier", slog.String("index", i.name))
			continue
		}
		if err := batch.Index(set.ID, bleveDocument(set)); err != nil {
			return fmt.Errorf("indexing document %q: %w", set.ID, err)
		}
	}
	if err := i.engine.Batch(batch); err != nil {
		return fmt.Errorf("applying index batch: %w", err)
	}
	return nil
}

// Remove implements search.Index. Absent identifiers are a no-op.
func (i *Index) Remove(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.engine == nil {
		return fmt.Errorf("index %q is not created", i.name)
	}

	batch := i.engine.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}
	if err := i.engine.Batch(batch); err != nil {
		return fmt.Errorf("applying delete batch: %w", err)
	}
	return nil
}

// DocumentCount implements search.Index. Returns 0 when the index is not
// yet initialized.
func (i *Index) DocumentCount() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.engine == nil {
		return 0, nil
	}
	return i.engine.DocCount()
}

// FieldNames implements search.Index, reporting the fields the engine
// currently knows about.
func (i *Index) FieldNames() ([]string, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.engine == nil {
		return nil, nil
	}
	return i.engine.Fields()
}

// Close releases the engine and any directory lock.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.engine == nil {
		return nil
	}
	err := i.engine.Close()
	i.engine = nil
	if i.lock != nil {
		if uerr := i.lock.Unlock(); uerr != nil && err == nil {
			err = uerr
		}
		i.lock = nil
	}
	return err
}

// searchEngine hands the live engine to the searcher sharing this index.
func (i *Index) searchEngine() bleve.Index {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.engine
}

var _ search.Index = (*Index)(nil)
