package search

import (
	"context"
)

// NotRegisteredIndexName is reported by Index.Name when no underlying engine
// is bound, so callers can display a diagnostic instead of crashing.
const NotRegisteredIndexName = "(not registered)"

// EngineDescriptor is static metadata identifying the engine backing an
// index. Immutable configuration data, safe to copy and share.
type EngineDescriptor struct {
	Name        string
	Version     string
	QuerySyntax string
	DocsURL     string
}

// Index is the provider-neutral indexing contract. Implementations are
// long-lived, registered once at startup per named index, and must be safe
// for searches to interleave with indexing calls.
type Index interface {
	// Name is the stable identifier used for registry lookup. Returns
	// NotRegisteredIndexName when no underlying engine is bound.
	Name() string

	// IndexValueSets upserts documents into the underlying engine. After it
	// returns, subsequent searches observe the new or updated documents.
	IndexValueSets(ctx context.Context, sets []ValueSet) error

	// Remove deletes documents by identifier. Absent identifiers are a no-op.
	Remove(ctx context.Context, ids []string) error

	// DocumentCount returns the number of indexed documents, 0 if the index
	// is not yet initialized.
	DocumentCount() (uint64, error)

	// FieldNames returns the field names currently known to the index.
	FieldNames() ([]string, error)

	// Exists reports whether the index has been created.
	Exists() bool

	// Create initializes the index. A no-op if it already exists.
	Create() error

	// Engine describes the engine backing this index.
	Engine() EngineDescriptor
}

// Searcher executes queries against a named index and shapes results.
// Searches are tolerant of a down or misconfigured index: they return an
// empty result page instead of failing.
type Searcher interface {
	// Name is the searcher's registry name, conventionally matching the
	// index it searches.
	Name() string

	// Search runs a free-text term search with skip/take pagination.
	// Total on the returned Results is the unpaged match count.
	Search(ctx context.Context, term string, page, pageSize int) Results

	// NativeQuery passes the query string directly to the engine's own
	// query syntax without interpretation.
	NativeQuery(ctx context.Context, query string, page, pageSize int) Results

	// SearchChildren finds direct children of the given parent matching the
	// term, in engine relevance order.
	SearchChildren(ctx context.Context, parentID, term string) []Result

	// SearchDescendants finds all descendants under the given path matching
	// the term, in engine relevance order.
	SearchDescendants(ctx context.Context, path, term string) []Result

	// SearchRequest executes a structured request: free-text term,
	// published-state gating and a composable filter tree.
	SearchRequest(ctx context.Context, req *Request) Results

	// NewRequest creates a blank structured request with default OR logic.
	NewRequest() *Request
}
