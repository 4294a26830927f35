package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// CreateResult reports the outcome of creating a single named index.
// Failures carry diagnostic messages instead of errors so batch creation can
// report partial failure without aborting the whole operation.
type CreateResult struct {
	IndexName string
	Success   bool
	Messages  []string
}

// Provider is the central directory of all named indexes and searchers.
// It is populated once at startup and read-only thereafter; no runtime
// registration or deregistration is supported.
type Provider struct {
	indexes   map[string]Index
	searchers map[string]Searcher
	logger    *slog.Logger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithProviderLogger sets the logger used for registry diagnostics.
func WithProviderLogger(logger *slog.Logger) ProviderOption {
	return func(p *Provider) {
		p.logger = logger
	}
}

// NewProvider builds the registry from the indexes and searchers assembled
// at startup. Duplicate names keep the first registration and log a warning.
func NewProvider(indexes []Index, searchers []Searcher, opts ...ProviderOption) *Provider {
	p := &Provider{
		indexes:   make(map[string]Index, len(indexes)),
		searchers: make(map[string]Searcher, len(searchers)),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	for _, idx := range indexes {
		name := idx.Name()
		if _, ok := p.indexes[name]; ok {
			p.logger.Warn("duplicate index registration ignored", slog.String("index", name))
			continue
		}
		p.indexes[name] = idx
	}
	for _, s := range searchers {
		name := s.Name()
		if _, ok := p.searchers[name]; ok {
			p.logger.Warn("duplicate searcher registration ignored", slog.String("searcher", name))
			continue
		}
		p.searchers[name] = s
	}
	return p
}

// Index looks up a registered index by name.
func (p *Provider) Index(name string) (Index, bool) {
	idx, ok := p.indexes[name]
	return idx, ok
}

// Searcher looks up a registered searcher by name.
func (p *Provider) Searcher(name string) (Searcher, bool) {
	s, ok := p.searchers[name]
	return s, ok
}

// IndexNames returns the registered index names, sorted.
func (p *Provider) IndexNames() []string {
	names := make([]string, 0, len(p.indexes))
	for name := range p.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SearcherNames returns the registered searcher names, sorted.
func (p *Provider) SearcherNames() []string {
	names := make([]string, 0, len(p.searchers))
	for name := range p.searchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnhealthyIndexes returns the names of indexes failing existence or
// diagnostic checks. Checks run concurrently; used by operational health
// reporting.
func (p *Provider) UnhealthyIndexes(ctx context.Context) []string {
	var (
		mu        sync.Mutex
		unhealthy []string
	)

	g, _ := errgroup.WithContext(ctx)
	for name, idx := range p.indexes {
		name, idx := name, idx
		g.Go(func() error {
			if healthy, reason := checkIndexHealth(idx); !healthy {
				p.logger.Warn("index unhealthy",
					slog.String("index", name),
					slog.String("reason", reason))
				mu.Lock()
				unhealthy = append(unhealthy, name)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(unhealthy)
	return unhealthy
}

func checkIndexHealth(idx Index) (bool, string) {
	if idx.Name() == NotRegisteredIndexName {
		return false, "no engine bound"
	}
	if !idx.Exists() {
		return false, "index does not exist"
	}
	if _, err := idx.DocumentCount(); err != nil {
		return false, fmt.Sprintf("document count failed: %v", err)
	}
	return true, ""
}

// CreateIndex looks up the named index and invokes its Create. The outcome
// is a structured result, never a thrown error, so batch creation of many
// indexes can continue past individual failures.
func (p *Provider) CreateIndex(name string) CreateResult {
	idx, ok := p.indexes[name]
	if !ok {
		return CreateResult{
			IndexName: name,
			Messages:  []string{fmt.Sprintf("no index registered with name %q", name)},
		}
	}
	if err := idx.Create(); err != nil {
		return CreateResult{
			IndexName: name,
			Messages:  []string{fmt.Sprintf("create failed: %v", err)},
		}
	}
	return CreateResult{IndexName: name, Success: true}
}

// CreateIndexes creates every named index, collecting per-index results.
func (p *Provider) CreateIndexes(names ...string) []CreateResult {
	results := make([]CreateResult, 0, len(names))
	for _, name := range names {
		results = append(results, p.CreateIndex(name))
	}
	return results
}
