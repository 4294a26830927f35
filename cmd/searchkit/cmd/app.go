package cmd

import (
	"fmt"
	"log/slog"

	"github.com/pagecms/searchkit/internal/config"
	"github.com/pagecms/searchkit/internal/content"
	"github.com/pagecms/searchkit/internal/search"
	"github.com/pagecms/searchkit/internal/store"
)

// resolverCacheSize bounds the published-content resolution cache.
const resolverCacheSize = 1024

// app wires configuration, the content store and the index registry for a
// command invocation.
type app struct {
	cfg      *config.Config
	contents *content.Store
	provider *search.Provider
	indexes  map[string]*store.Index
	schemas  map[string]search.Schema
}

// newApp loads configuration and assembles every configured index and its
// searcher into the provider registry.
func newApp(cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	contents := content.NewStore()
	resolver, err := store.NewCachedResolver(contents, resolverCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating resolver cache: %w", err)
	}

	a := &app{
		cfg:      cfg,
		contents: contents,
		indexes:  make(map[string]*store.Index, len(cfg.Indexes)),
		schemas:  make(map[string]search.Schema, len(cfg.Indexes)),
	}

	var (
		indexes   []search.Index
		searchers []search.Searcher
	)
	for _, indexCfg := range cfg.Indexes {
		schema, _ := cfg.Schema(indexCfg.Name)

		var opts []store.IndexOption
		if indexCfg.Path != "" {
			opts = append(opts, store.WithPath(indexCfg.Path))
		}
		idx, err := store.NewIndex(indexCfg.Name, schema, opts...)
		if err != nil {
			return nil, fmt.Errorf("creating index %q: %w", indexCfg.Name, err)
		}

		// Open already-persisted engines so read-only commands see them;
		// Create is a no-op for memory-only indexes, which open at
		// construction, and indexes not yet on disk stay closed until the
		// index command creates them.
		if idx.Exists() {
			if err := idx.Create(); err != nil {
				return nil, fmt.Errorf("opening index %q: %w", indexCfg.Name, err)
			}
		}

		a.indexes[indexCfg.Name] = idx
		a.schemas[indexCfg.Name] = idx.Schema()
		indexes = append(indexes, idx)
		searchers = append(searchers, store.NewSearcher(idx, store.WithResolver(resolver)))
	}

	a.provider = search.NewProvider(indexes, searchers,
		search.WithProviderLogger(slog.Default()))
	return a, nil
}

// loadContent reads the content directory into the document store and
// returns the documents.
func (a *app) loadContent(dir string) ([]content.Document, error) {
	if dir == "" {
		dir = a.cfg.Content.Dir
	}
	docs, err := content.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	a.contents.Put(docs...)
	return docs, nil
}

// close releases every open index.
func (a *app) close() {
	for name, idx := range a.indexes {
		if err := idx.Close(); err != nil {
			slog.Warn("closing index failed",
				slog.String("index", name),
				slog.String("error", err.Error()))
		}
	}
}
