package store

import (
	"context"
	"log/slog"

	"github.com/blevesearch/bleve/v2"
	bsearch "github.com/blevesearch/bleve/v2/search"
	bquery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pagecms/searchkit/internal/query"
	"github.com/pagecms/searchkit/internal/search"
)

// maxTreeResults caps children/descendant searches, which are unpaged and
// relevance-ordered.
const maxTreeResults = 500

// Searcher implements search.Searcher against the bleve engine of an Index.
// A searcher never fails a caller because the engine is down or
// misconfigured: such searches degrade to an empty result page.
type Searcher struct {
	index    *Index
	resolver ContentResolver
	logger   *slog.Logger
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithResolver sets the content resolver used to map children/descendant
// hits back to live content.
func WithResolver(r ContentResolver) SearcherOption {
	return func(s *Searcher) {
		s.resolver = r
	}
}

// WithSearcherLogger sets the logger for search diagnostics.
func WithSearcherLogger(logger *slog.Logger) SearcherOption {
	return func(s *Searcher) {
		s.logger = logger
	}
}

// NewSearcher creates a searcher over the given index.
func NewSearcher(index *Index, opts ...SearcherOption) *Searcher {
	s := &Searcher{index: index, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements search.Searcher.
func (s *Searcher) Name() string {
	return s.index.Name()
}

// NewRequest implements search.Searcher.
func (s *Searcher) NewRequest() *search.Request {
	return search.NewRequest()
}

// Search implements search.Searcher: a free-text term search with skip/take
// pagination. Total on the returned page is the unpaged match count.
func (s *Searcher) Search(ctx context.Context, term string, page, pageSize int) search.Results {
	return s.Execute(ctx, bleve.NewMatchQuery(term), nil, page, pageSize)
}

// NativeQuery implements search.Searcher, passing the query string to the
// engine's own syntax without interpretation.
func (s *Searcher) NativeQuery(ctx context.Context, queryStr string, page, pageSize int) search.Results {
	return s.Execute(ctx, bleve.NewQueryStringQuery(queryStr), nil, page, pageSize)
}

// SearchChildren implements search.Searcher, conjoining a parent-id
// constraint with the free-text term. Engine relevance order.
func (s *Searcher) SearchChildren(ctx context.Context, parentID, term string) []search.Result {
	q := fieldTerm(search.FieldParentID, parentID)
	return s.searchTree(ctx, q, term)
}

// SearchDescendants implements search.Searcher, conjoining a path-prefix
// constraint with the free-text term. Engine relevance order.
func (s *Searcher) SearchDescendants(ctx context.Context, path, term string) []search.Result {
	pq := bleve.NewPrefixQuery(path)
	pq.SetField(search.FieldPath)
	return s.searchTree(ctx, pq, term)
}

func (s *Searcher) searchTree(ctx context.Context, constraint bquery.Query, term string) []search.Result {
	root := bleve.NewBooleanQuery()
	root.AddMust(constraint)
	if term != "" {
		root.AddMust(bleve.NewMatchQuery(term))
	}

	results := s.Execute(ctx, root, nil, 0, maxTreeResults)
	if s.resolver == nil {
		return results.Items
	}

	resolved := make([]search.Result, 0, len(results.Items))
	for _, item := range results.Items {
		if s.resolver.Resolve(ctx, item.ID) {
			resolved = append(resolved, item)
		}
	}
	return resolved
}

// SearchRequest implements search.Searcher. The request's free-text term,
// published-state gate and filter tree compose into one boolean query;
// nested sub-filters are spliced into their parent group.
func (s *Searcher) SearchRequest(ctx context.Context, req *search.Request) search.Results {
	if req == nil {
		return search.EmptyResults(search.DefaultPageSize)
	}

	root := bleve.NewBooleanQuery()
	clauses := 0

	if !req.Preview {
		root.AddMust(fieldTerm(search.FieldPublished, search.FlagYes))
		clauses++
	}

	var optional []bquery.Query
	if req.Term != "" {
		optional = append(optional, bleve.NewMatchQuery(req.Term))
	}
	for _, filter := range req.Filters {
		if q := renderRequestFilter(filter); q != nil {
			optional = append(optional, q)
		}
	}

	if len(optional) > 0 {
		clauses += len(optional)
		if req.Logic == search.LogicAnd {
			for _, q := range optional {
				root.AddMust(q)
			}
		} else {
			root.AddMust(bleve.NewDisjunctionQuery(optional...))
		}
	}

	var q bquery.Query = root
	if clauses == 0 {
		q = bleve.NewMatchAllQuery()
	}
	return s.Execute(ctx, q, nil, req.Page, req.PageSize)
}

// renderRequestFilter turns one filter node into a query: the filter's own
// field/value matches and the rendered sub-filters combine under the
// filter's logic operator. Returns nil for a node with nothing to match.
func renderRequestFilter(f *search.RequestFilter) bquery.Query {
	if f == nil {
		return nil
	}

	clauses := make([]bquery.Query, 0, len(f.Values)+len(f.SubFilters))
	for _, v := range f.Values {
		clauses = append(clauses, fieldTerm(f.FieldName, v))
	}
	for _, sub := range f.SubFilters {
		if q := renderRequestFilter(sub); q != nil {
			clauses = append(clauses, q)
		}
	}

	switch len(clauses) {
	case 0:
		return nil
	case 1:
		return clauses[0]
	}
	if f.Logic == search.LogicAnd {
		return bleve.NewConjunctionQuery(clauses...)
	}
	return bleve.NewDisjunctionQuery(clauses...)
}

// ExecuteOperation builds a composed query operation (selector + filters +
// sort) and runs it with skip/take pagination.
func (s *Searcher) ExecuteOperation(ctx context.Context, op *query.Operation, page, pageSize int) search.Results {
	q, sort := op.Build()
	return s.Execute(ctx, q, sort, page, pageSize)
}

// Execute runs a prepared query with skip/take pagination and maps the hits
// into provider-neutral results. Engine errors degrade to an empty page.
func (s *Searcher) Execute(ctx context.Context, q bquery.Query, sort bsearch.SortOrder, page, pageSize int) search.Results {
	if pageSize <= 0 {
		pageSize = search.DefaultPageSize
	}
	if page < 0 {
		page = 0
	}

	engine := s.index.searchEngine()
	if engine == nil {
		s.logger.Warn("search against unavailable index",
			slog.String("index", s.index.name))
		return search.EmptyResults(pageSize)
	}

	req := bleve.NewSearchRequestOptions(q, pageSize, pageSize*page, false)
	req.Fields = []string{"*"}
	if len(sort) > 0 {
		req.SortByCustom(sort)
	}

	res, err := engine.SearchInContext(ctx, req)
	if err != nil {
		s.logger.Warn("search failed",
			slog.String("index", s.index.name),
			slog.String("error", err.Error()))
		return search.EmptyResults(pageSize)
	}

	items := make([]search.Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		items = append(items, search.Result{
			ID:     hit.ID,
			Score:  hit.Score,
			Fields: hit.Fields,
		})
	}
	return search.Results{Total: res.Total, PageSize: pageSize, Items: items}
}

func fieldTerm(field, value string) bquery.Query {
	q := bleve.NewTermQuery(value)
	q.SetField(field)
	return q
}

var _ search.Searcher = (*Searcher)(nil)
