package search

// LogicOperator combines clauses of a structured search request.
type LogicOperator int

const (
	// LogicOr matches documents satisfying any clause.
	LogicOr LogicOperator = iota
	// LogicAnd matches documents satisfying every clause.
	LogicAnd
)

// String returns the operator name.
func (op LogicOperator) String() string {
	if op == LogicAnd {
		return "and"
	}
	return "or"
}

// Request is a structured search: a free-text term, paging, preview state
// and a tree of field filters. Construct via Searcher.NewRequest, consume
// once per search.
type Request struct {
	Term     string
	Preview  bool
	Page     int
	PageSize int
	Logic    LogicOperator
	Filters  []*RequestFilter
}

// NewRequest returns a blank request with default OR logic.
func NewRequest() *Request {
	return &Request{Logic: LogicOr, PageSize: DefaultPageSize}
}

// DefaultPageSize is used when a request does not specify a page size.
const DefaultPageSize = 10

// CreateFilter appends a field filter to the request and returns it so
// sub-filters can be attached.
func (r *Request) CreateFilter(fieldName string, values []string, logic LogicOperator) *RequestFilter {
	f := &RequestFilter{FieldName: fieldName, Values: values, Logic: logic}
	r.Filters = append(r.Filters, f)
	return f
}

// RequestFilter constrains one field to a set of values, optionally nesting
// sub-filters under the same logic operator. Sub-filter matches are combined
// into the parent group, so arbitrarily nested boolean trees are supported.
type RequestFilter struct {
	FieldName  string
	Values     []string
	Logic      LogicOperator
	SubFilters []*RequestFilter
}

// CreateSubFilter appends a nested filter and returns it.
func (f *RequestFilter) CreateSubFilter(fieldName string, values []string, logic LogicOperator) *RequestFilter {
	sub := &RequestFilter{FieldName: fieldName, Values: values, Logic: logic}
	f.SubFilters = append(f.SubFilters, sub)
	return sub
}
