package query

import (
	"github.com/blevesearch/bleve/v2/search"
)

// SortType selects how the engine compares a sort field.
type SortType int

const (
	// SortTypeString compares values lexicographically.
	SortTypeString SortType = iota
	// SortTypeNumber compares values numerically.
	SortTypeNumber
	// SortTypeDate compares values as timestamps.
	SortTypeDate
)

// SortBy appends an ordering clause. Call order determines precedence: the
// first key is the primary sort, later keys break ties. The engine's
// multi-key ordering is stable in call order.
func (o *Operation) SortBy(field string, typ SortType, descending bool) *Operation {
	sf := &search.SortField{
		Field:   field,
		Desc:    descending,
		Missing: search.SortFieldMissingLast,
	}
	switch typ {
	case SortTypeNumber:
		sf.Type = search.SortFieldAsNumber
	case SortTypeDate:
		sf.Type = search.SortFieldAsDate
	default:
		sf.Type = search.SortFieldAsString
	}
	o.sort = append(o.sort, sf)
	return o
}

// SortKeys returns the number of ordering clauses added so far.
func (o *Operation) SortKeys() int {
	return len(o.sort)
}
