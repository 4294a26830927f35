// Package query provides a chainable boolean query builder over bleve.
// It is the substrate the delivery query builders target: exact field
// matches, grouped OR over multi-value fields, inclusive/exclusive range
// queries on number and date fields, wildcard contains-matches and
// multi-key ordering.
package query

import (
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
	bquery "github.com/blevesearch/bleve/v2/search/query"
)

// FieldValues pairs a field name with candidate values, used to build
// disjunctions spanning multiple fields.
type FieldValues struct {
	Field  string
	Values []string
}

// Operation accumulates boolean clauses and sort keys. Methods mutate the
// operation and return it for chaining; it is not safe for concurrent use.
type Operation struct {
	root    *bquery.BooleanQuery
	sort    search.SortOrder
	clauses int
}

// New returns an empty operation. Built with no clauses it matches all
// documents.
func New() *Operation {
	return &Operation{root: bleve.NewBooleanQuery()}
}

func (o *Operation) must(q bquery.Query) *Operation {
	o.root.AddMust(q)
	o.clauses++
	return o
}

func (o *Operation) mustNot(q bquery.Query) *Operation {
	o.root.AddMustNot(q)
	o.clauses++
	return o
}

func termQuery(field, value string) bquery.Query {
	q := bleve.NewTermQuery(value)
	q.SetField(field)
	return q
}

func wildcardQuery(field, value string) bquery.Query {
	q := bleve.NewWildcardQuery("*" + value + "*")
	q.SetField(field)
	return q
}

// groupedOr builds a disjunction of exact matches over one field. A single
// value collapses to a plain term query.
func groupedOr(field string, values []string) bquery.Query {
	if len(values) == 1 {
		return termQuery(field, values[0])
	}
	sub := make([]bquery.Query, 0, len(values))
	for _, v := range values {
		sub = append(sub, termQuery(field, v))
	}
	return bleve.NewDisjunctionQuery(sub...)
}

// AndMatch ANDs an analyzed free-text match across the indexed content.
func (o *Operation) AndMatch(term string) *Operation {
	if term == "" {
		return o
	}
	return o.must(bleve.NewMatchQuery(term))
}

// AndTerm ANDs an exact match on a field.
func (o *Operation) AndTerm(field, value string) *Operation {
	return o.must(termQuery(field, value))
}

// AndGroup ANDs a grouped OR of exact matches over one field.
func (o *Operation) AndGroup(field string, values []string) *Operation {
	if len(values) == 0 {
		return o
	}
	return o.must(groupedOr(field, values))
}

// NotGroup ANDs the negation of a grouped OR of exact matches.
func (o *Operation) NotGroup(field string, values []string) *Operation {
	if len(values) == 0 {
		return o
	}
	return o.mustNot(groupedOr(field, values))
}

// AndAnyOf ANDs a disjunction spanning several field/value groups: the
// document must match at least one value in at least one group.
func (o *Operation) AndAnyOf(groups ...FieldValues) *Operation {
	sub := make([]bquery.Query, 0, len(groups))
	for _, g := range groups {
		for _, v := range g.Values {
			sub = append(sub, termQuery(g.Field, v))
		}
	}
	if len(sub) == 0 {
		return o
	}
	return o.must(bleve.NewDisjunctionQuery(sub...))
}

func containsGroup(field string, values []string) bquery.Query {
	if len(values) == 1 {
		return wildcardQuery(field, values[0])
	}
	sub := make([]bquery.Query, 0, len(values))
	for _, v := range values {
		sub = append(sub, wildcardQuery(field, v))
	}
	return bleve.NewDisjunctionQuery(sub...)
}

// AndContains ANDs a leading-and-trailing wildcard match over one field,
// grouped OR for multiple values.
func (o *Operation) AndContains(field string, values []string) *Operation {
	if len(values) == 0 {
		return o
	}
	return o.must(containsGroup(field, values))
}

// NotContains ANDs the negation of a wildcard contains-match.
func (o *Operation) NotContains(field string, values []string) *Operation {
	if len(values) == 0 {
		return o
	}
	return o.mustNot(containsGroup(field, values))
}

// AndPrefix ANDs a prefix match on a field.
func (o *Operation) AndPrefix(field, prefix string) *Operation {
	q := bleve.NewPrefixQuery(prefix)
	q.SetField(field)
	return o.must(q)
}

func numberRange(field string, min, max *float64, minInclusive, maxInclusive bool) bquery.Query {
	q := bleve.NewNumericRangeInclusiveQuery(min, max, &minInclusive, &maxInclusive)
	q.SetField(field)
	return q
}

// AndNumberRange ANDs an open or closed numeric range. Nil bounds are
// unbounded; inclusivity applies per bound.
func (o *Operation) AndNumberRange(field string, min, max *float64, minInclusive, maxInclusive bool) *Operation {
	return o.must(numberRange(field, min, max, minInclusive, maxInclusive))
}

// numberPoints builds point-range equality over number values: the engine's
// structured number fields expose only range queries, so equality is a
// closed range with both bounds at the value, OR-chained for multi-value.
func numberPoints(field string, values []float64) bquery.Query {
	if len(values) == 1 {
		v := values[0]
		return numberRange(field, &v, &v, true, true)
	}
	sub := make([]bquery.Query, 0, len(values))
	for _, v := range values {
		v := v
		sub = append(sub, numberRange(field, &v, &v, true, true))
	}
	return bleve.NewDisjunctionQuery(sub...)
}

// AndNumberIn ANDs point-range equality over number values.
func (o *Operation) AndNumberIn(field string, values []float64) *Operation {
	if len(values) == 0 {
		return o
	}
	return o.must(numberPoints(field, values))
}

// NotNumberIn ANDs the negation of point-range equality over number values.
func (o *Operation) NotNumberIn(field string, values []float64) *Operation {
	if len(values) == 0 {
		return o
	}
	return o.mustNot(numberPoints(field, values))
}

func dateRange(field string, start, end time.Time, startInclusive, endInclusive bool) bquery.Query {
	q := bleve.NewDateRangeInclusiveQuery(start, end, &startInclusive, &endInclusive)
	q.SetField(field)
	return q
}

// AndDateRange ANDs an open or closed date range. Zero times are unbounded.
func (o *Operation) AndDateRange(field string, start, end time.Time, startInclusive, endInclusive bool) *Operation {
	return o.must(dateRange(field, start, end, startInclusive, endInclusive))
}

func datePoints(field string, values []time.Time) bquery.Query {
	if len(values) == 1 {
		return dateRange(field, values[0], values[0], true, true)
	}
	sub := make([]bquery.Query, 0, len(values))
	for _, v := range values {
		sub = append(sub, dateRange(field, v, v, true, true))
	}
	return bleve.NewDisjunctionQuery(sub...)
}

// AndDateIn ANDs point-range equality over date values.
func (o *Operation) AndDateIn(field string, values []time.Time) *Operation {
	if len(values) == 0 {
		return o
	}
	return o.must(datePoints(field, values))
}

// NotDateIn ANDs the negation of point-range equality over date values.
func (o *Operation) NotDateIn(field string, values []time.Time) *Operation {
	if len(values) == 0 {
		return o
	}
	return o.mustNot(datePoints(field, values))
}

// Empty reports whether no clauses have been added.
func (o *Operation) Empty() bool {
	return o.clauses == 0
}

// Build finalizes the operation. An operation with no clauses builds to a
// match-all query so callers can always execute the result.
func (o *Operation) Build() (bquery.Query, search.SortOrder) {
	if o.clauses == 0 {
		return bleve.NewMatchAllQuery(), o.sort
	}
	return o.root, o.sort
}
