// Package delivery builds content-delivery queries from structured options:
// a selector establishing the base match, field filters with type-aware
// comparisons, and multi-key sorting. Builders favor best-effort
// degradation: bad input narrows or skips a clause, it never fails a search.
package delivery

import (
	"github.com/pagecms/searchkit/internal/search"
)

// FilterOperator is the comparison applied by a FilterOption.
type FilterOperator int

const (
	// Is matches documents whose field equals any of the values.
	Is FilterOperator = iota
	// IsNot excludes documents whose field equals any of the values.
	IsNot
	// Contains matches documents whose field contains any value as a substring.
	Contains
	// DoesNotContain excludes documents whose field contains any value.
	DoesNotContain
	// LessThan matches number/date fields strictly below the first value.
	LessThan
	// LessThanOrEqual matches number/date fields at or below the first value.
	LessThanOrEqual
	// GreaterThan matches number/date fields strictly above the first value.
	GreaterThan
	// GreaterThanOrEqual matches number/date fields at or above the first value.
	GreaterThanOrEqual
)

// String returns the operator's query-parameter spelling.
func (op FilterOperator) String() string {
	switch op {
	case Is:
		return "is"
	case IsNot:
		return "isNot"
	case Contains:
		return "contains"
	case DoesNotContain:
		return "doesNotContain"
	case LessThan:
		return "lt"
	case LessThanOrEqual:
		return "lte"
	case GreaterThan:
		return "gt"
	case GreaterThanOrEqual:
		return "gte"
	default:
		return "unknown"
	}
}

// IsRange reports whether the operator is a range comparison, valid only on
// number and date fields.
func (op FilterOperator) IsRange() bool {
	switch op {
	case LessThan, LessThanOrEqual, GreaterThan, GreaterThanOrEqual:
		return true
	}
	return false
}

// SelectorOption identifies the base entity set a search targets: a field
// and one or more required values, OR-combined when multiple.
type SelectorOption struct {
	FieldName string
	Values    []string
}

// FilterOption narrows a selector's results on one field. Multiple options
// in a request are AND-combined; multiple values within one option are
// OR-combined for equality operators. Range operators honor only the first
// value.
type FilterOption struct {
	FieldName string
	Operator  FilterOperator
	Values    []string
}

// SortDirection orders a sort key.
type SortDirection int

const (
	// Ascending sorts smallest first.
	Ascending SortDirection = iota
	// Descending sorts largest first.
	Descending
)

// SortOption is one ordering clause. Order in the request list determines
// precedence: the first option is the primary sort key.
type SortOption struct {
	FieldName string
	Direction SortDirection
}

// ProtectedAccess carries the caller's member identity and role memberships
// for gating access-restricted content.
type ProtectedAccess struct {
	MemberKey string
	Roles     []string
}

// Empty reports whether no identity is present.
func (p ProtectedAccess) Empty() bool {
	return p.MemberKey == "" && len(p.Roles) == 0
}

// Tokens expands the identity into the access tokens matched against a
// document's protected-access allow-list.
func (p ProtectedAccess) Tokens() []string {
	tokens := make([]string, 0, 1+len(p.Roles))
	if p.MemberKey != "" {
		tokens = append(tokens, search.MemberTokenPrefix+p.MemberKey)
	}
	for _, role := range p.Roles {
		if role == "" {
			continue
		}
		tokens = append(tokens, search.RoleTokenPrefix+role)
	}
	return tokens
}
