package delivery

import (
	"strings"

	"github.com/google/uuid"

	"github.com/pagecms/searchkit/internal/query"
	"github.com/pagecms/searchkit/internal/search"
)

// QueryFactory creates the base query operation for a content search. The
// underlying engine supports leading-wildcard matches natively, so contains
// filters appended later need no special index configuration.
type QueryFactory struct{}

// NewQueryFactory returns a factory for content queries.
func NewQueryFactory() QueryFactory {
	return QueryFactory{}
}

// Create returns a fresh base operation for selector, filter and sort
// builders to chain onto.
func (QueryFactory) Create() *query.Operation {
	return query.New()
}

// SelectorBuilder composes the base match of a delivery search: the
// selector fields, culture fallback, protected-access gating and the
// published-state gate. State-free; constructed per settings scope.
type SelectorBuilder struct {
	memberAuthEnabled bool
}

// NewSelectorBuilder creates a selector builder. memberAuthEnabled controls
// whether protected-access gating is applied; it is read once from
// configuration per settings scope.
func NewSelectorBuilder(memberAuthEnabled bool) *SelectorBuilder {
	return &SelectorBuilder{memberAuthEnabled: memberAuthEnabled}
}

// Build appends the base match to op and returns it for further chaining:
//
//  1. the selector's field must equal one of its values (grouped OR);
//  2. the document culture must be the requested culture or invariant;
//  3. with member authorization enabled, public content always matches and
//     restricted content matches only identities whose access tokens
//     intersect the document's allow-list;
//  4. unless previewing, only published documents match.
func (b *SelectorBuilder) Build(op *query.Operation, selector SelectorOption, culture string, access ProtectedAccess, preview bool) *query.Operation {
	if selector.FieldName != "" {
		values := selector.Values
		if len(values) == 0 {
			// Structurally valid clause that can never match.
			values = []string{uuid.NewString()}
		}
		op.AndGroup(selector.FieldName, values)
	}

	op.AndGroup(search.FieldCulture, []string{normalizeCulture(culture), search.CultureNone})

	if b.memberAuthEnabled {
		tokens := access.Tokens()
		if len(tokens) > 0 {
			op.AndAnyOf(
				query.FieldValues{Field: search.FieldProtected, Values: []string{search.FlagNo}},
				query.FieldValues{Field: search.FieldProtectedAccess, Values: tokens},
			)
		} else {
			op.AndTerm(search.FieldProtected, search.FlagNo)
		}
	}

	if !preview {
		op.AndTerm(search.FieldPublished, search.FlagYes)
	}

	return op
}

// normalizeCulture lower-cases the requested culture. Blank or whitespace
// input becomes an always-miss sentinel so malformed requests match only
// invariant content.
func normalizeCulture(culture string) string {
	if strings.TrimSpace(culture) == "" {
		return uuid.NewString()
	}
	return strings.ToLower(culture)
}
