package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/pagecms/searchkit/internal/search"
)

// ValueSetBuilder flattens documents into value sets, coercing property
// values to the types the index schema declares. It implements
// search.ValueSetBuilder[Document].
type ValueSetBuilder struct {
	schema search.Schema
}

// NewValueSetBuilder creates a builder for the given index schema.
func NewValueSetBuilder(schema search.Schema) *ValueSetBuilder {
	return &ValueSetBuilder{schema: schema}
}

// ValueSets implements search.ValueSetBuilder.
func (b *ValueSetBuilder) ValueSets(docs []Document) ([]search.ValueSet, error) {
	sets := make([]search.ValueSet, 0, len(docs))
	for _, doc := range docs {
		set, err := b.valueSet(doc)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func (b *ValueSetBuilder) valueSet(doc Document) (search.ValueSet, error) {
	if err := doc.Validate(); err != nil {
		return search.ValueSet{}, err
	}

	set := search.NewValueSet(doc.ID).
		Set(search.FieldContentType, doc.ContentType).
		Set(search.FieldParentID, doc.ParentID).
		Set(search.FieldPath, doc.Path).
		Set(search.FieldCulture, normalizedCulture(doc.Culture)).
		Set(search.FieldPublished, flag(doc.Published)).
		Set(search.FieldProtected, flag(doc.Protected))

	if tokens := accessTokens(doc); len(tokens) > 0 {
		values := make([]any, len(tokens))
		for i, t := range tokens {
			values[i] = t
		}
		set.Set(search.FieldProtectedAccess, values...)
	}

	for alias, raw := range doc.Properties {
		value, err := b.coerce(alias, raw)
		if err != nil {
			return search.ValueSet{}, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		if value != nil {
			set.Set(alias, value)
		}
	}

	return set, nil
}

// coerce converts a JSON property value into the declared field type.
// Properties without a schema entry index as plain strings.
func (b *ValueSetBuilder) coerce(alias string, raw any) (any, error) {
	fieldType, known := b.schema.FieldType(alias)
	if !known {
		return fmt.Sprintf("%v", raw), nil
	}

	switch fieldType {
	case search.FieldTypeNumber:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		default:
			return nil, fmt.Errorf("property %q: expected number, got %T", alias, raw)
		}
	case search.FieldTypeDate:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("property %q: expected date string, got %T", alias, raw)
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", alias, err)
		}
		return t, nil
	default:
		if s, ok := raw.(string); ok {
			return s, nil
		}
		return fmt.Sprintf("%v", raw), nil
	}
}

func normalizedCulture(culture string) string {
	culture = strings.ToLower(strings.TrimSpace(culture))
	if culture == "" {
		return search.CultureNone
	}
	return culture
}

func flag(on bool) string {
	if on {
		return search.FlagYes
	}
	return search.FlagNo
}

func accessTokens(doc Document) []string {
	tokens := make([]string, 0, len(doc.AllowedMembers)+len(doc.AllowedRoles))
	for _, member := range doc.AllowedMembers {
		if member != "" {
			tokens = append(tokens, search.MemberTokenPrefix+member)
		}
	}
	for _, role := range doc.AllowedRoles {
		if role != "" {
			tokens = append(tokens, search.RoleTokenPrefix+role)
		}
	}
	return tokens
}

var _ search.ValueSetBuilder[Document] = (*ValueSetBuilder)(nil)
