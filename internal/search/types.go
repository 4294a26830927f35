// Package search defines the provider-neutral indexing and search contracts:
// value sets, field schemas, the Index and Searcher interfaces, and the
// Provider registry that holds all named indexes for the application.
package search

import (
	"sort"
	"time"
)

// FieldType is the semantic type of an indexable field. A field has exactly
// one type for the lifetime of an index schema; query builders consult the
// schema before constructing comparisons.
type FieldType int

const (
	// FieldTypeStringRaw is an exact-match string field (keyword, not tokenized).
	FieldTypeStringRaw FieldType = iota
	// FieldTypeStringAnalyzed is a tokenized full-text string field.
	FieldTypeStringAnalyzed
	// FieldTypeStringSortable is an exact-match string field usable as a sort key.
	FieldTypeStringSortable
	// FieldTypeNumber is a numeric field supporting range comparisons.
	FieldTypeNumber
	// FieldTypeDate is a date/time field supporting range comparisons.
	FieldTypeDate
)

// String returns a human-readable name for the field type.
func (t FieldType) String() string {
	switch t {
	case FieldTypeStringRaw:
		return "string_raw"
	case FieldTypeStringAnalyzed:
		return "string_analyzed"
	case FieldTypeStringSortable:
		return "string_sortable"
	case FieldTypeNumber:
		return "number"
	case FieldTypeDate:
		return "date"
	default:
		return "unknown"
	}
}

// IsString reports whether the type is one of the string variants.
func (t FieldType) IsString() bool {
	return t == FieldTypeStringRaw || t == FieldTypeStringAnalyzed || t == FieldTypeStringSortable
}

// ParseFieldType converts a config-file type name into a FieldType.
func ParseFieldType(name string) (FieldType, bool) {
	switch name {
	case "string", "string_raw", "keyword":
		return FieldTypeStringRaw, true
	case "text", "string_analyzed":
		return FieldTypeStringAnalyzed, true
	case "string_sortable":
		return FieldTypeStringSortable, true
	case "number", "int", "float":
		return FieldTypeNumber, true
	case "date", "datetime":
		return FieldTypeDate, true
	default:
		return FieldTypeStringRaw, false
	}
}

// Field declares a named field and its type in an index schema.
type Field struct {
	Name string
	Type FieldType
}

// Schema is the set of fields an index knows about, in declaration order.
// Field names are case-sensitive, stable strings.
type Schema struct {
	fields []Field
	byName map[string]FieldType
}

// NewSchema builds a schema from the given fields. Later duplicates of a
// field name are ignored; the first declaration wins.
func NewSchema(fields ...Field) Schema {
	s := Schema{byName: make(map[string]FieldType, len(fields))}
	for _, f := range fields {
		if _, ok := s.byName[f.Name]; ok {
			continue
		}
		s.byName[f.Name] = f.Type
		s.fields = append(s.fields, f)
	}
	return s
}

// FieldType looks up the declared type of a field name.
func (s Schema) FieldType(name string) (FieldType, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// Fields returns the declared fields in declaration order.
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// FieldNames returns the declared field names, sorted.
func (s Schema) FieldNames() []string {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge returns a schema containing the fields of s plus any fields of other
// not already declared in s.
func (s Schema) Merge(other Schema) Schema {
	merged := make([]Field, 0, len(s.fields)+len(other.fields))
	merged = append(merged, s.fields...)
	merged = append(merged, other.fields...)
	return NewSchema(merged...)
}

// ValueSet is a flattened document ready for indexing: an identifier plus
// named fields, each holding one or more typed values (string, float64 or
// time.Time). Re-indexing the same identifier replaces prior field values.
type ValueSet struct {
	ID     string
	Fields map[string][]any
}

// NewValueSet creates an empty value set for the given identifier.
func NewValueSet(id string) ValueSet {
	return ValueSet{ID: id, Fields: make(map[string][]any)}
}

// Set replaces the values of a field and returns the value set for chaining.
func (v ValueSet) Set(field string, values ...any) ValueSet {
	v.Fields[field] = values
	return v
}

// Add appends a value to a field and returns the value set for chaining.
func (v ValueSet) Add(field string, value any) ValueSet {
	v.Fields[field] = append(v.Fields[field], value)
	return v
}

// First returns the first value of a field, or nil if the field is absent.
func (v ValueSet) First(field string) any {
	values := v.Fields[field]
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// ValueSetBuilder converts domain entities into value sets ready for
// indexing. Implementations vary per entity type.
type ValueSetBuilder[T any] interface {
	ValueSets(entities []T) ([]ValueSet, error)
}

// Result is a single search hit: the document identifier, its relevance
// score and a snapshot of its stored fields.
type Result struct {
	ID     string
	Score  float64
	Fields map[string]any
}

// Results is one page of search results. Total is the unpaged match count,
// not the page length.
type Results struct {
	Total    uint64
	PageSize int
	Items    []Result
}

// EmptyResults returns a zero-hit result page for the given page size.
// Searches degrade to this when the underlying engine is unavailable.
func EmptyResults(pageSize int) Results {
	return Results{PageSize: pageSize, Items: []Result{}}
}

// DateValue normalizes a raw indexed value into a time.Time where possible.
// Engines hand stored date fields back as RFC 3339 strings.
func DateValue(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, true
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
