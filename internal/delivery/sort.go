package delivery

import (
	"log/slog"

	"github.com/pagecms/searchkit/internal/query"
	"github.com/pagecms/searchkit/internal/search"
)

// SortBuilder appends ordering clauses with field-type-to-sort-type
// mapping. Options apply in list order, so earlier options are primary sort
// keys and later ones break ties.
type SortBuilder struct {
	schema search.Schema
	logger *slog.Logger
}

// NewSortBuilder creates a sort builder over the given schema.
func NewSortBuilder(schema search.Schema, logger *slog.Logger) *SortBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &SortBuilder{schema: schema, logger: logger}
}

// Append applies each sort option to op. Unknown fields log a warning and
// are skipped, leaving the ordering identical to one without that option.
func (b *SortBuilder) Append(sorts []SortOption, op *query.Operation) {
	for _, sort := range sorts {
		fieldType, known := b.schema.FieldType(sort.FieldName)
		if !known {
			b.logger.Warn("skipping sort on unknown field",
				slog.String("field", sort.FieldName))
			continue
		}
		op.SortBy(sort.FieldName, sortType(fieldType), sort.Direction == Descending)
	}
}

func sortType(fieldType search.FieldType) query.SortType {
	switch fieldType {
	case search.FieldTypeNumber:
		return query.SortTypeNumber
	case search.FieldTypeDate:
		return query.SortTypeDate
	default:
		return query.SortTypeString
	}
}
