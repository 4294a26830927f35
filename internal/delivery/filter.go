package delivery

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pagecms/searchkit/internal/query"
	"github.com/pagecms/searchkit/internal/search"
)

// dateLayouts are tried in order when parsing date filter values.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FilterBuilder appends structured filters onto a query operation with
// per-field-type dispatch. One builder per search, constructed with the
// index schema and a logger.
//
// Error policy: an unknown field or an unsupported operator/type
// combination logs a warning and skips the clause; unparseable number/date
// values are dropped, and a clause whose values all fail to parse becomes a
// no-op. A single bad filter never aborts the whole query.
type FilterBuilder struct {
	schema search.Schema
	logger *slog.Logger
}

// NewFilterBuilder creates a filter builder over the given schema.
func NewFilterBuilder(schema search.Schema, logger *slog.Logger) *FilterBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &FilterBuilder{schema: schema, logger: logger}
}

// Append applies each filter option to op in order. Options are implicitly
// AND-combined; values within an equality option are OR-combined.
func (b *FilterBuilder) Append(filters []FilterOption, op *query.Operation) {
	for _, filter := range filters {
		b.appendOne(filter, op)
	}
}

func (b *FilterBuilder) appendOne(filter FilterOption, op *query.Operation) {
	fieldType, known := b.schema.FieldType(filter.FieldName)
	if !known {
		b.logger.Warn("skipping filter on unknown field",
			slog.String("field", filter.FieldName),
			slog.String("operator", filter.Operator.String()))
		return
	}

	values := filter.Values
	if len(values) == 0 {
		// Keeps the clause structurally valid while matching nothing,
		// avoiding null/empty-string edge cases in the engine.
		values = []string{uuid.NewString()}
	}

	switch filter.Operator {
	case Is:
		b.appendEquality(filter.FieldName, fieldType, values, false, op)
	case IsNot:
		b.appendEquality(filter.FieldName, fieldType, values, true, op)
	case Contains, DoesNotContain:
		if !fieldType.IsString() {
			b.logger.Warn("skipping contains filter on non-string field",
				slog.String("field", filter.FieldName),
				slog.String("type", fieldType.String()))
			return
		}
		if filter.Operator == Contains {
			op.AndContains(filter.FieldName, values)
		} else {
			op.NotContains(filter.FieldName, values)
		}
	case LessThan, LessThanOrEqual, GreaterThan, GreaterThanOrEqual:
		b.appendRange(filter.FieldName, fieldType, filter.Operator, values, op)
	default:
		b.logger.Warn("skipping filter with unknown operator",
			slog.String("field", filter.FieldName))
	}
}

func (b *FilterBuilder) appendEquality(field string, fieldType search.FieldType, values []string, negate bool, op *query.Operation) {
	switch fieldType {
	case search.FieldTypeNumber:
		numbers := b.parseNumbers(field, values)
		if negate {
			op.NotNumberIn(field, numbers)
		} else {
			op.AndNumberIn(field, numbers)
		}
	case search.FieldTypeDate:
		dates := b.parseDates(field, values)
		if negate {
			op.NotDateIn(field, dates)
		} else {
			op.AndDateIn(field, dates)
		}
	default:
		if negate {
			op.NotGroup(field, values)
		} else {
			op.AndGroup(field, values)
		}
	}
}

// appendRange constructs an open-ended range from the first value. Range
// comparison is not defined on raw/analyzed string fields; multi-value
// ranges are not supported.
func (b *FilterBuilder) appendRange(field string, fieldType search.FieldType, operator FilterOperator, values []string, op *query.Operation) {
	if fieldType.IsString() {
		b.logger.Warn("skipping range filter on string field",
			slog.String("field", field),
			slog.String("operator", operator.String()))
		return
	}

	raw := values[0]
	switch fieldType {
	case search.FieldTypeNumber:
		bound, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			b.logger.Debug("dropping unparseable number bound",
				slog.String("field", field),
				slog.String("value", raw))
			return
		}
		min, max, minInc, maxInc := numberBounds(operator, bound)
		op.AndNumberRange(field, min, max, minInc, maxInc)
	case search.FieldTypeDate:
		bound, ok := parseDate(raw)
		if !ok {
			b.logger.Debug("dropping unparseable date bound",
				slog.String("field", field),
				slog.String("value", raw))
			return
		}
		start, end, startInc, endInc := dateBounds(operator, bound)
		op.AndDateRange(field, start, end, startInc, endInc)
	}
}

func numberBounds(operator FilterOperator, bound float64) (min, max *float64, minInc, maxInc bool) {
	switch operator {
	case LessThan:
		return nil, &bound, false, false
	case LessThanOrEqual:
		return nil, &bound, false, true
	case GreaterThan:
		return &bound, nil, false, false
	default: // GreaterThanOrEqual
		return &bound, nil, true, false
	}
}

func dateBounds(operator FilterOperator, bound time.Time) (start, end time.Time, startInc, endInc bool) {
	switch operator {
	case LessThan:
		return time.Time{}, bound, false, false
	case LessThanOrEqual:
		return time.Time{}, bound, false, true
	case GreaterThan:
		return bound, time.Time{}, false, false
	default: // GreaterThanOrEqual
		return bound, time.Time{}, true, false
	}
}

// parseNumbers drops unparseable values. An empty return turns the clause
// into a no-op rather than an error: malformed input on a public search
// surface must fail open, not closed.
func (b *FilterBuilder) parseNumbers(field string, values []string) []float64 {
	parsed := make([]float64, 0, len(values))
	for _, v := range values {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			b.logger.Debug("dropping unparseable number value",
				slog.String("field", field),
				slog.String("value", v))
			continue
		}
		parsed = append(parsed, n)
	}
	return parsed
}

func (b *FilterBuilder) parseDates(field string, values []string) []time.Time {
	parsed := make([]time.Time, 0, len(values))
	for _, v := range values {
		t, ok := parseDate(v)
		if !ok {
			b.logger.Debug("dropping unparseable date value",
				slog.String("field", field),
				slog.String("value", v))
			continue
		}
		parsed = append(parsed, t)
	}
	return parsed
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
