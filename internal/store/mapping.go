// Package store implements the search contracts against an embedded bleve
// engine: an in-memory (or disk-backed) index, a searcher with structured
// request support, and the content resolver used for tree-scoped searches.
package store

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/pagecms/searchkit/internal/search"
)

// buildIndexMapping translates a field schema into a bleve index mapping.
// Raw and sortable strings index as single keyword terms so exact matches
// and ordering see the whole value; analyzed strings tokenize with the
// standard analyzer.
func buildIndexMapping(schema search.Schema) (*mapping.IndexMappingImpl, error) {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = standard.Name

	for _, field := range schema.Fields() {
		var fm *mapping.FieldMapping
		switch field.Type {
		case search.FieldTypeStringRaw, search.FieldTypeStringSortable:
			fm = bleve.NewTextFieldMapping()
			fm.Analyzer = keyword.Name
		case search.FieldTypeStringAnalyzed:
			fm = bleve.NewTextFieldMapping()
			fm.Analyzer = standard.Name
		case search.FieldTypeNumber:
			fm = bleve.NewNumericFieldMapping()
		case search.FieldTypeDate:
			fm = bleve.NewDateTimeFieldMapping()
		default:
			return nil, fmt.Errorf("field %q has unsupported type %v", field.Name, field.Type)
		}
		indexMapping.DefaultMapping.AddFieldMappingsAt(field.Name, fm)
	}

	return indexMapping, nil
}

// bleveDocument flattens a value set into the shape bleve indexes: single
// values as scalars, multi-values as slices.
func bleveDocument(set search.ValueSet) map[string]any {
	doc := make(map[string]any, len(set.Fields)+1)
	doc[search.FieldID] = set.ID
	for name, values := range set.Fields {
		switch len(values) {
		case 0:
		case 1:
			doc[name] = values[0]
		default:
			doc[name] = values
		}
	}
	return doc
}
