package query

import (
	"sort"
	"testing"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestIndex builds an in-memory engine with one keyword, one analyzed,
// one numeric and one date field, seeded with three documents.
func newTestIndex(t *testing.T) bleve.Index {
	t.Helper()

	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	colorField := bleve.NewTextFieldMapping()
	colorField.Analyzer = keyword.Name
	im.DefaultMapping.AddFieldMappingsAt("color", colorField)

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = standard.Name
	im.DefaultMapping.AddFieldMappingsAt("title", titleField)

	im.DefaultMapping.AddFieldMappingsAt("price", bleve.NewNumericFieldMapping())
	im.DefaultMapping.AddFieldMappingsAt("released", bleve.NewDateTimeFieldMapping())

	idx, err := bleve.NewMemOnly(im)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	docs := map[string]map[string]any{
		"a": {"color": "red", "title": "Red Shoes", "price": 10.0, "released": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		"b": {"color": "blue", "title": "Blue Shoes", "price": 25.0, "released": time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		"c": {"color": "red", "title": "Red Hat", "price": 40.0, "released": time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for id, doc := range docs {
		require.NoError(t, idx.Index(id, doc))
	}
	return idx
}

// run executes an operation and returns the matching document ids, sorted
// unless the operation carries sort keys, in which case engine order is kept.
func run(t *testing.T, idx bleve.Index, op *Operation) []string {
	t.Helper()

	q, so := op.Build()
	req := bleve.NewSearchRequestOptions(q, 10, 0, false)
	if len(so) > 0 {
		req.SortByCustom(so)
	}
	res, err := idx.Search(req)
	require.NoError(t, err)

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	if len(so) == 0 {
		sort.Strings(ids)
	}
	return ids
}

func TestEmptyOperationMatchesAll(t *testing.T) {
	idx := newTestIndex(t)

	op := New()
	assert.True(t, op.Empty())
	assert.Equal(t, []string{"a", "b", "c"}, run(t, idx, op))
}

func TestAndTerm(t *testing.T) {
	idx := newTestIndex(t)

	op := New().AndTerm("color", "red")
	assert.False(t, op.Empty())
	assert.Equal(t, []string{"a", "c"}, run(t, idx, op))
}

func TestAndGroup(t *testing.T) {
	idx := newTestIndex(t)

	assert.Equal(t, []string{"a", "b", "c"},
		run(t, idx, New().AndGroup("color", []string{"red", "blue"})))
	assert.Equal(t, []string{"b"},
		run(t, idx, New().AndGroup("color", []string{"blue"})))

	// No values adds no clause.
	op := New().AndGroup("color", nil)
	assert.True(t, op.Empty())
}

func TestNotGroup(t *testing.T) {
	idx := newTestIndex(t)

	assert.Equal(t, []string{"b"},
		run(t, idx, New().NotGroup("color", []string{"red"})))
}

func TestAndAnyOfSpansFields(t *testing.T) {
	idx := newTestIndex(t)

	op := New().AndAnyOf(
		FieldValues{Field: "color", Values: []string{"blue"}},
		FieldValues{Field: "title", Values: []string{"hat"}},
	)
	assert.Equal(t, []string{"b", "c"}, run(t, idx, op))

	empty := New().AndAnyOf(FieldValues{Field: "color"})
	assert.True(t, empty.Empty())
}

func TestContains(t *testing.T) {
	idx := newTestIndex(t)

	assert.Equal(t, []string{"a", "c"},
		run(t, idx, New().AndContains("color", []string{"ed"})))
	assert.Equal(t, []string{"b"},
		run(t, idx, New().NotContains("color", []string{"ed"})))
	assert.Equal(t, []string{"a", "b", "c"},
		run(t, idx, New().AndContains("color", []string{"ed", "blu"})))
}

func TestAndPrefix(t *testing.T) {
	idx := newTestIndex(t)

	assert.Equal(t, []string{"b"},
		run(t, idx, New().AndPrefix("color", "bl")))
}

func TestNumberRangeInclusivity(t *testing.T) {
	idx := newTestIndex(t)

	min := 10.0
	assert.Equal(t, []string{"a", "b", "c"},
		run(t, idx, New().AndNumberRange("price", &min, nil, true, false)),
		"gte includes the boundary")
	assert.Equal(t, []string{"b", "c"},
		run(t, idx, New().AndNumberRange("price", &min, nil, false, false)),
		"gt excludes the boundary")

	max := 25.0
	assert.Equal(t, []string{"a", "b"},
		run(t, idx, New().AndNumberRange("price", nil, &max, false, true)))
	assert.Equal(t, []string{"a"},
		run(t, idx, New().AndNumberRange("price", nil, &max, false, false)))
}

func TestNumberPointEquality(t *testing.T) {
	idx := newTestIndex(t)

	assert.Equal(t, []string{"a"},
		run(t, idx, New().AndNumberIn("price", []float64{10})))
	assert.Equal(t, []string{"a", "b"},
		run(t, idx, New().AndNumberIn("price", []float64{10, 25})))
	assert.Equal(t, []string{"b", "c"},
		run(t, idx, New().NotNumberIn("price", []float64{10})))
}

func TestDateRangeInclusivity(t *testing.T) {
	idx := newTestIndex(t)
	boundary := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, []string{"b", "c"},
		run(t, idx, New().AndDateRange("released", boundary, time.Time{}, true, false)))
	assert.Equal(t, []string{"c"},
		run(t, idx, New().AndDateRange("released", boundary, time.Time{}, false, false)))
	assert.Equal(t, []string{"a", "b"},
		run(t, idx, New().AndDateRange("released", time.Time{}, boundary, false, true)))
}

func TestDatePointEquality(t *testing.T) {
	idx := newTestIndex(t)

	assert.Equal(t, []string{"a"},
		run(t, idx, New().AndDateIn("released", []time.Time{
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		})))
	assert.Equal(t, []string{"b", "c"},
		run(t, idx, New().NotDateIn("released", []time.Time{
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		})))
}

func TestSortByNumber(t *testing.T) {
	idx := newTestIndex(t)

	asc := New().SortBy("price", SortTypeNumber, false)
	assert.Equal(t, 1, asc.SortKeys())
	assert.Equal(t, []string{"a", "b", "c"}, run(t, idx, asc))

	desc := New().SortBy("price", SortTypeNumber, true)
	assert.Equal(t, []string{"c", "b", "a"}, run(t, idx, desc))
}

func TestSortMultiKeyPrecedence(t *testing.T) {
	idx := newTestIndex(t)

	// Primary: color ascending (blue before red). Secondary: price
	// descending breaks the tie between the two red documents.
	op := New().
		SortBy("color", SortTypeString, false).
		SortBy("price", SortTypeNumber, true)
	assert.Equal(t, 2, op.SortKeys())
	assert.Equal(t, []string{"b", "c", "a"}, run(t, idx, op))
}

func TestSortByDate(t *testing.T) {
	idx := newTestIndex(t)

	op := New().SortBy("released", SortTypeDate, true)
	assert.Equal(t, []string{"c", "b", "a"}, run(t, idx, op))
}

func TestChainingCombinesClauses(t *testing.T) {
	idx := newTestIndex(t)

	min := 20.0
	op := New().
		AndGroup("color", []string{"red", "blue"}).
		AndNumberRange("price", &min, nil, true, false).
		SortBy("price", SortTypeNumber, false)
	assert.Equal(t, []string{"b", "c"}, run(t, idx, op))
}
