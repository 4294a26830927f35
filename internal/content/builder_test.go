package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecms/searchkit/internal/search"
)

func builderSchema() search.Schema {
	return search.SystemSchema().Merge(search.NewSchema(
		search.Field{Name: "title", Type: search.FieldTypeStringAnalyzed},
		search.Field{Name: "price", Type: search.FieldTypeNumber},
		search.Field{Name: "released", Type: search.FieldTypeDate},
	))
}

func TestValueSetSystemFields(t *testing.T) {
	b := NewValueSetBuilder(builderSchema())

	sets, err := b.ValueSets([]Document{{
		ID: "1", ContentType: "product", ParentID: "root", Path: "/root/1",
		Culture: "EN-US", Published: true, Protected: false,
		Properties: map[string]any{"title": "Red Shoes"},
	}})
	require.NoError(t, err)
	require.Len(t, sets, 1)

	set := sets[0]
	assert.Equal(t, "1", set.ID)
	assert.Equal(t, "product", set.First(search.FieldContentType))
	assert.Equal(t, "root", set.First(search.FieldParentID))
	assert.Equal(t, "/root/1", set.First(search.FieldPath))
	assert.Equal(t, "en-us", set.First(search.FieldCulture), "cultures are lower-cased")
	assert.Equal(t, search.FlagYes, set.First(search.FieldPublished))
	assert.Equal(t, search.FlagNo, set.First(search.FieldProtected))
	assert.Nil(t, set.First(search.FieldProtectedAccess))
	assert.Equal(t, "Red Shoes", set.First("title"))
}

func TestValueSetInvariantCulture(t *testing.T) {
	b := NewValueSetBuilder(builderSchema())

	sets, err := b.ValueSets([]Document{
		{ID: "1", Path: "/1"},
		{ID: "2", Path: "/2", Culture: "   "},
	})
	require.NoError(t, err)
	assert.Equal(t, search.CultureNone, sets[0].First(search.FieldCulture))
	assert.Equal(t, search.CultureNone, sets[1].First(search.FieldCulture))
}

func TestValueSetAccessTokens(t *testing.T) {
	b := NewValueSetBuilder(builderSchema())

	sets, err := b.ValueSets([]Document{{
		ID: "1", Path: "/1", Protected: true,
		AllowedMembers: []string{"alice", ""},
		AllowedRoles:   []string{"staff", "editors"},
	}})
	require.NoError(t, err)

	assert.Equal(t, search.FlagYes, sets[0].First(search.FieldProtected))
	assert.Equal(t, []any{"u:alice", "r:staff", "r:editors"},
		sets[0].Fields[search.FieldProtectedAccess])
}

func TestValueSetCoercesDeclaredTypes(t *testing.T) {
	b := NewValueSetBuilder(builderSchema())

	sets, err := b.ValueSets([]Document{{
		ID: "1", Path: "/1",
		Properties: map[string]any{
			"price":    19.5,
			"released": "2024-06-15T00:00:00Z",
		},
	}})
	require.NoError(t, err)

	assert.Equal(t, 19.5, sets[0].First("price"))
	released, ok := sets[0].First("released").(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), released)
}

func TestValueSetUndeclaredPropertyIndexesAsString(t *testing.T) {
	b := NewValueSetBuilder(builderSchema())

	sets, err := b.ValueSets([]Document{{
		ID: "1", Path: "/1",
		Properties: map[string]any{"stock": 7.0},
	}})
	require.NoError(t, err)
	assert.Equal(t, "7", sets[0].First("stock"))
}

func TestValueSetRejectsWrongPropertyType(t *testing.T) {
	b := NewValueSetBuilder(builderSchema())

	_, err := b.ValueSets([]Document{{
		ID: "1", Path: "/1",
		Properties: map[string]any{"price": "expensive"},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price")

	_, err = b.ValueSets([]Document{{
		ID: "1", Path: "/1",
		Properties: map[string]any{"released": "not a date"},
	}})
	require.Error(t, err)
}

func TestValueSetRejectsInvalidDocument(t *testing.T) {
	b := NewValueSetBuilder(builderSchema())

	_, err := b.ValueSets([]Document{{Path: "/1"}})
	require.Error(t, err, "a document without id cannot be indexed")

	_, err = b.ValueSets([]Document{{ID: "1", Path: "no-slash"}})
	require.Error(t, err)
}
