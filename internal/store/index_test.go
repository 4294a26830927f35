package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecms/searchkit/internal/search"
)

func testSchema() search.Schema {
	return search.NewSchema(
		search.Field{Name: "title", Type: search.FieldTypeStringAnalyzed},
		search.Field{Name: "price", Type: search.FieldTypeNumber},
		search.Field{Name: "released", Type: search.FieldTypeDate},
	)
}

func newMemIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex("content", testSchema())
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestMemoryIndexOpensAtConstruction(t *testing.T) {
	idx := newMemIndex(t)

	assert.Equal(t, "content", idx.Name())
	assert.True(t, idx.Exists())
	assert.NoError(t, idx.Create(), "create is a no-op when already open")

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIndexNameSentinelWithoutEngine(t *testing.T) {
	idx := &Index{name: "content"}
	assert.Equal(t, search.NotRegisteredIndexName, idx.Name())
}

func TestSchemaIncludesSystemFields(t *testing.T) {
	idx := newMemIndex(t)

	_, ok := idx.Schema().FieldType(search.FieldPublished)
	assert.True(t, ok)
	typ, ok := idx.Schema().FieldType("price")
	require.True(t, ok)
	assert.Equal(t, search.FieldTypeNumber, typ)
}

func TestIndexValueSetsAndRemove(t *testing.T) {
	idx := newMemIndex(t)
	ctx := context.Background()

	sets := []search.ValueSet{
		search.NewValueSet("1").Set("title", "Red Shoes").Set("price", 10.0),
		search.NewValueSet("2").Set("title", "Blue Shoes").Set("price", 25.0),
	}
	require.NoError(t, idx.IndexValueSets(ctx, sets))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	require.NoError(t, idx.Remove(ctx, []string{"1", "does-not-exist"}))
	count, err = idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	require.NoError(t, idx.Remove(ctx, nil), "empty removal is a no-op")
}

func TestIndexValueSetsUpsertsExisting(t *testing.T) {
	idx := newMemIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.IndexValueSets(ctx, []search.ValueSet{
		search.NewValueSet("1").Set("title", "Red Shoes"),
	}))
	require.NoError(t, idx.IndexValueSets(ctx, []search.ValueSet{
		search.NewValueSet("1").Set("title", "Crimson Shoes"),
	}))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count, "re-indexing the same id replaces the document")
}

func TestIndexValueSetsSkipsEmptyID(t *testing.T) {
	idx := newMemIndex(t)

	require.NoError(t, idx.IndexValueSets(context.Background(), []search.ValueSet{
		search.NewValueSet("").Set("title", "orphan"),
		search.NewValueSet("1").Set("title", "kept"),
	}))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestIndexValueSetsHonorsCancelledContext(t *testing.T) {
	idx := newMemIndex(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := idx.IndexValueSets(ctx, []search.ValueSet{search.NewValueSet("1")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFieldNamesAfterIndexing(t *testing.T) {
	idx := newMemIndex(t)

	require.NoError(t, idx.IndexValueSets(context.Background(), []search.ValueSet{
		search.NewValueSet("1").Set("title", "Red Shoes").Set("price", 10.0),
	}))

	fields, err := idx.FieldNames()
	require.NoError(t, err)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "price")
}

func TestDiskBackedIndexLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.bleve")

	idx, err := NewIndex("content", testSchema(), WithPath(path))
	require.NoError(t, err)

	assert.False(t, idx.Exists(), "disk index does not exist before create")
	assert.Error(t, idx.IndexValueSets(context.Background(), []search.ValueSet{
		search.NewValueSet("1"),
	}), "writes before create fail")

	require.NoError(t, idx.Create())
	assert.True(t, idx.Exists())

	require.NoError(t, idx.IndexValueSets(context.Background(), []search.ValueSet{
		search.NewValueSet("1").Set("title", "Red Shoes"),
	}))
	require.NoError(t, idx.Close())

	// Reopening finds the persisted documents.
	reopened, err := NewIndex("content", testSchema(), WithPath(path))
	require.NoError(t, err)
	assert.True(t, reopened.Exists())
	require.NoError(t, reopened.Create())
	defer func() { _ = reopened.Close() }()

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestCloseIsIdempotent(t *testing.T) {
	idx := newMemIndex(t)
	require.NoError(t, idx.Close())
	require.NoError(t, idx.Close())
	assert.Equal(t, search.NotRegisteredIndexName, idx.Name())
}

func TestEngineDescriptor(t *testing.T) {
	idx := newMemIndex(t)
	engine := idx.Engine()
	assert.Equal(t, "Bleve", engine.Name)
	assert.NotEmpty(t, engine.Version)
}
