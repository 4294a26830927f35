package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentValidate(t *testing.T) {
	assert.NoError(t, Document{ID: "1", Path: "/1"}.Validate())
	assert.NoError(t, Document{ID: "1"}.Validate(), "empty path is allowed")
	assert.Error(t, Document{Path: "/1"}.Validate())
	assert.Error(t, Document{ID: "1", Path: "1/2"}.Validate())
}

func TestStoreCRUD(t *testing.T) {
	s := NewStore()
	assert.Zero(t, s.Len())

	s.Put(
		Document{ID: "2", Published: true},
		Document{ID: "1", Published: false},
	)
	assert.Equal(t, 2, s.Len())

	doc, ok := s.Get("1")
	require.True(t, ok)
	assert.False(t, doc.Published)

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].ID, "All returns documents ordered by id")

	s.Remove("1")
	_, ok = s.Get("1")
	assert.False(t, ok)
}

func TestStoreResolve(t *testing.T) {
	s := NewStore()
	s.Put(
		Document{ID: "published", Published: true},
		Document{ID: "draft", Published: false},
	)
	ctx := context.Background()

	assert.True(t, s.Resolve(ctx, "published"))
	assert.False(t, s.Resolve(ctx, "draft"), "unpublished content does not resolve")
	assert.False(t, s.Resolve(ctx, "missing"))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"id": "1",
		"contentType": "product",
		"path": "/root/1",
		"published": true,
		"properties": {"title": "Red Shoes"}
	}`), 0o644))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1", doc.ID)
	assert.Equal(t, "product", doc.ContentType)
	assert.True(t, doc.Published)
	assert.Equal(t, "Red Shoes", doc.Properties["title"])
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "absent.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = LoadFile(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"path": "/1"}`), 0o644))
	_, err = LoadFile(invalid)
	assert.Error(t, err, "documents without id are rejected")
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{"id": "a"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte(`{"id": "b"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	docs, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}
