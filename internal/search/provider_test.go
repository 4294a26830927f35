package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndex struct {
	name      string
	exists    bool
	count     uint64
	countErr  error
	createErr error
	created   int
}

func (f *fakeIndex) Name() string                                  { return f.name }
func (f *fakeIndex) IndexValueSets(context.Context, []ValueSet) error { return nil }
func (f *fakeIndex) Remove(context.Context, []string) error        { return nil }
func (f *fakeIndex) DocumentCount() (uint64, error)                { return f.count, f.countErr }
func (f *fakeIndex) FieldNames() ([]string, error)                 { return nil, nil }
func (f *fakeIndex) Exists() bool                                  { return f.exists }
func (f *fakeIndex) Engine() EngineDescriptor                      { return EngineDescriptor{Name: "fake"} }

func (f *fakeIndex) Create() error {
	f.created++
	return f.createErr
}

type fakeSearcher struct {
	name string
}

func (f *fakeSearcher) Name() string { return f.name }
func (f *fakeSearcher) Search(context.Context, string, int, int) Results {
	return EmptyResults(DefaultPageSize)
}
func (f *fakeSearcher) NativeQuery(context.Context, string, int, int) Results {
	return EmptyResults(DefaultPageSize)
}
func (f *fakeSearcher) SearchChildren(context.Context, string, string) []Result    { return nil }
func (f *fakeSearcher) SearchDescendants(context.Context, string, string) []Result { return nil }
func (f *fakeSearcher) SearchRequest(context.Context, *Request) Results {
	return EmptyResults(DefaultPageSize)
}
func (f *fakeSearcher) NewRequest() *Request { return NewRequest() }

var (
	_ Index    = (*fakeIndex)(nil)
	_ Searcher = (*fakeSearcher)(nil)
)

func TestProviderLookup(t *testing.T) {
	idx := &fakeIndex{name: "content", exists: true}
	s := &fakeSearcher{name: "content"}
	p := NewProvider([]Index{idx}, []Searcher{s})

	got, ok := p.Index("content")
	require.True(t, ok)
	assert.Same(t, Index(idx), got)

	_, ok = p.Index("members")
	assert.False(t, ok)

	gotSearcher, ok := p.Searcher("content")
	require.True(t, ok)
	assert.Same(t, Searcher(s), gotSearcher)

	_, ok = p.Searcher("members")
	assert.False(t, ok)
}

func TestProviderDuplicateRegistrationKeepsFirst(t *testing.T) {
	first := &fakeIndex{name: "content", count: 1, exists: true}
	second := &fakeIndex{name: "content", count: 2, exists: true}
	p := NewProvider([]Index{first, second}, nil)

	got, ok := p.Index("content")
	require.True(t, ok)
	count, err := got.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestProviderNamesSorted(t *testing.T) {
	p := NewProvider([]Index{
		&fakeIndex{name: "members"},
		&fakeIndex{name: "content"},
		&fakeIndex{name: "external"},
	}, []Searcher{
		&fakeSearcher{name: "members"},
		&fakeSearcher{name: "content"},
	})

	assert.Equal(t, []string{"content", "external", "members"}, p.IndexNames())
	assert.Equal(t, []string{"content", "members"}, p.SearcherNames())
}

func TestUnhealthyIndexes(t *testing.T) {
	p := NewProvider([]Index{
		&fakeIndex{name: "healthy", exists: true},
		&fakeIndex{name: "missing", exists: false},
		&fakeIndex{name: "broken", exists: true, countErr: errors.New("corrupt segment")},
		&fakeIndex{name: NotRegisteredIndexName},
	}, nil)

	unhealthy := p.UnhealthyIndexes(context.Background())
	assert.Equal(t, []string{NotRegisteredIndexName, "broken", "missing"}, unhealthy)
}

func TestUnhealthyIndexesAllHealthy(t *testing.T) {
	p := NewProvider([]Index{
		&fakeIndex{name: "a", exists: true},
		&fakeIndex{name: "b", exists: true},
	}, nil)

	assert.Empty(t, p.UnhealthyIndexes(context.Background()))
}

func TestCreateIndex(t *testing.T) {
	idx := &fakeIndex{name: "content"}
	p := NewProvider([]Index{idx}, nil)

	result := p.CreateIndex("content")
	assert.True(t, result.Success)
	assert.Equal(t, "content", result.IndexName)
	assert.Empty(t, result.Messages)
	assert.Equal(t, 1, idx.created)
}

func TestCreateIndexUnknownName(t *testing.T) {
	p := NewProvider(nil, nil)

	result := p.CreateIndex("members")
	assert.False(t, result.Success)
	assert.Equal(t, "members", result.IndexName)
	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0], "members")
}

func TestCreateIndexFailureIsReportedNotThrown(t *testing.T) {
	idx := &fakeIndex{name: "content", createErr: errors.New("disk full")}
	p := NewProvider([]Index{idx}, nil)

	result := p.CreateIndex("content")
	assert.False(t, result.Success)
	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0], "disk full")
}

func TestCreateIndexesContinuesPastFailures(t *testing.T) {
	good := &fakeIndex{name: "content"}
	bad := &fakeIndex{name: "members", createErr: errors.New("locked")}
	p := NewProvider([]Index{good, bad}, nil)

	results := p.CreateIndexes("content", "members", "ghost")
	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.False(t, results[2].Success)
	assert.Equal(t, 1, good.created)
	assert.Equal(t, 1, bad.created)
}
