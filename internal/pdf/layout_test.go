package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdftools-backend/internal/apperr"
	"pdftools-backend/internal/model"
)

// fakeCounter 返回预设页数并记录每个路径被统计的次数
type fakeCounter struct {
	pages map[string]int
	calls map[string]int
}

func newFakeCounter(pages map[string]int) *fakeCounter {
	return &fakeCounter{pages: pages, calls: make(map[string]int)}
}

func (f *fakeCounter) PageCount(_ context.Context, path string) (int, error) {
	f.calls[path]++
	return f.pages[path], nil
}

func TestResolveLayout(t *testing.T) {
	docs := map[string]string{"a": "/scratch/a.pdf", "b": "/scratch/b.pdf"}
	counter := newFakeCounter(map[string]int{"/scratch/a.pdf": 2, "/scratch/b.pdf": 1})

	plan := []model.PageRef{
		{Doc: "a", Page: 2},
		{Doc: "b", Page: 1},
		{Doc: "a", Page: 1},
	}
	resolved, err := ResolveLayout(context.Background(), counter, docs, plan)
	require.NoError(t, err)

	assert.Equal(t, []ResolvedPage{
		{Path: "/scratch/a.pdf", Page: 2},
		{Path: "/scratch/b.pdf", Page: 1},
		{Path: "/scratch/a.pdf", Page: 1},
	}, resolved)
}

func TestResolveLayoutCountsEachDocOnce(t *testing.T) {
	docs := map[string]string{"a": "/scratch/a.pdf"}
	counter := newFakeCounter(map[string]int{"/scratch/a.pdf": 5})

	plan := []model.PageRef{
		{Doc: "a", Page: 1},
		{Doc: "a", Page: 5},
		{Doc: "a", Page: 3},
	}
	_, err := ResolveLayout(context.Background(), counter, docs, plan)
	require.NoError(t, err)
	assert.Equal(t, 1, counter.calls["/scratch/a.pdf"], "page count must be memoized per request")
}

func TestResolveLayoutUnknownDoc(t *testing.T) {
	docs := map[string]string{"a": "/scratch/a.pdf"}
	counter := newFakeCounter(map[string]int{"/scratch/a.pdf": 2})

	_, err := ResolveLayout(context.Background(), counter, docs, []model.PageRef{{Doc: "zz", Page: 1}})
	require.Error(t, err)

	var br *apperr.BadRequest
	require.ErrorAs(t, err, &br)
	assert.Contains(t, br.Msg, "unknown doc id: zz")
}

func TestResolveLayoutPageOutOfRange(t *testing.T) {
	docs := map[string]string{"a": "/scratch/a.pdf"}
	counter := newFakeCounter(map[string]int{"/scratch/a.pdf": 2})

	cases := []struct {
		page int
		want string
	}{
		{0, "Invalid page 0 for doc a (max 2)"},
		{3, "Invalid page 3 for doc a (max 2)"},
		{-1, "Invalid page -1 for doc a (max 2)"},
	}
	for _, tc := range cases {
		_, err := ResolveLayout(context.Background(), counter, docs, []model.PageRef{{Doc: "a", Page: tc.page}})
		var br *apperr.BadRequest
		require.ErrorAs(t, err, &br, "page %d", tc.page)
		assert.Equal(t, tc.want, br.Msg)
	}

	// 边界页码有效
	_, err := ResolveLayout(context.Background(), counter, docs, []model.PageRef{{Doc: "a", Page: 2}})
	assert.NoError(t, err)
}

func TestResolveLayoutWithoutAddressableDocs(t *testing.T) {
	counter := newFakeCounter(nil)

	_, err := ResolveLayout(context.Background(), counter, map[string]string{}, []model.PageRef{{Doc: "a", Page: 1}})
	var br *apperr.BadRequest
	require.ErrorAs(t, err, &br)
	assert.Contains(t, br.Msg, "no file_* parts")
}

func TestResolveLayoutEmptyPlan(t *testing.T) {
	counter := newFakeCounter(nil)

	_, err := ResolveLayout(context.Background(), counter, map[string]string{"a": "/scratch/a.pdf"}, nil)
	var br *apperr.BadRequest
	require.ErrorAs(t, err, &br)
	assert.Equal(t, "Layout is empty", br.Msg)
}
