package search

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
)

type fakeSearcher struct {
	resp  *Response
	err   error
	calls int
}

func (f *fakeSearcher) Search(ctx context.Context, req *Request) (*Response, error) {
	f.calls++
	return f.resp, f.err
}

type reverseRanker struct{}

func (reverseRanker) Rank(ctx context.Context, query string, results []model.SearchResult) []model.SearchResult {
	out := make([]model.SearchResult, len(results))
	for i, r := range results {
		out[len(results)-1-i] = r
	}
	return out
}

var threeResults = []model.SearchResult{
	{Title: "one", URL: "https://1.example", Description: "d1"},
	{Title: "two", URL: "https://2.example", Description: "d2"},
	{Title: "three", URL: "https://3.example", Description: "d3"},
}

func TestClientSearchRanksAndTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search_0", "web_search.json")
	searcher := &fakeSearcher{resp: &Response{Raw: []byte(`{"web":{"results":[]}}`), Results: threeResults}}

	got, err := NewClient(searcher, reverseRanker{}).Search(context.Background(), "q", 2, path)
	require.NoError(t, err)
	assert.Equal(t, []model.SearchResult{threeResults[2], threeResults[1]}, got)
	assert.Equal(t, 1, searcher.calls)

	// 文件被排序后的完整列表覆盖
	stored, err := LoadResults(path)
	require.NoError(t, err)
	assert.Equal(t, []model.SearchResult{threeResults[2], threeResults[1], threeResults[0]}, stored)
}

func TestClientSearchFewerThanN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web_search.json")
	searcher := &fakeSearcher{resp: &Response{Raw: []byte(`{}`), Results: threeResults[:1]}}

	got, err := NewClient(searcher, nil).Search(context.Background(), "q", 5, path)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestClientSearchEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web_search.json")
	searcher := &fakeSearcher{resp: &Response{Raw: []byte(`{"web":{"results":[]}}`)}}

	got, err := NewClient(searcher, reverseRanker{}).Search(context.Background(), "q", 3, path)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.FileExists(t, path)
}

func TestClientSearchTransportError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web_search.json")
	boom := errors.New("connection refused")
	searcher := &fakeSearcher{err: boom}

	_, err := NewClient(searcher, nil).Search(context.Background(), "q", 3, path)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, searcher.calls)
	assert.NoFileExists(t, path)
}

func TestClientSearchRejectsNonPositiveCount(t *testing.T) {
	_, err := NewClient(&fakeSearcher{}, nil).Search(context.Background(), "q", 0, "unused")
	assert.Error(t, err)
}

func TestLoadResultsRawPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web_search.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"web":{"results":[{"title":"t","url":"https://x.example"}]}}`), 0o644))

	got, err := LoadResults(path)
	require.NoError(t, err)
	assert.Equal(t, []model.SearchResult{{Title: "t", URL: "https://x.example"}}, got)
}

// braveSearcher 与 brave.Client 一致：解析失败时 Raw 随错误一起返回
type braveSearcher struct{ raw string }

func (b braveSearcher) Search(ctx context.Context, req *Request) (*Response, error) {
	results, err := ExtractResults([]byte(b.raw))
	return &Response{Raw: []byte(b.raw), Results: results}, err
}

func TestClientSearchNoWebSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web_search.json")
	raw := `{"type":"search","query":{"original":"zzqx"},"mixed":{"type":"mixed","main":[]}}`

	got, err := NewClient(braveSearcher{raw: raw}, reverseRanker{}).Search(context.Background(), "zzqx", 3, path)
	require.NoError(t, err)
	assert.Empty(t, got)

	stored, err := LoadResults(path)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestClientSearchMalformedKeepsRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web_search.json")
	raw := `{"web": "not an object"}`

	_, err := NewClient(braveSearcher{raw: raw}, nil).Search(context.Background(), "q", 3, path)
	var malformed *MalformedPayloadError
	require.True(t, errors.As(err, &malformed), "got %v", err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, raw, string(data))
}

func TestLoadResultsListPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web_search.json")
	raw := `{"query":"q","results":[{"title":"t","url":"https://x.example","content":"c","score":0.9},{"title":"no url"}]}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	got, err := LoadResults(path)
	require.NoError(t, err)
	assert.Equal(t, []model.SearchResult{{Title: "t", URL: "https://x.example", Description: "c"}}, got)
}
