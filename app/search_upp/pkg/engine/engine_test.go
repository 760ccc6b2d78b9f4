package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/config"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/history"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/scrape"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/summarize"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/workspace"
)

type fakeSearcher struct {
	mu      sync.Mutex
	results []model.SearchResult
	err     error
	gotN    int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, n int, resultsPath string) ([]model.SearchResult, error) {
	f.mu.Lock()
	f.gotN = n
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if err := os.WriteFile(resultsPath, []byte(`[{"title":"A","url":"https://a.example"}]`), 0o644); err != nil {
		return nil, err
	}
	if len(f.results) > n {
		return f.results[:n], nil
	}
	return f.results, nil
}

type fakeScraper struct {
	mu   sync.Mutex
	urls []string
}

func (f *fakeScraper) Scrape(ctx context.Context, urls []string, dir string, day time.Time) []scrape.Result {
	f.mu.Lock()
	f.urls = append(f.urls, urls...)
	f.mu.Unlock()

	out := make([]scrape.Result, len(urls))
	for i, u := range urls {
		out[i] = scrape.Result{URL: u, Path: workspace.PagePath(dir, u, day)}
	}
	return out
}

type fakeSummarizer struct {
	mu    sync.Mutex
	reply string
	err   error
	req   *summarize.Request
}

func (f *fakeSummarizer) Summarize(ctx context.Context, req *summarize.Request) (string, error) {
	f.mu.Lock()
	f.req = req
	f.mu.Unlock()
	if f.err != nil {
		return summarize.Fallback, f.err
	}
	return f.reply, nil
}

func newTestEngine(t *testing.T, s Searcher, sc Scraper, sum Summarizer) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Workspace.Root = filepath.Join(t.TempDir(), "search")
	cfg.Tiers.Simple.ResultCount = 2
	cfg.Tiers.Advanced.ResultCount = 3

	layout := workspace.New(cfg.Workspace.Root)
	archive := NewArchive(layout, history.NewCSVStore(layout.HistoryPath()))
	e := New(cfg, archive, s, sc, sum)
	e.now = func() time.Time { return time.Date(2024, 12, 7, 8, 0, 0, 0, time.Local) }
	return e
}

var threeResults = []model.SearchResult{
	{Title: "A", URL: "https://a.example"},
	{Title: "B", URL: "https://b.example"},
	{Title: "C", URL: "https://c.example"},
}

func TestRunWritesSummaryAndHistory(t *testing.T) {
	ctx := context.Background()
	searcher := &fakeSearcher{results: threeResults}
	scraper := &fakeScraper{}
	sum := &fakeSummarizer{reply: "## summary"}
	e := newTestEngine(t, searcher, scraper, sum)

	out, err := e.Run(ctx, "  site:example.com test ", model.TierAdvanced)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Entry.Index)
	assert.Equal(t, 3, searcher.gotN)
	assert.Len(t, out.Results, 3)
	assert.Equal(t, []string{"https://a.example", "https://b.example", "https://c.example"}, scraper.urls)
	assert.Equal(t, "site:example.com test", sum.req.Query)
	assert.Equal(t, "gemini-1.5-pro-002", sum.req.Model)
	assert.Equal(t, e.Layout().QueryDir(0), sum.req.Dir)

	data, err := os.ReadFile(out.Entry.SummaryPath)
	require.NoError(t, err)
	assert.Equal(t, "## summary", string(data))

	recap, err := e.Recap(ctx, 0)
	require.NoError(t, err)
	assert.False(t, recap.ResultsMissing)
	assert.False(t, recap.SummaryMissing)
	assert.Equal(t, "## summary", recap.Summary)
	assert.Equal(t, "A", recap.Results[0].Title)
}

func TestRunHistoryGrowsOnSearchFailure(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &fakeSearcher{err: errors.New("connection refused")}, &fakeScraper{}, &fakeSummarizer{})

	out, err := e.Run(ctx, "q1", model.TierSimple)
	require.Error(t, err)
	require.NotNil(t, out)
	assert.Equal(t, 0, out.Entry.Index)

	entries, err := e.History(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	recap, err := e.Recap(ctx, 0)
	require.NoError(t, err)
	assert.True(t, recap.ResultsMissing)
	assert.True(t, recap.SummaryMissing)
}

func TestRunSummaryFailureDoesNotWriteFile(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &fakeSearcher{results: threeResults}, &fakeScraper{}, &fakeSummarizer{err: summarize.ErrNoContent})

	out, err := e.Run(ctx, "q", model.TierSimple)
	require.NoError(t, err)
	assert.ErrorIs(t, out.SummaryErr, summarize.ErrNoContent)
	assert.Equal(t, summarize.Fallback, out.Summary)
	assert.Len(t, out.Results, 2)

	_, err = os.Stat(out.Entry.SummaryPath)
	assert.True(t, os.IsNotExist(err))
}

func TestRunAssignsSequentialIndexes(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &fakeSearcher{results: threeResults}, &fakeScraper{}, &fakeSummarizer{reply: "s"})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Run(ctx, "q", model.TierSimple)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	entries, err := e.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i, entry := range entries {
		assert.Equal(t, 3-i, entry.Index)
		assert.Equal(t, e.Layout().ResultsPath(entry.Index), entry.SearchPath)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &fakeSearcher{}, &fakeScraper{}, &fakeSummarizer{})

	_, err := e.Run(ctx, "   ", model.TierSimple)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = e.Run(ctx, "q", model.Tier("expert"))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	entries, err := e.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecapUnknownIndex(t *testing.T) {
	e := newTestEngine(t, &fakeSearcher{}, &fakeScraper{}, &fakeSummarizer{})
	_, err := e.Recap(context.Background(), 5)
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func TestNewEngineRequiresSearchKey(t *testing.T) {
	cfg := config.Default()
	layout := workspace.New(t.TempDir())
	_, err := NewEngine(cfg, NewArchive(layout, history.NewCSVStore(layout.HistoryPath())))
	assert.Error(t, err)
}
