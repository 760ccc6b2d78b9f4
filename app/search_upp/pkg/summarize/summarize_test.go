package summarize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/workspace"
)

type fakeChatModel struct {
	reply    string
	err      error
	messages []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.messages = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func factoryFor(cm *fakeChatModel, gotModel *string) func(context.Context, string) (model.BaseChatModel, error) {
	return func(_ context.Context, name string) (model.BaseChatModel, error) {
		if gotModel != nil {
			*gotModel = name
		}
		return cm, nil
	}
}

var day = time.Date(2024, 12, 7, 0, 0, 0, 0, time.UTC)

func writePage(t *testing.T, dir, url, content string) {
	t.Helper()
	path := workspace.PagePath(dir, url, day)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSummarizeBuildsPromptFromAvailablePages(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "https://a.example", "\n### page A\n\n")
	writePage(t, dir, "https://b.example", " \n\n ")
	writePage(t, dir, "https://c.example", "page C\n\n")

	cm := &fakeChatModel{reply: "the summary"}
	var gotModel string
	s := New(factoryFor(cm, &gotModel), "be brief", nil)

	out, err := s.Summarize(context.Background(), &Request{
		Query: "golang",
		URLs:  []string{"https://a.example", "https://missing.example", "https://b.example", "https://c.example"},
		Dir:   dir,
		Day:   day,
		Model: "gemini-1.5-flash-002",
	})
	require.NoError(t, err)
	assert.Equal(t, "the summary", out)
	assert.Equal(t, "gemini-1.5-flash-002", gotModel)

	require.Len(t, cm.messages, 2)
	assert.Equal(t, schema.System, cm.messages[0].Role)
	assert.Equal(t, "be brief", cm.messages[0].Content)
	assert.Equal(t, "User Search Query: golang\n\n Scraped Webpage Contents:\n\n### page A\n\n---\n\npage C", cm.messages[1].Content)
}

func TestSummarizeWithoutContentReturnsFallback(t *testing.T) {
	cm := &fakeChatModel{reply: "unused"}
	s := New(factoryFor(cm, nil), "x", nil)

	out, err := s.Summarize(context.Background(), &Request{Query: "q", URLs: []string{"https://a.example"}, Dir: t.TempDir(), Day: day, Model: "m"})
	assert.ErrorIs(t, err, ErrNoContent)
	assert.Equal(t, Fallback, out)
	assert.Nil(t, cm.messages)
}

func TestSummarizeGenerationFailureReturnsFallback(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "https://a.example", "page A")

	cm := &fakeChatModel{err: errors.New("429 too many requests")}
	s := New(factoryFor(cm, nil), "x", NewLimiter(600, 1))

	out, err := s.Summarize(context.Background(), &Request{Query: "q", URLs: []string{"https://a.example"}, Dir: dir, Day: day, Model: "m"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoContent)
	assert.Equal(t, Fallback, out)
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, NewLimiter(0, 1))
	l := NewLimiter(60, 0)
	require.NotNil(t, l)
	assert.Equal(t, 1, l.Burst())
}
