package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/brave"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/config"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/search"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/searxng"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/tavily"
)

func TestNewSearcher(t *testing.T) {
	cfg := config.Default()

	_, err := NewSearcher(cfg)
	assert.ErrorIs(t, err, search.ErrMissingAPIKey)

	cfg.Search.Brave.APIKey = "k"
	s, err := NewSearcher(cfg)
	require.NoError(t, err)
	assert.IsType(t, &brave.Client{}, s)

	cfg.Search.Provider = "tavily"
	_, err = NewSearcher(cfg)
	assert.ErrorIs(t, err, search.ErrMissingAPIKey)
	cfg.Search.Tavily.APIKey = "t"
	s, err = NewSearcher(cfg)
	require.NoError(t, err)
	assert.IsType(t, &tavily.Client{}, s)

	cfg.Search.Provider = "searxng"
	_, err = NewSearcher(cfg)
	assert.Error(t, err)
	cfg.Search.SearXNG.BaseURL = "http://localhost:8080"
	s, err = NewSearcher(cfg)
	require.NoError(t, err)
	assert.IsType(t, &searxng.Client{}, s)

	cfg.Search.Provider = "bing"
	_, err = NewSearcher(cfg)
	assert.Error(t, err)
}
