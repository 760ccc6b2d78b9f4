package factory

import (
	"fmt"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/brave"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/config"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/search"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/searxng"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/tavily"
)

// NewSearcher 根据配置创建搜索实例
func NewSearcher(cfg *config.Config) (search.Searcher, error) {
	switch cfg.Search.Provider {
	case "brave", "":
		if cfg.Search.Brave.APIKey == "" {
			return nil, fmt.Errorf("brave: %w", search.ErrMissingAPIKey)
		}
		return brave.NewClient(cfg.Search.Brave.APIKey, cfg.Search.Brave.BaseURL, cfg.Search.Brave.Timeout), nil

	case "tavily":
		if cfg.Search.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily: %w", search.ErrMissingAPIKey)
		}
		return tavily.NewClient(cfg.Search.Tavily.APIKey), nil

	case "searxng":
		if cfg.Search.SearXNG.BaseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(cfg.Search.SearXNG.BaseURL, cfg.Search.SearXNG.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", cfg.Search.Provider)
	}
}
