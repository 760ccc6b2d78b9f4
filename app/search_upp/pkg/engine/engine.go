package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/config"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/embedding"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/llm"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/logger"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/rank"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/scrape"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/search"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/search/factory"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/summarize"
)

// ErrEmptyQuery 查询为空
var ErrEmptyQuery = errors.New("query is empty")

// Searcher 搜索 + 排序 + 落盘
type Searcher interface {
	Search(ctx context.Context, query string, n int, resultsPath string) ([]model.SearchResult, error)
}

// Scraper 并行抓取一批 URL
type Scraper interface {
	Scrape(ctx context.Context, urls []string, dir string, day time.Time) []scrape.Result
}

// Summarizer 生成摘要
type Summarizer interface {
	Summarize(ctx context.Context, req *summarize.Request) (string, error)
}

// Engine 核心处理引擎：搜索 -> 抓取 -> 摘要
type Engine struct {
	*Archive
	cfg        *config.Config
	searcher   Searcher
	scraper    Scraper
	summarizer Summarizer
	now        func() time.Time
}

// NewEngine 根据配置创建引擎实例，archive 可在多个引擎之间共享
func NewEngine(cfg *config.Config, archive *Archive) (*Engine, error) {
	// 初始化搜索客户端
	provider, err := factory.NewSearcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}

	// 初始化向量模型与排序
	embedder, err := embedding.NewEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("向量模型初始化失败: %w", err)
	}
	ranker := rank.New(embedder, cfg.Rank.Order)

	// 初始化抓取
	agents := scrape.NewUserAgents(nil, 0)
	fetcher, err := scrape.NewFetcher(cfg, agents)
	if err != nil {
		return nil, fmt.Errorf("抓取器初始化失败: %w", err)
	}

	// 初始化限流器
	limiter := summarize.NewLimiter(cfg.Concurrency.RPM, cfg.Concurrency.QPS)

	return New(cfg, archive,
		search.NewClient(provider, ranker),
		scrape.NewOrchestrator(fetcher, cfg.Scrape.Workers, agents),
		summarize.New(llm.NewFactory(cfg), cfg.LLM.Instructions, limiter),
	), nil
}

// New 使用给定组件创建引擎
func New(cfg *config.Config, archive *Archive, searcher Searcher, scraper Scraper, summarizer Summarizer) *Engine {
	return &Engine{
		Archive:    archive,
		cfg:        cfg,
		searcher:   searcher,
		scraper:    scraper,
		summarizer: summarizer,
		now:        time.Now,
	}
}

// Outcome 一次查询的结果
type Outcome struct {
	Entry   model.HistoryEntry   `json:"entry"`
	Results []model.SearchResult `json:"results"`
	Pages   []scrape.Result      `json:"pages"`
	Summary string               `json:"summary"`
	// SummaryErr 摘要失败原因，此时 Summary 为 summarize.Fallback 且不落盘
	SummaryErr error `json:"-"`
}

// Run 执行一次查询。历史记录在任何外部调用之前写入，
// 因此无论后续是否失败，历史记录都恰好增加一行。
// 搜索失败时返回 error，同时返回带序号的 Outcome。
func (e *Engine) Run(ctx context.Context, query string, tier model.Tier) (*Outcome, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	ts, err := e.cfg.Tier(tier)
	if err != nil {
		return nil, err
	}

	start := e.now()
	entry, err := e.reserve(ctx, query, start)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Entry: *entry}
	logger.Log.Infof("开始查询 #%d: %q (档位 %s, %d 条结果, 模型 %s)", entry.Index, query, tier, ts.ResultCount, ts.Model)

	dir, err := e.layout.EnsureQueryDir(entry.Index)
	if err != nil {
		return out, err
	}

	// 1. 搜索 + 排序
	results, err := e.searcher.Search(ctx, query, ts.ResultCount, entry.SearchPath)
	if err != nil {
		logger.Log.Errorf("搜索失败 #%d: %v", entry.Index, err)
		return out, err
	}
	out.Results = results

	// 2. 抓取
	day := e.now()
	urls := model.URLs(results)
	out.Pages = e.scraper.Scrape(ctx, urls, dir, day)

	// 3. 摘要
	summary, err := e.summarizer.Summarize(ctx, &summarize.Request{
		Query: query,
		URLs:  urls,
		Dir:   dir,
		Day:   day,
		Model: ts.Model,
	})
	out.Summary = summary
	if err != nil {
		out.SummaryErr = err
		logger.Log.Warnf("摘要未生成 #%d: %v", entry.Index, err)
		return out, nil
	}

	if err := os.WriteFile(entry.SummaryPath, []byte(summary), 0o644); err != nil {
		return out, fmt.Errorf("write summary: %w", err)
	}
	logger.Log.Infof("查询 #%d 完成, 耗时 %.2fs", entry.Index, time.Since(start).Seconds())
	return out, nil
}
