package scrape

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/logger"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/workspace"
)

// DefaultWorkers 同时运行的浏览器实例上限
const DefaultWorkers = 5

// Result 单个 URL 的抓取结果
type Result struct {
	URL  string `json:"url"`
	Path string `json:"path"`
	Err  error  `json:"-"`
}

// OK 是否成功写出页面文件
func (r Result) OK() bool { return r.Err == nil }

// Orchestrator 在固定大小的 worker 池里并行抓取一批 URL
type Orchestrator struct {
	fetcher Fetcher
	workers int
	agents  *UserAgents
}

// NewOrchestrator workers <= 0 时使用 DefaultWorkers
func NewOrchestrator(fetcher Fetcher, workers int, agents *UserAgents) *Orchestrator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if agents == nil {
		agents = NewUserAgents(nil, 0)
	}
	return &Orchestrator{fetcher: fetcher, workers: workers, agents: agents}
}

// Scrape 抓取所有 URL，每个 URL 写出 <dir>/<page key>/<day>.md。
// 单个 URL 失败只记录在对应的 Result 里，不影响其它任务；结果顺序与输入一致。
func (o *Orchestrator) Scrape(ctx context.Context, urls []string, dir string, day time.Time) []Result {
	if len(urls) == 0 {
		return nil
	}

	start := time.Now()
	results := make([]Result, len(urls))

	// 不使用 WithContext：一个任务失败不能取消其它任务
	var g errgroup.Group
	g.SetLimit(o.workers)
	for i, u := range urls {
		g.Go(func() error {
			results[i] = o.scrapeOne(ctx, u, dir, day)
			return nil
		})
	}
	_ = g.Wait()

	var failed int
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	logger.Log.Infof("抓取完成: %d 个 URL, 失败 %d, 耗时 %.2fs", len(urls), failed, time.Since(start).Seconds())
	return results
}

func (o *Orchestrator) scrapeOne(ctx context.Context, pageURL, dir string, day time.Time) (res Result) {
	res = Result{URL: pageURL, Path: workspace.PagePath(dir, pageURL, day)}
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic while scraping: %v", r)
		}
		if res.Err != nil {
			logger.Log.Errorf("抓取失败 [%s]: %v", pageURL, res.Err)
		}
	}()

	html, err := o.fetcher.Fetch(ctx, pageURL, o.agents.Random())
	if err != nil {
		res.Err = err
		return res
	}

	md, err := ToMarkdown(html)
	if err != nil {
		res.Err = err
		return res
	}

	if err := os.MkdirAll(filepath.Dir(res.Path), 0o755); err != nil {
		res.Err = fmt.Errorf("create page dir: %w", err)
		return res
	}
	if err := os.WriteFile(res.Path, []byte(md), 0o644); err != nil {
		res.Err = fmt.Errorf("write page file: %w", err)
		return res
	}
	logger.Log.Debugf("页面已保存: %s", res.Path)
	return res
}
