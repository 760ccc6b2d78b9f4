package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/config"
)

// Fetcher 获取页面渲染后的 HTML
type Fetcher interface {
	Fetch(ctx context.Context, pageURL, userAgent string) (string, error)
}

// NewFetcher 根据配置选择浏览器或纯 HTTP 抓取
func NewFetcher(cfg *config.Config, agents *UserAgents) (Fetcher, error) {
	wait := time.Duration(cfg.Scrape.WaitTimeout) * time.Second
	switch cfg.Scrape.Backend {
	case "browser", "":
		headless := cfg.Scrape.Headless == nil || *cfg.Scrape.Headless
		return &BrowserFetcher{RemoteURL: cfg.Scrape.RemoteURL, Headless: headless, Wait: wait, Agents: agents}, nil
	case "http":
		return NewHTTPFetcher(wait), nil
	default:
		return nil, fmt.Errorf("unknown scrape backend: %s", cfg.Scrape.Backend)
	}
}

// BrowserFetcher 每个 URL 启动一个独立的浏览器实例
type BrowserFetcher struct {
	// RemoteURL 非空时连接远程 Chrome (CDP websocket)，否则本地启动
	RemoteURL string
	Headless  bool
	// Wait 等待 body 出现的最长时间
	Wait   time.Duration
	Agents *UserAgents
}

// Fetch implements Fetcher
func (b *BrowserFetcher) Fetch(ctx context.Context, pageURL, userAgent string) (string, error) {
	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if b.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, b.RemoteURL)
	} else {
		width, height := 1366, 768
		if b.Agents != nil {
			width, height = b.Agents.Viewport()
		}
		// 复制默认参数，避免修改包级切片
		opts := make([]chromedp.ExecAllocatorOption, len(chromedp.DefaultExecAllocatorOptions))
		copy(opts, chromedp.DefaultExecAllocatorOptions[:])
		opts = append(opts,
			chromedp.Flag("headless", b.Headless),
			chromedp.Flag("disable-extensions", true),
			chromedp.Flag("ignore-certificate-errors", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(userAgent),
			chromedp.WindowSize(width, height),
		)
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, opts...)
	}
	defer allocCancel()

	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	// 第一次 Run 会把浏览器会话绑定到 tabCtx，不能套超时
	if err := chromedp.Run(tabCtx); err != nil {
		return "", fmt.Errorf("start browser: %w", err)
	}

	wait := b.Wait
	if wait <= 0 {
		wait = 10 * time.Second
	}
	waitCtx, cancel := context.WithTimeout(tabCtx, wait)
	defer cancel()

	var html string
	if err := chromedp.Run(waitCtx,
		emulation.SetUserAgentOverride(userAgent),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("render %s: %w", pageURL, err)
	}
	return html, nil
}

// HTTPFetcher 不依赖浏览器，直接请求页面并用 readability 提取正文
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher 创建 HTTP 抓取器
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch implements Fetcher
func (h *HTTPFetcher) Fetch(ctx context.Context, pageURL, userAgent string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	res, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, res.Body)
		return "", fmt.Errorf("fetch %s: status %d", pageURL, res.StatusCode)
	}

	article, err := readability.FromReader(res.Body, u)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}
	return article.Content, nil
}
