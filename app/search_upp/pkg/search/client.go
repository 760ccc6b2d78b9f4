package search

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/logger"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
)

// Ranker 对候选结果重新排序
type Ranker interface {
	Rank(ctx context.Context, query string, results []model.SearchResult) []model.SearchResult
}

// Client 搜索 -> 落盘 -> 重排序 -> 截取前 N 条
type Client struct {
	searcher Searcher
	ranker   Ranker
}

// NewClient 创建搜索客户端，ranker 可以为 nil（不排序）
func NewClient(searcher Searcher, ranker Ranker) *Client {
	return &Client{searcher: searcher, ranker: ranker}
}

// Search 执行一次搜索。只调用一次搜索服务，失败直接返回错误。
// 原始返回先写入 resultsPath，排序后再用排序结果覆盖。
func (c *Client) Search(ctx context.Context, query string, n int, resultsPath string) ([]model.SearchResult, error) {
	if n < 1 {
		return nil, fmt.Errorf("result count must be positive, got %d", n)
	}
	logger.Log.Infof("执行搜索: %q", query)

	resp, err := c.searcher.Search(ctx, &Request{Query: query, MaxResults: n})
	// 解析失败时服务端原始返回同样落盘
	if resp != nil && len(resp.Raw) > 0 {
		if werr := writeFile(resultsPath, resp.Raw); werr != nil {
			return nil, werr
		}
		logger.Log.Infof("搜索结果已保存: %s", resultsPath)
	}
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	ranked := resp.Results
	if c.ranker != nil && len(ranked) > 0 {
		ranked = c.ranker.Rank(ctx, query, ranked)
	}

	data, err := json.MarshalIndent(ranked, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal ranked results: %w", err)
	}
	if err := writeFile(resultsPath, data); err != nil {
		return nil, err
	}

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// LoadResults 读取结果文件，兼容排序后的数组与尚未排序的原始返回 (Brave / Tavily / SearXNG)
func LoadResults(path string) ([]model.SearchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ranked []model.SearchResult
	if err := json.Unmarshal(data, &ranked); err == nil {
		return ranked, nil
	}

	return extractAny(data)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write results file: %w", err)
	}
	return nil
}
