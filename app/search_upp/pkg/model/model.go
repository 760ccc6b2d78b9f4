package model

import "time"

// SearchResult 单条搜索结果，由解析步骤生成，之后只允许调整顺序
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// HistoryEntry 搜索历史记录，只追加不修改
type HistoryEntry struct {
	Index       int       `json:"index"`
	Time        time.Time `json:"datetime"`
	Query       string    `json:"query"`
	SearchPath  string    `json:"search_path"`
	SummaryPath string    `json:"summary_path"`
}

// Tier 档位 (simple / advanced)
type Tier string

const (
	TierSimple   Tier = "simple"
	TierAdvanced Tier = "advanced"
)

// TierSettings 档位解析后的参数
type TierSettings struct {
	ResultCount int
	Model       string
}

// URLs 提取结果中的链接
func URLs(results []SearchResult) []string {
	urls := make([]string, 0, len(results))
	for _, r := range results {
		urls = append(urls, r.URL)
	}
	return urls
}
