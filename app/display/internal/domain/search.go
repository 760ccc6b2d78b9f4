package domain

import (
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
)

// PageStatus 单个页面的抓取状态
type PageStatus struct {
	URL   string `json:"url"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// SearchOutcome 一次查询的结果
type SearchOutcome struct {
	Index   int                  `json:"index"`
	Query   string               `json:"query"`
	Results []model.SearchResult `json:"results"`
	Pages   []PageStatus         `json:"pages"`
	Summary string               `json:"summary"`
	// Warning 摘要失败等可降级的问题，页面以提示形式展示
	Warning string `json:"warning,omitempty"`
}

// HistoryItem 历史列表中的一行
type HistoryItem struct {
	Index int    `json:"index"`
	Date  string `json:"date"`
	Query string `json:"query"`
}

// Recap 历史查询详情
type Recap struct {
	Index          int                  `json:"index"`
	Date           string               `json:"date"`
	Query          string               `json:"query"`
	Results        []model.SearchResult `json:"results"`
	Summary        string               `json:"summary"`
	ResultsMissing bool                 `json:"results_missing"`
	SummaryMissing bool                 `json:"summary_missing"`
}

// Settings 设置页展示的内容，API key 已脱敏
type Settings struct {
	Values       map[string]string `json:"values"`
	HostedModels []string          `json:"hosted_models"`
}
