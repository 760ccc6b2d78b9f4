package search

import (
	"encoding/json"
	"fmt"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
)

// MalformedPayloadError 搜索结果无法按预期结构解析
type MalformedPayloadError struct {
	Field string
	Err   error
}

func (e *MalformedPayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed search payload (%s): %v", e.Field, e.Err)
	}
	return fmt.Sprintf("malformed search payload: missing %s", e.Field)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

// webPayload Brave 风格的结果结构 {"web": {"results": [...]}}
type webPayload struct {
	Web *struct {
		Results *[]webResult `json:"results"`
	} `json:"web"`
}

type webResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// ExtractResults 从 web.results 中提取结果，没有 url 的条目跳过，其余保持原始顺序。
// 没有网页结果时 Brave 不返回 web 字段，此时结果为空而不是错误。
func ExtractResults(raw []byte) ([]model.SearchResult, error) {
	var payload webPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &MalformedPayloadError{Field: "body", Err: err}
	}
	if payload.Web == nil || payload.Web.Results == nil {
		return []model.SearchResult{}, nil
	}
	return collect(*payload.Web.Results), nil
}

// listPayload Tavily / SearXNG 的结果结构 {"results": [...]}，摘要字段为 content
type listPayload struct {
	Results *[]struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// extractAny 识别任意一种服务端原始返回
func extractAny(raw []byte) ([]model.SearchResult, error) {
	var list listPayload
	if err := json.Unmarshal(raw, &list); err == nil && list.Results != nil {
		results := make([]webResult, 0, len(*list.Results))
		for _, r := range *list.Results {
			results = append(results, webResult{Title: r.Title, URL: r.URL, Description: r.Content})
		}
		return collect(results), nil
	}
	return ExtractResults(raw)
}

func collect(in []webResult) []model.SearchResult {
	results := make([]model.SearchResult, 0, len(in))
	for _, r := range in {
		if r.URL == "" {
			continue
		}
		results = append(results, model.SearchResult{
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Description,
		})
	}
	return results
}
