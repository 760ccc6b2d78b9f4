package search

import (
	"context"
	"errors"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
)

// ErrMissingAPIKey 搜索服务未配置 key
var ErrMissingAPIKey = errors.New("search api key is missing")

// Searcher 定义通用的搜索接口。返回体无法解析时，Response.Raw 与 error 一起返回
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求
type Request struct {
	Query      string
	MaxResults int
}

// Response 通用搜索响应，Raw 为服务端原始返回，用于落盘
type Response struct {
	Raw     []byte
	Results []model.SearchResult
}
