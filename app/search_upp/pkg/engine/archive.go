package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/history"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/logger"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/search"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/workspace"
)

// Archive 搜索历史与每次查询的落盘结果，不依赖任何外部服务
type Archive struct {
	layout *workspace.Layout
	store  history.Store
	// mu 只保护序号分配：读取行数 + 追加必须是原子的
	mu sync.Mutex
}

// NewArchive 创建归档
func NewArchive(layout *workspace.Layout, store history.Store) *Archive {
	return &Archive{layout: layout, store: store}
}

// Layout 目录布局
func (a *Archive) Layout() *workspace.Layout { return a.layout }

// Close 关闭历史存储
func (a *Archive) Close() error { return a.store.Close() }

// reserve 分配下一个序号并立即写入历史记录
func (a *Archive) reserve(ctx context.Context, query string, now time.Time) (*model.HistoryEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n, err := a.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count history: %w", err)
	}
	entry := &model.HistoryEntry{
		Time:        now,
		Query:       query,
		SearchPath:  a.layout.ResultsPath(n),
		SummaryPath: a.layout.SummaryPath(n),
	}
	if err := a.store.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}
	if entry.Index != n {
		logger.Log.Warnf("历史记录序号不一致: 预期 %d, 实际 %d", n, entry.Index)
	}
	return entry, nil
}

// History 按时间倒序列出历史记录
func (a *Archive) History(ctx context.Context) ([]model.HistoryEntry, error) {
	return a.store.List(ctx)
}

// Recap 一次历史查询的回顾
type Recap struct {
	Entry   model.HistoryEntry   `json:"entry"`
	Results []model.SearchResult `json:"results"`
	Summary string               `json:"summary"`
	// 文件缺失说明流水线中途失败，不作为错误返回
	ResultsMissing bool `json:"results_missing"`
	SummaryMissing bool `json:"summary_missing"`
}

// Recap 读取某次查询的搜索结果与摘要
func (a *Archive) Recap(ctx context.Context, index int) (*Recap, error) {
	entry, err := a.store.Get(ctx, index)
	if err != nil {
		return nil, err
	}

	r := &Recap{Entry: *entry}

	results, err := search.LoadResults(entry.SearchPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		r.ResultsMissing = true
	case err != nil:
		logger.Log.Warnf("无法读取搜索结果 [%s]: %v", entry.SearchPath, err)
		r.ResultsMissing = true
	default:
		r.Results = results
	}

	summary, err := os.ReadFile(entry.SummaryPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		r.SummaryMissing = true
	case err != nil:
		logger.Log.Warnf("无法读取摘要 [%s]: %v", entry.SummaryPath, err)
		r.SummaryMissing = true
	default:
		r.Summary = string(summary)
	}
	return r, nil
}
