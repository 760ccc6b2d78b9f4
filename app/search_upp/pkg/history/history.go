package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/config"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
)

// ErrNotFound 指定序号的历史记录不存在
var ErrNotFound = errors.New("history entry not found")

// Store 只追加的搜索历史，序号即追加时的行号 (从 0 开始)
type Store interface {
	// Count 当前记录数，也是下一条记录的序号
	Count(ctx context.Context) (int, error)
	// Append 追加一条记录并回填 entry.Index
	Append(ctx context.Context, entry *model.HistoryEntry) error
	// List 按时间倒序返回全部记录
	List(ctx context.Context) ([]model.HistoryEntry, error)
	Get(ctx context.Context, index int) (*model.HistoryEntry, error)
	Close() error
}

// Open 根据配置打开历史存储，csv 模式下写到 csvPath
func Open(cfg config.HistoryConfig, csvPath string) (Store, error) {
	switch cfg.Driver {
	case "csv", "":
		return NewCSVStore(csvPath), nil
	case "postgres", "sqlite":
		return NewSQLStore(cfg.Driver, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown history driver: %s", cfg.Driver)
	}
}

func reverse(entries []model.HistoryEntry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}
