package repo

import (
	"context"

	"github.com/iWorld-y/search_upp/app/display/internal/domain"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/theme"
)

// SearchRepo 搜索仓库接口
type SearchRepo interface {
	// Run 执行一次完整的搜索流程
	Run(ctx context.Context, query string, tier model.Tier) (*domain.SearchOutcome, error)
	// ListHistory 按时间倒序列出历史记录
	ListHistory(ctx context.Context) ([]*domain.HistoryItem, error)
	// GetRecap 根据序号获取历史查询详情
	GetRecap(ctx context.Context, index int) (*domain.Recap, error)
}

// SettingsRepo 设置与主题仓库接口
type SettingsRepo interface {
	GetSettings(ctx context.Context) (*domain.Settings, error)
	SaveSettings(ctx context.Context, values map[string]string) error
	GetTheme(ctx context.Context) (*theme.Theme, error)
	SaveTheme(ctx context.Context, t *theme.Theme) error
}
