package usecase

import (
	"context"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/search_upp/app/display/internal/domain"
	"github.com/iWorld-y/search_upp/app/display/internal/repo"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
)

// SearchUseCase 搜索业务逻辑
type SearchUseCase struct {
	repo repo.SearchRepo
	log  *log.Helper
}

// NewSearchUseCase 创建搜索业务逻辑实例
func NewSearchUseCase(repo repo.SearchRepo, logger log.Logger) *SearchUseCase {
	return &SearchUseCase{repo: repo, log: log.NewHelper(logger)}
}

// Search 执行一次查询，tier 为空时使用 simple
func (uc *SearchUseCase) Search(ctx context.Context, query, tier string) (*domain.SearchOutcome, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.BadRequest("EMPTY_QUERY", "query must not be empty")
	}
	t := model.Tier(strings.ToLower(strings.TrimSpace(tier)))
	if t == "" {
		t = model.TierSimple
	}
	uc.log.WithContext(ctx).Infof("search: %q (%s)", query, t)
	return uc.repo.Run(ctx, query, t)
}

// History 列出历史记录
func (uc *SearchUseCase) History(ctx context.Context) ([]*domain.HistoryItem, error) {
	return uc.repo.ListHistory(ctx)
}

// Recap 根据序号获取历史查询详情
func (uc *SearchUseCase) Recap(ctx context.Context, index int) (*domain.Recap, error) {
	if index < 0 {
		return nil, errors.BadRequest("INVALID_INDEX", "index must not be negative")
	}
	return uc.repo.GetRecap(ctx, index)
}
