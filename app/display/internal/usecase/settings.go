package usecase

import (
	"context"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/search_upp/app/display/internal/domain"
	"github.com/iWorld-y/search_upp/app/display/internal/repo"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/theme"
)

// SettingsUseCase 设置与主题业务逻辑
type SettingsUseCase struct {
	repo repo.SettingsRepo
	log  *log.Helper
}

// NewSettingsUseCase 创建设置业务逻辑实例
func NewSettingsUseCase(repo repo.SettingsRepo, logger log.Logger) *SettingsUseCase {
	return &SettingsUseCase{repo: repo, log: log.NewHelper(logger)}
}

func (uc *SettingsUseCase) Get(ctx context.Context) (*domain.Settings, error) {
	return uc.repo.GetSettings(ctx)
}

func (uc *SettingsUseCase) Save(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return errors.BadRequest("EMPTY_SETTINGS", "no settings provided")
	}
	return uc.repo.SaveSettings(ctx, values)
}

func (uc *SettingsUseCase) Theme(ctx context.Context) (*theme.Theme, error) {
	return uc.repo.GetTheme(ctx)
}

func (uc *SettingsUseCase) SaveTheme(ctx context.Context, t *theme.Theme) error {
	if t == nil {
		return errors.BadRequest("EMPTY_THEME", "no theme provided")
	}
	return uc.repo.SaveTheme(ctx, t)
}
