package data

import (
	"context"
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/search_upp/app/display/internal/domain"
	"github.com/iWorld-y/search_upp/app/display/internal/repo"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/settings"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/theme"
)

const maskPrefix = "********"

type settingsRepo struct {
	data *Data
	log  *log.Helper
}

func NewSettingsRepo(data *Data, logger log.Logger) repo.SettingsRepo {
	return &settingsRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *settingsRepo) GetSettings(ctx context.Context) (*domain.Settings, error) {
	values, err := r.data.settings.Environment()
	if err != nil {
		return nil, err
	}

	// 未设置的项展示当前生效的默认值
	cfg := r.data.cfg
	defaults := map[string]string{
		settings.KeySimpleSearchNumber:  strconv.Itoa(cfg.Tiers.Simple.ResultCount),
		settings.KeyComplexSearchNumber: strconv.Itoa(cfg.Tiers.Advanced.ResultCount),
		settings.KeySimpleModel:         cfg.Tiers.Simple.Model,
		settings.KeyComplexModel:        cfg.Tiers.Advanced.Model,
		settings.KeyLocalSimpleModel:    cfg.Tiers.Simple.LocalModel,
		settings.KeyLocalComplexModel:   cfg.Tiers.Advanced.LocalModel,
		settings.KeyExecutionMode:       cfg.LLM.Mode,
		settings.KeyInstructions:        cfg.LLM.Instructions,
	}
	for k, v := range defaults {
		if values[k] == "" {
			values[k] = v
		}
	}

	return &domain.Settings{
		Values:       settings.Masked(values),
		HostedModels: settings.HostedModels,
	}, nil
}

func (r *settingsRepo) SaveSettings(ctx context.Context, values map[string]string) error {
	updates := make(map[string]string, len(values))
	for k, v := range values {
		// 页面回传的脱敏 key 表示未修改
		if strings.HasPrefix(v, maskPrefix) {
			continue
		}
		updates[k] = v
	}
	if len(updates) == 0 {
		return nil
	}

	if err := r.data.settings.Set(updates); err != nil {
		if stderrors.Is(err, settings.ErrInvalidValue) {
			return errors.BadRequest("INVALID_SETTING", err.Error())
		}
		return err
	}
	return nil
}

func (r *settingsRepo) GetTheme(ctx context.Context) (*theme.Theme, error) {
	t, err := theme.Load(r.data.cfg.Theme.Path)
	if err != nil {
		r.log.Warnf("failed to load theme, using defaults: %v", err)
	}
	return &t, nil
}

func (r *settingsRepo) SaveTheme(ctx context.Context, t *theme.Theme) error {
	if err := theme.Modify(r.data.cfg.Theme.Path, *t); err != nil {
		if stderrors.Is(err, theme.ErrInvalidTheme) {
			return errors.BadRequest("INVALID_THEME", err.Error())
		}
		return err
	}
	return nil
}
