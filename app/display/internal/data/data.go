package data

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/search_upp/app/display/internal/conf"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/config"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/engine"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/history"
	suLogger "github.com/iWorld-y/search_upp/app/search_upp/pkg/logger"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/settings"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/workspace"
)

// Runner 执行一次查询
type Runner interface {
	Run(ctx context.Context, query string, tier model.Tier) (*engine.Outcome, error)
}

// EngineFactory 每次查询按最新设置创建引擎
type EngineFactory func(cfg *config.Config, archive *engine.Archive) (Runner, error)

func defaultEngineFactory(cfg *config.Config, archive *engine.Archive) (Runner, error) {
	return engine.NewEngine(cfg, archive)
}

type Data struct {
	cfg       *config.Config
	archive   *engine.Archive
	settings  *settings.Store
	newEngine EngineFactory
}

// NewData 加载 search_upp 配置并打开历史存储
func NewData(c *conf.App, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(logger)

	cfg := config.Default()
	if c != nil && c.Config != "" {
		loaded, err := config.LoadConfig(c.Config)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			helper.Warnf("config file %s not found, using defaults", c.Config)
		case err != nil:
			return nil, nil, fmt.Errorf("failed to load search config: %w", err)
		default:
			cfg = loaded
		}
	}
	if c != nil {
		if c.Workspace != "" {
			cfg.Workspace.Root = c.Workspace
		}
		if c.EnvFile != "" {
			cfg.Settings.EnvFile = c.EnvFile
		}
		if c.Theme != "" {
			cfg.Theme.Path = c.Theme
		}
	}

	// 初始化引擎日志
	if err := suLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init search_upp logger: %v", err)
		_ = suLogger.InitLogger("info", "") // 降级处理
	}

	layout := workspace.New(cfg.Workspace.Root)
	store, err := history.Open(cfg.History, layout.HistoryPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history: %w", err)
	}

	d := NewDataWith(cfg, engine.NewArchive(layout, store), settings.New(cfg.Settings.EnvFile), nil)
	cleanup := func() {
		helper.Info("closing the data resources")
		store.Close()
	}
	return d, cleanup, nil
}

// NewDataWith 使用给定组件创建 Data，newEngine 为 nil 时使用真实引擎
func NewDataWith(cfg *config.Config, archive *engine.Archive, store *settings.Store, newEngine EngineFactory) *Data {
	if newEngine == nil {
		newEngine = defaultEngineFactory
	}
	return &Data{cfg: cfg, archive: archive, settings: store, newEngine: newEngine}
}

// effectiveConfig 基础配置叠加当前 .env 与环境变量，设置页的修改立即生效
func (d *Data) effectiveConfig() (*config.Config, error) {
	cfg := *d.cfg
	env, err := d.settings.Environment()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
