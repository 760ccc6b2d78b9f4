package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/config"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/logger"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/settings"
)

// go build -ldflags "-X main.Version=x.y.z"
var Version = "dev"

func main() {
	a := &app{}
	cliApp := &cli.App{
		Name:    "search_upp",
		Usage:   "search the web, scrape the results and summarize them with an LLM",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "conf",
				Aliases: []string{"c"},
				Value:   "configs/config.yaml",
				Usage:   "config path, eg: -conf config.yaml",
				EnvVars: []string{"SEARCH_UPP_CONF"},
			},
		},
		Before: a.setup,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "run a query through search, scrape and summary",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tier", Aliases: []string{"t"}, Value: "simple", Usage: "simple or advanced"},
				},
				Action: a.searchAction,
			},
			{
				Name:   "history",
				Usage:  "list past queries, newest first",
				Action: a.historyAction,
			},
			{
				Name:      "recap",
				Usage:     "show the results and summary of a past query",
				ArgsUsage: "<index>",
				Action:    a.recapAction,
			},
			{
				Name:  "settings",
				Usage: "show or update the .env settings",
				Subcommands: []*cli.Command{
					{Name: "show", Action: a.settingsShowAction},
					{Name: "set", ArgsUsage: "KEY=VALUE...", Action: a.settingsSetAction},
				},
			},
			{
				Name:  "theme",
				Usage: "show or update the UI theme",
				Subcommands: []*cli.Command{
					{Name: "show", Action: a.themeShowAction},
					{
						Name: "set",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "base"},
							&cli.StringFlag{Name: "primary-color"},
							&cli.StringFlag{Name: "background-color"},
							&cli.StringFlag{Name: "secondary-background-color"},
							&cli.StringFlag{Name: "text-color"},
							&cli.StringFlag{Name: "font"},
						},
						Action: a.themeSetAction,
					},
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatalf("search_upp: %v", err)
	}
}

// app 命令行运行时，配置在 Before 中构造一次
type app struct {
	cfg      *config.Config
	settings *settings.Store
}

func (a *app) setup(c *cli.Context) error {
	// 1. 加载配置，文件不存在时使用默认值
	cfg, err := config.LoadConfig(c.String("conf"))
	if errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		return fmt.Errorf("无法加载配置文件: %w", err)
	}

	// 2. 初始化日志
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return fmt.Errorf("无法初始化日志: %w", err)
	}

	// 3. .env 与环境变量覆盖配置
	a.settings = settings.New(cfg.Settings.EnvFile)
	env, err := a.settings.Environment()
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	return nil
}
