package main

import (
	"flag"
	"os"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/search_upp/app/display/internal/conf"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 服务名，出现在每条日志的 service.name 中
	Name = "search_upp.display"
	// Version 构建时注入
	Version string

	flagconf string
	flagaddr string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "app/display/configs/config.yaml", "display server config (http listen address, search_upp config path)")
	flag.StringVar(&flagaddr, "addr", "", "override server.http.addr, eg: -addr 127.0.0.1:8501")
}

func main() {
	flag.Parse()

	logger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)
	helper := log.NewHelper(logger)

	c := config.New(config.WithSource(file.NewSource(flagconf)))
	defer c.Close()
	if err := c.Load(); err != nil {
		helper.Fatalf("load %s: %v", flagconf, err)
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		helper.Fatalf("parse %s: %v", flagconf, err)
	}
	if bc.Server == nil {
		bc.Server = &conf.Server{}
	}
	if bc.Server.Http == nil {
		bc.Server.Http = &conf.HTTP{}
	}
	if flagaddr != "" {
		bc.Server.Http.Addr = flagaddr
	}
	helper.Infof("search UI listening on %s (search config: %s)", bc.Server.Http.Addr, searchConfig(bc.App))

	app, cleanup, err := initApp(bc.Server, bc.App, logger)
	if err != nil {
		helper.Fatalf("init: %v", err)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		helper.Errorf("server stopped: %v", err)
	}
}

// searchConfig 未配置时 data 层使用默认值
func searchConfig(a *conf.App) string {
	if a == nil || a.Config == "" {
		return "<defaults>"
	}
	return a.Config
}
