package server

import (
	"embed"
	"io/fs"
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/search_upp/app/display/internal/conf"
	"github.com/iWorld-y/search_upp/app/display/internal/service"
)

//go:embed assets/*
var assets embed.FS

// pages 页面路径 -> 模板文件
var pages = map[string]string{
	"/":         "assets/index.html",
	"/history":  "assets/history.html",
	"/recap":    "assets/recap.html",
	"/settings": "assets/settings.html",
}

func NewHTTPServer(c *conf.Server, s *service.DisplayService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
				opts = append(opts, http.Timeout(d))
			}
		}
	}

	srv := http.NewServer(opts...)
	s.RegisterHTTPServer(srv)

	// 静态资源 (css / js)
	static, _ := fs.Sub(assets, "assets")
	srv.HandlePrefix("/static/", nethttp.StripPrefix("/static/", nethttp.FileServer(nethttp.FS(static))))

	for path, file := range pages {
		srv.HandleFunc(path, servePage(file))
	}
	return srv
}

func servePage(file string) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		content, err := assets.ReadFile(file)
		if err != nil {
			nethttp.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(content)
	}
}
