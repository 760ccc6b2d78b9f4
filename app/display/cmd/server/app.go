package main

import (
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/search_upp/app/display/internal/conf"
	"github.com/iWorld-y/search_upp/app/display/internal/data"
	"github.com/iWorld-y/search_upp/app/display/internal/server"
	"github.com/iWorld-y/search_upp/app/display/internal/service"
	"github.com/iWorld-y/search_upp/app/display/internal/usecase"
)

// initApp 组装 data -> usecase -> service -> server
func initApp(confServer *conf.Server, confApp *conf.App, logger log.Logger) (*kratos.App, func(), error) {
	dataData, cleanup, err := data.NewData(confApp, logger)
	if err != nil {
		return nil, nil, err
	}
	searchRepo := data.NewSearchRepo(dataData, logger)
	settingsRepo := data.NewSettingsRepo(dataData, logger)
	searchUseCase := usecase.NewSearchUseCase(searchRepo, logger)
	settingsUseCase := usecase.NewSettingsUseCase(settingsRepo, logger)
	displayService := service.NewDisplayService(searchUseCase, settingsUseCase, logger)
	httpServer := server.NewHTTPServer(confServer, displayService, logger)
	app := newApp(logger, httpServer)
	return app, func() {
		cleanup()
	}, nil
}

func newApp(logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}
