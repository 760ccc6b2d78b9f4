package service

import (
	"context"
	"strconv"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/search_upp/app/display/internal/usecase"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/theme"
)

const (
	OperationSearch       = "/search_upp.v1.Search/Search"
	OperationHistory      = "/search_upp.v1.Search/History"
	OperationRecap        = "/search_upp.v1.Search/Recap"
	OperationGetSettings  = "/search_upp.v1.Settings/Get"
	OperationSaveSettings = "/search_upp.v1.Settings/Save"
	OperationGetTheme     = "/search_upp.v1.Settings/GetTheme"
	OperationSaveTheme    = "/search_upp.v1.Settings/SaveTheme"
)

// SearchReq 搜索请求
type SearchReq struct {
	Query string `json:"query"`
	Tier  string `json:"tier"`
}

// SaveSettingsReq 保存设置请求
type SaveSettingsReq struct {
	Values map[string]string `json:"values"`
}

// OKReply 无返回内容的操作
type OKReply struct {
	Success bool `json:"success"`
}

type DisplayService struct {
	ucSearch   *usecase.SearchUseCase
	ucSettings *usecase.SettingsUseCase
	log        *log.Helper
}

func NewDisplayService(ucSearch *usecase.SearchUseCase, ucSettings *usecase.SettingsUseCase, logger log.Logger) *DisplayService {
	return &DisplayService{
		ucSearch:   ucSearch,
		ucSettings: ucSettings,
		log:        log.NewHelper(logger),
	}
}

// RegisterHTTPServer 注册 JSON API 路由，处理函数经过 server 的中间件链
func (s *DisplayService) RegisterHTTPServer(srv *http.Server) {
	r := srv.Route("/")
	r.POST("/api/search", s.search)
	r.GET("/api/history", s.history)
	r.GET("/api/history/{index}", s.recap)
	r.GET("/api/settings", s.getSettings)
	r.PUT("/api/settings", s.saveSettings)
	r.GET("/api/theme", s.getTheme)
	r.PUT("/api/theme", s.saveTheme)
}

func (s *DisplayService) search(ctx http.Context) error {
	var in SearchReq
	if err := ctx.Bind(&in); err != nil {
		return err
	}
	http.SetOperation(ctx, OperationSearch)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		r := req.(*SearchReq)
		return s.ucSearch.Search(ctx, r.Query, r.Tier)
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *DisplayService) history(ctx http.Context) error {
	http.SetOperation(ctx, OperationHistory)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		items, err := s.ucSearch.History(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"items": items, "total": len(items)}, nil
	})
	out, err := h(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *DisplayService) recap(ctx http.Context) error {
	index, err := strconv.Atoi(ctx.Vars().Get("index"))
	if err != nil {
		return errors.BadRequest("INVALID_INDEX", "index must be an integer")
	}
	http.SetOperation(ctx, OperationRecap)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.ucSearch.Recap(ctx, req.(int))
	})
	out, err := h(ctx, index)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *DisplayService) getSettings(ctx http.Context) error {
	http.SetOperation(ctx, OperationGetSettings)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.ucSettings.Get(ctx)
	})
	out, err := h(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *DisplayService) saveSettings(ctx http.Context) error {
	var in SaveSettingsReq
	if err := ctx.Bind(&in); err != nil {
		return err
	}
	http.SetOperation(ctx, OperationSaveSettings)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		if err := s.ucSettings.Save(ctx, req.(*SaveSettingsReq).Values); err != nil {
			return nil, err
		}
		return &OKReply{Success: true}, nil
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *DisplayService) getTheme(ctx http.Context) error {
	http.SetOperation(ctx, OperationGetTheme)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.ucSettings.Theme(ctx)
	})
	out, err := h(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *DisplayService) saveTheme(ctx http.Context) error {
	var in theme.Theme
	if err := ctx.Bind(&in); err != nil {
		return err
	}
	http.SetOperation(ctx, OperationSaveTheme)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		if err := s.ucSettings.SaveTheme(ctx, req.(*theme.Theme)); err != nil {
			return nil, err
		}
		return &OKReply{Success: true}, nil
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}
