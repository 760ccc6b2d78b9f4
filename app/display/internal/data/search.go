package data

import (
	"context"
	stderrors "errors"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/search_upp/app/display/internal/domain"
	"github.com/iWorld-y/search_upp/app/display/internal/repo"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/config"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/engine"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/history"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/search"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/summarize"
)

type searchRepo struct {
	data *Data
	log  *log.Helper
}

func NewSearchRepo(data *Data, logger log.Logger) repo.SearchRepo {
	return &searchRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *searchRepo) Run(ctx context.Context, query string, tier model.Tier) (*domain.SearchOutcome, error) {
	cfg, err := r.data.effectiveConfig()
	if err != nil {
		return nil, errors.BadRequest("INVALID_SETTINGS", err.Error())
	}
	if _, err := cfg.Tier(tier); err != nil {
		return nil, errors.BadRequest("INVALID_TIER", err.Error())
	}

	eng, err := r.data.newEngine(cfg, r.data.archive)
	if err != nil {
		if stderrors.Is(err, search.ErrMissingAPIKey) {
			return nil, errors.BadRequest("MISSING_API_KEY", err.Error())
		}
		return nil, errors.InternalServer("ENGINE_INIT_FAILED", err.Error())
	}

	out, err := eng.Run(ctx, query, tier)
	if err != nil {
		if stderrors.Is(err, engine.ErrEmptyQuery) || stderrors.Is(err, config.ErrInvalidConfig) {
			return nil, errors.BadRequest("INVALID_QUERY", err.Error())
		}
		r.log.Errorf("search failed: %v", err)
		return nil, errors.ServiceUnavailable("SEARCH_FAILED", err.Error())
	}

	res := &domain.SearchOutcome{
		Index:   out.Entry.Index,
		Query:   out.Entry.Query,
		Results: out.Results,
		Summary: out.Summary,
	}
	for _, p := range out.Pages {
		ps := domain.PageStatus{URL: p.URL, OK: p.OK()}
		if p.Err != nil {
			ps.Error = p.Err.Error()
		}
		res.Pages = append(res.Pages, ps)
	}
	if out.SummaryErr != nil {
		res.Warning = summarize.Fallback
		if stderrors.Is(out.SummaryErr, summarize.ErrNoContent) {
			res.Warning = "None of the result pages could be scraped. " + summarize.Fallback
		}
	}
	return res, nil
}

func (r *searchRepo) ListHistory(ctx context.Context) ([]*domain.HistoryItem, error) {
	entries, err := r.data.archive.History(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]*domain.HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, &domain.HistoryItem{
			Index: e.Index,
			Date:  e.Time.Format(history.TimeLayout),
			Query: e.Query,
		})
	}
	return items, nil
}

func (r *searchRepo) GetRecap(ctx context.Context, index int) (*domain.Recap, error) {
	recap, err := r.data.archive.Recap(ctx, index)
	if err != nil {
		if stderrors.Is(err, history.ErrNotFound) {
			return nil, errors.NotFound("HISTORY_NOT_FOUND", "history entry not found")
		}
		return nil, err
	}
	return &domain.Recap{
		Index:          recap.Entry.Index,
		Date:           recap.Entry.Time.Format(history.TimeLayout),
		Query:          recap.Entry.Query,
		Results:        recap.Results,
		Summary:        recap.Summary,
		ResultsMissing: recap.ResultsMissing,
		SummaryMissing: recap.SummaryMissing,
	}, nil
}
