package usecase

import (
	"context"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/search_upp/app/display/internal/domain"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/theme"
)

// mockSearchRepo 模拟搜索仓库
type mockSearchRepo struct {
	gotQuery string
	gotTier  model.Tier
}

func (m *mockSearchRepo) Run(ctx context.Context, query string, tier model.Tier) (*domain.SearchOutcome, error) {
	m.gotQuery, m.gotTier = query, tier
	return &domain.SearchOutcome{Index: 0, Query: query, Summary: "s"}, nil
}

func (m *mockSearchRepo) ListHistory(ctx context.Context) ([]*domain.HistoryItem, error) {
	return []*domain.HistoryItem{{Index: 1, Query: "second"}, {Index: 0, Query: "first"}}, nil
}

func (m *mockSearchRepo) GetRecap(ctx context.Context, index int) (*domain.Recap, error) {
	return &domain.Recap{Index: index}, nil
}

func TestSearchUseCase_Search(t *testing.T) {
	repo := &mockSearchRepo{}
	uc := NewSearchUseCase(repo, log.DefaultLogger)

	out, err := uc.Search(context.Background(), "  golang  ", "")
	require.NoError(t, err)
	assert.Equal(t, "golang", out.Query)
	assert.Equal(t, model.TierSimple, repo.gotTier)

	_, err = uc.Search(context.Background(), "q", "Advanced")
	require.NoError(t, err)
	assert.Equal(t, model.TierAdvanced, repo.gotTier)

	_, err = uc.Search(context.Background(), "   ", "simple")
	assert.True(t, errors.IsBadRequest(err))
}

func TestSearchUseCase_HistoryAndRecap(t *testing.T) {
	uc := NewSearchUseCase(&mockSearchRepo{}, log.DefaultLogger)

	items, err := uc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Query)

	recap, err := uc.Recap(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, recap.Index)

	_, err = uc.Recap(context.Background(), -1)
	assert.True(t, errors.IsBadRequest(err))
}

type mockSettingsRepo struct {
	saved map[string]string
	theme *theme.Theme
}

func (m *mockSettingsRepo) GetSettings(ctx context.Context) (*domain.Settings, error) {
	return &domain.Settings{Values: m.saved}, nil
}

func (m *mockSettingsRepo) SaveSettings(ctx context.Context, values map[string]string) error {
	m.saved = values
	return nil
}

func (m *mockSettingsRepo) GetTheme(ctx context.Context) (*theme.Theme, error) {
	return m.theme, nil
}

func (m *mockSettingsRepo) SaveTheme(ctx context.Context, t *theme.Theme) error {
	m.theme = t
	return nil
}

func TestSettingsUseCase(t *testing.T) {
	repo := &mockSettingsRepo{}
	uc := NewSettingsUseCase(repo, log.DefaultLogger)

	assert.True(t, errors.IsBadRequest(uc.Save(context.Background(), nil)))
	require.NoError(t, uc.Save(context.Background(), map[string]string{"EXECUTION_MODE": "local"}))
	assert.Equal(t, "local", repo.saved["EXECUTION_MODE"])

	assert.True(t, errors.IsBadRequest(uc.SaveTheme(context.Background(), nil)))
	def := theme.Default()
	require.NoError(t, uc.SaveTheme(context.Background(), &def))
	got, err := uc.Theme(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "light", got.Base)
}
