package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/config"
)

func newGemini(t *testing.T, apiKey, baseURL string) *Gemini {
	t.Helper()
	g, err := NewGemini(context.Background(), apiKey, "", baseURL, 0)
	require.NoError(t, err)
	return g
}

func TestGeminiEmbedStrings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/text-embedding-004:batchEmbedContents"), r.URL.Path)
		assert.Equal(t, "g-key", r.Header.Get("X-Goog-Api-Key"))

		var req struct {
			Requests []json.RawMessage `json:"requests"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Requests, 2)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"embeddings":[{"values":[0.5,0.25]},{"values":[0.125,1]}]}`))
	}))
	defer srv.Close()

	vecs, err := newGemini(t, "g-key", srv.URL).EmbedStrings(context.Background(), []string{"hello", "world"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.5, 0.25}, {0.125, 1}}, vecs)
}

func TestGeminiCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"embeddings":[{"values":[0.5]}]}`))
	}))
	defer srv.Close()

	_, err := newGemini(t, "k", srv.URL).EmbedStrings(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, ErrCountMismatch)
}

func TestGeminiHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"bad model","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	_, err := newGemini(t, "k", srv.URL).EmbedStrings(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestOpenAIEmbedStrings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer o-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","model":"m","data":[` +
			`{"object":"embedding","index":0,"embedding":[1]},` +
			`{"object":"embedding","index":1,"embedding":[2]}],` +
			`"usage":{"prompt_tokens":2,"total_tokens":2}}`))
	}))
	defer srv.Close()

	o, err := NewOpenAI(context.Background(), "o-key", "m", srv.URL+"/v1", 0)
	require.NoError(t, err)
	vecs, err := o.EmbedStrings(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1}, {2}}, vecs)
}

func TestMissingAPIKey(t *testing.T) {
	_, err := newGemini(t, "", "").EmbedStrings(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	o, err := NewOpenAI(context.Background(), "", "", "", 0)
	require.NoError(t, err)
	_, err = o.EmbedStrings(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewEmbedder(t *testing.T) {
	cfg := config.Default()
	e, err := NewEmbedder(cfg)
	require.NoError(t, err)
	assert.IsType(t, &Gemini{}, e)

	cfg.Embedding.APIKey = "k"
	e, err = NewEmbedder(cfg)
	require.NoError(t, err)
	assert.IsType(t, &Gemini{}, e)

	cfg.Embedding.Provider = "openai"
	e, err = NewEmbedder(cfg)
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, e)

	cfg.Embedding.Provider = "cohere"
	_, err = NewEmbedder(cfg)
	assert.Error(t, err)
}
