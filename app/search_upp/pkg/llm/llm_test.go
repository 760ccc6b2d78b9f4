package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/config"
)

func TestNewChatModelHostedRequiresKey(t *testing.T) {
	cfg := config.Default()
	_, err := NewChatModel(context.Background(), cfg, "gemini-1.5-flash-002")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewChatModel(context.Background(), cfg, "")
	assert.Error(t, err)
}

func TestLocalModeTalksToOpenAICompatibleServer(t *testing.T) {
	var gotModel, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","created":1,"model":"llama3.2:1b",
"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"local summary"}}],
"usage":{"prompt_tokens":1,"completion_tokens":2,"total_tokens":3}}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.LLM.Mode = config.ModeLocal
	cfg.LLM.Local.BaseURL = srv.URL

	cm, err := NewFactory(cfg)(context.Background(), "llama3.2:1b")
	require.NoError(t, err)

	msg, err := cm.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "local summary", msg.Content)
	assert.Equal(t, "llama3.2:1b", gotModel)
	assert.Equal(t, "Bearer ollama", gotAuth)
}
