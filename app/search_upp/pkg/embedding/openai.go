package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	openaiemb "github.com/cloudwego/eino-ext/components/embedding/openai"
	einoemb "github.com/cloudwego/eino/components/embedding"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	openAIBatchSize      = 32
)

// OpenAI OpenAI 兼容的 /embeddings 接口，按批次请求
type OpenAI struct {
	apiKey   string
	embedder *openaiemb.Embedder
}

var _ einoemb.Embedder = (*OpenAI)(nil)

// NewOpenAI 创建 OpenAI 兼容向量客户端，baseURL 需包含版本前缀 (如 /v1)
func NewOpenAI(ctx context.Context, apiKey, model, baseURL string, timeout time.Duration) (*OpenAI, error) {
	if model == "" {
		model = "text-embedding-3-small"
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	embedder, err := openaiemb.NewEmbedder(ctx, &openaiemb.EmbeddingConfig{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Model:   model,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create openai embedder: %w", err)
	}
	return &OpenAI{apiKey: apiKey, embedder: embedder}, nil
}

// EmbedStrings implements einoemb.Embedder
func (o *OpenAI) EmbedStrings(ctx context.Context, texts []string, opts ...einoemb.Option) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if o.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += openAIBatchSize {
		end := min(start+openAIBatchSize, len(texts))
		batch, err := o.embedder.EmbedStrings(ctx, texts[start:end], opts...)
		if err != nil {
			return nil, fmt.Errorf("openai embedding failed: %w", err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrCountMismatch, len(batch), end-start)
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}
