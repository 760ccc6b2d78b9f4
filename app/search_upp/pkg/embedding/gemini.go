package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	einoemb "github.com/cloudwego/eino/components/embedding"
	"google.golang.org/genai"
)

// Gemini 通过 genai SDK 调用 Gemini API 生成向量
type Gemini struct {
	model  string
	client *genai.Client
}

// Ensure Gemini implements einoemb.Embedder
var _ einoemb.Embedder = (*Gemini)(nil)

// NewGemini 创建 Gemini 向量客户端，apiKey 为空时返回的客户端在调用时报 ErrMissingAPIKey
func NewGemini(ctx context.Context, apiKey, model, baseURL string, timeout time.Duration) (*Gemini, error) {
	if model == "" {
		model = "text-embedding-004"
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	g := &Gemini{model: strings.TrimPrefix(model, "models/")}
	if apiKey == "" {
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	g.client = client
	return g, nil
}

// EmbedStrings implements einoemb.Embedder
func (g *Gemini) EmbedStrings(ctx context.Context, texts []string, _ ...einoemb.Option) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if g.client == nil {
		return nil, ErrMissingAPIKey
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	res, err := g.client.Models.EmbedContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embedding failed: %w", err)
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrCountMismatch, len(res.Embeddings), len(texts))
	}

	vectors := make([][]float64, len(res.Embeddings))
	for i, e := range res.Embeddings {
		v := make([]float64, len(e.Values))
		for j, x := range e.Values {
			v[j] = float64(x)
		}
		vectors[i] = v
	}
	return vectors, nil
}
