package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	einoemb "github.com/cloudwego/eino/components/embedding"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/config"
)

var (
	// ErrMissingAPIKey 未配置向量服务 key
	ErrMissingAPIKey = errors.New("embedding api key is missing")
	// ErrCountMismatch 返回的向量数量与输入不一致
	ErrCountMismatch = errors.New("embedding count mismatch")
)

// NewEmbedder 根据配置创建向量客户端
func NewEmbedder(cfg *config.Config) (einoemb.Embedder, error) {
	c := cfg.Embedding
	timeout := time.Duration(c.Timeout) * time.Second
	ctx := context.Background()

	switch c.Provider {
	case "gemini", "":
		return NewGemini(ctx, c.APIKey, c.Model, c.BaseURL, timeout)
	case "openai":
		return NewOpenAI(ctx, c.APIKey, c.Model, c.BaseURL, timeout)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", c.Provider)
	}
}
