package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/config"
)

// ErrMissingAPIKey hosted 模式下未配置 key
var ErrMissingAPIKey = errors.New("llm api key is missing")

// localAPIKey Ollama 不校验 key，但 OpenAI 客户端要求非空
const localAPIKey = "ollama"

// Factory 按模型名创建 ChatModel，每次摘要可以使用不同档位的模型
type Factory func(ctx context.Context, modelName string) (model.BaseChatModel, error)

// NewFactory 根据执行模式选择远程或本地的 OpenAI 兼容接口
func NewFactory(cfg *config.Config) Factory {
	return func(ctx context.Context, modelName string) (model.BaseChatModel, error) {
		return NewChatModel(ctx, cfg, modelName)
	}
}

// NewChatModel 创建 ChatModel
func NewChatModel(ctx context.Context, cfg *config.Config, modelName string) (model.BaseChatModel, error) {
	if modelName == "" {
		return nil, fmt.Errorf("model name is empty")
	}

	endpoint := cfg.LLM.Hosted
	if cfg.LLM.Mode == config.ModeLocal {
		endpoint = cfg.LLM.Local
		if endpoint.APIKey == "" {
			endpoint.APIKey = localAPIKey
		}
	}
	if endpoint.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: endpoint.BaseURL,
		APIKey:  endpoint.APIKey,
		Model:   modelName,
		Timeout: time.Duration(cfg.LLM.Timeout) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return chatModel, nil
}
