package summarize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/llm"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/logger"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/workspace"
)

// Fallback 摘要失败时展示给用户的文本
const Fallback = "Could not generate summary. Please try again!"

// ErrNoContent 批次中没有任何可读的页面内容
var ErrNoContent = errors.New("no scraped content available")

const separator = "\n\n---\n\n"

// Request 一次摘要请求
type Request struct {
	Query string
	URLs  []string
	// Dir 查询目录，页面文件位于 <Dir>/<page key>/<Day>.md
	Dir   string
	Day   time.Time
	Model string
}

// Summarizer 读取抓取结果并调用 LLM 生成摘要
type Summarizer struct {
	newModel     llm.Factory
	instructions string
	limiter      *rate.Limiter
}

// New limiter 为 nil 时不限流
func New(factory llm.Factory, instructions string, limiter *rate.Limiter) *Summarizer {
	return &Summarizer{newModel: factory, instructions: instructions, limiter: limiter}
}

// NewLimiter 按 RPM 限流，QPS 作为突发上限
func NewLimiter(rpm, qps int) *rate.Limiter {
	if rpm <= 0 {
		return nil
	}
	if qps <= 0 {
		qps = 1
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), qps)
}

// Summarize 生成摘要。失败时返回 Fallback 以及具体错误，调用方据此决定是否落盘。
func (s *Summarizer) Summarize(ctx context.Context, req *Request) (string, error) {
	contents := s.readPages(req)
	if len(contents) == 0 {
		logger.Log.Warnf("没有可用的页面内容: %q", req.Query)
		return Fallback, ErrNoContent
	}

	prompt := BuildPrompt(req.Query, contents)

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return Fallback, fmt.Errorf("rate limiter: %w", err)
		}
	}

	cm, err := s.newModel(ctx, req.Model)
	if err != nil {
		logger.Log.Errorf("创建模型失败 [%s]: %v", req.Model, err)
		return Fallback, err
	}

	messages := []*schema.Message{
		schema.SystemMessage(s.instructions),
		schema.UserMessage(prompt),
	}

	start := time.Now()
	resp, err := cm.Generate(ctx, messages)
	if err != nil {
		logger.Log.Errorf("生成摘要失败 [%s]: %v", req.Model, err)
		return Fallback, fmt.Errorf("generate summary: %w", err)
	}
	logger.Log.Infof("摘要生成完成: 模型 %s, %d 个页面, 耗时 %.2fs", req.Model, len(contents), time.Since(start).Seconds())
	return resp.Content, nil
}

// BuildPrompt 拼接查询与页面内容
func BuildPrompt(query string, contents []string) string {
	return fmt.Sprintf("User Search Query: %s\n\n Scraped Webpage Contents:\n\n", query) + strings.Join(contents, separator)
}

func (s *Summarizer) readPages(req *Request) []string {
	var contents []string
	for _, u := range req.URLs {
		path := workspace.PagePath(req.Dir, u, req.Day)
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Log.Warnf("跳过无法读取的页面 [%s]: %v", path, err)
			continue
		}
		content := strings.TrimSpace(string(data))
		if content == "" {
			logger.Log.Warnf("跳过空页面: %s", path)
			continue
		}
		contents = append(contents, content)
	}
	return contents
}
