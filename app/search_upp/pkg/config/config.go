package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
)

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("invalid config")

const (
	ModeHosted = "hosted"
	ModeLocal  = "local"

	OrderAscending  = "ascending"
	OrderDescending = "descending"

	MinResultCount = 1
	MaxResultCount = 20
)

// DefaultInstructions 未配置摘要指令时使用
const DefaultInstructions = "You are a research assistant. Using only the scraped webpage contents, " +
	"write a concise, well structured markdown summary that answers the user's search query. " +
	"Cite the relevant sources inline where possible."

// Config 项目配置结构体，进程启动时构造一次并以指针传给各组件
type Config struct {
	Workspace   WorkspaceConfig   `yaml:"workspace"`
	Search      SearchConfig      `yaml:"search"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Rank        RankConfig        `yaml:"rank"`
	LLM         LLMConfig         `yaml:"llm"`
	Tiers       TiersConfig       `yaml:"tiers"`
	Scrape      ScrapeConfig      `yaml:"scrape"`
	History     HistoryConfig     `yaml:"history"`
	Settings    SettingsConfig    `yaml:"settings"`
	Theme       ThemeConfig       `yaml:"theme"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// WorkspaceConfig 结果目录
type WorkspaceConfig struct {
	Root string `yaml:"root"`
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider string        `yaml:"provider"`
	Brave    BraveConfig   `yaml:"brave"`
	Tavily   TavilyConfig  `yaml:"tavily"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
}

// BraveConfig Brave Search 配置
type BraveConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// EmbeddingConfig 向量模型配置
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // gemini or openai
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Timeout  int    `yaml:"timeout"`
}

// RankConfig 重排序配置
type RankConfig struct {
	Order string `yaml:"order"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	Mode         string         `yaml:"mode"`
	Hosted       EndpointConfig `yaml:"hosted"`
	Local        EndpointConfig `yaml:"local"`
	Instructions string         `yaml:"instructions"`
	Timeout      int            `yaml:"timeout"`
}

// EndpointConfig OpenAI 兼容接口地址
type EndpointConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// TiersConfig 两档配置
type TiersConfig struct {
	Simple   TierConfig `yaml:"simple"`
	Advanced TierConfig `yaml:"advanced"`
}

// TierConfig 单档配置
type TierConfig struct {
	ResultCount int    `yaml:"result_count"`
	Model       string `yaml:"model"`
	LocalModel  string `yaml:"local_model"`
}

// ScrapeConfig 抓取配置
type ScrapeConfig struct {
	Backend     string `yaml:"backend"` // browser or http
	Workers     int    `yaml:"workers"`
	WaitTimeout int    `yaml:"wait_timeout"`
	Headless    *bool  `yaml:"headless"`
	RemoteURL   string `yaml:"remote_url"`
}

// HistoryConfig 历史记录存储
type HistoryConfig struct {
	Driver string `yaml:"driver"` // csv, postgres, sqlite
	DSN    string `yaml:"dsn"`
}

// SettingsConfig 设置文件
type SettingsConfig struct {
	EnvFile string `yaml:"env_file"`
}

// ThemeConfig 主题文件
type ThemeConfig struct {
	Path string `yaml:"path"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig LLM 调用限流
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// LoadConfig 从指定路径加载配置，并补全默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// Default 返回只包含默认值的配置
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults 补全未设置的字段
func (c *Config) ApplyDefaults() {
	if c.Workspace.Root == "" {
		c.Workspace.Root = "search"
	}
	if c.Search.Provider == "" {
		c.Search.Provider = "brave"
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "gemini"
	}
	if c.Embedding.Model == "" && c.Embedding.Provider == "gemini" {
		c.Embedding.Model = "text-embedding-004"
	}
	if c.Rank.Order == "" {
		c.Rank.Order = OrderAscending
	}
	if c.LLM.Mode == "" {
		c.LLM.Mode = ModeHosted
	}
	if c.LLM.Hosted.BaseURL == "" {
		c.LLM.Hosted.BaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	}
	if c.LLM.Local.BaseURL == "" {
		c.LLM.Local.BaseURL = "http://localhost:11434/v1"
	}
	if c.LLM.Instructions == "" {
		c.LLM.Instructions = DefaultInstructions
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 120
	}
	applyTierDefaults(&c.Tiers.Simple, 5, "gemini-1.5-flash-002")
	applyTierDefaults(&c.Tiers.Advanced, 10, "gemini-1.5-pro-002")
	if c.Scrape.Backend == "" {
		c.Scrape.Backend = "browser"
	}
	if c.Scrape.Workers == 0 {
		c.Scrape.Workers = 5
	}
	if c.Scrape.WaitTimeout == 0 {
		c.Scrape.WaitTimeout = 10
	}
	if c.Scrape.Headless == nil {
		headless := true
		c.Scrape.Headless = &headless
	}
	if c.History.Driver == "" {
		c.History.Driver = "csv"
	}
	if c.Settings.EnvFile == "" {
		c.Settings.EnvFile = ".env"
	}
	if c.Theme.Path == "" {
		c.Theme.Path = "configs/theme.toml"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Concurrency.RPM == 0 {
		c.Concurrency.RPM = 60
	}
	if c.Concurrency.QPS == 0 {
		c.Concurrency.QPS = 1
	}
}

func applyTierDefaults(t *TierConfig, count int, model string) {
	if t.ResultCount == 0 {
		t.ResultCount = count
	}
	if t.Model == "" {
		t.Model = model
	}
	if t.LocalModel == "" {
		t.LocalModel = "llama3.2:1b"
	}
}

// ApplyEnv 用 .env / 环境变量覆盖配置，无法解析的数值返回错误
func (c *Config) ApplyEnv(env map[string]string) error {
	set := func(key string, dst *string) {
		if v, ok := env[key]; ok && v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := env[key]
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, v)
		}
		*dst = n
		return nil
	}

	set("BRAVE_KEY", &c.Search.Brave.APIKey)
	set("TAVILY_KEY", &c.Search.Tavily.APIKey)
	set("GEMINI_KEY", &c.Embedding.APIKey)
	set("GEMINI_KEY", &c.LLM.Hosted.APIKey)
	set("LLM_API_KEY", &c.LLM.Hosted.APIKey)
	set("SIMPLE_LLM_MODEL", &c.Tiers.Simple.Model)
	set("COMPLEX_LLM_MODEL", &c.Tiers.Advanced.Model)
	set("LOCAL_SIMPLE_LLM_MODEL", &c.Tiers.Simple.LocalModel)
	set("LOCAL_COMPLEX_LLM_MODEL", &c.Tiers.Advanced.LocalModel)
	set("EXECUTION_MODE", &c.LLM.Mode)
	set("SEARCH_SUMMARY_INSTRUCTIONS", &c.LLM.Instructions)

	if err := setInt("SIMPLE_SEARCH_NUMBER", &c.Tiers.Simple.ResultCount); err != nil {
		return err
	}
	return setInt("COMPLEX_SEARCH_NUMBER", &c.Tiers.Advanced.ResultCount)
}

// Validate 校验取值范围
func (c *Config) Validate() error {
	for name, t := range map[string]TierConfig{"simple": c.Tiers.Simple, "advanced": c.Tiers.Advanced} {
		if t.ResultCount < MinResultCount || t.ResultCount > MaxResultCount {
			return fmt.Errorf("%w: tiers.%s.result_count must be in [%d, %d], got %d",
				ErrInvalidConfig, name, MinResultCount, MaxResultCount, t.ResultCount)
		}
	}
	switch c.LLM.Mode {
	case ModeHosted, ModeLocal:
	default:
		return fmt.Errorf("%w: unknown llm.mode %q", ErrInvalidConfig, c.LLM.Mode)
	}
	switch c.Rank.Order {
	case OrderAscending, OrderDescending:
	default:
		return fmt.Errorf("%w: unknown rank.order %q", ErrInvalidConfig, c.Rank.Order)
	}
	switch c.History.Driver {
	case "csv", "postgres", "sqlite":
	default:
		return fmt.Errorf("%w: unknown history.driver %q", ErrInvalidConfig, c.History.Driver)
	}
	switch c.Scrape.Backend {
	case "browser", "http":
	default:
		return fmt.Errorf("%w: unknown scrape.backend %q", ErrInvalidConfig, c.Scrape.Backend)
	}
	if c.Scrape.Workers < 1 {
		return fmt.Errorf("%w: scrape.workers must be positive", ErrInvalidConfig)
	}
	return nil
}

// Tier 解析档位对应的结果数量与模型
func (c *Config) Tier(t model.Tier) (model.TierSettings, error) {
	var tc TierConfig
	switch t {
	case model.TierSimple, "":
		tc = c.Tiers.Simple
	case model.TierAdvanced:
		tc = c.Tiers.Advanced
	default:
		return model.TierSettings{}, fmt.Errorf("%w: unknown tier %q", ErrInvalidConfig, t)
	}

	name := tc.Model
	if c.LLM.Mode == ModeLocal {
		name = tc.LocalModel
	}
	return model.TierSettings{ResultCount: tc.ResultCount, Model: name}, nil
}
