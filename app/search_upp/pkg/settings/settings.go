package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/config"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/logger"
)

// ErrInvalidValue 设置项未知或取值非法
var ErrInvalidValue = errors.New("invalid setting")

// 可识别的设置项
const (
	KeyBraveKey            = "BRAVE_KEY"
	KeyTavilyKey           = "TAVILY_KEY"
	KeyGeminiKey           = "GEMINI_KEY"
	KeyLLMAPIKey           = "LLM_API_KEY"
	KeySimpleSearchNumber  = "SIMPLE_SEARCH_NUMBER"
	KeyComplexSearchNumber = "COMPLEX_SEARCH_NUMBER"
	KeySimpleModel         = "SIMPLE_LLM_MODEL"
	KeyComplexModel        = "COMPLEX_LLM_MODEL"
	KeyLocalSimpleModel    = "LOCAL_SIMPLE_LLM_MODEL"
	KeyLocalComplexModel   = "LOCAL_COMPLEX_LLM_MODEL"
	KeyExecutionMode       = "EXECUTION_MODE"
	KeyInstructions        = "SEARCH_SUMMARY_INSTRUCTIONS"
)

// Keys 全部可识别的设置项
var Keys = []string{
	KeyBraveKey, KeyTavilyKey, KeyGeminiKey, KeyLLMAPIKey,
	KeySimpleSearchNumber, KeyComplexSearchNumber,
	KeySimpleModel, KeyComplexModel, KeyLocalSimpleModel, KeyLocalComplexModel,
	KeyExecutionMode, KeyInstructions,
}

var secretKeys = map[string]bool{KeyBraveKey: true, KeyTavilyKey: true, KeyGeminiKey: true, KeyLLMAPIKey: true}

// HostedModels 界面上可选的远程模型
var HostedModels = []string{"gemini-1.5-flash-002", "gemini-1.5-pro-002", "gemini-exp-1206"}

// Store .env 格式的设置文件
type Store struct {
	path string
	mu   sync.Mutex
}

// New 创建设置存储
func New(path string) *Store {
	return &Store{path: path}
}

// Path 设置文件路径
func (s *Store) Path() string { return s.path }

// Load 读取设置文件，文件不存在时返回空 map
func (s *Store) Load() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (map[string]string, error) {
	values, err := godotenv.Read(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	return values, nil
}

// Environment 设置文件叠加进程环境变量，环境变量优先
func (s *Store) Environment() (map[string]string, error) {
	values, err := s.Load()
	if err != nil {
		return nil, err
	}
	for _, k := range Keys {
		if v, ok := os.LookupEnv(k); ok && v != "" {
			values[k] = v
		}
	}
	return values, nil
}

// Set 校验并写入设置，同时更新当前进程的环境变量
func (s *Store) Set(updates map[string]string) error {
	for k, v := range updates {
		if err := Validate(k, v); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	for k, v := range updates {
		values[k] = strings.TrimSpace(v)
	}
	if err := godotenv.Write(values, s.path); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	for k, v := range updates {
		if err := os.Setenv(k, strings.TrimSpace(v)); err != nil {
			return err
		}
	}
	logger.Log.Infof("设置已更新: %s", strings.Join(sortedKeys(updates), ", "))
	return nil
}

// Validate 校验单个设置项
func Validate(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case KeySimpleSearchNumber, KeyComplexSearchNumber:
		n, err := strconv.Atoi(value)
		if err != nil || n < config.MinResultCount || n > config.MaxResultCount {
			return fmt.Errorf("%w: %s must be an integer in [%d, %d], got %q",
				ErrInvalidValue, key, config.MinResultCount, config.MaxResultCount, value)
		}
	case KeyExecutionMode:
		if value != config.ModeHosted && value != config.ModeLocal {
			return fmt.Errorf("%w: %s must be %q or %q", ErrInvalidValue, key, config.ModeHosted, config.ModeLocal)
		}
	case KeySimpleModel, KeyComplexModel, KeyLocalSimpleModel, KeyLocalComplexModel, KeyInstructions:
		if value == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidValue, key)
		}
	case KeyBraveKey, KeyTavilyKey, KeyGeminiKey, KeyLLMAPIKey:
	default:
		return fmt.Errorf("%w: unknown key %q", ErrInvalidValue, key)
	}
	return nil
}

// Masked 隐藏 API key，只保留末尾 4 位
func Masked(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if secretKeys[k] && v != "" {
			if len(v) > 4 {
				v = strings.Repeat("*", 8) + v[len(v)-4:]
			} else {
				v = strings.Repeat("*", 8)
			}
		}
		out[k] = v
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
