package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidTheme 主题取值非法
var ErrInvalidTheme = errors.New("invalid theme")

const table = "theme"

// Theme 界面主题，对应 TOML 文件中的 [theme] 表
type Theme struct {
	Base                     string `toml:"base" json:"base"`
	PrimaryColor             string `toml:"primaryColor" json:"primaryColor"`
	BackgroundColor          string `toml:"backgroundColor" json:"backgroundColor"`
	SecondaryBackgroundColor string `toml:"secondaryBackgroundColor" json:"secondaryBackgroundColor"`
	TextColor                string `toml:"textColor" json:"textColor"`
	Font                     string `toml:"font" json:"font"`
}

// Default 默认浅色主题
func Default() Theme {
	return Theme{
		Base:                     "light",
		PrimaryColor:             "#FF4B4B",
		BackgroundColor:          "#FFFFFF",
		SecondaryBackgroundColor: "#F0F2F6",
		TextColor:                "#31333F",
		Font:                     "sans serif",
	}
}

var colorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate 校验取值
func (t Theme) Validate() error {
	switch t.Base {
	case "light", "dark":
	default:
		return fmt.Errorf("%w: base must be light or dark, got %q", ErrInvalidTheme, t.Base)
	}
	switch t.Font {
	case "sans serif", "serif", "monospace":
	default:
		return fmt.Errorf("%w: unknown font %q", ErrInvalidTheme, t.Font)
	}
	for name, c := range map[string]string{
		"primaryColor":             t.PrimaryColor,
		"backgroundColor":          t.BackgroundColor,
		"secondaryBackgroundColor": t.SecondaryBackgroundColor,
		"textColor":                t.TextColor,
	} {
		if !colorRe.MatchString(c) {
			return fmt.Errorf("%w: %s must be #rgb or #rrggbb, got %q", ErrInvalidTheme, name, c)
		}
	}
	return nil
}

// Load 读取主题，文件或 [theme] 表缺失的字段使用默认值
func Load(path string) (Theme, error) {
	t := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return t, fmt.Errorf("read theme file: %w", err)
	}

	var doc struct {
		Theme *Theme `toml:"theme"`
	}
	doc.Theme = &t
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Default(), fmt.Errorf("%w: %v", ErrInvalidTheme, err)
	}
	return t, nil
}

// Modify 校验后写入 [theme] 表，文件中的其它表保持不变；文件不存在时创建
func Modify(path string, t Theme) error {
	if err := t.Validate(); err != nil {
		return err
	}

	doc := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read theme file: %w", err)
	default:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTheme, err)
		}
	}

	doc[table] = map[string]any{
		"base":                     t.Base,
		"primaryColor":             t.PrimaryColor,
		"backgroundColor":          t.BackgroundColor,
		"secondaryBackgroundColor": t.SecondaryBackgroundColor,
		"textColor":                t.TextColor,
		"font":                     t.Font,
	}

	out, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create theme dir: %w", err)
	}
	return os.WriteFile(path, out, 0o644)
}
