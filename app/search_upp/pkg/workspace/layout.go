package workspace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/purell"
)

const (
	resultsFile = "web_search.json"
	summaryFile = "summary.md"
	historyFile = "search_history.csv"

	// DayLayout 页面文件按天命名 (dd-mm-YYYY)
	DayLayout = "02-01-2006"
)

// Layout 搜索结果目录结构:
//
//	<root>/search_history.csv
//	<root>/search_<n>/web_search.json
//	<root>/search_<n>/summary.md
//	<root>/search_<n>/<page key>/<dd-mm-YYYY>.md
type Layout struct {
	Root string
}

// New 创建目录布局
func New(root string) *Layout {
	return &Layout{Root: root}
}

// QueryDir 第 index 次查询的目录
func (l *Layout) QueryDir(index int) string {
	return filepath.Join(l.Root, fmt.Sprintf("search_%d", index))
}

// ResultsPath 原始/排序后的搜索结果文件
func (l *Layout) ResultsPath(index int) string {
	return filepath.Join(l.QueryDir(index), resultsFile)
}

// SummaryPath 摘要文件
func (l *Layout) SummaryPath(index int) string {
	return filepath.Join(l.QueryDir(index), summaryFile)
}

// HistoryPath 历史记录文件
func (l *Layout) HistoryPath() string {
	return filepath.Join(l.Root, historyFile)
}

// EnsureQueryDir 创建查询目录
func (l *Layout) EnsureQueryDir(index int) (string, error) {
	dir := l.QueryDir(index)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create query dir: %w", err)
	}
	return dir, nil
}

var keyReplacer = strings.NewReplacer(
	"<", "-", ">", "-", ":", "-", `"`, "-", "/", "-",
	`\`, "-", "|", "-", "?", "-", "*", "-", "#", "-",
	".", "_",
)

const normalizeFlags = purell.FlagLowercaseScheme |
	purell.FlagLowercaseHost |
	purell.FlagRemoveDefaultPort |
	purell.FlagRemoveFragment |
	purell.FlagRemoveDotSegments

// MaxKeyLen 目录名上限，常见文件系统单个文件名最长 255 字节
const MaxKeyLen = 200

// PageKey 把 URL 转换成可作为目录名的 key。
// 超过 MaxKeyLen 时截断，并追加完整 URL 的短哈希保证不同 URL 不冲突。
func PageKey(rawURL string) string {
	u, err := purell.NormalizeURLString(rawURL, normalizeFlags)
	if err != nil {
		u = rawURL
	}
	parts := strings.Split(u, "//")
	key := keyReplacer.Replace(parts[len(parts)-1])
	if len(key) <= MaxKeyLen {
		return key
	}

	sum := sha256.Sum256([]byte(u))
	suffix := "-" + hex.EncodeToString(sum[:])[:12]
	cut := MaxKeyLen - len(suffix)
	for cut > 0 && !utf8.RuneStart(key[cut]) {
		cut--
	}
	return key[:cut] + suffix
}

// Day 日期戳
func Day(t time.Time) string {
	return t.Format(DayLayout)
}

// PagePath 某个 URL 在某一天的抓取结果文件
func PagePath(dir, rawURL string, day time.Time) string {
	return filepath.Join(dir, PageKey(rawURL), Day(day)+".md")
}
