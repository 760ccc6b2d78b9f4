package history

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
)

// TimeLayout 历史文件中的时间格式 (dd-mm-YYYY HH:MM:SS)
const TimeLayout = "02-01-2006 15:04:05"

var header = []string{"datetime", "query", "search_path", "summary_path"}

// CSVStore 基于 CSV 文件的历史记录，首次写入时创建表头
type CSVStore struct {
	path string
	mu   sync.Mutex
}

// NewCSVStore 创建 CSV 存储
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path 历史文件路径
func (s *CSVStore) Path() string { return s.path }

func (s *CSVStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.read()
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *CSVStore) Append(ctx context.Context, entry *model.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.read()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat history file: %w", err)
	}
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write history header: %w", err)
		}
	}
	if err := w.Write([]string{entry.Time.Format(TimeLayout), entry.Query, entry.SearchPath, entry.SummaryPath}); err != nil {
		return fmt.Errorf("write history row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush history file: %w", err)
	}

	entry.Index = len(rows)
	return nil
}

func (s *CSVStore) List(ctx context.Context) ([]model.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	reverse(entries)
	return entries, nil
}

func (s *CSVStore) Get(ctx context.Context, index int) (*model.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(entries) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, index)
	}
	e := entries[index]
	return &e, nil
}

func (s *CSVStore) Close() error { return nil }

// read 读取全部数据行；文件不存在视为空
func (s *CSVStore) read() ([]model.HistoryEntry, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	var entries []model.HistoryEntry
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse history file: %w", err)
		}
		if first {
			first = false
			if rec[0] == header[0] {
				continue
			}
		}

		t, err := time.ParseInLocation(TimeLayout, rec[0], time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse history time %q: %w", rec[0], err)
		}
		entries = append(entries, model.HistoryEntry{
			Index:       len(entries),
			Time:        t,
			Query:       rec[1],
			SearchPath:  rec[2],
			SummaryPath: rec[3],
		})
	}
	return entries, nil
}
