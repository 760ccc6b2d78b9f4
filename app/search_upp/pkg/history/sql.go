package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
)

// SQLStore 基于数据库的历史记录 (postgres / sqlite)
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// NewSQLStore 打开数据库并初始化表结构
func NewSQLStore(driver, dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("history dsn is empty")
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := NewSQLStoreFromDB(db, driver)
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// NewSQLStoreFromDB 使用已有连接，不做建表
func NewSQLStoreFromDB(db *sql.DB, dialect string) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

func (s *SQLStore) initSchema() error {
	id := "id SERIAL PRIMARY KEY"
	if s.dialect == "sqlite" {
		id = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS search_history (
		` + id + `,
		idx INTEGER NOT NULL UNIQUE,
		created_at TIMESTAMP NOT NULL,
		query TEXT NOT NULL,
		search_path TEXT NOT NULL,
		summary_path TEXT NOT NULL
	)`)
	return err
}

// bind postgres 使用 $n 占位符，sqlite 使用 ?
func (s *SQLStore) bind(query string) string {
	if s.dialect != "postgres" {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&sb, "$%d", n)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM search_history").Scan(&n); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return n, nil
}

func (s *SQLStore) Append(ctx context.Context, entry *model.HistoryEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM search_history").Scan(&n); err != nil {
		tx.Rollback()
		return fmt.Errorf("count history: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		s.bind("INSERT INTO search_history (idx, created_at, query, search_path, summary_path) VALUES (?, ?, ?, ?, ?)"),
		n, entry.Time, entry.Query, entry.SearchPath, entry.SummaryPath)
	if err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = fmt.Errorf("%w: %v", err, rerr)
		}
		return fmt.Errorf("insert history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	entry.Index = n
	return nil
}

const selectColumns = "SELECT idx, created_at, query, search_path, summary_path FROM search_history"

func (s *SQLStore) List(ctx context.Context) ([]model.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY idx DESC")
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.Index, &e.Time, &e.Query, &e.SearchPath, &e.SummaryPath); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLStore) Get(ctx context.Context, index int) (*model.HistoryEntry, error) {
	var e model.HistoryEntry
	err := s.db.QueryRowContext(ctx, s.bind(selectColumns+" WHERE idx = ?"), index).
		Scan(&e.Index, &e.Time, &e.Query, &e.SearchPath, &e.SummaryPath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, index)
	}
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return &e, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
