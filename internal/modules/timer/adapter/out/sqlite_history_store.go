package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gear/internal/modules/timer/domain"
	timerout "gear/internal/modules/timer/port/out"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

type SQLiteHistoryStore struct {
	db *sql.DB
}

func NewSQLiteHistoryStore(dbPath string) (*SQLiteHistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteHistoryStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

var _ timerout.HistoryStore = (*SQLiteHistoryStore)(nil)

func (s *SQLiteHistoryStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS history (
  id TEXT PRIMARY KEY,
  start_time TEXT,
  end_time TEXT NOT NULL,
  schema_version INTEGER NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create history table: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryStore) Append(ctx context.Context, entry domain.HistoryEntry) error {
	var start sql.NullString
	if entry.StartTime != nil {
		start = sql.NullString{String: entry.StartTime.UTC().Format(timeLayout), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (id, start_time, end_time, schema_version) VALUES (?, ?, ?, ?)`,
		entry.ID, start, entry.EndTime.UTC().Format(timeLayout), domain.SchemaVersion,
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

// List returns entries in the order they were appended.
func (s *SQLiteHistoryStore) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, start_time, end_time FROM history ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var (
			id    string
			start sql.NullString
			end   string
		)
		if err := rows.Scan(&id, &start, &end); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entry := domain.HistoryEntry{ID: id}
		if start.Valid {
			parsed, err := time.Parse(timeLayout, start.String)
			if err != nil {
				return nil, fmt.Errorf("parse start time of %s: %w", id, err)
			}
			entry.StartTime = &parsed
		}
		entry.EndTime, err = time.Parse(timeLayout, end)
		if err != nil {
			return nil, fmt.Errorf("parse end time of %s: %w", id, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

func (s *SQLiteHistoryStore) Close() error {
	return s.db.Close()
}
