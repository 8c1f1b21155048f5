package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/virginearth/survey-backend/internal/record"
	_ "modernc.org/sqlite"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS interviews (
		id         TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS surveys (
		id         TEXT PRIMARY KEY,
		type       TEXT NOT NULL,
		payload    TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// SQLiteRepo is the table layout in a local SQLite file, for single-host
// deployments that want the table semantics without a database server.
type SQLiteRepo struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path, along with its parent
// directory, and creates the tables.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single writer avoids SQLITE_BUSY under concurrent requests
	db.SetMaxOpenConns(1)
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create tables: %w", err)
		}
	}
	return &SQLiteRepo{db: db}, nil
}

func (s *SQLiteRepo) Close() error { return s.db.Close() }

func (s *SQLiteRepo) PutInterview(ctx context.Context, id string, rec record.Record) error {
	b, err := encodeRecord(rec, false)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO interviews (id, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		id, string(b))
	if err != nil {
		return fmt.Errorf("upsert interview: %w", err)
	}
	return nil
}

func (s *SQLiteRepo) GetInterview(ctx context.Context, id string) (record.Record, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM interviews WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, record.ErrNotFound
		}
		return nil, err
	}
	return decodeRecord([]byte(payload))
}

func (s *SQLiteRepo) ListInterviews(ctx context.Context) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM interviews`)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	defer rows.Close()
	out := []record.Record{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		rec, err := decodeRecord([]byte(payload))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteRepo) PutSurvey(ctx context.Context, id, surveyType string, rec record.Record) error {
	b, err := encodeRecord(rec, false)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO surveys (id, type, payload, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET type = excluded.type, payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		id, surveyType, string(b))
	if err != nil {
		return fmt.Errorf("upsert survey: %w", err)
	}
	return nil
}

func (s *SQLiteRepo) GetSurvey(ctx context.Context, id string) (*record.StoredSurvey, error) {
	var typ, payload string
	err := s.db.QueryRowContext(ctx, `SELECT type, payload FROM surveys WHERE id = ?`, id).Scan(&typ, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, record.ErrNotFound
		}
		return nil, err
	}
	rec, err := decodeRecord([]byte(payload))
	if err != nil {
		return nil, err
	}
	return &record.StoredSurvey{Type: typ, Payload: rec}, nil
}

func (s *SQLiteRepo) ListSurveys(ctx context.Context) ([]record.StoredSurvey, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT type, payload FROM surveys`)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	defer rows.Close()
	out := []record.StoredSurvey{}
	for rows.Next() {
		var typ, payload string
		if err := rows.Scan(&typ, &payload); err != nil {
			return nil, err
		}
		rec, err := decodeRecord([]byte(payload))
		if err != nil {
			return nil, err
		}
		out = append(out, record.StoredSurvey{Type: typ, Payload: rec})
	}
	return out, rows.Err()
}

func (s *SQLiteRepo) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
