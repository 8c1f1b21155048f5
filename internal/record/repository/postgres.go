package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/virginearth/survey-backend/internal/record"
)

// postgresSchema is only applied when table bootstrap is enabled; Supabase projects
// usually create the tables from the dashboard.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS interviews (
		id         text PRIMARY KEY,
		payload    jsonb NOT NULL,
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS surveys (
		id         text PRIMARY KEY,
		type       text NOT NULL,
		payload    jsonb NOT NULL,
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
}

// PostgresRepo implements Repository on two tables, interviews(id, payload) and
// surveys(id, type, payload). It is the table-backed variant used with Supabase.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

// EnsureSchema creates the tables when they are missing.
func (p *PostgresRepo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

func (p *PostgresRepo) PutInterview(ctx context.Context, id string, rec record.Record) error {
	b, err := encodeRecord(rec, false)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO interviews (id, payload, updated_at) VALUES ($1, $2::jsonb, now())
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		id, string(b))
	if err != nil {
		return fmt.Errorf("upsert interview: %w", err)
	}
	return nil
}

func (p *PostgresRepo) GetInterview(ctx context.Context, id string) (record.Record, error) {
	var payload []byte
	err := p.pool.QueryRow(ctx, `SELECT payload FROM interviews WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, record.ErrNotFound
		}
		return nil, err
	}
	return decodeRecord(payload)
}

func (p *PostgresRepo) ListInterviews(ctx context.Context) ([]record.Record, error) {
	rows, err := p.pool.Query(ctx, `SELECT payload FROM interviews`)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	defer rows.Close()
	out := []record.Record{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		rec, err := decodeRecord(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *PostgresRepo) PutSurvey(ctx context.Context, id, surveyType string, rec record.Record) error {
	b, err := encodeRecord(rec, false)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO surveys (id, type, payload, updated_at) VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (id) DO UPDATE SET type = EXCLUDED.type, payload = EXCLUDED.payload, updated_at = now()`,
		id, surveyType, string(b))
	if err != nil {
		return fmt.Errorf("upsert survey: %w", err)
	}
	return nil
}

func (p *PostgresRepo) GetSurvey(ctx context.Context, id string) (*record.StoredSurvey, error) {
	var (
		typ     string
		payload []byte
	)
	err := p.pool.QueryRow(ctx, `SELECT type, payload FROM surveys WHERE id = $1`, id).Scan(&typ, &payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, record.ErrNotFound
		}
		return nil, err
	}
	rec, err := decodeRecord(payload)
	if err != nil {
		return nil, err
	}
	return &record.StoredSurvey{Type: typ, Payload: rec}, nil
}

func (p *PostgresRepo) ListSurveys(ctx context.Context) ([]record.StoredSurvey, error) {
	rows, err := p.pool.Query(ctx, `SELECT type, payload FROM surveys`)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	defer rows.Close()
	out := []record.StoredSurvey{}
	for rows.Next() {
		var (
			typ     string
			payload []byte
		)
		if err := rows.Scan(&typ, &payload); err != nil {
			return nil, err
		}
		rec, err := decodeRecord(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, record.StoredSurvey{Type: typ, Payload: rec})
	}
	return out, rows.Err()
}

func (p *PostgresRepo) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
