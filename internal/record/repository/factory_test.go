package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/virginearth/survey-backend/internal/config"
	"github.com/virginearth/survey-backend/internal/record"
)

func TestOpenLocalBackends(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Store: config.StoreConfig{DataDir: dir}}
	ctx := context.Background()

	repo, cleanup, err := Open(ctx, "file", cfg)
	require.NoError(t, err)
	require.IsType(t, &FileRepo{}, repo)
	require.DirExists(t, filepath.Join(dir, "interviews"))
	cleanup()

	repo, cleanup, err = Open(ctx, "memory", cfg)
	require.NoError(t, err)
	require.IsType(t, &MemoryRepo{}, repo)
	cleanup()

	repo, cleanup, err = Open(ctx, "sqlite", cfg)
	require.NoError(t, err)
	require.IsType(t, &SQLiteRepo{}, repo)
	require.FileExists(t, filepath.Join(dir, "records.db"))
	cleanup()
}

func TestOpenCreatesMissingDataDir(t *testing.T) {
	ctx := context.Background()
	for _, backend := range []string{"sqlite", "file"} {
		dir := filepath.Join(t.TempDir(), "data", "nested")
		cfg := &config.Config{Store: config.StoreConfig{DataDir: dir}}

		repo, cleanup, err := Open(ctx, backend, cfg)
		require.NoError(t, err, backend)
		require.NoError(t, repo.PutInterview(ctx, "iv", record.Record{"id": "iv"}), backend)
		require.DirExists(t, dir)
		cleanup()
	}
}

func TestOpenRejectsBadConfig(t *testing.T) {
	cfg := &config.Config{}
	_, _, err := Open(context.Background(), "postgres", cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "DATABASE_URL")

	_, _, err = Open(context.Background(), "dynamo", cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown store backend")
}
