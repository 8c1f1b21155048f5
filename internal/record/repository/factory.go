package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/virginearth/survey-backend/internal/config"
	"github.com/virginearth/survey-backend/internal/database"
	"github.com/virginearth/survey-backend/internal/storage"
	"github.com/virginearth/survey-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	connectAttempts = 5
	connectBackoff  = time.Second
)

// Open creates the Repository for the named backend. The returned cleanup func
// releases connections and is never nil on success.
//
// Supported backends:
//
//	"file"     - JSON documents under DATA_DIR (default)
//	"memory"   - in-memory, ephemeral
//	"sqlite"   - tables in DATA_DIR/records.db
//	"postgres" - tables in Postgres (DATABASE_URL)
//	"supabase" - alias of postgres using the Supabase connection string
//	"mongo"    - MongoDB collections (MONGODB_URI)
//	"redis"    - Redis hashes (REDIS_HOST)
//	"minio"    - objects in a MinIO/S3 bucket (MINIO_ENDPOINT)
func Open(ctx context.Context, backend string, cfg *config.Config) (Repository, func(), error) {
	if err := cfg.ValidateBackend(backend); err != nil {
		return nil, nil, err
	}
	noop := func() {}

	switch backend {
	case "file":
		repo, err := NewFileRepo(cfg.Store.DataDir)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("records stored as JSON files under %s", cfg.Store.DataDir)
		return repo, noop, nil

	case "memory":
		logger.Warnf("records stored in memory; data is lost on restart")
		return NewMemoryRepo(), noop, nil

	case "sqlite":
		path := filepath.Join(cfg.Store.DataDir, "records.db")
		repo, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("records stored in sqlite database %s", path)
		return repo, func() { _ = repo.Close() }, nil

	case "postgres", "supabase":
		var pool *pgxpool.Pool
		err := database.Retry(ctx, backend, connectAttempts, connectBackoff, func(ctx context.Context) error {
			var err error
			pool, err = database.ConnectPostgres(ctx, cfg.Postgres.URL, cfg.Postgres.Timeout)
			return err
		})
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to %s after %d attempts: %w", backend, connectAttempts, err)
		}
		repo := NewPostgresRepo(pool)
		if cfg.Postgres.CreateTables {
			if err := repo.EnsureSchema(ctx); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		logger.Infof("records stored in %s tables", backend)
		return repo, pool.Close, nil

	case "mongo":
		var client *mongo.Client
		err := database.Retry(ctx, "MongoDB", connectAttempts, connectBackoff, func(ctx context.Context) error {
			var err error
			client, err = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			return err
		})
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to MongoDB after %d attempts: %w", connectAttempts, err)
		}
		logger.Infof("records stored in MongoDB database %s", cfg.MongoDB.Database)
		return NewMongoRepo(client.Database(cfg.MongoDB.Database)), func() { _ = client.Disconnect(context.Background()) }, nil

	case "redis":
		var client *redis.Client
		err := database.Retry(ctx, "Redis", connectAttempts, connectBackoff, func(ctx context.Context) error {
			var err error
			client, err = database.ConnectRedis(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB, 5*time.Second)
			return err
		})
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to Redis after %d attempts: %w", connectAttempts, err)
		}
		logger.Infof("records stored in Redis %s (prefix %q)", cfg.Redis.Addr(), cfg.Redis.Prefix)
		return NewRedisRepo(client, cfg.Redis.Prefix), func() { _ = client.Close() }, nil

	case "minio":
		var s *storage.MinIOStorage
		err := database.Retry(ctx, "MinIO", connectAttempts, connectBackoff, func(ctx context.Context) error {
			var err error
			s, err = storage.NewMinIOStorage(ctx, cfg.MinIO)
			return err
		})
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to MinIO after %d attempts: %w", connectAttempts, err)
		}
		logger.Infof("records stored in bucket %s at %s", cfg.MinIO.Bucket, cfg.MinIO.Endpoint)
		return NewObjectRepo(s), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", backend)
}
