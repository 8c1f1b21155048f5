package repository

import (
	"context"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/virginearth/survey-backend/internal/record"
)

func TestRedisRepo(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	runRepositoryTests(t, NewRedisRepo(client, "test:"))

	// collections live in two hashes under the prefix
	require.True(t, m.Exists("test:interviews"))
	require.True(t, m.Exists("test:surveys"))
}

func TestRedisRepoMalformedValueFailsListing(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepo(client, "")
	ctx := context.Background()

	require.NoError(t, repo.PutSurvey(ctx, "good", record.TypeCustomer, record.Record{"id": "good"}))
	m.HSet("surveys", "bad", "[1,2")

	_, err = repo.ListSurveys(ctx)
	require.Error(t, err)
}
