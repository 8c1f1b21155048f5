package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/virginearth/survey-backend/internal/record"
)

// redisSurvey is the hash value stored for a survey.
type redisSurvey struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// RedisRepo stores each collection as a hash: "<prefix>interviews" and "<prefix>surveys",
// field = record id, value = JSON. HSET replaces the field atomically.
type RedisRepo struct {
	client *redis.Client
	prefix string
}

// NewRedisRepo creates a Redis-based record repository. Prefix may be empty.
func NewRedisRepo(client *redis.Client, prefix string) *RedisRepo {
	return &RedisRepo{client: client, prefix: prefix}
}

func (r *RedisRepo) key(collection string) string {
	return r.prefix + collection
}

func (r *RedisRepo) PutInterview(ctx context.Context, id string, rec record.Record) error {
	b, err := encodeRecord(rec, false)
	if err != nil {
		return err
	}
	if err := r.client.HSet(ctx, r.key(record.CollectionInterviews), id, b).Err(); err != nil {
		return fmt.Errorf("upsert interview: %w", err)
	}
	return nil
}

func (r *RedisRepo) GetInterview(ctx context.Context, id string) (record.Record, error) {
	b, err := r.client.HGet(ctx, r.key(record.CollectionInterviews), id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, record.ErrNotFound
		}
		return nil, err
	}
	return decodeRecord(b)
}

func (r *RedisRepo) ListInterviews(ctx context.Context) ([]record.Record, error) {
	all, err := r.client.HGetAll(ctx, r.key(record.CollectionInterviews)).Result()
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	out := make([]record.Record, 0, len(all))
	for id, v := range all {
		rec, err := decodeRecord([]byte(v))
		if err != nil {
			return nil, fmt.Errorf("interview %s: %w", id, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *RedisRepo) PutSurvey(ctx context.Context, id, surveyType string, rec record.Record) error {
	payload, err := encodeRecord(rec, false)
	if err != nil {
		return err
	}
	b, err := json.Marshal(redisSurvey{Type: surveyType, Payload: payload})
	if err != nil {
		return err
	}
	if err := r.client.HSet(ctx, r.key(record.CollectionSurveys), id, b).Err(); err != nil {
		return fmt.Errorf("upsert survey: %w", err)
	}
	return nil
}

func decodeRedisSurvey(b []byte) (*record.StoredSurvey, error) {
	var s redisSurvey
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode survey: %w", err)
	}
	rec, err := decodeRecord(s.Payload)
	if err != nil {
		return nil, err
	}
	return &record.StoredSurvey{Type: s.Type, Payload: rec}, nil
}

func (r *RedisRepo) GetSurvey(ctx context.Context, id string) (*record.StoredSurvey, error) {
	b, err := r.client.HGet(ctx, r.key(record.CollectionSurveys), id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, record.ErrNotFound
		}
		return nil, err
	}
	return decodeRedisSurvey(b)
}

func (r *RedisRepo) ListSurveys(ctx context.Context) ([]record.StoredSurvey, error) {
	all, err := r.client.HGetAll(ctx, r.key(record.CollectionSurveys)).Result()
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	out := make([]record.StoredSurvey, 0, len(all))
	for id, v := range all {
		s, err := decodeRedisSurvey([]byte(v))
		if err != nil {
			return nil, fmt.Errorf("survey %s: %w", id, err)
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *RedisRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
