package repository

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/virginearth/survey-backend/internal/record"
	"github.com/virginearth/survey-backend/internal/storage"
)

// ObjectStore is the subset of the MinIO wrapper used by ObjectRepo.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// ObjectRepo mirrors the file layout in a bucket: interviews/<id>.json,
// citizens/<id>.json and employees/<id>.json.
type ObjectRepo struct {
	store ObjectStore
}

func NewObjectRepo(store ObjectStore) *ObjectRepo {
	return &ObjectRepo{store: store}
}

func objectKey(prefix, id string) string {
	return path.Join(prefix, id+".json")
}

func (o *ObjectRepo) put(ctx context.Context, key string, rec record.Record) error {
	b, err := encodeRecord(rec, true)
	if err != nil {
		return err
	}
	if err := o.store.Put(ctx, key, b, "application/json"); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (o *ObjectRepo) get(ctx context.Context, key string) (record.Record, error) {
	b, err := o.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, record.ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	rec, err := decodeRecord(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return rec, nil
}

func (o *ObjectRepo) loadPrefix(ctx context.Context, prefix string) ([]record.Record, error) {
	keys, err := o.store.List(ctx, prefix+"/")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	out := make([]record.Record, 0, len(keys))
	for _, k := range keys {
		if !strings.HasSuffix(k, ".json") {
			continue
		}
		rec, err := o.get(ctx, k)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (o *ObjectRepo) PutInterview(ctx context.Context, id string, rec record.Record) error {
	return o.put(ctx, objectKey(dirInterviews, id), rec)
}

func (o *ObjectRepo) GetInterview(ctx context.Context, id string) (record.Record, error) {
	return o.get(ctx, objectKey(dirInterviews, id))
}

func (o *ObjectRepo) ListInterviews(ctx context.Context) ([]record.Record, error) {
	return o.loadPrefix(ctx, dirInterviews)
}

func (o *ObjectRepo) PutSurvey(ctx context.Context, id, surveyType string, rec record.Record) error {
	target, other := surveyDirs(surveyType)
	if err := o.put(ctx, objectKey(target, id), rec); err != nil {
		return err
	}
	if err := o.store.Remove(ctx, objectKey(other, id)); err != nil {
		return fmt.Errorf("remove stale survey: %w", err)
	}
	return nil
}

func (o *ObjectRepo) GetSurvey(ctx context.Context, id string) (*record.StoredSurvey, error) {
	for _, prefix := range []string{dirCitizens, dirEmployees} {
		rec, err := o.get(ctx, objectKey(prefix, id))
		if errors.Is(err, record.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &record.StoredSurvey{Type: dirType(prefix), Payload: rec}, nil
	}
	return nil, record.ErrNotFound
}

func (o *ObjectRepo) ListSurveys(ctx context.Context) ([]record.StoredSurvey, error) {
	var out []record.StoredSurvey
	for _, prefix := range []string{dirCitizens, dirEmployees} {
		recs, err := o.loadPrefix(ctx, prefix)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			out = append(out, record.StoredSurvey{Type: dirType(prefix), Payload: rec})
		}
	}
	return out, nil
}

func (o *ObjectRepo) Ping(ctx context.Context) error {
	return o.store.Ping(ctx)
}
