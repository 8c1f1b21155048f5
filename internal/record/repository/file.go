package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/virginearth/survey-backend/internal/record"
)

// FileRepo stores one pretty-printed JSON document per record.
//
// Layout:
//
//	data_dir/
//	  interviews/<id>.json
//	  citizens/<id>.json    # surveys tagged "customer"
//	  employees/<id>.json   # every other survey
//
// There is no locking: concurrent writers to the same id race and the last rename wins.
type FileRepo struct {
	dir string
}

func NewFileRepo(dir string) (*FileRepo, error) {
	for _, sub := range []string{dirInterviews, dirCitizens, dirEmployees} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create %s dir: %w", sub, err)
		}
	}
	return &FileRepo{dir: dir}, nil
}

func (r *FileRepo) path(sub, id string) string {
	return filepath.Join(r.dir, sub, id+".json")
}

// write replaces the document at path via a temp file in the same directory so
// readers never observe a partial document.
func (r *FileRepo) write(path string, rec record.Record) error {
	b, err := encodeRecord(rec, true)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (r *FileRepo) read(path string) (record.Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, record.ErrNotFound
		}
		return nil, err
	}
	rec, err := decodeRecord(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// loadDir reads every *.json document in a collection directory. Temp files from
// write carry no .json suffix, so ids starting with "." are still listed.
func (r *FileRepo) loadDir(sub string) ([]record.Record, error) {
	dir := filepath.Join(r.dir, sub)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []record.Record{}, nil
		}
		return nil, err
	}
	out := make([]record.Record, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		rec, err := r.read(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *FileRepo) PutInterview(_ context.Context, id string, rec record.Record) error {
	return r.write(r.path(dirInterviews, id), rec)
}

func (r *FileRepo) GetInterview(_ context.Context, id string) (record.Record, error) {
	return r.read(r.path(dirInterviews, id))
}

func (r *FileRepo) ListInterviews(_ context.Context) ([]record.Record, error) {
	return r.loadDir(dirInterviews)
}

// PutSurvey writes into the type's directory and drops any copy of the same id from
// the other one, so an id maps to a single survey.
func (r *FileRepo) PutSurvey(_ context.Context, id, surveyType string, rec record.Record) error {
	target, other := surveyDirs(surveyType)
	if err := r.write(r.path(target, id), rec); err != nil {
		return err
	}
	if err := os.Remove(r.path(other, id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale survey: %w", err)
	}
	return nil
}

func (r *FileRepo) GetSurvey(_ context.Context, id string) (*record.StoredSurvey, error) {
	for _, sub := range []string{dirCitizens, dirEmployees} {
		rec, err := r.read(r.path(sub, id))
		if errors.Is(err, record.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &record.StoredSurvey{Type: dirType(sub), Payload: rec}, nil
	}
	return nil, record.ErrNotFound
}

func (r *FileRepo) ListSurveys(_ context.Context) ([]record.StoredSurvey, error) {
	var out []record.StoredSurvey
	for _, sub := range []string{dirCitizens, dirEmployees} {
		recs, err := r.loadDir(sub)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			out = append(out, record.StoredSurvey{Type: dirType(sub), Payload: rec})
		}
	}
	return out, nil
}

func (r *FileRepo) Ping(context.Context) error {
	_, err := os.Stat(r.dir)
	return err
}
