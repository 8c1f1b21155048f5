// Package repository holds the record persistence adapters. Every adapter upserts by
// identifier with full replacement and keeps interviews and surveys in separate collections.
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/virginearth/survey-backend/internal/record"
)

// Repository is the persistence contract shared by all backends.
type Repository interface {
	PutInterview(ctx context.Context, id string, rec record.Record) error
	GetInterview(ctx context.Context, id string) (record.Record, error)
	ListInterviews(ctx context.Context) ([]record.Record, error)

	// PutSurvey stores rec under id, recording surveyType alongside it.
	PutSurvey(ctx context.Context, id, surveyType string, rec record.Record) error
	GetSurvey(ctx context.Context, id string) (*record.StoredSurvey, error)
	ListSurveys(ctx context.Context) ([]record.StoredSurvey, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// Directory / object-prefix names of the file-tree layouts.
const (
	dirInterviews = "interviews"
	dirCitizens   = "citizens"
	dirEmployees  = "employees"
)

// surveyDirs returns the directory a survey of the given type is written to, and the
// directory that must not hold a copy of it.
func surveyDirs(surveyType string) (target, other string) {
	if surveyType == record.TypeCustomer {
		return dirCitizens, dirEmployees
	}
	return dirEmployees, dirCitizens
}

// dirType maps a survey directory back to the type tag used for partitioning.
func dirType(dir string) string {
	if dir == dirCitizens {
		return record.TypeCustomer
	}
	return record.TypeEmployee
}

// encodeRecord renders rec as JSON without HTML escaping. indent selects the
// pretty-printed two-space layout used for files.
func encodeRecord(rec record.Record, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	if !indent {
		return bytes.TrimRight(buf.Bytes(), "\n"), nil
	}
	return buf.Bytes(), nil
}

// decodeRecord parses a stored document. Anything but a JSON object is malformed.
func decodeRecord(b []byte) (record.Record, error) {
	var rec record.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("decode record: not a JSON object")
	}
	return rec, nil
}
