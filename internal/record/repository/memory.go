package repository

import (
	"context"
	"sync"

	"github.com/virginearth/survey-backend/internal/record"
)

type memorySurvey struct {
	surveyType string
	data       []byte
}

// MemoryRepo is a simple in-memory repository used for unit tests and ephemeral runs.
// Records are kept encoded so callers never share maps with the store.
type MemoryRepo struct {
	mu         sync.RWMutex
	interviews map[string][]byte
	surveys    map[string]memorySurvey
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		interviews: make(map[string][]byte),
		surveys:    make(map[string]memorySurvey),
	}
}

func (m *MemoryRepo) PutInterview(_ context.Context, id string, rec record.Record) error {
	b, err := encodeRecord(rec, false)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interviews[id] = b
	return nil
}

func (m *MemoryRepo) GetInterview(_ context.Context, id string) (record.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.interviews[id]
	if !ok {
		return nil, record.ErrNotFound
	}
	return decodeRecord(b)
}

func (m *MemoryRepo) ListInterviews(_ context.Context) ([]record.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]record.Record, 0, len(m.interviews))
	for _, b := range m.interviews {
		rec, err := decodeRecord(b)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *MemoryRepo) PutSurvey(_ context.Context, id, surveyType string, rec record.Record) error {
	b, err := encodeRecord(rec, false)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.surveys[id] = memorySurvey{surveyType: surveyType, data: b}
	return nil
}

func (m *MemoryRepo) GetSurvey(_ context.Context, id string) (*record.StoredSurvey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.surveys[id]
	if !ok {
		return nil, record.ErrNotFound
	}
	rec, err := decodeRecord(s.data)
	if err != nil {
		return nil, err
	}
	return &record.StoredSurvey{Type: s.surveyType, Payload: rec}, nil
}

func (m *MemoryRepo) ListSurveys(_ context.Context) ([]record.StoredSurvey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]record.StoredSurvey, 0, len(m.surveys))
	for _, s := range m.surveys {
		rec, err := decodeRecord(s.data)
		if err != nil {
			return nil, err
		}
		out = append(out, record.StoredSurvey{Type: s.surveyType, Payload: rec})
	}
	return out, nil
}

func (m *MemoryRepo) Ping(context.Context) error { return nil }
