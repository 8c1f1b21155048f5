package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/virginearth/survey-backend/internal/record"
	"github.com/virginearth/survey-backend/internal/record/repository"
)

// failingRepo wraps a MemoryRepo and fails every call once err is set.
type failingRepo struct {
	*repository.MemoryRepo
	err    error
	writes int
}

func (f *failingRepo) PutInterview(ctx context.Context, id string, rec record.Record) error {
	f.writes++
	if f.err != nil {
		return f.err
	}
	return f.MemoryRepo.PutInterview(ctx, id, rec)
}

func (f *failingRepo) PutSurvey(ctx context.Context, id, t string, rec record.Record) error {
	f.writes++
	if f.err != nil {
		return f.err
	}
	return f.MemoryRepo.PutSurvey(ctx, id, t, rec)
}

func (f *failingRepo) ListSurveys(ctx context.Context) ([]record.StoredSurvey, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.MemoryRepo.ListSurveys(ctx)
}

func newFailingRepo() *failingRepo {
	return &failingRepo{MemoryRepo: repository.NewMemoryRepo()}
}

func TestSaveInterviewRoundTrip(t *testing.T) {
	repo := repository.NewMemoryRepo()
	svc := New(repo)
	ctx := context.Background()

	p := record.Record{"id": "iv-1", "answers": []any{"a", "b"}}
	require.NoError(t, svc.SaveInterview(ctx, p))

	got, err := repo.GetInterview(ctx, "iv-1")
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestSaveInterviewReplaces(t *testing.T) {
	repo := repository.NewMemoryRepo()
	svc := New(repo)
	ctx := context.Background()

	require.NoError(t, svc.SaveInterview(ctx, record.Record{"id": "x", "a": float64(1)}))
	require.NoError(t, svc.SaveInterview(ctx, record.Record{"id": "x", "a": float64(2)}))

	got, err := repo.GetInterview(ctx, "x")
	require.NoError(t, err)
	require.Equal(t, record.Record{"id": "x", "a": float64(2)}, got)
}

func TestSaveInterviewInvalid(t *testing.T) {
	repo := newFailingRepo()
	svc := New(repo)
	ctx := context.Background()

	for name, p := range map[string]record.Record{
		"nil":        nil,
		"empty":      {},
		"numeric id": {"id": float64(3)},
		"empty id":   {"id": ""},
		"path id":    {"id": "../../etc/passwd"},
	} {
		err := svc.SaveInterview(ctx, p)
		require.ErrorIs(t, err, record.ErrInvalidInput, name)
	}
	require.Zero(t, repo.writes, "invalid input must not reach storage")
}

func TestSaveInterviewStorageError(t *testing.T) {
	repo := newFailingRepo()
	repo.err = errors.New("disk full")
	svc := New(repo)

	err := svc.SaveInterview(context.Background(), record.Record{"id": "a"})
	var se *record.StorageError
	require.ErrorAs(t, err, &se)
	require.Contains(t, err.Error(), "disk full")
}

func TestSaveSurveyAssignsID(t *testing.T) {
	repo := repository.NewMemoryRepo()
	svc := New(repo, WithIDGenerator(func() string { return "generated-1" }))
	ctx := context.Background()

	p := record.Record{"name": "Bob"}
	id, err := svc.SaveSurvey(ctx, record.TypeEmployee, p)
	require.NoError(t, err)
	require.Equal(t, "generated-1", id)
	require.Equal(t, "generated-1", p["id"])

	stored, err := repo.GetSurvey(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "generated-1", stored.Payload["id"])
}

func TestSaveSurveyDefaultIDIsUUID(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	id1, err := svc.SaveSurvey(context.Background(), record.TypeCustomer, record.Record{"id": nil})
	require.NoError(t, err)
	id2, err := svc.SaveSurvey(context.Background(), record.TypeCustomer, record.Record{"id": ""})
	require.NoError(t, err)
	require.Len(t, id1, 36)
	require.NotEqual(t, id1, id2)
}

func TestSaveSurveyKeepsCallerID(t *testing.T) {
	svc := New(repository.NewMemoryRepo(), WithIDGenerator(func() string { t.Fatal("generator called"); return "" }))
	id, err := svc.SaveSurvey(context.Background(), record.TypeCustomer, record.Record{"id": "c1"})
	require.NoError(t, err)
	require.Equal(t, "c1", id)
}

func TestSaveSurveyInvalid(t *testing.T) {
	repo := newFailingRepo()
	svc := New(repo)
	ctx := context.Background()

	_, err := svc.SaveSurvey(ctx, record.TypeCustomer, nil)
	require.ErrorIs(t, err, record.ErrInvalidInput)
	_, err = svc.SaveSurvey(ctx, record.TypeCustomer, record.Record{"id": true})
	require.ErrorIs(t, err, record.ErrInvalidInput)
	_, err = svc.SaveSurvey(ctx, record.TypeCustomer, record.Record{"id": "a/b"})
	require.ErrorIs(t, err, record.ErrInvalidInput)
	require.Zero(t, repo.writes)
}

func TestListSurveysPartitions(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	ctx := context.Background()

	_, err := svc.SaveSurvey(ctx, record.TypeCustomer, record.Record{"id": "c1", "name": "Alice"})
	require.NoError(t, err)
	_, err = svc.SaveSurvey(ctx, record.TypeEmployee, record.Record{"id": "e1"})
	require.NoError(t, err)

	l, err := svc.ListSurveys(ctx)
	require.NoError(t, err)
	require.Len(t, l.Customer, 1)
	require.Equal(t, "c1", l.Customer[0]["id"])
	require.Len(t, l.Employee, 1)
	require.Equal(t, "e1", l.Employee[0]["id"])
	require.Nil(t, l.Interviews)
}

func TestListSurveysUnrecognizedTypeIsEmployee(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	ctx := context.Background()

	for id, typ := range map[string]string{"p1": "partner", "p2": "", "p3": "Customer"} {
		_, err := svc.SaveSurvey(ctx, typ, record.Record{"id": id})
		require.NoError(t, err)
	}

	l, err := svc.ListSurveys(ctx)
	require.NoError(t, err)
	require.Empty(t, l.Customer)
	require.Len(t, l.Employee, 3)
}

func TestListSurveysEmpty(t *testing.T) {
	l, err := New(repository.NewMemoryRepo()).ListSurveys(context.Background())
	require.NoError(t, err)
	require.NotNil(t, l.Customer)
	require.NotNil(t, l.Employee)
	require.Empty(t, l.Customer)
	require.Empty(t, l.Employee)
}

func TestListSurveysWithInterviews(t *testing.T) {
	svc := New(repository.NewMemoryRepo(), WithInterviews(true))
	ctx := context.Background()

	l, err := svc.ListSurveys(ctx)
	require.NoError(t, err)
	require.NotNil(t, l.Interviews)
	require.Empty(t, l.Interviews)

	require.NoError(t, svc.SaveInterview(ctx, record.Record{"id": "iv"}))
	l, err = svc.ListSurveys(ctx)
	require.NoError(t, err)
	require.Len(t, l.Interviews, 1)
}

func TestListSurveysStorageError(t *testing.T) {
	repo := newFailingRepo()
	repo.err = errors.New("connection reset")

	_, err := New(repo).ListSurveys(context.Background())
	var se *record.StorageError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "list_surveys", se.Op)
}
