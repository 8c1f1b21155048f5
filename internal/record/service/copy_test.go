package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/virginearth/survey-backend/internal/record"
	"github.com/virginearth/survey-backend/internal/record/repository"
)

func TestCopyRecords(t *testing.T) {
	ctx := context.Background()
	src, err := repository.NewFileRepo(t.TempDir())
	require.NoError(t, err)
	dst := repository.NewMemoryRepo()

	require.NoError(t, src.PutInterview(ctx, "iv1", record.Record{"id": "iv1", "text": "hello"}))
	require.NoError(t, src.PutSurvey(ctx, "c1", record.TypeCustomer, record.Record{"id": "c1"}))
	require.NoError(t, src.PutSurvey(ctx, "e1", record.TypeEmployee, record.Record{"id": "e1"}))
	// stored under a filename but without an id field
	require.NoError(t, src.PutSurvey(ctx, "orphan", record.TypeEmployee, record.Record{"name": "x"}))

	stats, err := CopyRecords(ctx, src, dst)
	require.NoError(t, err)
	require.Equal(t, CopyStats{Interviews: 1, Surveys: 2, Skipped: 1}, stats)

	iv, err := dst.GetInterview(ctx, "iv1")
	require.NoError(t, err)
	require.Equal(t, "hello", iv["text"])

	c1, err := dst.GetSurvey(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, record.TypeCustomer, c1.Type)
}
