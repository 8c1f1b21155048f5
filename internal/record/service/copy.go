package service

import (
	"context"
	"fmt"

	"github.com/virginearth/survey-backend/internal/record"
	"github.com/virginearth/survey-backend/internal/record/repository"
	"github.com/virginearth/survey-backend/pkg/logger"
)

// CopyStats summarises a CopyRecords run.
type CopyStats struct {
	Interviews int
	Surveys    int
	Skipped    int
}

// CopyRecords upserts every interview and survey of src into dst. Records whose id
// cannot be used as a key are skipped and counted.
func CopyRecords(ctx context.Context, src, dst repository.Repository) (CopyStats, error) {
	var stats CopyStats

	interviews, err := src.ListInterviews(ctx)
	if err != nil {
		return stats, fmt.Errorf("read interviews: %w", err)
	}
	for _, rec := range interviews {
		id, ok := rec.ID()
		if !ok || !record.ValidKey(id) {
			logger.Warnf("skipping interview without usable id: %v", rec["id"])
			stats.Skipped++
			continue
		}
		if err := dst.PutInterview(ctx, id, rec); err != nil {
			return stats, fmt.Errorf("write interview %s: %w", id, err)
		}
		stats.Interviews++
	}

	surveys, err := src.ListSurveys(ctx)
	if err != nil {
		return stats, fmt.Errorf("read surveys: %w", err)
	}
	for _, sv := range surveys {
		id, ok := sv.Payload.ID()
		if !ok || !record.ValidKey(id) {
			logger.Warnf("skipping survey without usable id: %v", sv.Payload["id"])
			stats.Skipped++
			continue
		}
		if err := dst.PutSurvey(ctx, id, sv.Type, sv.Payload); err != nil {
			return stats, fmt.Errorf("write survey %s: %w", id, err)
		}
		stats.Surveys++
	}
	return stats, nil
}
