package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/virginearth/survey-backend/internal/record"
	"github.com/virginearth/survey-backend/internal/record/repository"
	"github.com/virginearth/survey-backend/pkg/logger"
	"github.com/virginearth/survey-backend/pkg/metrics"
)

// Service implements the record operations used by the handler layer.
type Service struct {
	repo              repository.Repository
	newID             func() string
	includeInterviews bool
}

// Option customises a Service.
type Option func(*Service)

// WithIDGenerator replaces the UUID generator used for surveys without an id.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithInterviews adds interviews as a third group of the survey listing.
func WithInterviews(include bool) Option {
	return func(s *Service) { s.includeInterviews = include }
}

func New(repo repository.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, newID: uuid.NewString}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Ping reports whether the underlying store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func invalid(op, reason string) error {
	metrics.RecordErrors.WithLabelValues(op, "invalid").Inc()
	return fmt.Errorf("%w: %s", record.ErrInvalidInput, reason)
}

func storageFailure(op string, fields logrus.Fields, err error) error {
	metrics.RecordErrors.WithLabelValues(op, "storage").Inc()
	fields["op"] = op
	logger.WithFields(fields).Errorf("storage error: %v", err)
	return &record.StorageError{Op: op, Err: err}
}

// SaveInterview upserts payload into the interview collection under payload["id"].
func (s *Service) SaveInterview(ctx context.Context, payload record.Record) error {
	const op = "save_interview"
	if payload == nil {
		return invalid(op, "missing body")
	}
	id, ok := payload.ID()
	if !ok {
		return invalid(op, "missing id")
	}
	if !record.ValidKey(id) {
		return invalid(op, "id cannot be used as a key")
	}
	if err := s.repo.PutInterview(ctx, id, payload); err != nil {
		return storageFailure(op, logrus.Fields{"id": id}, err)
	}
	metrics.RecordsSaved.WithLabelValues(record.CollectionInterviews).Inc()
	logger.WithField("id", id).Debug("interview saved")
	return nil
}

// SaveSurvey upserts payload into the survey collection, assigning a fresh id when the
// payload has none. It returns the id the survey was stored under.
func (s *Service) SaveSurvey(ctx context.Context, surveyType string, payload record.Record) (string, error) {
	const op = "save_survey"
	if payload == nil {
		return "", invalid(op, "missing payload")
	}
	id, err := s.resolveID(payload)
	if err != nil {
		return "", invalid(op, err.Error())
	}
	if err := s.repo.PutSurvey(ctx, id, surveyType, payload); err != nil {
		return "", storageFailure(op, logrus.Fields{"id": id, "type": surveyType}, err)
	}
	metrics.RecordsSaved.WithLabelValues(record.CollectionSurveys).Inc()
	logger.WithFields(logrus.Fields{"id": id, "type": surveyType}).Debug("survey saved")
	return id, nil
}

// resolveID returns the payload id, generating and injecting one when it is
// absent, null or empty.
func (s *Service) resolveID(payload record.Record) (string, error) {
	v, present := payload["id"]
	if !present || v == nil || v == "" {
		id := s.newID()
		payload["id"] = id
		return id, nil
	}
	id, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("id must be a string")
	}
	if !record.ValidKey(id) {
		return "", fmt.Errorf("id cannot be used as a key")
	}
	return id, nil
}

// ListSurveys returns every survey partitioned by type tag. Only the exact tag
// "customer" selects the customer group; everything else is an employee survey.
func (s *Service) ListSurveys(ctx context.Context) (*record.Listing, error) {
	const op = "list_surveys"
	surveys, err := s.repo.ListSurveys(ctx)
	if err != nil {
		return nil, storageFailure(op, logrus.Fields{}, err)
	}
	out := &record.Listing{
		Customer: []record.Record{},
		Employee: []record.Record{},
	}
	for _, sv := range surveys {
		if sv.Type == record.TypeCustomer {
			out.Customer = append(out.Customer, sv.Payload)
		} else {
			out.Employee = append(out.Employee, sv.Payload)
		}
	}
	if s.includeInterviews {
		interviews, err := s.repo.ListInterviews(ctx)
		if err != nil {
			return nil, storageFailure(op, logrus.Fields{}, err)
		}
		out.Interviews = append([]record.Record{}, interviews...)
	}
	return out, nil
}
