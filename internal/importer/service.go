package importer

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/observability"
	"github.com/rize-social/rize/internal/tx"
	"github.com/rize-social/rize/internal/validation"
)

type JobStore interface {
	CreateJob(ctx context.Context, tx *sql.Tx, j *model.ImportJob) error
	GetJob(ctx context.Context, id string) (*model.ImportJob, error)
	MarkRunning(ctx context.Context, id string) (bool, error)
	Finish(ctx context.Context, tx *sql.Tx, id string, status model.ImportStatus, imported int, errMsg string) error
	InsertExperienceIfAbsent(ctx context.Context, tx *sql.Tx, e *model.Experience) (bool, error)
	InsertEducationIfAbsent(ctx context.Context, tx *sql.Tx, e *model.Education) (bool, error)
	SetSummaryIfEmpty(ctx context.Context, tx *sql.Tx, profileID, summary string) error
}

type OutboxWriter interface {
	InsertTx(ctx context.Context, tx *sql.Tx, aggregateType, aggregateID, eventType string, payload any) error
}

// Service accepts import requests. The work happens asynchronously in
// Handler once the outbox publishes the request.
type Service struct {
	Jobs   JobStore
	Outbox OutboxWriter
	Tx     tx.Transactor
}

// Request records a pending job and enqueues it in the same transaction.
func (s *Service) Request(ctx context.Context, p model.Principal, sourceURL string) (*model.ImportJob, error) {
	if p.Anonymous() {
		return nil, model.ErrUnauthorized
	}
	if p.ProfileID == "" {
		return nil, model.ErrProfileNotFound
	}
	sourceURL = strings.TrimSpace(sourceURL)
	if !validation.HTTPURL(sourceURL) {
		return nil, validation.Field("source_url", "must be an absolute http or https URL")
	}

	job := &model.ImportJob{
		ID:        uuid.NewString(),
		ProfileID: p.ProfileID,
		SourceURL: sourceURL,
		Status:    model.ImportPending,
	}
	err := s.Tx.WithTx(ctx, func(ctx context.Context, dbtx *sql.Tx) error {
		if err := s.Jobs.CreateJob(ctx, dbtx, job); err != nil {
			return err
		}
		return s.Outbox.InsertTx(ctx, dbtx, "import_job", job.ID, model.EventProfileImportRequested,
			model.ImportRequested{JobID: job.ID, ProfileID: job.ProfileID, SourceURL: job.SourceURL})
	})
	if err != nil {
		return nil, err
	}

	observability.GetLogger(ctx).Info("profile import requested",
		zap.String("job_id", job.ID),
		zap.String("profile_id", job.ProfileID),
	)
	return job, nil
}

// Get returns a job to the profile that requested it.
func (s *Service) Get(ctx context.Context, p model.Principal, id string) (*model.ImportJob, error) {
	if p.Anonymous() {
		return nil, model.ErrUnauthorized
	}
	job, err := s.Jobs.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Owns(job.ProfileID) {
		return nil, model.ErrForbidden
	}
	return job, nil
}
