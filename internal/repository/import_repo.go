package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rize-social/rize/internal/model"
)

// ImportRepo tracks profile import jobs and performs their idempotent writes.
type ImportRepo struct{ DB *sql.DB }

func (r *ImportRepo) CreateJob(ctx context.Context, tx *sql.Tx, j *model.ImportJob) error {
	return getter(r.DB, tx).QueryRowContext(ctx, `
		INSERT INTO import_jobs (id, profile_id, source_url, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, j.ID, j.ProfileID, j.SourceURL, j.Status).Scan(&j.CreatedAt)
}

func (r *ImportRepo) GetJob(ctx context.Context, id string) (*model.ImportJob, error) {
	var j model.ImportJob
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, profile_id, source_url, status, attempts, error, imported, created_at, finished_at
		FROM import_jobs WHERE id = $1
	`, id).Scan(&j.ID, &j.ProfileID, &j.SourceURL, &j.Status, &j.Attempts, &j.Error,
		&j.Imported, &j.CreatedAt, &j.FinishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return &j, err
}

// MarkRunning moves a job to running and counts the attempt. A job that
// already succeeded is left alone and reported with ok=false.
func (r *ImportRepo) MarkRunning(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE import_jobs
		SET status = $2, attempts = attempts + 1, error = ''
		WHERE id = $1 AND status <> $3
	`, id, model.ImportRunning, model.ImportSucceeded)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *ImportRepo) Finish(ctx context.Context, tx *sql.Tx, id string, status model.ImportStatus, imported int, errMsg string) error {
	_, err := getter(r.DB, tx).ExecContext(ctx, `
		UPDATE import_jobs
		SET status = $2, imported = $3, error = $4, finished_at = NOW()
		WHERE id = $1
	`, id, status, imported, errMsg)
	return err
}

// InsertExperienceIfAbsent inserts e unless a row with the same company,
// title and start date exists for the profile.
func (r *ImportRepo) InsertExperienceIfAbsent(ctx context.Context, tx *sql.Tx, e *model.Experience) (bool, error) {
	res, err := getter(r.DB, tx).ExecContext(ctx, `
		INSERT INTO experience (id, profile_id, company, title, location, start_date, end_date, description, position)
		SELECT $1::uuid, $2::uuid, $3::text, $4::text, $5::text, $6::date, $7::date, $8::text, `+nextPosition("experience")+`
		WHERE NOT EXISTS (
			SELECT 1 FROM experience
			WHERE profile_id = $2 AND company = $3 AND title = $4
			  AND start_date IS NOT DISTINCT FROM $6::date
		)
	`, e.ID, e.ProfileID, e.Company, e.Title, e.Location, e.StartDate, e.EndDate, e.Description)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// InsertEducationIfAbsent inserts e unless a row with the same school,
// degree and start date exists for the profile.
func (r *ImportRepo) InsertEducationIfAbsent(ctx context.Context, tx *sql.Tx, e *model.Education) (bool, error) {
	res, err := getter(r.DB, tx).ExecContext(ctx, `
		INSERT INTO education (id, profile_id, school, degree, field, start_date, end_date, description, position)
		SELECT $1::uuid, $2::uuid, $3::text, $4::text, $5::text, $6::date, $7::date, $8::text, `+nextPosition("education")+`
		WHERE NOT EXISTS (
			SELECT 1 FROM education
			WHERE profile_id = $2 AND school = $3 AND degree = $4
			  AND start_date IS NOT DISTINCT FROM $6::date
		)
	`, e.ID, e.ProfileID, e.School, e.Degree, e.Field, e.StartDate, e.EndDate, e.Description)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// SetSummaryIfEmpty fills the profile bio from an import without
// overwriting one the owner wrote.
func (r *ImportRepo) SetSummaryIfEmpty(ctx context.Context, tx *sql.Tx, profileID, summary string) error {
	_, err := getter(r.DB, tx).ExecContext(ctx, `
		UPDATE profiles SET bio = $2, updated_at = NOW()
		WHERE id = $1 AND bio = ''
	`, profileID, summary)
	return err
}
