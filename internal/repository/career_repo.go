package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rize-social/rize/internal/model"
)

// ───── Education ─────

func (r *ContentRepo) InsertEducation(ctx context.Context, tx *sql.Tx, e *model.Education) error {
	return getter(r.DB, tx).QueryRowContext(ctx, `
		INSERT INTO education (id, profile_id, school, degree, field, start_date, end_date, description, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, `+nextPosition("education")+`)
		RETURNING position, created_at
	`, e.ID, e.ProfileID, e.School, e.Degree, e.Field, e.StartDate, e.EndDate, e.Description).
		Scan(&e.Position, &e.CreatedAt)
}

func (r *ContentRepo) UpdateEducation(ctx context.Context, e *model.Education) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE education
		SET school = $2, degree = $3, field = $4, start_date = $5, end_date = $6, description = $7
		WHERE id = $1
		RETURNING position, created_at
	`, e.ID, e.School, e.Degree, e.Field, e.StartDate, e.EndDate, e.Description).
		Scan(&e.Position, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

func (r *ContentRepo) ListEducation(ctx context.Context, profileID string) ([]model.Education, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, profile_id, school, degree, field, start_date, end_date, description, position, created_at
		FROM education
		WHERE profile_id = $1
		ORDER BY position ASC, created_at DESC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Education{}
	for rows.Next() {
		var e model.Education
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.School, &e.Degree, &e.Field, &e.StartDate,
			&e.EndDate, &e.Description, &e.Position, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ───── Experience ─────

func (r *ContentRepo) InsertExperience(ctx context.Context, tx *sql.Tx, e *model.Experience) error {
	return getter(r.DB, tx).QueryRowContext(ctx, `
		INSERT INTO experience (id, profile_id, company, title, location, start_date, end_date, description, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, `+nextPosition("experience")+`)
		RETURNING position, created_at
	`, e.ID, e.ProfileID, e.Company, e.Title, e.Location, e.StartDate, e.EndDate, e.Description).
		Scan(&e.Position, &e.CreatedAt)
}

func (r *ContentRepo) UpdateExperience(ctx context.Context, e *model.Experience) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE experience
		SET company = $2, title = $3, location = $4, start_date = $5, end_date = $6, description = $7
		WHERE id = $1
		RETURNING position, created_at
	`, e.ID, e.Company, e.Title, e.Location, e.StartDate, e.EndDate, e.Description).
		Scan(&e.Position, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

func (r *ContentRepo) ListExperience(ctx context.Context, profileID string) ([]model.Experience, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, profile_id, company, title, location, start_date, end_date, description, position, created_at
		FROM experience
		WHERE profile_id = $1
		ORDER BY position ASC, created_at DESC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Experience{}
	for rows.Next() {
		var e model.Experience
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.Company, &e.Title, &e.Location, &e.StartDate,
			&e.EndDate, &e.Description, &e.Position, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ───── Organizations ─────

func (r *ContentRepo) InsertOrganization(ctx context.Context, o *model.Organization) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO organizations (id, profile_id, name, role, url, logo_url, position)
		VALUES ($1, $2, $3, $4, $5, $6, `+nextPosition("organizations")+`)
		RETURNING position, created_at
	`, o.ID, o.ProfileID, o.Name, o.Role, o.URL, o.LogoURL).Scan(&o.Position, &o.CreatedAt)
}

func (r *ContentRepo) UpdateOrganization(ctx context.Context, o *model.Organization) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE organizations SET name = $2, role = $3, url = $4, logo_url = $5
		WHERE id = $1
		RETURNING position, created_at
	`, o.ID, o.Name, o.Role, o.URL, o.LogoURL).Scan(&o.Position, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

func (r *ContentRepo) ListOrganizations(ctx context.Context, profileID string) ([]model.Organization, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, profile_id, name, role, url, logo_url, position, created_at
		FROM organizations
		WHERE profile_id = $1
		ORDER BY position ASC, created_at DESC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Organization{}
	for rows.Next() {
		var o model.Organization
		if err := rows.Scan(&o.ID, &o.ProfileID, &o.Name, &o.Role, &o.URL, &o.LogoURL,
			&o.Position, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ───── Story ─────

func (r *ContentRepo) InsertStory(ctx context.Context, s *model.StoryElement) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO story_elements (id, profile_id, title, body, media_id, position)
		VALUES ($1, $2, $3, $4, $5, `+nextPosition("story_elements")+`)
		RETURNING position, created_at
	`, s.ID, s.ProfileID, s.Title, s.Body, s.MediaID).Scan(&s.Position, &s.CreatedAt)
}

func (r *ContentRepo) UpdateStory(ctx context.Context, s *model.StoryElement) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE story_elements SET title = $2, body = $3, media_id = $4
		WHERE id = $1
		RETURNING position, created_at
	`, s.ID, s.Title, s.Body, s.MediaID).Scan(&s.Position, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

func (r *ContentRepo) ListStory(ctx context.Context, profileID string) ([]model.StoryElement, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, profile_id, title, body, media_id, position, created_at
		FROM story_elements
		WHERE profile_id = $1
		ORDER BY position ASC, created_at DESC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.StoryElement{}
	for rows.Next() {
		var s model.StoryElement
		if err := rows.Scan(&s.ID, &s.ProfileID, &s.Title, &s.Body, &s.MediaID, &s.Position, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
