package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rize-social/rize/internal/model"
)

type ProfileRepo struct{ DB *sql.DB }

const profileColumns = `id, user_id, username, display_name, bio, location, mission, philosophy,
	profile_image, onboarding_completed, walkthrough_completed, is_live, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*model.Profile, error) {
	p := &model.Profile{}
	err := row.Scan(&p.ID, &p.UserID, &p.Username, &p.DisplayName, &p.Bio, &p.Location,
		&p.Mission, &p.Philosophy, &p.ProfileImage, &p.OnboardingCompleted,
		&p.WalkthroughCompleted, &p.IsLive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepo) Create(ctx context.Context, tx *sql.Tx, p *model.Profile) error {
	q := getter(r.DB, tx)
	err := q.QueryRowContext(ctx, `
		INSERT INTO profiles (id, user_id, username, display_name, is_live)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING created_at, updated_at
	`, p.ID, p.UserID, p.Username, p.DisplayName).Scan(&p.CreatedAt, &p.UpdatedAt)
	if c, ok := uniqueViolation(err); ok {
		if strings.Contains(c, "user_id") {
			return model.ErrProfileExists
		}
		return model.ErrUsernameTaken
	}
	if err != nil {
		return err
	}
	p.IsLive = true
	return nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	return scanProfile(r.DB.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
}

func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	return scanProfile(r.DB.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
}

// GetByUsername matches case-insensitively; usernames are stored lowercased.
func (r *ProfileRepo) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	return scanProfile(r.DB.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE username = lower($1)`, username))
}

func (r *ProfileRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var ok bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE username = lower($1))`, username).Scan(&ok)
	return ok, err
}

func (r *ProfileRepo) Update(ctx context.Context, tx *sql.Tx, p *model.Profile) error {
	q := getter(r.DB, tx)
	err := q.QueryRowContext(ctx, `
		UPDATE profiles
		SET display_name = $2, bio = $3, location = $4, mission = $5, philosophy = $6,
		    profile_image = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, p.ID, p.DisplayName, p.Bio, p.Location, p.Mission, p.Philosophy, p.ProfileImage).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrProfileNotFound
	}
	return err
}

// ProfileFlag names a boolean profile column the owner can set.
type ProfileFlag string

const (
	FlagOnboarding  ProfileFlag = "onboarding_completed"
	FlagWalkthrough ProfileFlag = "walkthrough_completed"
	FlagLive        ProfileFlag = "is_live"
)

func (r *ProfileRepo) SetFlag(ctx context.Context, id string, flag ProfileFlag, value bool) error {
	switch flag {
	case FlagOnboarding, FlagWalkthrough, FlagLive:
	default:
		return fmt.Errorf("unknown profile flag %q", flag)
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE profiles SET `+string(flag)+` = $2, updated_at = NOW() WHERE id = $1`, id, value)
	if err != nil {
		return err
	}
	return affectedOne(res, model.ErrProfileNotFound)
}

// Delete removes the profile; owned rows go with it through ON DELETE CASCADE.
func (r *ProfileRepo) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := getter(r.DB, tx).ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affectedOne(res, model.ErrProfileNotFound)
}

// Search ranks live profiles against a web-search style query.
func (r *ProfileRepo) Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, username, display_name, profile_image, bio,
		       ts_rank(to_tsvector('simple', username || ' ' || display_name || ' ' || bio), q) AS rank
		FROM profiles, websearch_to_tsquery('simple', $1) AS q
		WHERE is_live
		  AND to_tsvector('simple', username || ' ' || display_name || ' ' || bio) @@ q
		ORDER BY rank DESC, username ASC
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.SearchResult{}
	for rows.Next() {
		var s model.SearchResult
		if err := rows.Scan(&s.ProfileID, &s.Username, &s.DisplayName, &s.ProfileImage, &s.Bio, &s.Rank); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
