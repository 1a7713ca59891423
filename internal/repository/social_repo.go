package repository

import (
	"context"
	"database/sql"

	"github.com/rize-social/rize/internal/model"
)

type SocialRepo struct{ DB *sql.DB }

// Upsert stores the link, replacing the URL of an existing row for the same
// platform. The returned id is that of the surviving row.
func (r *SocialRepo) Upsert(ctx context.Context, l *model.SocialLink) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO social_links (id, profile_id, platform, url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (profile_id, platform)
		DO UPDATE SET url = EXCLUDED.url, updated_at = NOW()
		RETURNING id, updated_at
	`, l.ID, l.ProfileID, l.Platform, l.URL).Scan(&l.ID, &l.UpdatedAt)
}

func (r *SocialRepo) Delete(ctx context.Context, profileID string, platform model.Platform) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM social_links WHERE profile_id = $1 AND platform = $2`, profileID, platform)
	if err != nil {
		return err
	}
	return affectedOne(res, model.ErrNotFound)
}

func (r *SocialRepo) List(ctx context.Context, profileID string) ([]model.SocialLink, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, profile_id, platform, url, updated_at
		FROM social_links
		WHERE profile_id = $1
		ORDER BY platform ASC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.SocialLink{}
	for rows.Next() {
		var l model.SocialLink
		if err := rows.Scan(&l.ID, &l.ProfileID, &l.Platform, &l.URL, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
