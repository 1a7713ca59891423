package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/rize-social/rize/internal/model"
)

type MediaRepo struct{ DB *sql.DB }

func (r *MediaRepo) Insert(ctx context.Context, m *model.Media) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO media (id, profile_id, kind, url, width, height)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, m.ID, m.ProfileID, m.Kind, m.URL, m.Width, m.Height).Scan(&m.CreatedAt)
}

func (r *MediaRepo) Get(ctx context.Context, id string) (*model.Media, error) {
	var m model.Media
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, profile_id, kind, url, width, height, created_at FROM media WHERE id = $1
	`, id).Scan(&m.ID, &m.ProfileID, &m.Kind, &m.URL, &m.Width, &m.Height, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return &m, err
}

// AllOwnedBy reports whether every id names media uploaded by profileID.
func (r *MediaRepo) AllOwnedBy(ctx context.Context, tx *sql.Tx, profileID string, ids []string) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	var n int
	err := getter(r.DB, tx).QueryRowContext(ctx, `
		SELECT count(DISTINCT id) FROM media WHERE profile_id = $1 AND id = ANY($2::uuid[])
	`, profileID, pq.Array(ids)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n == len(dedupe(ids)), nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
