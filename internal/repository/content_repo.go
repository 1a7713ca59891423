package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/rize-social/rize/internal/model"
)

// ContentRepo stores the owner-managed collections of a profile. Positioned
// kinds append new rows after the current last position.
type ContentRepo struct{ DB *sql.DB }

var contentTables = map[model.ContentKind]string{
	model.KindGallery:       "gallery_items",
	model.KindWritings:      "pages",
	model.KindProjects:      "projects",
	model.KindEducation:     "education",
	model.KindExperience:    "experience",
	model.KindOrganizations: "organizations",
	model.KindStory:         "story_elements",
}

func contentTable(kind model.ContentKind) (string, error) {
	t, ok := contentTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown content kind %q", kind)
	}
	return t, nil
}

// nextPosition is an insert expression placing the row last; $2 must be the
// profile id.
func nextPosition(table string) string {
	return `COALESCE((SELECT MAX(position) + 1 FROM ` + table + ` WHERE profile_id = $2), 0)`
}

// OwnerOf returns the profile id owning the row.
func (r *ContentRepo) OwnerOf(ctx context.Context, kind model.ContentKind, id string) (string, error) {
	table, err := contentTable(kind)
	if err != nil {
		return "", err
	}
	var owner string
	err = r.DB.QueryRowContext(ctx, `SELECT profile_id FROM `+table+` WHERE id = $1`, id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", model.ErrNotFound
	}
	return owner, err
}

func (r *ContentRepo) Delete(ctx context.Context, kind model.ContentKind, id string) error {
	table, err := contentTable(kind)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affectedOne(res, model.ErrNotFound)
}

// PositionIDsForUpdate returns the ids of the profile's rows of kind in
// current position order and locks them for the transaction.
func (r *ContentRepo) PositionIDsForUpdate(ctx context.Context, tx *sql.Tx, kind model.ContentKind, profileID string) ([]string, error) {
	table, err := contentTable(kind)
	if err != nil {
		return nil, err
	}
	rows, err := getter(r.DB, tx).QueryContext(ctx, `
		SELECT id FROM `+table+`
		WHERE profile_id = $1
		ORDER BY position ASC, created_at DESC
		FOR UPDATE
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Reposition sets each row's position to its index in ids.
func (r *ContentRepo) Reposition(ctx context.Context, tx *sql.Tx, kind model.ContentKind, profileID string, ids []string) error {
	if !kind.Positioned() {
		return fmt.Errorf("%s has no position", kind)
	}
	table, err := contentTable(kind)
	if err != nil {
		return err
	}
	_, err = getter(r.DB, tx).ExecContext(ctx, `
		UPDATE `+table+` t
		SET position = o.ord - 1
		FROM unnest($2::uuid[]) WITH ORDINALITY AS o(id, ord)
		WHERE t.profile_id = $1 AND t.id = o.id
	`, profileID, pq.Array(ids))
	return err
}

// ───── Gallery ─────

func (r *ContentRepo) InsertGallery(ctx context.Context, g *model.GalleryItem) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO gallery_items (id, profile_id, media_id, caption, position)
		VALUES ($1, $2, $3, $4, `+nextPosition("gallery_items")+`)
		RETURNING position, created_at
	`, g.ID, g.ProfileID, g.MediaID, g.Caption).Scan(&g.Position, &g.CreatedAt)
}

func (r *ContentRepo) UpdateGallery(ctx context.Context, g *model.GalleryItem) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE gallery_items SET caption = $2 WHERE id = $1`, g.ID, g.Caption)
	if err != nil {
		return err
	}
	return affectedOne(res, model.ErrNotFound)
}

func (r *ContentRepo) ListGallery(ctx context.Context, profileID string) ([]model.GalleryView, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT g.id, g.profile_id, g.media_id, g.caption, g.position, g.created_at,
		       CASE WHEN m.id IS NULL THEN NULL ELSE row_to_json(m) END
		FROM gallery_items g
		LEFT JOIN media m ON m.id = g.media_id
		WHERE g.profile_id = $1
		ORDER BY g.position ASC, g.created_at DESC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.GalleryView{}
	for rows.Next() {
		var (
			v     model.GalleryView
			media []byte
		)
		if err := rows.Scan(&v.ID, &v.ProfileID, &v.MediaID, &v.Caption, &v.Position, &v.CreatedAt, &media); err != nil {
			return nil, err
		}
		if v.Media, err = decodeOptional[model.Media](media); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ───── Writings ─────

func (r *ContentRepo) InsertPage(ctx context.Context, p *model.Page) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO pages (id, profile_id, title, body, published)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, p.ID, p.ProfileID, p.Title, p.Body, p.Published).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *ContentRepo) UpdatePage(ctx context.Context, p *model.Page) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE pages SET title = $2, body = $3, published = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, p.ID, p.Title, p.Body, p.Published).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

// ListPages returns writings newest first; drafts only when includeDrafts.
func (r *ContentRepo) ListPages(ctx context.Context, profileID string, includeDrafts bool) ([]model.Page, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, profile_id, title, body, published, created_at, updated_at
		FROM pages
		WHERE profile_id = $1 AND (published OR $2::boolean)
		ORDER BY created_at DESC, id
	`, profileID, includeDrafts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Page{}
	for rows.Next() {
		var p model.Page
		if err := rows.Scan(&p.ID, &p.ProfileID, &p.Title, &p.Body, &p.Published, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ───── Projects ─────

func (r *ContentRepo) InsertProject(ctx context.Context, tx *sql.Tx, p *model.Project) error {
	return getter(r.DB, tx).QueryRowContext(ctx, `
		INSERT INTO projects (id, profile_id, title, description, url, position)
		VALUES ($1, $2, $3, $4, $5, `+nextPosition("projects")+`)
		RETURNING position, created_at
	`, p.ID, p.ProfileID, p.Title, p.Description, p.URL).Scan(&p.Position, &p.CreatedAt)
}

func (r *ContentRepo) UpdateProject(ctx context.Context, tx *sql.Tx, p *model.Project) error {
	err := getter(r.DB, tx).QueryRowContext(ctx, `
		UPDATE projects SET title = $2, description = $3, url = $4
		WHERE id = $1
		RETURNING position, created_at
	`, p.ID, p.Title, p.Description, p.URL).Scan(&p.Position, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

// SetProjectMedia replaces the project's attachments, keeping the given order.
func (r *ContentRepo) SetProjectMedia(ctx context.Context, tx *sql.Tx, projectID string, mediaIDs []string) error {
	q := getter(r.DB, tx)
	if _, err := q.ExecContext(ctx, `DELETE FROM project_media WHERE project_id = $1`, projectID); err != nil {
		return err
	}
	if len(mediaIDs) == 0 {
		return nil
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO project_media (project_id, media_id, position)
		SELECT $1::uuid, o.id, o.ord - 1
		FROM unnest($2::uuid[]) WITH ORDINALITY AS o(id, ord)
		ON CONFLICT DO NOTHING
	`, projectID, pq.Array(mediaIDs))
	return err
}

// ListProjects returns projects with their attachments folded in by a
// correlated json_agg; a project without media gets an empty slice.
func (r *ContentRepo) ListProjects(ctx context.Context, profileID string) ([]model.ProjectView, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT p.id, p.profile_id, p.title, p.description, p.url, p.position, p.created_at,
		       (SELECT json_agg(row_to_json(m) ORDER BY pm.position)
		        FROM project_media pm
		        JOIN media m ON m.id = pm.media_id
		        WHERE pm.project_id = p.id) AS attachments
		FROM projects p
		WHERE p.profile_id = $1
		ORDER BY p.position ASC, p.created_at DESC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ProjectView{}
	for rows.Next() {
		var (
			v           model.ProjectView
			attachments []byte
		)
		if err := rows.Scan(&v.ID, &v.ProfileID, &v.Title, &v.Description, &v.URL, &v.Position,
			&v.CreatedAt, &attachments); err != nil {
			return nil, err
		}
		if v.Attachments, err = decodeList[model.Media](attachments); err != nil {
			return nil, err
		}
		v.MediaIDs = make([]string, 0, len(v.Attachments))
		for _, m := range v.Attachments {
			v.MediaIDs = append(v.MediaIDs, m.ID)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
