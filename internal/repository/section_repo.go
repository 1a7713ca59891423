package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/rize-social/rize/internal/model"
)

// SectionRepo handles the per-profile section registry.
type SectionRepo struct{ DB *sql.DB }

// InsertDefaults creates the registry rows. The unique (profile_id, slug)
// index turns a repeated initialization into ErrSectionsExist.
func (r *SectionRepo) InsertDefaults(ctx context.Context, tx *sql.Tx, sections []model.Section) error {
	q := getter(r.DB, tx)
	for i := range sections {
		s := &sections[i]
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO sections (id, profile_id, slug, enabled, sort_order)
			VALUES ($1, $2, $3, $4, $5)
		`, s.ID, s.ProfileID, s.Slug, s.Enabled, s.Order)
		if _, ok := uniqueViolation(err); ok {
			return model.ErrSectionsExist
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *SectionRepo) List(ctx context.Context, profileID string) ([]model.Section, error) {
	return r.list(ctx, r.DB, `
		SELECT id, profile_id, slug, enabled, sort_order
		FROM sections
		WHERE profile_id = $1
		ORDER BY sort_order ASC, slug ASC
	`, profileID)
}

// ListForUpdate locks the profile's rows until the transaction ends so
// concurrent reorders and toggles serialize.
func (r *SectionRepo) ListForUpdate(ctx context.Context, tx *sql.Tx, profileID string) ([]model.Section, error) {
	return r.list(ctx, getter(r.DB, tx), `
		SELECT id, profile_id, slug, enabled, sort_order
		FROM sections
		WHERE profile_id = $1
		ORDER BY sort_order ASC, slug ASC
		FOR UPDATE
	`, profileID)
}

func (r *SectionRepo) list(ctx context.Context, q queryable, query, profileID string) ([]model.Section, error) {
	rows, err := q.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Section{}
	for rows.Next() {
		var s model.Section
		if err := rows.Scan(&s.ID, &s.ProfileID, &s.Slug, &s.Enabled, &s.Order); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SetOrder rewrites sort_order so each slug takes its index in ordered.
func (r *SectionRepo) SetOrder(ctx context.Context, tx *sql.Tx, profileID string, ordered []model.SectionSlug) error {
	_, err := getter(r.DB, tx).ExecContext(ctx, `
		UPDATE sections s
		SET sort_order = o.ord - 1
		FROM unnest($2::text[]) WITH ORDINALITY AS o(slug, ord)
		WHERE s.profile_id = $1 AND s.slug = o.slug
	`, profileID, pq.Array(slugStrings(ordered)))
	return err
}

// Toggle flips enabled for each named slug.
func (r *SectionRepo) Toggle(ctx context.Context, tx *sql.Tx, profileID string, slugs []model.SectionSlug) error {
	_, err := getter(r.DB, tx).ExecContext(ctx, `
		UPDATE sections
		SET enabled = NOT enabled
		WHERE profile_id = $1 AND slug = ANY($2::text[])
	`, profileID, pq.Array(slugStrings(slugs)))
	return err
}

// ContentPresence reports, per section, whether the profile has content the
// viewer can see. Draft writings count only when includeDrafts is set, as
// for the owner.
func (r *SectionRepo) ContentPresence(ctx context.Context, profileID string, includeDrafts bool) (map[model.SectionSlug]bool, error) {
	var gallery, posts, writings, projects, education, experience bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM gallery_items WHERE profile_id = $1),
			EXISTS (SELECT 1 FROM posts WHERE profile_id = $1),
			EXISTS (SELECT 1 FROM pages WHERE profile_id = $1 AND (published OR $2::boolean)),
			EXISTS (SELECT 1 FROM projects WHERE profile_id = $1),
			EXISTS (SELECT 1 FROM education WHERE profile_id = $1),
			EXISTS (SELECT 1 FROM experience WHERE profile_id = $1)
	`, profileID, includeDrafts).Scan(&gallery, &posts, &writings, &projects, &education, &experience)
	if err != nil {
		return nil, err
	}
	return map[model.SectionSlug]bool{
		model.SectionGallery:    gallery,
		model.SectionPosts:      posts,
		model.SectionWritings:   writings,
		model.SectionProjects:   projects,
		model.SectionEducation:  education,
		model.SectionExperience: experience,
	}, nil
}

func slugStrings(slugs []model.SectionSlug) []string {
	out := make([]string, len(slugs))
	for i, s := range slugs {
		out[i] = string(s)
	}
	return out
}
