package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rize-social/rize/internal/model"
)

// PostRepo handles posts, their link previews, and the engagement-enriched
// feed queries.
type PostRepo struct{ DB *sql.DB }

func (r *PostRepo) Insert(ctx context.Context, tx *sql.Tx, p *model.Post) error {
	return getter(r.DB, tx).QueryRowContext(ctx, `
		INSERT INTO posts (id, profile_id, body, media_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, p.ID, p.ProfileID, p.Body, p.MediaID).Scan(&p.CreatedAt)
}

func (r *PostRepo) InsertLink(ctx context.Context, tx *sql.Tx, l *model.PostLink) error {
	_, err := getter(r.DB, tx).ExecContext(ctx, `
		INSERT INTO post_links (post_id, url, title, description, image_url, site_name)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, l.PostID, l.URL, l.Title, l.Description, l.ImageURL, l.SiteName)
	return err
}

func (r *PostRepo) Get(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, profile_id, body, media_id, created_at FROM posts WHERE id = $1
	`, id).Scan(&p.ID, &p.ProfileID, &p.Body, &p.MediaID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return &p, err
}

func (r *PostRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affectedOne(res, model.ErrNotFound)
}

// postView selects posts with author, optional media and link folded into
// JSON objects (NULL when absent), engagement counts, and flags relative to
// the viewer in $1. A NULL viewer makes every flag false.
func postView(join, where, orderBy string) string {
	return `
		SELECT p.id, p.profile_id, p.body, p.media_id, p.created_at,
		       pr.username, pr.display_name, pr.profile_image,
		       CASE WHEN m.id IS NULL THEN NULL ELSE json_build_object(
		           'id', m.id, 'profile_id', m.profile_id, 'kind', m.kind, 'url', m.url,
		           'width', m.width, 'height', m.height, 'created_at', m.created_at) END AS media,
		       CASE WHEN l.post_id IS NULL THEN NULL ELSE json_build_object(
		           'url', l.url, 'title', l.title, 'description', l.description,
		           'image_url', l.image_url, 'site_name', l.site_name) END AS link,
		       COUNT(DISTINCT lk.profile_id) AS like_count,
		       COUNT(DISTINCT c.id) AS comment_count,
		       COALESCE(BOOL_OR(lk.profile_id = $1::uuid), FALSE) AS viewer_liked,
		       COALESCE(BOOL_OR(c.profile_id = $1::uuid), FALSE) AS viewer_commented,
		       EXISTS (SELECT 1 FROM bookmarks b WHERE b.post_id = p.id AND b.profile_id = $1::uuid) AS viewer_bookmarked
		FROM posts p
		JOIN profiles pr ON pr.id = p.profile_id
		` + join + `
		LEFT JOIN media m ON m.id = p.media_id
		LEFT JOIN post_links l ON l.post_id = p.id
		LEFT JOIN likes lk ON lk.post_id = p.id
		LEFT JOIN comments c ON c.post_id = p.id
		WHERE ` + where + `
		GROUP BY p.id, pr.id, m.id, l.post_id
		ORDER BY ` + orderBy + `
		LIMIT $3 OFFSET $4`
}

var (
	postsByProfileQuery = postView("", "pr.username = lower($2)", "p.created_at DESC, p.id")
	topPostsQuery       = postView("", "pr.username = lower($2)",
		"(COUNT(DISTINCT c.id) + COUNT(DISTINCT lk.profile_id)) DESC, p.created_at DESC, p.id")
	feedQuery = postView("", "pr.is_live AND ($2::timestamptz IS NULL OR p.created_at < $2::timestamptz)",
		"p.created_at DESC, p.id")
	bookmarkedQuery = postView("JOIN bookmarks bm ON bm.post_id = p.id AND bm.profile_id = $2::uuid", "TRUE",
		"MAX(bm.created_at) DESC, p.id")
	postByIDQuery = postView("", "p.id = $2::uuid", "p.id")
)

// ListByUsername returns the profile's posts, newest first.
func (r *PostRepo) ListByUsername(ctx context.Context, viewer model.Principal, username string, page model.Pagination) ([]model.PostView, error) {
	return r.queryViews(ctx, postsByProfileQuery, viewer.ViewerProfileID(), username, page.Limit, page.Offset)
}

// Top returns the profile's posts ranked by likes plus comments.
func (r *PostRepo) Top(ctx context.Context, viewer model.Principal, username string, limit int) ([]model.PostView, error) {
	return r.queryViews(ctx, topPostsQuery, viewer.ViewerProfileID(), username, limit, 0)
}

// Feed returns posts of live profiles, newest first. A non-nil before limits
// the page to posts created strictly earlier.
func (r *PostRepo) Feed(ctx context.Context, viewer model.Principal, before *time.Time, page model.Pagination) ([]model.PostView, error) {
	return r.queryViews(ctx, feedQuery, viewer.ViewerProfileID(), before, page.Limit, page.Offset)
}

// Bookmarked returns the posts the viewer bookmarked, newest bookmark first.
func (r *PostRepo) Bookmarked(ctx context.Context, viewer model.Principal, page model.Pagination) ([]model.PostView, error) {
	return r.queryViews(ctx, bookmarkedQuery, viewer.ViewerProfileID(), viewer.ProfileID, page.Limit, page.Offset)
}

func (r *PostRepo) View(ctx context.Context, viewer model.Principal, id string) (*model.PostView, error) {
	views, err := r.queryViews(ctx, postByIDQuery, viewer.ViewerProfileID(), id, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, model.ErrNotFound
	}
	return &views[0], nil
}

func (r *PostRepo) queryViews(ctx context.Context, query string, args ...any) ([]model.PostView, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	out := []model.PostView{}
	for rows.Next() {
		var (
			v           model.PostView
			media, link []byte
		)
		if err := rows.Scan(
			&v.ID, &v.ProfileID, &v.Body, &v.MediaID, &v.CreatedAt,
			&v.Author.Username, &v.Author.DisplayName, &v.Author.ProfileImage,
			&media, &link,
			&v.LikeCount, &v.CommentCount,
			&v.ViewerLiked, &v.ViewerCommented, &v.ViewerBookmarked,
		); err != nil {
			return nil, err
		}
		v.Author.ProfileID = v.ProfileID
		if v.Media, err = decodeOptional[model.Media](media); err != nil {
			return nil, err
		}
		if v.Link, err = decodeOptional[model.PostLink](link); err != nil {
			return nil, err
		}
		if v.Link != nil {
			v.Link.PostID = v.ID
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// decodeOptional decodes a nullable JSON column into *T, nil for SQL NULL.
func decodeOptional[T any](raw []byte) (*T, error) {
	if raw == nil {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %T: %w", v, err)
	}
	return &v, nil
}

// decodeList decodes a JSON array column into []T, empty for SQL NULL.
func decodeList[T any](raw []byte) ([]T, error) {
	out := []T{}
	if raw == nil {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode []%T: %w", *new(T), err)
	}
	return out, nil
}
