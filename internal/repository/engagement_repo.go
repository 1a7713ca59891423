package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rize-social/rize/internal/model"
)

// EngagementRepo stores likes, bookmarks and comments. Like and bookmark
// writes are idempotent: presence of the row is the state.
type EngagementRepo struct{ DB *sql.DB }

func (r *EngagementRepo) Like(ctx context.Context, profileID, postID string) error {
	return r.insertPair(ctx, `
		INSERT INTO likes (profile_id, post_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, profileID, postID)
}

func (r *EngagementRepo) Unlike(ctx context.Context, profileID, postID string) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM likes WHERE profile_id = $1 AND post_id = $2`, profileID, postID)
	return err
}

func (r *EngagementRepo) Bookmark(ctx context.Context, profileID, postID string) error {
	return r.insertPair(ctx, `
		INSERT INTO bookmarks (profile_id, post_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, profileID, postID)
}

func (r *EngagementRepo) Unbookmark(ctx context.Context, profileID, postID string) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE profile_id = $1 AND post_id = $2`, profileID, postID)
	return err
}

func (r *EngagementRepo) insertPair(ctx context.Context, query, profileID, postID string) error {
	_, err := r.DB.ExecContext(ctx, query, profileID, postID)
	if foreignKeyViolation(err) {
		return model.ErrNotFound
	}
	return err
}

func (r *EngagementRepo) InsertComment(ctx context.Context, c *model.Comment) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO comments (id, post_id, profile_id, body, media_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, c.ID, c.PostID, c.ProfileID, c.Body, c.MediaID).Scan(&c.CreatedAt)
	if foreignKeyViolation(err) {
		return model.ErrNotFound
	}
	return err
}

// GetComment returns the comment together with the profile id of the post's
// author, which may also delete it.
func (r *EngagementRepo) GetComment(ctx context.Context, id string) (*model.Comment, string, error) {
	var (
		c          model.Comment
		postAuthor string
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT c.id, c.post_id, c.profile_id, c.body, c.media_id, c.created_at, p.profile_id
		FROM comments c
		JOIN posts p ON p.id = c.post_id
		WHERE c.id = $1
	`, id).Scan(&c.ID, &c.PostID, &c.ProfileID, &c.Body, &c.MediaID, &c.CreatedAt, &postAuthor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", model.ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return &c, postAuthor, nil
}

func (r *EngagementRepo) DeleteComment(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affectedOne(res, model.ErrNotFound)
}

// ListComments returns a post's comments oldest first with author and media.
func (r *EngagementRepo) ListComments(ctx context.Context, postID string, page model.Pagination) ([]model.CommentView, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.profile_id, c.body, c.media_id, c.created_at,
		       pr.username, pr.display_name, pr.profile_image,
		       CASE WHEN m.id IS NULL THEN NULL ELSE row_to_json(m) END
		FROM comments c
		JOIN profiles pr ON pr.id = c.profile_id
		LEFT JOIN media m ON m.id = c.media_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC, c.id
		LIMIT $2 OFFSET $3
	`, postID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.CommentView{}
	for rows.Next() {
		var (
			v     model.CommentView
			media []byte
		)
		if err := rows.Scan(&v.ID, &v.PostID, &v.ProfileID, &v.Body, &v.MediaID, &v.CreatedAt,
			&v.Author.Username, &v.Author.DisplayName, &v.Author.ProfileImage, &media); err != nil {
			return nil, err
		}
		v.Author.ProfileID = v.ProfileID
		if v.Media, err = decodeOptional[model.Media](media); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
