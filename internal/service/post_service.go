package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/observability"
	"github.com/rize-social/rize/internal/tx"
	"github.com/rize-social/rize/internal/validation"
)

// TopPostsLimit caps the ranked post strip on a profile.
const TopPostsLimit = 6

// PostService handles posts, feeds and engagement.
type PostService struct {
	Posts      PostStore
	Engagement EngagementStore
	Media      MediaStore
	Links      LinkFetcher
	Profiles   ProfileLookup
	Outbox     OutboxWriter
	Tx         tx.Transactor
}

// Create stores a post with its optional media and link preview in one
// transaction. If the link cannot be fetched nothing is stored.
func (s *PostService) Create(ctx context.Context, p model.Principal, in model.NewPost) (*model.PostView, error) {
	ctx, span := observability.Tracer().Start(ctx, "PostService.Create")
	defer span.End()

	if err := requireProfile(p); err != nil {
		return nil, err
	}
	in.Body = strings.TrimSpace(in.Body)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	post := &model.Post{
		ID:        uuid.NewString(),
		ProfileID: p.ProfileID,
		Body:      in.Body,
		MediaID:   in.MediaID,
	}
	err := s.Tx.WithTx(ctx, func(ctx context.Context, dbtx *sql.Tx) error {
		if post.MediaID != nil {
			ok, err := s.Media.AllOwnedBy(ctx, dbtx, p.ProfileID, []string{*post.MediaID})
			if err != nil {
				return err
			}
			if !ok {
				return model.ErrInvalidMedia
			}
		}
		if err := s.Posts.Insert(ctx, dbtx, post); err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
		if in.LinkURL != nil {
			meta, err := s.Links.Fetch(ctx, *in.LinkURL)
			if err != nil {
				return err
			}
			link := &model.PostLink{
				PostID:      post.ID,
				URL:         *in.LinkURL,
				Title:       meta.Title,
				Description: meta.Description,
				ImageURL:    meta.ImageURL,
				SiteName:    meta.SiteName,
			}
			if err := s.Posts.InsertLink(ctx, dbtx, link); err != nil {
				return fmt.Errorf("insert link: %w", err)
			}
		}
		return s.Outbox.InsertTx(ctx, dbtx, "post", post.ID, model.EventPostCreated, post)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("post.id", post.ID))

	return s.Posts.View(ctx, p, post.ID)
}

// Delete removes a post; only its author may.
func (s *PostService) Delete(ctx context.Context, p model.Principal, postID string) error {
	if err := requireProfile(p); err != nil {
		return err
	}
	post, err := s.Posts.Get(ctx, postID)
	if err != nil {
		return err
	}
	if !p.Owns(post.ProfileID) {
		return model.ErrForbidden
	}
	return s.Posts.Delete(ctx, postID)
}

func (s *PostService) Get(ctx context.Context, viewer model.Principal, postID string) (*model.PostView, error) {
	return s.Posts.View(ctx, viewer, postID)
}

// ListByUsername returns a profile's posts, newest first.
func (s *PostService) ListByUsername(ctx context.Context, viewer model.Principal, username string, page model.Pagination) ([]model.PostView, error) {
	profile, err := s.Profiles.GetByUsername(ctx, viewer, username)
	if err != nil {
		return nil, err
	}
	return s.Posts.ListByUsername(ctx, viewer, profile.Username, page.Normalize())
}

// Top returns a profile's most engaged posts.
func (s *PostService) Top(ctx context.Context, viewer model.Principal, username string) ([]model.PostView, error) {
	profile, err := s.Profiles.GetByUsername(ctx, viewer, username)
	if err != nil {
		return nil, err
	}
	return s.Posts.Top(ctx, viewer, profile.Username, TopPostsLimit)
}

// Feed returns recent posts of live profiles.
func (s *PostService) Feed(ctx context.Context, viewer model.Principal, before *time.Time, page model.Pagination) ([]model.PostView, error) {
	return s.Posts.Feed(ctx, viewer, before, page.Normalize())
}

// Bookmarked returns the caller's bookmarks, newest first.
func (s *PostService) Bookmarked(ctx context.Context, p model.Principal, page model.Pagination) ([]model.PostView, error) {
	if err := requireProfile(p); err != nil {
		return nil, err
	}
	return s.Posts.Bookmarked(ctx, p, page.Normalize())
}

// SetLike likes or unlikes a post. Repeating either is a no-op.
func (s *PostService) SetLike(ctx context.Context, p model.Principal, postID string, liked bool) error {
	if err := requireProfile(p); err != nil {
		return err
	}
	if liked {
		return s.Engagement.Like(ctx, p.ProfileID, postID)
	}
	return s.Engagement.Unlike(ctx, p.ProfileID, postID)
}

// SetBookmark bookmarks or unbookmarks a post. Repeating either is a no-op.
func (s *PostService) SetBookmark(ctx context.Context, p model.Principal, postID string, on bool) error {
	if err := requireProfile(p); err != nil {
		return err
	}
	if on {
		return s.Engagement.Bookmark(ctx, p.ProfileID, postID)
	}
	return s.Engagement.Unbookmark(ctx, p.ProfileID, postID)
}

func (s *PostService) AddComment(ctx context.Context, p model.Principal, postID string, in model.NewComment) (*model.Comment, error) {
	if err := requireProfile(p); err != nil {
		return nil, err
	}
	in.Body = strings.TrimSpace(in.Body)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.MediaID != nil {
		ok, err := s.Media.AllOwnedBy(ctx, nil, p.ProfileID, []string{*in.MediaID})
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, model.ErrInvalidMedia
		}
	}
	c := &model.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		ProfileID: p.ProfileID,
		Body:      in.Body,
		MediaID:   in.MediaID,
	}
	if err := s.Engagement.InsertComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteComment removes a comment. Its author and the post's author may.
func (s *PostService) DeleteComment(ctx context.Context, p model.Principal, commentID string) error {
	if err := requireProfile(p); err != nil {
		return err
	}
	c, postAuthor, err := s.Engagement.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if !p.Owns(c.ProfileID) && !p.Owns(postAuthor) {
		return model.ErrForbidden
	}
	return s.Engagement.DeleteComment(ctx, commentID)
}

func (s *PostService) ListComments(ctx context.Context, postID string, page model.Pagination) ([]model.CommentView, error) {
	return s.Engagement.ListComments(ctx, postID, page.Normalize())
}
