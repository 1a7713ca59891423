package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rize-social/rize/internal/linkmeta"
	"github.com/rize-social/rize/internal/model"
)

var author = model.Principal{UserID: "user-1", ProfileID: "profile-1"}

func newMemPostService(db *memDB, links LinkFetcher) *PostService {
	return &PostService{
		Posts:      &memPosts{db: db},
		Engagement: &memEngagement{db: db},
		Media:      new(MockMedia),
		Links:      links,
		Outbox:     &memOutbox{db: db},
		Tx:         &memTx{db: db},
	}
}

func TestCreatePost_LinkFetchFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	links := new(MockLinks)
	svc := newMemPostService(db, links)

	url := "https://example.com/article"
	links.On("Fetch", mock.Anything, url).
		Return(linkmeta.Meta{}, fmt.Errorf("%w: status 500", model.ErrLinkFetch)).Once()

	_, err := svc.Create(ctx, author, model.NewPost{Body: "read this", LinkURL: &url})

	assert.ErrorIs(t, err, model.ErrLinkFetch)
	assert.Empty(t, db.posts, "post row must not persist")
	assert.Empty(t, db.links, "link row must not persist")
	assert.Empty(t, db.events, "no event may be enqueued")
	links.AssertExpectations(t)
}

func TestCreatePost_WithLink(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	links := new(MockLinks)
	svc := newMemPostService(db, links)

	url := "https://example.com/article"
	links.On("Fetch", mock.Anything, url).
		Return(linkmeta.Meta{Title: "Article", SiteName: "example.com"}, nil).Once()

	view, err := svc.Create(ctx, author, model.NewPost{Body: "  read this  ", LinkURL: &url})
	require.NoError(t, err)

	assert.Equal(t, "read this", view.Body)
	require.NotNil(t, view.Link)
	assert.Equal(t, "Article", view.Link.Title)
	assert.Len(t, db.posts, 1)
	assert.Len(t, db.links, 1)
	assert.Equal(t, []string{model.EventPostCreated}, db.events)
}

func TestCreatePost_ForeignMediaRejected(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	svc := newMemPostService(db, new(MockLinks))
	media := svc.Media.(*MockMedia)

	mediaID := "7f9c24e5-2f0e-4a35-9a3c-3f1c1a4b5d6e"
	media.On("AllOwnedBy", mock.Anything, mock.Anything, author.ProfileID, []string{mediaID}).Return(false, nil).Once()

	_, err := svc.Create(ctx, author, model.NewPost{MediaID: &mediaID})
	assert.ErrorIs(t, err, model.ErrInvalidMedia)
	assert.Empty(t, db.posts)
}

func TestCreatePost_Validation(t *testing.T) {
	svc := newMemPostService(newMemDB(), new(MockLinks))

	_, err := svc.Create(context.Background(), author, model.NewPost{Body: "   "})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Create(context.Background(), model.Principal{}, model.NewPost{Body: "hi"})
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestSetLike_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	db.posts["post-1"] = model.Post{ID: "post-1", ProfileID: "profile-2"}
	svc := newMemPostService(db, nil)

	require.NoError(t, svc.SetLike(ctx, author, "post-1", true))
	require.NoError(t, svc.SetLike(ctx, author, "post-1", true))

	view, err := svc.Posts.View(ctx, author, "post-1")
	require.NoError(t, err)
	assert.Equal(t, 1, view.LikeCount)
	assert.True(t, view.ViewerLiked)

	require.NoError(t, svc.SetLike(ctx, author, "post-1", false))
	require.NoError(t, svc.SetLike(ctx, author, "post-1", false))

	view, err = svc.Posts.View(ctx, author, "post-1")
	require.NoError(t, err)
	assert.Equal(t, 0, view.LikeCount)
	assert.False(t, view.ViewerLiked)
}

func TestSetLike_UnknownPost(t *testing.T) {
	svc := newMemPostService(newMemDB(), nil)
	err := svc.SetLike(context.Background(), author, "missing", true)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

type stubPosts struct {
	PostStore
	post *model.Post
	err  error
	del  []string
}

func (s *stubPosts) Get(context.Context, string) (*model.Post, error) { return s.post, s.err }
func (s *stubPosts) Delete(_ context.Context, id string) error {
	s.del = append(s.del, id)
	return nil
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()

	t.Run("author deletes", func(t *testing.T) {
		posts := &stubPosts{post: &model.Post{ID: "post-1", ProfileID: author.ProfileID}}
		svc := &PostService{Posts: posts}
		require.NoError(t, svc.Delete(ctx, author, "post-1"))
		assert.Equal(t, []string{"post-1"}, posts.del)
	})

	t.Run("other profile forbidden", func(t *testing.T) {
		posts := &stubPosts{post: &model.Post{ID: "post-1", ProfileID: "profile-2"}}
		svc := &PostService{Posts: posts}
		assert.ErrorIs(t, svc.Delete(ctx, author, "post-1"), model.ErrForbidden)
		assert.Empty(t, posts.del)
	})

	t.Run("missing post", func(t *testing.T) {
		svc := &PostService{Posts: &stubPosts{err: model.ErrNotFound}}
		assert.ErrorIs(t, svc.Delete(ctx, author, "nope"), model.ErrNotFound)
	})
}

func TestDeleteComment(t *testing.T) {
	ctx := context.Background()
	comment := &model.Comment{ID: "c1", PostID: "post-1", ProfileID: "commenter"}

	tests := []struct {
		name    string
		caller  model.Principal
		wantErr error
	}{
		{"comment author", model.Principal{UserID: "u", ProfileID: "commenter"}, nil},
		{"post author", model.Principal{UserID: "u", ProfileID: "post-owner"}, nil},
		{"bystander", model.Principal{UserID: "u", ProfileID: "someone"}, model.ErrForbidden},
		{"anonymous", model.Principal{}, model.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := new(MockEngagement)
			svc := &PostService{Engagement: eng}
			eng.On("GetComment", ctx, "c1").Return(comment, "post-owner", nil).Maybe()
			if tt.wantErr == nil {
				eng.On("DeleteComment", ctx, "c1").Return(nil).Once()
			}

			err := svc.DeleteComment(ctx, tt.caller, "c1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				eng.AssertNotCalled(t, "DeleteComment", mock.Anything, mock.Anything)
				return
			}
			assert.NoError(t, err)
			eng.AssertExpectations(t)
		})
	}
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	eng := new(MockEngagement)
	svc := &PostService{Engagement: eng, Media: new(MockMedia)}

	eng.On("InsertComment", ctx, mock.MatchedBy(func(c *model.Comment) bool {
		return c.PostID == "post-1" && c.ProfileID == author.ProfileID && c.Body == "nice"
	})).Return(nil).Once()

	c, err := svc.AddComment(ctx, author, "post-1", model.NewComment{Body: " nice "})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	eng.AssertExpectations(t)

	_, err = svc.AddComment(ctx, author, "post-1", model.NewComment{Body: ""})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestTop_UsesLimitAndVisibility(t *testing.T) {
	ctx := context.Background()
	lookup := new(MockLookup)
	posts := &topPosts{}
	svc := &PostService{Posts: posts, Profiles: lookup}

	lookup.On("GetByUsername", ctx, model.Principal{}, "ada").
		Return(&model.Profile{ID: "p", Username: "ada", IsLive: true}, nil).Once()
	lookup.On("GetByUsername", ctx, model.Principal{}, "hidden").
		Return(nil, model.ErrProfileNotFound).Once()

	_, err := svc.Top(ctx, model.Principal{}, "ada")
	require.NoError(t, err)
	assert.Equal(t, TopPostsLimit, posts.limit)

	_, err = svc.Top(ctx, model.Principal{}, "hidden")
	assert.True(t, errors.Is(err, model.ErrProfileNotFound))
}

type topPosts struct {
	PostStore
	limit int
}

func (p *topPosts) Top(_ context.Context, _ model.Principal, _ string, limit int) ([]model.PostView, error) {
	p.limit = limit
	return []model.PostView{}, nil
}
