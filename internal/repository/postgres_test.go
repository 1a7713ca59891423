package repository

import (
	"context"
	"database/sql"
	"net/url"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/schema"
)

// testDB migrates a fresh schema on the database named by
// RIZE_TEST_DATABASE_URL and drops it when the test ends. The URL must be in
// postgres:// form.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("RIZE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("postgres tests are disabled; set RIZE_TEST_DATABASE_URL to enable")
	}
	ctx := context.Background()

	admin, err := NewDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { admin.Close() })

	name := "rize_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err = admin.ExecContext(ctx, `CREATE SCHEMA `+name)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.ExecContext(context.Background(), `DROP SCHEMA `+name+` CASCADE`)
	})

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	q := u.Query()
	q.Set("search_path", name)
	u.RawQuery = q.Encode()

	db, err := NewDB(ctx, u.String())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, schema.Migrate(db, zap.NewNop()))
	return db
}

func createProfile(t *testing.T, db *sql.DB, username string) *model.Profile {
	t.Helper()
	p := &model.Profile{
		ID:          uuid.NewString(),
		UserID:      "user-" + username,
		Username:    username,
		DisplayName: strings.ToUpper(username[:1]) + username[1:],
	}
	require.NoError(t, (&ProfileRepo{DB: db}).Create(context.Background(), nil, p))
	return p
}

func createPost(t *testing.T, db *sql.DB, author *model.Profile, body string) *model.Post {
	t.Helper()
	p := &model.Post{ID: uuid.NewString(), ProfileID: author.ID, Body: body}
	require.NoError(t, (&PostRepo{DB: db}).Insert(context.Background(), nil, p))
	return p
}

func comment(t *testing.T, db *sql.DB, by *model.Profile, post *model.Post) {
	t.Helper()
	c := &model.Comment{ID: uuid.NewString(), PostID: post.ID, ProfileID: by.ID, Body: "nice"}
	require.NoError(t, (&EngagementRepo{DB: db}).InsertComment(context.Background(), c))
}

func viewerOf(p *model.Profile) model.Principal {
	return model.Principal{UserID: p.UserID, ProfileID: p.ID}
}

func findPost(t *testing.T, views []model.PostView, id string) model.PostView {
	t.Helper()
	for _, v := range views {
		if v.ID == id {
			return v
		}
	}
	t.Fatalf("post %s not in result", id)
	return model.PostView{}
}

func TestPostViews_CountsAndViewerFlags(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	posts := &PostRepo{DB: db}
	engagement := &EngagementRepo{DB: db}

	author := createProfile(t, db, "ada")
	alan := createProfile(t, db, "alan")
	grace := createProfile(t, db, "grace")
	linus := createProfile(t, db, "linus")

	busy := createPost(t, db, author, "busy")
	quiet := createPost(t, db, author, "quiet")

	require.NoError(t, engagement.Like(ctx, alan.ID, busy.ID))
	require.NoError(t, engagement.Like(ctx, grace.ID, busy.ID))
	comment(t, db, alan, busy)
	comment(t, db, grace, busy)
	comment(t, db, linus, busy)
	require.NoError(t, engagement.Bookmark(ctx, alan.ID, busy.ID))

	page := model.Pagination{Limit: 10}

	t.Run("anonymous viewer", func(t *testing.T) {
		views, err := posts.ListByUsername(ctx, model.Principal{}, "ada", page)
		require.NoError(t, err)
		require.Len(t, views, 2)

		v := findPost(t, views, busy.ID)
		assert.Equal(t, 2, v.LikeCount)
		assert.Equal(t, 3, v.CommentCount)
		assert.False(t, v.ViewerLiked)
		assert.False(t, v.ViewerCommented)
		assert.False(t, v.ViewerBookmarked)
		assert.Equal(t, "ada", v.Author.Username)
		assert.Nil(t, v.Media)
		assert.Nil(t, v.Link)

		q := findPost(t, views, quiet.ID)
		assert.Zero(t, q.LikeCount)
		assert.Zero(t, q.CommentCount)
	})

	t.Run("viewer who liked, commented and bookmarked", func(t *testing.T) {
		v, err := posts.View(ctx, viewerOf(alan), busy.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, v.LikeCount)
		assert.Equal(t, 3, v.CommentCount)
		assert.True(t, v.ViewerLiked)
		assert.True(t, v.ViewerCommented)
		assert.True(t, v.ViewerBookmarked)
	})

	t.Run("viewer who only commented", func(t *testing.T) {
		v, err := posts.View(ctx, viewerOf(linus), busy.ID)
		require.NoError(t, err)
		assert.False(t, v.ViewerLiked)
		assert.True(t, v.ViewerCommented)
		assert.False(t, v.ViewerBookmarked)
	})

	t.Run("top ranks by likes plus comments", func(t *testing.T) {
		views, err := posts.Top(ctx, model.Principal{}, "ada", 10)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, busy.ID, views[0].ID)
		assert.Equal(t, quiet.ID, views[1].ID)
	})

	t.Run("bookmarked", func(t *testing.T) {
		views, err := posts.Bookmarked(ctx, viewerOf(alan), page)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, busy.ID, views[0].ID)
		assert.Equal(t, 3, views[0].CommentCount)
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := posts.View(ctx, model.Principal{}, uuid.NewString())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestSectionRepo_SetOrder(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := &SectionRepo{DB: db}
	p := createProfile(t, db, "ada")

	require.NoError(t, repo.InsertDefaults(ctx, nil, model.DefaultSections(p.ID)))
	assert.ErrorIs(t, repo.InsertDefaults(ctx, nil, model.DefaultSections(p.ID)), model.ErrSectionsExist)

	initial, err := repo.List(ctx, p.ID)
	require.NoError(t, err)
	reversed := make([]model.SectionSlug, 0, len(initial))
	for _, s := range initial {
		reversed = append(reversed, s.Slug)
	}
	slices.Reverse(reversed)

	require.NoError(t, repo.SetOrder(ctx, nil, p.ID, reversed))

	got, err := repo.List(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got, len(reversed))
	for i, s := range got {
		assert.Equal(t, reversed[i], s.Slug)
		assert.Equal(t, i, s.Order)
	}
}

func TestContentRepo_ListProjects(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	content := &ContentRepo{DB: db}
	mediaRepo := &MediaRepo{DB: db}
	p := createProfile(t, db, "ada")

	bare := &model.Project{ID: uuid.NewString(), ProfileID: p.ID, Title: "bare"}
	require.NoError(t, content.InsertProject(ctx, nil, bare))

	shots := &model.Project{ID: uuid.NewString(), ProfileID: p.ID, Title: "shots"}
	require.NoError(t, content.InsertProject(ctx, nil, shots))

	var ids []string
	for range 2 {
		m := &model.Media{ID: uuid.NewString(), ProfileID: p.ID, Kind: model.MediaImage,
			URL: "https://cdn.example.com/x.png", Width: 10, Height: 10}
		require.NoError(t, mediaRepo.Insert(ctx, m))
		ids = append(ids, m.ID)
	}
	slices.Reverse(ids)
	require.NoError(t, content.SetProjectMedia(ctx, nil, shots.ID, ids))

	views, err := content.ListProjects(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byID := map[string]model.ProjectView{}
	for _, v := range views {
		byID[v.ID] = v
	}

	empty := byID[bare.ID]
	assert.NotNil(t, empty.Attachments)
	assert.Empty(t, empty.Attachments)
	assert.Empty(t, empty.MediaIDs)

	assert.Equal(t, ids, byID[shots.ID].MediaIDs)
	assert.Equal(t, model.MediaImage, byID[shots.ID].Attachments[0].Kind)
}

func TestSectionRepo_ContentPresence(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := &SectionRepo{DB: db}
	p := createProfile(t, db, "ada")

	draft := &model.Page{ID: uuid.NewString(), ProfileID: p.ID, Title: "draft"}
	require.NoError(t, (&ContentRepo{DB: db}).InsertPage(ctx, draft))
	createPost(t, db, p, "hello")

	visitor, err := repo.ContentPresence(ctx, p.ID, false)
	require.NoError(t, err)
	assert.False(t, visitor[model.SectionWritings])
	assert.True(t, visitor[model.SectionPosts])
	assert.False(t, visitor[model.SectionGallery])

	owner, err := repo.ContentPresence(ctx, p.ID, true)
	require.NoError(t, err)
	assert.True(t, owner[model.SectionWritings])
}
