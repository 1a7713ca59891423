package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/rize-social/rize/internal/linkmeta"
	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/repository"
)

// Storage contracts the services depend on. The repository package provides
// the Postgres implementations; tests provide mocks and fakes.

type ProfileStore interface {
	Create(ctx context.Context, tx *sql.Tx, p *model.Profile) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	GetByUsername(ctx context.Context, username string) (*model.Profile, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, tx *sql.Tx, p *model.Profile) error
	SetFlag(ctx context.Context, id string, flag repository.ProfileFlag, value bool) error
	Delete(ctx context.Context, tx *sql.Tx, id string) error
	Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error)
}

type SectionStore interface {
	InsertDefaults(ctx context.Context, tx *sql.Tx, sections []model.Section) error
	List(ctx context.Context, profileID string) ([]model.Section, error)
	ListForUpdate(ctx context.Context, tx *sql.Tx, profileID string) ([]model.Section, error)
	SetOrder(ctx context.Context, tx *sql.Tx, profileID string, ordered []model.SectionSlug) error
	Toggle(ctx context.Context, tx *sql.Tx, profileID string, slugs []model.SectionSlug) error
	ContentPresence(ctx context.Context, profileID string, includeDrafts bool) (map[model.SectionSlug]bool, error)
}

type MediaStore interface {
	Insert(ctx context.Context, m *model.Media) error
	Get(ctx context.Context, id string) (*model.Media, error)
	AllOwnedBy(ctx context.Context, tx *sql.Tx, profileID string, ids []string) (bool, error)
}

type PostStore interface {
	Insert(ctx context.Context, tx *sql.Tx, p *model.Post) error
	InsertLink(ctx context.Context, tx *sql.Tx, l *model.PostLink) error
	Get(ctx context.Context, id string) (*model.Post, error)
	Delete(ctx context.Context, id string) error
	View(ctx context.Context, viewer model.Principal, id string) (*model.PostView, error)
	ListByUsername(ctx context.Context, viewer model.Principal, username string, page model.Pagination) ([]model.PostView, error)
	Top(ctx context.Context, viewer model.Principal, username string, limit int) ([]model.PostView, error)
	Feed(ctx context.Context, viewer model.Principal, before *time.Time, page model.Pagination) ([]model.PostView, error)
	Bookmarked(ctx context.Context, viewer model.Principal, page model.Pagination) ([]model.PostView, error)
}

type EngagementStore interface {
	Like(ctx context.Context, profileID, postID string) error
	Unlike(ctx context.Context, profileID, postID string) error
	Bookmark(ctx context.Context, profileID, postID string) error
	Unbookmark(ctx context.Context, profileID, postID string) error
	InsertComment(ctx context.Context, c *model.Comment) error
	GetComment(ctx context.Context, id string) (*model.Comment, string, error)
	DeleteComment(ctx context.Context, id string) error
	ListComments(ctx context.Context, postID string, page model.Pagination) ([]model.CommentView, error)
}

type ContentStore interface {
	OwnerOf(ctx context.Context, kind model.ContentKind, id string) (string, error)
	Delete(ctx context.Context, kind model.ContentKind, id string) error
	PositionIDsForUpdate(ctx context.Context, tx *sql.Tx, kind model.ContentKind, profileID string) ([]string, error)
	Reposition(ctx context.Context, tx *sql.Tx, kind model.ContentKind, profileID string, ids []string) error

	InsertGallery(ctx context.Context, g *model.GalleryItem) error
	UpdateGallery(ctx context.Context, g *model.GalleryItem) error
	ListGallery(ctx context.Context, profileID string) ([]model.GalleryView, error)

	InsertPage(ctx context.Context, p *model.Page) error
	UpdatePage(ctx context.Context, p *model.Page) error
	ListPages(ctx context.Context, profileID string, includeDrafts bool) ([]model.Page, error)

	InsertProject(ctx context.Context, tx *sql.Tx, p *model.Project) error
	UpdateProject(ctx context.Context, tx *sql.Tx, p *model.Project) error
	SetProjectMedia(ctx context.Context, tx *sql.Tx, projectID string, mediaIDs []string) error
	ListProjects(ctx context.Context, profileID string) ([]model.ProjectView, error)

	InsertEducation(ctx context.Context, tx *sql.Tx, e *model.Education) error
	UpdateEducation(ctx context.Context, e *model.Education) error
	ListEducation(ctx context.Context, profileID string) ([]model.Education, error)

	InsertExperience(ctx context.Context, tx *sql.Tx, e *model.Experience) error
	UpdateExperience(ctx context.Context, e *model.Experience) error
	ListExperience(ctx context.Context, profileID string) ([]model.Experience, error)

	InsertOrganization(ctx context.Context, o *model.Organization) error
	UpdateOrganization(ctx context.Context, o *model.Organization) error
	ListOrganizations(ctx context.Context, profileID string) ([]model.Organization, error)

	InsertStory(ctx context.Context, s *model.StoryElement) error
	UpdateStory(ctx context.Context, s *model.StoryElement) error
	ListStory(ctx context.Context, profileID string) ([]model.StoryElement, error)
}

type SocialStore interface {
	Upsert(ctx context.Context, l *model.SocialLink) error
	Delete(ctx context.Context, profileID string, platform model.Platform) error
	List(ctx context.Context, profileID string) ([]model.SocialLink, error)
}

type OutboxWriter interface {
	InsertTx(ctx context.Context, tx *sql.Tx, aggregateType, aggregateID, eventType string, payload any) error
}

type ProfileCache interface {
	Get(ctx context.Context, username string) (*model.Profile, error)
	Set(ctx context.Context, p *model.Profile) error
	Delete(ctx context.Context, username string) error
}

type SectionCache interface {
	Get(ctx context.Context, profileID string) ([]model.Section, error)
	Set(ctx context.Context, profileID string, sections []model.Section) error
	Delete(ctx context.Context, profileID string) error
}

type LinkFetcher interface {
	Fetch(ctx context.Context, url string) (linkmeta.Meta, error)
}

type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	URL(key string) string
}

// ProfileLookup resolves a username to a profile the viewer may see.
type ProfileLookup interface {
	GetByUsername(ctx context.Context, viewer model.Principal, username string) (*model.Profile, error)
}

// requireProfile rejects anonymous principals and users who have not claimed
// a profile yet.
func requireProfile(p model.Principal) error {
	if p.Anonymous() {
		return model.ErrUnauthorized
	}
	if p.ProfileID == "" {
		return model.ErrProfileNotFound
	}
	return nil
}

// authorize checks that p may write to profileID.
func authorize(p model.Principal, profileID string) error {
	if p.Anonymous() {
		return model.ErrUnauthorized
	}
	if !p.Owns(profileID) {
		return model.ErrForbidden
	}
	return nil
}
