package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/rize-social/rize/internal/linkmeta"
	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/repository"
)

// MockTransactor runs fn without a transaction.
type MockTransactor struct{}

func (m *MockTransactor) WithTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	return fn(ctx, nil)
}

type MockProfileRepo struct{ mock.Mock }

func (m *MockProfileRepo) Create(ctx context.Context, tx *sql.Tx, p *model.Profile) error {
	return m.Called(ctx, tx, p).Error(0)
}
func (m *MockProfileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	return profileResult(m.Called(ctx, id))
}
func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	return profileResult(m.Called(ctx, userID))
}
func (m *MockProfileRepo) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	return profileResult(m.Called(ctx, username))
}
func (m *MockProfileRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}
func (m *MockProfileRepo) Update(ctx context.Context, tx *sql.Tx, p *model.Profile) error {
	return m.Called(ctx, tx, p).Error(0)
}
func (m *MockProfileRepo) SetFlag(ctx context.Context, id string, flag repository.ProfileFlag, value bool) error {
	return m.Called(ctx, id, flag, value).Error(0)
}
func (m *MockProfileRepo) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	return m.Called(ctx, tx, id).Error(0)
}
func (m *MockProfileRepo) Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]model.SearchResult), args.Error(1)
}

func profileResult(args mock.Arguments) (*model.Profile, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

type MockProfileCache struct{ mock.Mock }

func (m *MockProfileCache) Get(ctx context.Context, username string) (*model.Profile, error) {
	return profileResult(m.Called(ctx, username))
}
func (m *MockProfileCache) Set(ctx context.Context, p *model.Profile) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockProfileCache) Delete(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

type MockSectionCache struct{ mock.Mock }

func (m *MockSectionCache) Get(ctx context.Context, profileID string) ([]model.Section, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Section), args.Error(1)
}
func (m *MockSectionCache) Set(ctx context.Context, profileID string, sections []model.Section) error {
	return m.Called(ctx, profileID, sections).Error(0)
}
func (m *MockSectionCache) Delete(ctx context.Context, profileID string) error {
	return m.Called(ctx, profileID).Error(0)
}

type MockOutbox struct{ mock.Mock }

func (m *MockOutbox) InsertTx(ctx context.Context, tx *sql.Tx, aggregateType, aggregateID, eventType string, payload any) error {
	return m.Called(ctx, tx, aggregateType, aggregateID, eventType, payload).Error(0)
}

type MockLookup struct{ mock.Mock }

func (m *MockLookup) GetByUsername(ctx context.Context, viewer model.Principal, username string) (*model.Profile, error) {
	return profileResult(m.Called(ctx, viewer, username))
}

type MockMedia struct{ mock.Mock }

func (m *MockMedia) Insert(ctx context.Context, md *model.Media) error {
	return m.Called(ctx, md).Error(0)
}
func (m *MockMedia) Get(ctx context.Context, id string) (*model.Media, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Media), args.Error(1)
}
func (m *MockMedia) AllOwnedBy(ctx context.Context, tx *sql.Tx, profileID string, ids []string) (bool, error) {
	args := m.Called(ctx, tx, profileID, ids)
	return args.Bool(0), args.Error(1)
}

type MockLinks struct{ mock.Mock }

func (m *MockLinks) Fetch(ctx context.Context, url string) (linkmeta.Meta, error) {
	args := m.Called(ctx, url)
	return args.Get(0).(linkmeta.Meta), args.Error(1)
}

type MockEngagement struct{ mock.Mock }

func (m *MockEngagement) Like(ctx context.Context, profileID, postID string) error {
	return m.Called(ctx, profileID, postID).Error(0)
}
func (m *MockEngagement) Unlike(ctx context.Context, profileID, postID string) error {
	return m.Called(ctx, profileID, postID).Error(0)
}
func (m *MockEngagement) Bookmark(ctx context.Context, profileID, postID string) error {
	return m.Called(ctx, profileID, postID).Error(0)
}
func (m *MockEngagement) Unbookmark(ctx context.Context, profileID, postID string) error {
	return m.Called(ctx, profileID, postID).Error(0)
}
func (m *MockEngagement) InsertComment(ctx context.Context, c *model.Comment) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockEngagement) GetComment(ctx context.Context, id string) (*model.Comment, string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.Comment), args.String(1), args.Error(2)
}
func (m *MockEngagement) DeleteComment(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockEngagement) ListComments(ctx context.Context, postID string, page model.Pagination) ([]model.CommentView, error) {
	args := m.Called(ctx, postID, page)
	return args.Get(0).([]model.CommentView), args.Error(1)
}

type MockSocial struct{ mock.Mock }

func (m *MockSocial) Upsert(ctx context.Context, l *model.SocialLink) error {
	return m.Called(ctx, l).Error(0)
}
func (m *MockSocial) Delete(ctx context.Context, profileID string, platform model.Platform) error {
	return m.Called(ctx, profileID, platform).Error(0)
}
func (m *MockSocial) List(ctx context.Context, profileID string) ([]model.SocialLink, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).([]model.SocialLink), args.Error(1)
}

type MockObjects struct{ mock.Mock }

func (m *MockObjects) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	args := m.Called(ctx, key, contentType, body)
	return args.String(0), args.Error(1)
}
func (m *MockObjects) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, contentType, ttl)
	return args.String(0), args.Error(1)
}
func (m *MockObjects) URL(key string) string {
	return "https://cdn.test/" + key
}

// MockContent covers the ContentStore methods exercised by tests; the
// embedded interface panics on anything else.
type MockContent struct {
	mock.Mock
	ContentStore
}

func (m *MockContent) OwnerOf(ctx context.Context, kind model.ContentKind, id string) (string, error) {
	args := m.Called(ctx, kind, id)
	return args.String(0), args.Error(1)
}
func (m *MockContent) Delete(ctx context.Context, kind model.ContentKind, id string) error {
	return m.Called(ctx, kind, id).Error(0)
}
func (m *MockContent) PositionIDsForUpdate(ctx context.Context, tx *sql.Tx, kind model.ContentKind, profileID string) ([]string, error) {
	args := m.Called(ctx, tx, kind, profileID)
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockContent) Reposition(ctx context.Context, tx *sql.Tx, kind model.ContentKind, profileID string, ids []string) error {
	return m.Called(ctx, tx, kind, profileID, ids).Error(0)
}
func (m *MockContent) InsertGallery(ctx context.Context, g *model.GalleryItem) error {
	return m.Called(ctx, g).Error(0)
}
func (m *MockContent) UpdateGallery(ctx context.Context, g *model.GalleryItem) error {
	return m.Called(ctx, g).Error(0)
}
func (m *MockContent) ListPages(ctx context.Context, profileID string, includeDrafts bool) ([]model.Page, error) {
	args := m.Called(ctx, profileID, includeDrafts)
	return args.Get(0).([]model.Page), args.Error(1)
}
func (m *MockContent) InsertProject(ctx context.Context, tx *sql.Tx, p *model.Project) error {
	return m.Called(ctx, tx, p).Error(0)
}
func (m *MockContent) SetProjectMedia(ctx context.Context, tx *sql.Tx, projectID string, mediaIDs []string) error {
	return m.Called(ctx, tx, projectID, mediaIDs).Error(0)
}
func (m *MockContent) ListProjects(ctx context.Context, profileID string) ([]model.ProjectView, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).([]model.ProjectView), args.Error(1)
}
func (m *MockContent) InsertExperience(ctx context.Context, tx *sql.Tx, e *model.Experience) error {
	return m.Called(ctx, tx, e).Error(0)
}
