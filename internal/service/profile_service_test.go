package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/repository"
)

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Ada_Lovelace", "ada_lovelace", false},
		{"  grace  ", "grace", false},
		{"ＡＤＡ123", "ada123", false},
		{"ab", "", true},
		{"has space", "", true},
		{"dash-name", "", true},
		{"admin", "", true},
		{"API", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeUsername(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidUsername)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClaim(t *testing.T) {
	ctx := context.Background()
	caller := model.Principal{UserID: "user-1"}

	t.Run("creates profile with default sections", func(t *testing.T) {
		repo := new(MockProfileRepo)
		db := newMemDB()
		svc := &ProfileService{Repo: repo, Sections: &memSections{db: db}, Tx: &memTx{db: db}}

		repo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(p *model.Profile) bool {
			return p.Username == "ada" && p.UserID == "user-1" && p.DisplayName == "Ada"
		})).Return(nil).Once()

		p, err := svc.Claim(ctx, caller, model.ClaimRequest{Username: " ADA ", DisplayName: " Ada "})
		require.NoError(t, err)
		assert.Equal(t, "ada", p.Username)
		assert.NotEmpty(t, p.ID)
		assert.Len(t, db.sections, len(model.DefaultSections(p.ID)))
		repo.AssertExpectations(t)
	})

	t.Run("taken username", func(t *testing.T) {
		repo := new(MockProfileRepo)
		db := newMemDB()
		svc := &ProfileService{Repo: repo, Sections: &memSections{db: db}, Tx: &memTx{db: db}}
		repo.On("Create", ctx, mock.Anything, mock.Anything).Return(model.ErrUsernameTaken).Once()

		_, err := svc.Claim(ctx, caller, model.ClaimRequest{Username: "ada", DisplayName: "Ada"})
		assert.ErrorIs(t, err, model.ErrUsernameTaken)
		assert.Empty(t, db.sections)
	})

	t.Run("reserved username", func(t *testing.T) {
		repo := new(MockProfileRepo)
		svc := &ProfileService{Repo: repo, Tx: &MockTransactor{}}

		_, err := svc.Claim(ctx, caller, model.ClaimRequest{Username: "settings", DisplayName: "S"})
		assert.ErrorIs(t, err, model.ErrInvalidUsername)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("caller already has a profile", func(t *testing.T) {
		svc := &ProfileService{}
		_, err := svc.Claim(ctx, author, model.ClaimRequest{Username: "ada", DisplayName: "Ada"})
		assert.ErrorIs(t, err, model.ErrProfileExists)
	})

	t.Run("anonymous", func(t *testing.T) {
		svc := &ProfileService{}
		_, err := svc.Claim(ctx, model.Principal{}, model.ClaimRequest{Username: "ada", DisplayName: "Ada"})
		assert.ErrorIs(t, err, model.ErrUnauthorized)
	})

	t.Run("missing display name", func(t *testing.T) {
		svc := &ProfileService{}
		_, err := svc.Claim(ctx, caller, model.ClaimRequest{Username: "ada"})
		assert.ErrorIs(t, err, model.ErrValidation)
	})
}

func TestAvailable(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProfileRepo)
	svc := &ProfileService{Repo: repo}

	repo.On("UsernameExists", ctx, "ada").Return(true, nil).Once()
	repo.On("UsernameExists", ctx, "grace").Return(false, nil).Once()

	ok, err := svc.Available(ctx, "Ada")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Available(ctx, "grace")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Available(ctx, "x")
	assert.ErrorIs(t, err, model.ErrInvalidUsername)
}

func TestGetByUsername_Visibility(t *testing.T) {
	ctx := context.Background()
	hidden := &model.Profile{ID: "profile-1", Username: "ada", IsLive: false}

	repo := new(MockProfileRepo)
	cache := new(MockProfileCache)
	svc := &ProfileService{Repo: repo, Cache: cache}

	cache.On("Get", ctx, "ada").Return(nil, errMiss)
	repo.On("GetByUsername", ctx, "ada").Return(hidden, nil)
	cache.On("Set", ctx, hidden).Return(nil)

	_, err := svc.GetByUsername(ctx, model.Principal{}, "ada")
	assert.ErrorIs(t, err, model.ErrProfileNotFound, "anonymous visitor")

	_, err = svc.GetByUsername(ctx, model.Principal{UserID: "u2", ProfileID: "profile-2"}, "ada")
	assert.ErrorIs(t, err, model.ErrProfileNotFound, "other profile")

	p, err := svc.GetByUsername(ctx, author, "ada")
	require.NoError(t, err, "owner sees own profile")
	assert.Equal(t, "profile-1", p.ID)
}

func TestGetByUsername_CacheHit(t *testing.T) {
	ctx := context.Background()
	live := &model.Profile{ID: "profile-9", Username: "grace", IsLive: true}

	repo := new(MockProfileRepo)
	cache := new(MockProfileCache)
	svc := &ProfileService{Repo: repo, Cache: cache}
	cache.On("Get", ctx, "grace").Return(live, nil).Once()

	p, err := svc.GetByUsername(ctx, model.Principal{}, "grace")
	require.NoError(t, err)
	assert.Equal(t, live, p)
	repo.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProfileRepo)
	cache := new(MockProfileCache)
	outbox := new(MockOutbox)
	svc := &ProfileService{Repo: repo, Cache: cache, Outbox: outbox, Tx: &MockTransactor{}}

	existing := &model.Profile{ID: author.ProfileID, Username: "ada", Bio: "old"}
	bio := "new bio"

	repo.On("GetByID", ctx, author.ProfileID).Return(existing, nil).Once()
	repo.On("Update", ctx, mock.Anything, mock.MatchedBy(func(p *model.Profile) bool {
		return p.Bio == "new bio"
	})).Return(nil).Once()
	outbox.On("InsertTx", ctx, mock.Anything, "profile", author.ProfileID, model.EventProfileUpdated, mock.Anything).
		Return(nil).Once()
	cache.On("Delete", ctx, "ada").Return(nil).Once()

	p, err := svc.Update(ctx, author, model.ProfilePatch{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "new bio", p.Bio)

	repo.AssertExpectations(t)
	outbox.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestUpdateProfile_OutboxFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProfileRepo)
	cache := new(MockProfileCache)
	outbox := new(MockOutbox)
	svc := &ProfileService{Repo: repo, Cache: cache, Outbox: outbox, Tx: &MockTransactor{}}

	repo.On("GetByID", ctx, author.ProfileID).Return(&model.Profile{ID: author.ProfileID, Username: "ada"}, nil)
	repo.On("Update", ctx, mock.Anything, mock.Anything).Return(nil)
	outbox.On("InsertTx", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("disk full"))

	_, err := svc.Update(ctx, author, model.ProfilePatch{})
	assert.Error(t, err)
	cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSetLive(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProfileRepo)
	cache := new(MockProfileCache)
	svc := &ProfileService{Repo: repo, Cache: cache}

	repo.On("GetByID", ctx, author.ProfileID).Return(&model.Profile{ID: author.ProfileID, Username: "ada"}, nil)
	repo.On("SetFlag", ctx, author.ProfileID, repository.FlagLive, true).Return(nil).Once()
	cache.On("Delete", ctx, "ada").Return(nil).Once()

	require.NoError(t, svc.SetLive(ctx, author, true))
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)

	assert.ErrorIs(t, svc.SetLive(ctx, model.Principal{UserID: "u"}, true), model.ErrProfileNotFound)
}

func TestEvict(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProfileRepo)
	cache := new(MockProfileCache)
	svc := &ProfileService{Repo: repo, Cache: cache}

	repo.On("GetByID", ctx, author.ProfileID).Return(&model.Profile{ID: author.ProfileID, Username: "ada"}, nil).Once()
	cache.On("Delete", ctx, "ada").Return(nil).Once()
	require.NoError(t, svc.Evict(ctx, author.ProfileID))

	repo.On("GetByID", ctx, "gone").Return(nil, model.ErrProfileNotFound).Once()
	assert.ErrorIs(t, svc.Evict(ctx, "gone"), model.ErrProfileNotFound)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSearch_Limits(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProfileRepo)
	svc := &ProfileService{Repo: repo}

	repo.On("Search", ctx, "ada", defaultSearchLimit).Return([]model.SearchResult{}, nil).Once()
	repo.On("Search", ctx, "ada", maxSearchLimit).Return([]model.SearchResult{}, nil).Once()

	_, err := svc.Search(ctx, " ada ", 0)
	require.NoError(t, err)
	_, err = svc.Search(ctx, "ada", 500)
	require.NoError(t, err)

	res, err := svc.Search(ctx, "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, res)
	repo.AssertExpectations(t)
}

func TestResolvePrincipal(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProfileRepo)
	svc := &ProfileService{Repo: repo}

	repo.On("GetByUserID", ctx, "user-1").Return(&model.Profile{ID: "profile-1"}, nil)
	repo.On("GetByUserID", ctx, "user-2").Return(nil, model.ErrProfileNotFound)

	p, err := svc.ResolvePrincipal(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, model.Principal{UserID: "user-1", ProfileID: "profile-1"}, p)

	p, err = svc.ResolvePrincipal(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, model.Principal{UserID: "user-2"}, p)
}
