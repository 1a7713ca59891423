package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/observability"
	"github.com/rize-social/rize/internal/repository"
	"github.com/rize-social/rize/internal/tx"
	"github.com/rize-social/rize/internal/validation"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50
)

// ProfileService handles profile business logic.
type ProfileService struct {
	Repo     ProfileStore
	Sections SectionStore
	Cache    ProfileCache
	Outbox   OutboxWriter
	Tx       tx.Transactor
}

// Claim creates the caller's profile under username together with its
// default section registry.
func (s *ProfileService) Claim(ctx context.Context, p model.Principal, req model.ClaimRequest) (*model.Profile, error) {
	if p.Anonymous() {
		return nil, model.ErrUnauthorized
	}
	if p.ProfileID != "" {
		return nil, model.ErrProfileExists
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	username, err := NormalizeUsername(req.Username)
	if err != nil {
		return nil, err
	}

	profile := &model.Profile{
		ID:          uuid.NewString(),
		UserID:      p.UserID,
		Username:    username,
		DisplayName: strings.TrimSpace(req.DisplayName),
	}
	err = s.Tx.WithTx(ctx, func(ctx context.Context, dbtx *sql.Tx) error {
		if err := s.Repo.Create(ctx, dbtx, profile); err != nil {
			return err
		}
		return s.Sections.InsertDefaults(ctx, dbtx, model.DefaultSections(profile.ID))
	})
	if err != nil {
		return nil, err
	}

	observability.GetLogger(ctx).Info("profile claimed",
		zap.String("profile_id", profile.ID),
		zap.String("username", profile.Username),
	)
	return profile, nil
}

// Available reports whether username is valid and unclaimed.
func (s *ProfileService) Available(ctx context.Context, username string) (bool, error) {
	u, err := NormalizeUsername(username)
	if err != nil {
		return false, err
	}
	exists, err := s.Repo.UsernameExists(ctx, u)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return !exists, nil
}

// GetByUsername returns the profile, hiding profiles that are not live from
// everyone but their owner.
func (s *ProfileService) GetByUsername(ctx context.Context, viewer model.Principal, username string) (*model.Profile, error) {
	p, err := s.Cache.Get(ctx, username)
	if err != nil {
		p, err = s.Repo.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if err := s.Cache.Set(ctx, p); err != nil {
			observability.GetLogger(ctx).Warn("profile cache set failed", zap.Error(err))
		}
	}
	if !p.IsLive && !viewer.Owns(p.ID) {
		return nil, model.ErrProfileNotFound
	}
	return p, nil
}

// Me returns the caller's own profile.
func (s *ProfileService) Me(ctx context.Context, p model.Principal) (*model.Profile, error) {
	if err := requireProfile(p); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, p.ProfileID)
}

// Update applies patch to the caller's profile and records profile.updated.
func (s *ProfileService) Update(ctx context.Context, p model.Principal, patch model.ProfilePatch) (*model.Profile, error) {
	if err := requireProfile(p); err != nil {
		return nil, err
	}
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}
	profile, err := s.Repo.GetByID(ctx, p.ProfileID)
	if err != nil {
		return nil, err
	}
	patch.Apply(profile)

	err = s.Tx.WithTx(ctx, func(ctx context.Context, dbtx *sql.Tx) error {
		if err := s.Repo.Update(ctx, dbtx, profile); err != nil {
			return fmt.Errorf("failed to update profile in repo: %w", err)
		}
		if err := s.Outbox.InsertTx(ctx, dbtx, "profile", profile.ID, model.EventProfileUpdated, profile); err != nil {
			return fmt.Errorf("failed to save outbox event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, profile.Username)
	return profile, nil
}

func (s *ProfileService) CompleteOnboarding(ctx context.Context, p model.Principal) error {
	return s.setFlag(ctx, p, repository.FlagOnboarding, true)
}

func (s *ProfileService) CompleteWalkthrough(ctx context.Context, p model.Principal) error {
	return s.setFlag(ctx, p, repository.FlagWalkthrough, true)
}

// SetLive publishes or hides the caller's profile.
func (s *ProfileService) SetLive(ctx context.Context, p model.Principal, live bool) error {
	return s.setFlag(ctx, p, repository.FlagLive, live)
}

func (s *ProfileService) setFlag(ctx context.Context, p model.Principal, flag repository.ProfileFlag, value bool) error {
	if err := requireProfile(p); err != nil {
		return err
	}
	profile, err := s.Repo.GetByID(ctx, p.ProfileID)
	if err != nil {
		return err
	}
	if err := s.Repo.SetFlag(ctx, profile.ID, flag, value); err != nil {
		return err
	}
	s.invalidate(ctx, profile.Username)
	return nil
}

// Search ranks live profiles against query. A blank query matches nothing.
func (s *ProfileService) Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.SearchResult{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	return s.Repo.Search(ctx, query, limit)
}

// Delete removes the caller's profile and everything it owns.
func (s *ProfileService) Delete(ctx context.Context, p model.Principal) error {
	if err := requireProfile(p); err != nil {
		return err
	}
	profile, err := s.Repo.GetByID(ctx, p.ProfileID)
	if err != nil {
		return err
	}
	err = s.Tx.WithTx(ctx, func(ctx context.Context, dbtx *sql.Tx) error {
		if err := s.Repo.Delete(ctx, dbtx, profile.ID); err != nil {
			return err
		}
		return s.Outbox.InsertTx(ctx, dbtx, "profile", profile.ID, model.EventProfileDeleted,
			map[string]string{"profile_id": profile.ID, "username": profile.Username})
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, profile.Username)
	return nil
}

// ResolvePrincipal attaches the caller's profile id, if any, to an
// authenticated user id.
func (s *ProfileService) ResolvePrincipal(ctx context.Context, userID string) (model.Principal, error) {
	p := model.Principal{UserID: userID}
	profile, err := s.Repo.GetByUserID(ctx, userID)
	if errors.Is(err, model.ErrProfileNotFound) {
		return p, nil
	}
	if err != nil {
		return model.Principal{}, err
	}
	p.ProfileID = profile.ID
	return p, nil
}

// Evict drops the cached read of a profile changed outside this service,
// such as by a finished import.
func (s *ProfileService) Evict(ctx context.Context, profileID string) error {
	profile, err := s.Repo.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	return s.Cache.Delete(ctx, profile.Username)
}

func (s *ProfileService) invalidate(ctx context.Context, username string) {
	if err := s.Cache.Delete(ctx, username); err != nil {
		observability.GetLogger(ctx).Warn("profile cache invalidation failed",
			zap.String("username", username), zap.Error(err))
	}
}
