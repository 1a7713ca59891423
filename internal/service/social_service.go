package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/validation"
)

// SocialService keeps at most one link per platform per profile.
type SocialService struct {
	Repo     SocialStore
	Profiles ProfileLookup
}

// Upsert sets the caller's link for platform, replacing any previous URL.
func (s *SocialService) Upsert(ctx context.Context, p model.Principal, platform model.Platform, rawURL string) (*model.SocialLink, error) {
	if err := requireProfile(p); err != nil {
		return nil, err
	}
	if !platform.Valid() {
		return nil, model.ErrInvalidPlatform
	}
	rawURL = strings.TrimSpace(rawURL)
	if !validation.HTTPURL(rawURL) {
		return nil, validation.Field("url", "must be an absolute http or https URL")
	}
	l := &model.SocialLink{
		ID:        uuid.NewString(),
		ProfileID: p.ProfileID,
		Platform:  platform,
		URL:       rawURL,
	}
	if err := s.Repo.Upsert(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *SocialService) Remove(ctx context.Context, p model.Principal, platform model.Platform) error {
	if err := requireProfile(p); err != nil {
		return err
	}
	if !platform.Valid() {
		return model.ErrInvalidPlatform
	}
	return s.Repo.Delete(ctx, p.ProfileID, platform)
}

func (s *SocialService) List(ctx context.Context, viewer model.Principal, username string) ([]model.SocialLink, error) {
	profile, err := s.Profiles.GetByUsername(ctx, viewer, username)
	if err != nil {
		return nil, err
	}
	return s.Repo.List(ctx, profile.ID)
}
