package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/observability"
	"github.com/rize-social/rize/internal/section"
	"github.com/rize-social/rize/internal/tx"
)

// SectionService manages a profile's section registry and decides which
// sections a viewer sees.
type SectionService struct {
	Repo     SectionStore
	Profiles ProfileLookup
	Cache    SectionCache
	Tx       tx.Transactor
}

// Initialize creates the default registry. A profile that already has one
// gets ErrSectionsExist.
func (s *SectionService) Initialize(ctx context.Context, p model.Principal, profileID string) ([]model.Section, error) {
	if err := authorize(p, profileID); err != nil {
		return nil, err
	}
	sections := model.DefaultSections(profileID)
	err := s.Tx.WithTx(ctx, func(ctx context.Context, dbtx *sql.Tx) error {
		existing, err := s.Repo.ListForUpdate(ctx, dbtx, profileID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return model.ErrSectionsExist
		}
		return s.Repo.InsertDefaults(ctx, dbtx, sections)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, profileID)
	return sections, nil
}

// Reorder gives each section its index in ordered, which must name every
// existing section exactly once.
func (s *SectionService) Reorder(ctx context.Context, p model.Principal, profileID string, ordered []model.SectionSlug) ([]model.Section, error) {
	if err := authorize(p, profileID); err != nil {
		return nil, err
	}
	var out []model.Section
	err := s.Tx.WithTx(ctx, func(ctx context.Context, dbtx *sql.Tx) error {
		existing, err := s.Repo.ListForUpdate(ctx, dbtx, profileID)
		if err != nil {
			return err
		}
		if err := section.ValidateOrder(existing, ordered); err != nil {
			return err
		}
		if err := s.Repo.SetOrder(ctx, dbtx, profileID, ordered); err != nil {
			return err
		}
		out, err = s.Repo.ListForUpdate(ctx, dbtx, profileID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, profileID)
	return out, nil
}

// Toggle flips enabled for each named section. Unknown slugs fail before any
// write; a slug named twice flips once.
func (s *SectionService) Toggle(ctx context.Context, p model.Principal, profileID string, slugs []model.SectionSlug) ([]model.Section, error) {
	if err := authorize(p, profileID); err != nil {
		return nil, err
	}
	set, err := section.ToggleSet(slugs)
	if err != nil {
		return nil, err
	}
	var out []model.Section
	err = s.Tx.WithTx(ctx, func(ctx context.Context, dbtx *sql.Tx) error {
		existing, err := s.Repo.ListForUpdate(ctx, dbtx, profileID)
		if err != nil {
			return err
		}
		have := make(map[model.SectionSlug]bool, len(existing))
		for _, sec := range existing {
			have[sec.Slug] = true
		}
		for _, slug := range set {
			if !have[slug] {
				return model.ErrInvalidSection
			}
		}
		if len(set) > 0 {
			if err := s.Repo.Toggle(ctx, dbtx, profileID, set); err != nil {
				return err
			}
		}
		out, err = s.Repo.ListForUpdate(ctx, dbtx, profileID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, profileID)
	return out, nil
}

// List returns the registry ordered by order ascending.
func (s *SectionService) List(ctx context.Context, profileID string) ([]model.Section, error) {
	if cached, err := s.Cache.Get(ctx, profileID); err == nil {
		return cached, nil
	}
	sections, err := s.Repo.List(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.Set(ctx, profileID, sections); err != nil {
		observability.GetLogger(ctx).Warn("section cache set failed", zap.Error(err))
	}
	return sections, nil
}

// Mine returns the caller's own registry.
func (s *SectionService) Mine(ctx context.Context, p model.Principal) ([]model.Section, error) {
	if err := requireProfile(p); err != nil {
		return nil, err
	}
	return s.List(ctx, p.ProfileID)
}

// Visible resolves the sections of username's profile as viewer sees them.
func (s *SectionService) Visible(ctx context.Context, viewer model.Principal, username string) (section.Resolution, error) {
	profile, err := s.Profiles.GetByUsername(ctx, viewer, username)
	if err != nil {
		return section.Resolution{}, err
	}
	sections, err := s.List(ctx, profile.ID)
	if err != nil {
		return section.Resolution{}, err
	}
	isOwner := viewer.Owns(profile.ID)
	content, err := s.Repo.ContentPresence(ctx, profile.ID, isOwner)
	if err != nil {
		return section.Resolution{}, err
	}
	return section.Resolve(sections, content, isOwner), nil
}

func (s *SectionService) invalidate(ctx context.Context, profileID string) {
	if err := s.Cache.Delete(ctx, profileID); err != nil {
		observability.GetLogger(ctx).Warn("section cache invalidation failed",
			zap.String("profile_id", profileID), zap.Error(err))
	}
}
