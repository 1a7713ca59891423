package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/section"
	"github.com/rize-social/rize/internal/tx"
	"github.com/rize-social/rize/internal/validation"
)

// ContentService manages a profile's collections: gallery, writings,
// projects, education, experience, organizations and story.
type ContentService struct {
	Repo     ContentStore
	Media    MediaStore
	Profiles ProfileLookup
	Tx       tx.Transactor
}

// List returns the kind's items on username's profile. Drafts among
// writings are only listed for the owner.
func (s *ContentService) List(ctx context.Context, viewer model.Principal, kind model.ContentKind, username string) (any, error) {
	if !kind.Valid() {
		return nil, model.ErrNotFound
	}
	profile, err := s.Profiles.GetByUsername(ctx, viewer, username)
	if err != nil {
		return nil, err
	}
	switch kind {
	case model.KindGallery:
		return s.Repo.ListGallery(ctx, profile.ID)
	case model.KindWritings:
		pages, err := s.Repo.ListPages(ctx, profile.ID, viewer.Owns(profile.ID))
		if err != nil {
			return nil, err
		}
		out := make([]model.PageView, len(pages))
		for i, pg := range pages {
			out[i] = model.PageView{Page: pg, Author: authorOf(profile)}
		}
		return out, nil
	case model.KindProjects:
		projects, err := s.Repo.ListProjects(ctx, profile.ID)
		if err != nil {
			return nil, err
		}
		for i := range projects {
			projects[i].Author = authorOf(profile)
		}
		return projects, nil
	case model.KindEducation:
		return s.Repo.ListEducation(ctx, profile.ID)
	case model.KindExperience:
		return s.Repo.ListExperience(ctx, profile.ID)
	case model.KindOrganizations:
		return s.Repo.ListOrganizations(ctx, profile.ID)
	default:
		return s.Repo.ListStory(ctx, profile.ID)
	}
}

// Delete removes one item the caller owns.
func (s *ContentService) Delete(ctx context.Context, p model.Principal, kind model.ContentKind, id string) error {
	if err := s.owned(ctx, p, kind, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, kind, id)
}

// Reposition sets the order of the caller's items of kind. ids must list
// every item exactly once.
func (s *ContentService) Reposition(ctx context.Context, p model.Principal, kind model.ContentKind, ids []string) error {
	if err := requireProfile(p); err != nil {
		return err
	}
	if !kind.Valid() {
		return model.ErrNotFound
	}
	if !kind.Positioned() {
		return validation.Field("kind", string(kind)+" are ordered by date")
	}
	return s.Tx.WithTx(ctx, func(ctx context.Context, dbtx *sql.Tx) error {
		existing, err := s.Repo.PositionIDsForUpdate(ctx, dbtx, kind, p.ProfileID)
		if err != nil {
			return err
		}
		if err := section.ValidateIDs(existing, ids); err != nil {
			return err
		}
		return s.Repo.Reposition(ctx, dbtx, kind, p.ProfileID, ids)
	})
}

// ───── Gallery ─────

func (s *ContentService) CreateGallery(ctx context.Context, p model.Principal, g model.GalleryItem) (*model.GalleryItem, error) {
	if err := s.prepareCreate(ctx, p, &g, g.MediaID); err != nil {
		return nil, err
	}
	g.ID, g.ProfileID = uuid.NewString(), p.ProfileID
	if err := s.Repo.InsertGallery(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *ContentService) UpdateGallery(ctx context.Context, p model.Principal, id string, g model.GalleryItem) (*model.GalleryItem, error) {
	// Only the caption of a gallery item is editable.
	caption := struct {
		Caption string `json:"caption" validate:"max=280"`
	}{g.Caption}
	if err := s.prepareUpdate(ctx, p, model.KindGallery, id, caption); err != nil {
		return nil, err
	}
	g.ID, g.ProfileID = id, p.ProfileID
	if err := s.Repo.UpdateGallery(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// ───── Writings ─────

func (s *ContentService) CreatePage(ctx context.Context, p model.Principal, pg model.Page) (*model.Page, error) {
	if err := s.prepareCreate(ctx, p, &pg); err != nil {
		return nil, err
	}
	pg.ID, pg.ProfileID = uuid.NewString(), p.ProfileID
	if err := s.Repo.InsertPage(ctx, &pg); err != nil {
		return nil, err
	}
	return &pg, nil
}

func (s *ContentService) UpdatePage(ctx context.Context, p model.Principal, id string, pg model.Page) (*model.Page, error) {
	if err := s.prepareUpdate(ctx, p, model.KindWritings, id, &pg); err != nil {
		return nil, err
	}
	pg.ID, pg.ProfileID = id, p.ProfileID
	if err := s.Repo.UpdatePage(ctx, &pg); err != nil {
		return nil, err
	}
	return &pg, nil
}

// ───── Projects ─────

func (s *ContentService) CreateProject(ctx context.Context, p model.Principal, pr model.Project) (*model.Project, error) {
	if err := s.prepareCreate(ctx, p, &pr, pr.MediaIDs...); err != nil {
		return nil, err
	}
	pr.ID, pr.ProfileID = uuid.NewString(), p.ProfileID
	err := s.Tx.WithTx(ctx, func(ctx context.Context, dbtx *sql.Tx) error {
		if err := s.Repo.InsertProject(ctx, dbtx, &pr); err != nil {
			return err
		}
		return s.Repo.SetProjectMedia(ctx, dbtx, pr.ID, pr.MediaIDs)
	})
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

func (s *ContentService) UpdateProject(ctx context.Context, p model.Principal, id string, pr model.Project) (*model.Project, error) {
	if err := s.prepareUpdate(ctx, p, model.KindProjects, id, &pr, pr.MediaIDs...); err != nil {
		return nil, err
	}
	pr.ID, pr.ProfileID = id, p.ProfileID
	err := s.Tx.WithTx(ctx, func(ctx context.Context, dbtx *sql.Tx) error {
		if err := s.Repo.UpdateProject(ctx, dbtx, &pr); err != nil {
			return err
		}
		return s.Repo.SetProjectMedia(ctx, dbtx, pr.ID, pr.MediaIDs)
	})
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

// ───── Education ─────

func (s *ContentService) CreateEducation(ctx context.Context, p model.Principal, e model.Education) (*model.Education, error) {
	if err := s.prepareCreate(ctx, p, &e); err != nil {
		return nil, err
	}
	if err := checkDates(e.StartDate, e.EndDate); err != nil {
		return nil, err
	}
	e.ID, e.ProfileID = uuid.NewString(), p.ProfileID
	if err := s.Repo.InsertEducation(ctx, nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *ContentService) UpdateEducation(ctx context.Context, p model.Principal, id string, e model.Education) (*model.Education, error) {
	if err := s.prepareUpdate(ctx, p, model.KindEducation, id, &e); err != nil {
		return nil, err
	}
	if err := checkDates(e.StartDate, e.EndDate); err != nil {
		return nil, err
	}
	e.ID, e.ProfileID = id, p.ProfileID
	if err := s.Repo.UpdateEducation(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ───── Experience ─────

func (s *ContentService) CreateExperience(ctx context.Context, p model.Principal, e model.Experience) (*model.Experience, error) {
	if err := s.prepareCreate(ctx, p, &e); err != nil {
		return nil, err
	}
	if err := checkDates(e.StartDate, e.EndDate); err != nil {
		return nil, err
	}
	e.ID, e.ProfileID = uuid.NewString(), p.ProfileID
	if err := s.Repo.InsertExperience(ctx, nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *ContentService) UpdateExperience(ctx context.Context, p model.Principal, id string, e model.Experience) (*model.Experience, error) {
	if err := s.prepareUpdate(ctx, p, model.KindExperience, id, &e); err != nil {
		return nil, err
	}
	if err := checkDates(e.StartDate, e.EndDate); err != nil {
		return nil, err
	}
	e.ID, e.ProfileID = id, p.ProfileID
	if err := s.Repo.UpdateExperience(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ───── Organizations ─────

func (s *ContentService) CreateOrganization(ctx context.Context, p model.Principal, o model.Organization) (*model.Organization, error) {
	if err := s.prepareCreate(ctx, p, &o); err != nil {
		return nil, err
	}
	o.ID, o.ProfileID = uuid.NewString(), p.ProfileID
	if err := s.Repo.InsertOrganization(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *ContentService) UpdateOrganization(ctx context.Context, p model.Principal, id string, o model.Organization) (*model.Organization, error) {
	if err := s.prepareUpdate(ctx, p, model.KindOrganizations, id, &o); err != nil {
		return nil, err
	}
	o.ID, o.ProfileID = id, p.ProfileID
	if err := s.Repo.UpdateOrganization(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// ───── Story ─────

func (s *ContentService) CreateStory(ctx context.Context, p model.Principal, st model.StoryElement) (*model.StoryElement, error) {
	if err := s.prepareCreate(ctx, p, &st, optional(st.MediaID)...); err != nil {
		return nil, err
	}
	st.ID, st.ProfileID = uuid.NewString(), p.ProfileID
	if err := s.Repo.InsertStory(ctx, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *ContentService) UpdateStory(ctx context.Context, p model.Principal, id string, st model.StoryElement) (*model.StoryElement, error) {
	if err := s.prepareUpdate(ctx, p, model.KindStory, id, &st, optional(st.MediaID)...); err != nil {
		return nil, err
	}
	st.ID, st.ProfileID = id, p.ProfileID
	if err := s.Repo.UpdateStory(ctx, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// ───── helpers ─────

func (s *ContentService) prepareCreate(ctx context.Context, p model.Principal, item any, mediaIDs ...string) error {
	if err := requireProfile(p); err != nil {
		return err
	}
	if err := validation.Struct(item); err != nil {
		return err
	}
	return s.checkMedia(ctx, p, mediaIDs)
}

func (s *ContentService) prepareUpdate(ctx context.Context, p model.Principal, kind model.ContentKind, id string, item any, mediaIDs ...string) error {
	if err := s.owned(ctx, p, kind, id); err != nil {
		return err
	}
	if err := validation.Struct(item); err != nil {
		return err
	}
	return s.checkMedia(ctx, p, mediaIDs)
}

// owned loads the row's owner and checks the caller is it.
func (s *ContentService) owned(ctx context.Context, p model.Principal, kind model.ContentKind, id string) error {
	if err := requireProfile(p); err != nil {
		return err
	}
	if !kind.Valid() {
		return model.ErrNotFound
	}
	owner, err := s.Repo.OwnerOf(ctx, kind, id)
	if err != nil {
		return err
	}
	if !p.Owns(owner) {
		return model.ErrForbidden
	}
	return nil
}

func (s *ContentService) checkMedia(ctx context.Context, p model.Principal, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ok, err := s.Media.AllOwnedBy(ctx, nil, p.ProfileID, ids)
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrInvalidMedia
	}
	return nil
}

func checkDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return validation.Field("end_date", "must not be before start_date")
	}
	return nil
}

func optional(id *string) []string {
	if id == nil {
		return nil
	}
	return []string{*id}
}

func authorOf(p *model.Profile) model.Author {
	return model.Author{
		ProfileID:    p.ID,
		Username:     p.Username,
		DisplayName:  p.DisplayName,
		ProfileImage: p.ProfileImage,
	}
}
