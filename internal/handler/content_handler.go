package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rize-social/rize/internal/middleware"
	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/service"
	"github.com/rize-social/rize/internal/transport"
)

// ContentHandler serves the owner-managed collections addressed by
// {kind}: gallery, writings, projects, education, experience,
// organizations and story.
type ContentHandler struct{ S *service.ContentService }

func NewContentHandler(s *service.ContentService) *ContentHandler { return &ContentHandler{s} }

func kindParam(r *http.Request) model.ContentKind {
	return model.ContentKind(chi.URLParam(r, "kind"))
}

func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.S.List(r.Context(), middleware.Principal(r.Context()), kindParam(r), chi.URLParam(r, "username"))
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, items)
}

func create[T any](w http.ResponseWriter, r *http.Request, fn func(context.Context, model.Principal, T) (*T, error)) (any, error) {
	var in T
	if err := decodeJSON(w, r, &in); err != nil {
		return nil, err
	}
	return fn(r.Context(), middleware.Principal(r.Context()), in)
}

func update[T any](w http.ResponseWriter, r *http.Request, fn func(context.Context, model.Principal, string, T) (*T, error)) (any, error) {
	id, err := idParam(r)
	if err != nil {
		return nil, err
	}
	var in T
	if err := decodeJSON(w, r, &in); err != nil {
		return nil, err
	}
	return fn(r.Context(), middleware.Principal(r.Context()), id, in)
}

func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var (
		out any
		err error
	)
	switch kindParam(r) {
	case model.KindGallery:
		out, err = create(w, r, h.S.CreateGallery)
	case model.KindWritings:
		out, err = create(w, r, h.S.CreatePage)
	case model.KindProjects:
		out, err = create(w, r, h.S.CreateProject)
	case model.KindEducation:
		out, err = create(w, r, h.S.CreateEducation)
	case model.KindExperience:
		out, err = create(w, r, h.S.CreateExperience)
	case model.KindOrganizations:
		out, err = create(w, r, h.S.CreateOrganization)
	case model.KindStory:
		out, err = create(w, r, h.S.CreateStory)
	default:
		err = model.ErrNotFound
	}
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusCreated, out)
}

func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var (
		out any
		err error
	)
	switch kindParam(r) {
	case model.KindGallery:
		out, err = update(w, r, h.S.UpdateGallery)
	case model.KindWritings:
		out, err = update(w, r, h.S.UpdatePage)
	case model.KindProjects:
		out, err = update(w, r, h.S.UpdateProject)
	case model.KindEducation:
		out, err = update(w, r, h.S.UpdateEducation)
	case model.KindExperience:
		out, err = update(w, r, h.S.UpdateExperience)
	case model.KindOrganizations:
		out, err = update(w, r, h.S.UpdateOrganization)
	case model.KindStory:
		out, err = update(w, r, h.S.UpdateStory)
	default:
		err = model.ErrNotFound
	}
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, out)
}

func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	withID(w, r, func(id string) error {
		return h.S.Delete(r.Context(), middleware.Principal(r.Context()), kindParam(r), id)
	})
}

// Reposition takes {"ids": [...]} listing every item of the kind in the new
// order.
func (h *ContentHandler) Reposition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	noContent(w, r, h.S.Reposition(r.Context(), middleware.Principal(r.Context()), kindParam(r), req.IDs))
}
