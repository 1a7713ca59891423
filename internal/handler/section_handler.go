package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rize-social/rize/internal/middleware"
	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/service"
	"github.com/rize-social/rize/internal/transport"
)

type SectionHandler struct{ S *service.SectionService }

func NewSectionHandler(s *service.SectionService) *SectionHandler { return &SectionHandler{s} }

// Visible resolves the sections of a profile for the caller.
func (h *SectionHandler) Visible(w http.ResponseWriter, r *http.Request) {
	res, err := h.S.Visible(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "username"))
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, res)
}

func (h *SectionHandler) Mine(w http.ResponseWriter, r *http.Request) {
	sections, err := h.S.Mine(r.Context(), middleware.Principal(r.Context()))
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, sections)
}

func (h *SectionHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	p := middleware.Principal(r.Context())
	sections, err := h.S.Initialize(r.Context(), p, p.ProfileID)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusCreated, sections)
}

func (h *SectionHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Order []model.SectionSlug `json:"order"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	p := middleware.Principal(r.Context())
	sections, err := h.S.Reorder(r.Context(), p, p.ProfileID, req.Order)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, sections)
}

func (h *SectionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sections []model.SectionSlug `json:"sections"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	p := middleware.Principal(r.Context())
	sections, err := h.S.Toggle(r.Context(), p, p.ProfileID, req.Sections)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, sections)
}
