package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rize-social/rize/internal/middleware"
	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/service"
	"github.com/rize-social/rize/internal/transport"
)

// ProfileHandler exposes HTTP endpoints for profile operations.
type ProfileHandler struct{ S *service.ProfileService }

func NewProfileHandler(s *service.ProfileService) *ProfileHandler { return &ProfileHandler{s} }

func (h *ProfileHandler) Available(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	ok, err := h.S.Available(r.Context(), username)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]any{"username": username, "available": ok})
}

// Claim creates the caller's profile.
func (h *ProfileHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req model.ClaimRequest
	if err := decodeJSON(w, r, &req); err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	p, err := h.S.Claim(r.Context(), middleware.Principal(r.Context()), req)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusCreated, p)
}

func (h *ProfileHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	res, err := h.S.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, res)
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.S.GetByUsername(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "username"))
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, p)
}

// Me returns the authenticated user's profile.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, err := h.S.Me(r.Context(), middleware.Principal(r.Context()))
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, p)
}

// Update modifies the authenticated user's profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.ProfilePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	p, err := h.S.Update(r.Context(), middleware.Principal(r.Context()), patch)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, h.S.CompleteOnboarding(r.Context(), middleware.Principal(r.Context())))
}

func (h *ProfileHandler) CompleteWalkthrough(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, h.S.CompleteWalkthrough(r.Context(), middleware.Principal(r.Context())))
}

func (h *ProfileHandler) SetLive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Live bool `json:"live"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	noContent(w, r, h.S.SetLive(r.Context(), middleware.Principal(r.Context()), req.Live))
}

func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, h.S.Delete(r.Context(), middleware.Principal(r.Context())))
}

// noContent writes 204 or the mapped error.
func noContent(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
