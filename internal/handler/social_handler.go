package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rize-social/rize/internal/middleware"
	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/service"
	"github.com/rize-social/rize/internal/transport"
)

type SocialHandler struct{ S *service.SocialService }

func NewSocialHandler(s *service.SocialService) *SocialHandler { return &SocialHandler{s} }

func (h *SocialHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.S.List(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "username"))
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, links)
}

func (h *SocialHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	platform := model.Platform(chi.URLParam(r, "platform"))
	l, err := h.S.Upsert(r.Context(), middleware.Principal(r.Context()), platform, req.URL)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, l)
}

func (h *SocialHandler) Remove(w http.ResponseWriter, r *http.Request) {
	platform := model.Platform(chi.URLParam(r, "platform"))
	noContent(w, r, h.S.Remove(r.Context(), middleware.Principal(r.Context()), platform))
}
