package handler

import (
	"net/http"

	"github.com/rize-social/rize/internal/importer"
	"github.com/rize-social/rize/internal/middleware"
	"github.com/rize-social/rize/internal/transport"
)

type ImportHandler struct{ S *importer.Service }

func NewImportHandler(s *importer.Service) *ImportHandler { return &ImportHandler{s} }

// Request queues an import and answers 202 with the pending job.
func (h *ImportHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceURL string `json:"source_url"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	job, err := h.S.Request(r.Context(), middleware.Principal(r.Context()), req.SourceURL)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusAccepted, job)
}

func (h *ImportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	job, err := h.S.Get(r.Context(), middleware.Principal(r.Context()), id)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, job)
}
