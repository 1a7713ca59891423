package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rize-social/rize/internal/middleware"
	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/service"
	"github.com/rize-social/rize/internal/transport"
	"github.com/rize-social/rize/internal/validation"
)

// MediaHandler accepts uploads as multipart/form-data with the file in the
// "file" field.
type MediaHandler struct {
	S        *service.MediaService
	MaxBytes int64
}

func NewMediaHandler(s *service.MediaService, maxBytes int64) *MediaHandler {
	return &MediaHandler{S: s, MaxBytes: maxBytes}
}

func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Leave room for the multipart envelope; the service enforces the exact
	// file size.
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes+(1<<20))

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			transport.Error(r.Context(), w, fmt.Errorf("%w: upload exceeds %d bytes", model.ErrInvalidMedia, h.MaxBytes))
			return
		}
		transport.Error(r.Context(), w, validation.Field("file", "multipart field is required"))
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		transport.Error(r.Context(), w, fmt.Errorf("read upload: %w", err))
		return
	}
	m, err := h.S.Upload(r.Context(), middleware.Principal(r.Context()), header.Header.Get("Content-Type"), body)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusCreated, m)
}

// Presign returns a direct-to-storage upload URL for {"content_type": ...}.
func (h *MediaHandler) Presign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContentType string `json:"content_type"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	up, err := h.S.Presign(r.Context(), middleware.Principal(r.Context()), req.ContentType)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusCreated, up)
}
