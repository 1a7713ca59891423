package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/transport"
	"github.com/rize-social/rize/internal/validation"
)

const maxJSONBody = 1 << 20

// decodeJSON reads a bounded JSON body into v. Malformed bodies are reported
// as validation errors so they map to 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return validation.Field("body", "request body too large")
		}
		return validation.Field("body", "malformed JSON: "+err.Error())
	}
	return nil
}

func pagination(r *http.Request) (model.Pagination, error) {
	var (
		p   model.Pagination
		err error
	)
	if p.Limit, err = intParam(r, "limit"); err != nil {
		return p, err
	}
	if p.Offset, err = intParam(r, "offset"); err != nil {
		return p, err
	}
	return p, nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, validation.Field(name, "must be a non-negative integer")
	}
	return n, nil
}

// timeParam parses an optional RFC 3339 query parameter.
func timeParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, validation.Field(name, "must be an RFC 3339 timestamp")
	}
	return &t, nil
}

// idParam returns the {id} path parameter. Row ids are UUIDs, so any other
// value cannot name a row and is reported as not found.
func idParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if !validation.UUID(id) {
		return "", model.ErrNotFound
	}
	return id, nil
}

// withID runs fn with a checked {id} and answers 204 on success.
func withID(w http.ResponseWriter, r *http.Request, fn func(id string) error) {
	id, err := idParam(r)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	noContent(w, r, fn(id))
}
