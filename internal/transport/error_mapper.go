package transport

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/observability"
	"github.com/rize-social/rize/internal/validation"
)

type mapping struct {
	target error
	status int
	code   string
}

// Order matters: ErrProfileNotFound is checked before the generic not-found.
var mappings = []mapping{
	{model.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{model.ErrForbidden, http.StatusForbidden, "forbidden"},
	{model.ErrProfileNotFound, http.StatusNotFound, "profile_not_found"},
	{model.ErrNotFound, http.StatusNotFound, "not_found"},
	{model.ErrUsernameTaken, http.StatusConflict, "username_taken"},
	{model.ErrProfileExists, http.StatusConflict, "profile_exists"},
	{model.ErrSectionsExist, http.StatusConflict, "sections_exist"},
	{model.ErrInvalidUsername, http.StatusBadRequest, "invalid_username"},
	{model.ErrInvalidSection, http.StatusBadRequest, "invalid_section"},
	{model.ErrInvalidOrder, http.StatusBadRequest, "invalid_order"},
	{model.ErrInvalidPlatform, http.StatusBadRequest, "invalid_platform"},
	{model.ErrInvalidMedia, http.StatusBadRequest, "invalid_media"},
	{model.ErrLinkFetch, http.StatusUnprocessableEntity, "link_fetch_failed"},
}

// Error writes err as a JSON error response. Unknown errors are logged and
// reported as a generic 500.
func Error(ctx context.Context, w http.ResponseWriter, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		WriteJSON(w, http.StatusBadRequest, ErrorBody{
			Error:   "validation_failed",
			Message: model.ErrValidation.Error(),
			Fields:  verrs,
		})
		return
	}

	for _, m := range mappings {
		if errors.Is(err, m.target) {
			WriteError(w, m.status, m.code, err.Error())
			return
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		observability.GetLogger(ctx).Warn("request_timeout", zap.Error(err))
		WriteError(w, http.StatusGatewayTimeout, "timeout", "request timed out")
		return
	}

	observability.GetLogger(ctx).Error("internal_error", zap.Error(err))
	WriteError(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred")
}
