package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"peraturan/internal/domain"
	"peraturan/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError
	var rateLimitedErr *domain.RateLimitedError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	case errors.As(err, &rateLimitedErr):
		// Retry-After is both a header and a body field so simple
		// clients can read either.
		w.Header().Set("Retry-After", strconv.Itoa(rateLimitedErr.RetryAfterSeconds))
		httputil.RespondErrorWithExtras(w, http.StatusTooManyRequests, rateLimitedErr.Error(), map[string]interface{}{
			"retry_after_seconds": rateLimitedErr.RetryAfterSeconds,
		})
	case errors.Is(err, domain.ErrUpstream):
		httputil.RespondError(w, http.StatusBadGateway, "verification service unavailable, please retry")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseOptionalJSON decodes a request body that may legitimately be
// absent. A missing body leaves dest untouched; the decode is always
// attempted since chunked requests carry no Content-Length.
func parseOptionalJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	if err := httputil.ParseJSON(w, r, dest); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// pathID parses the {id} path value as a positive int64.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Message: "id must be a positive integer"}
	}
	return id, nil
}
