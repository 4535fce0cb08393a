package handler

import (
	"log/slog"
	"net/http"

	"peraturan/internal/config"
	"peraturan/internal/domain"
	"peraturan/internal/domain/services"
	"peraturan/internal/httputil"
	"peraturan/internal/ratelimit"
)

// SuggestionHandler handles public suggestion HTTP requests
// Follows Clean Architecture: handlers only communicate with services, never repositories
type SuggestionHandler struct {
	suggestionService services.SuggestionService
	limiter           *ratelimit.Limiter
	logger            *slog.Logger
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(suggestionService services.SuggestionService, limiter *ratelimit.Limiter, logger *slog.Logger) *SuggestionHandler {
	return &SuggestionHandler{
		suggestionService: suggestionService,
		limiter:           limiter,
		logger:            logger,
	}
}

// Submit accepts a reader's correction for a document node
// POST /api/suggestions
// Returns 201 on success, 409 when the snapshot is stale, 429 when the
// client exceeds the submission rate limit.
func (h *SuggestionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	// Rate limit before touching the body so abusive clients stay cheap
	decision := h.limiter.Check("suggestions", ratelimit.ClientKey(r),
		config.SubmitRateLimit, config.SubmitRateWindowSeconds)
	if !decision.Allowed {
		handleError(w, &domain.RateLimitedError{RetryAfterSeconds: decision.RetryAfterSeconds})
		return
	}

	var req services.SubmitSuggestionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sug, err := h.suggestionService.Submit(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, sug)
}
