package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"peraturan/internal/domain/services"
	"peraturan/internal/httputil"
)

// AdminHandler handles the admin review HTTP requests. All routes are
// behind the admin auth middleware, which guarantees an actor on the
// context.
type AdminHandler struct {
	suggestionService services.SuggestionService
	logger            *slog.Logger
}

// NewAdminHandler creates a new admin review handler
func NewAdminHandler(suggestionService services.SuggestionService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		suggestionService: suggestionService,
		logger:            logger,
	}
}

// ListSuggestions retrieves recent suggestions for review
// GET /api/admin/suggestions?limit=N
func (h *AdminHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	suggestions, err := h.suggestionService.ListRecent(r.Context(), limit)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// VerifySuggestion runs the AI-advisory check on a pending suggestion
// POST /api/admin/suggestions/{id}/verify
// Returns the suggestion with the stored advisory fields. 502 when the
// advisory service fails; the suggestion stays pending.
func (h *AdminHandler) VerifySuggestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	sug, err := h.suggestionService.Verify(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, sug)
}

// approveRequest is the optional body for approval.
type approveRequest struct {
	UseAIContent bool `json:"use_ai_content"`
}

// ApproveSuggestion applies a pending suggestion to the canonical text
// POST /api/admin/suggestions/{id}/approve
// Returns the id of the revision that recorded the change.
func (h *AdminHandler) ApproveSuggestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	actor := httputil.GetActor(r)

	// Body is optional; absence means apply the reader's text as-is
	var req approveRequest
	if err := parseOptionalJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	revisionID, err := h.suggestionService.Approve(r.Context(), id, actor, req.UseAIContent)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"suggestion_id": id,
		"revision_id":   revisionID,
		"status":        "approved",
	})
}

// rejectRequest is the optional body for rejection.
type rejectRequest struct {
	ReviewNote string `json:"review_note"`
}

// RejectSuggestion marks a pending suggestion rejected
// POST /api/admin/suggestions/{id}/reject
func (h *AdminHandler) RejectSuggestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	actor := httputil.GetActor(r)

	var req rejectRequest
	if err := parseOptionalJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.suggestionService.Reject(r.Context(), id, actor, req.ReviewNote); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"suggestion_id": id,
		"status":        "rejected",
	})
}
