// Package suggestion implements the crowd-sourced correction workflow:
// submission with staleness detection, AI-advisory verification, and
// admin decisions that apply revisions to the canonical store
// atomically.
package suggestion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"peraturan/internal/config"
	"peraturan/internal/diff"
	"peraturan/internal/domain"
	"peraturan/internal/domain/models"
	"peraturan/internal/domain/repositories"
	"peraturan/internal/domain/services"
)

// service implements the SuggestionService interface
type service struct {
	suggestionRepo repositories.SuggestionRepository
	nodeRepo       repositories.NodeRepository
	revisionRepo   repositories.RevisionRepository
	chunkRepo      repositories.ChunkRepository
	txManager      repositories.TransactionManager
	verifier       services.SuggestionVerifier
	logger         *slog.Logger
}

// NewService creates a new suggestion workflow service
func NewService(
	suggestionRepo repositories.SuggestionRepository,
	nodeRepo repositories.NodeRepository,
	revisionRepo repositories.RevisionRepository,
	chunkRepo repositories.ChunkRepository,
	txManager repositories.TransactionManager,
	verifier services.SuggestionVerifier,
	logger *slog.Logger,
) services.SuggestionService {
	return &service{
		suggestionRepo: suggestionRepo,
		nodeRepo:       nodeRepo,
		revisionRepo:   revisionRepo,
		chunkRepo:      chunkRepo,
		txManager:      txManager,
		verifier:       verifier,
		logger:         logger,
	}
}

// Submit validates a reader's correction, re-checks staleness against
// the live node, and persists a pending suggestion. No content mutation
// happens here.
func (s *service) Submit(ctx context.Context, req *services.SubmitSuggestionRequest) (*models.Suggestion, error) {
	if err := validateSubmit(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	trimmedCurrent := strings.TrimSpace(req.CurrentContent)
	trimmedSuggested := strings.TrimSpace(req.SuggestedContent)
	if trimmedCurrent == trimmedSuggested {
		return nil, fmt.Errorf("%w: suggested content is identical to current content", domain.ErrValidation)
	}

	node, err := s.nodeRepo.GetByID(ctx, req.NodeID)
	if err != nil {
		return nil, err
	}

	// Staleness re-check: the reader edited against a snapshot. If the
	// live text has drifted since, reject so they can re-diff against
	// fresh content instead of unknowingly overwriting someone else's
	// applied correction.
	if strings.TrimSpace(node.ContentText) != trimmedCurrent {
		return nil, &domain.ConflictError{
			Message: "content has changed since you started editing, please reload",
		}
	}

	// Stored for review context only; no decision is made on it here.
	stats := diff.ComputeStats(diff.Compute(req.CurrentContent, req.SuggestedContent))

	metadata := make(map[string]interface{}, len(req.Metadata)+1)
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	metadata["chars_changed"] = stats.CharsInserted + stats.CharsDeleted

	sug := &models.Suggestion{
		WorkID:           req.WorkID,
		NodeID:           req.NodeID,
		NodeType:         req.NodeType,
		NodeNumber:       req.NodeNumber,
		CurrentContent:   req.CurrentContent,
		SuggestedContent: trimmedSuggested,
		UserReason:       normalizeOptional(req.UserReason),
		SubmitterEmail:   normalizeOptional(req.SubmitterEmail),
		Status:           models.SuggestionPending,
		Metadata:         metadata,
	}

	if err := s.suggestionRepo.Create(ctx, sug); err != nil {
		return nil, err
	}

	s.logger.Info("suggestion submitted",
		"suggestion_id", sug.ID,
		"work_id", sug.WorkID,
		"node_id", sug.NodeID,
		"chars_changed", metadata["chars_changed"],
	)

	return sug, nil
}

// ListRecent returns the most recent suggestions for admin review
func (s *service) ListRecent(ctx context.Context, limit int) ([]models.Suggestion, error) {
	if limit <= 0 || limit > config.MaxSuggestionListLimit {
		limit = config.DefaultSuggestionListLimit
	}
	return s.suggestionRepo.ListRecent(ctx, limit)
}

// Verify runs the external advisory check and stores its structured
// response on the suggestion. Advisory only: status never changes and
// nothing is auto-applied.
func (s *service) Verify(ctx context.Context, suggestionID int64) (*models.Suggestion, error) {
	sug, err := s.suggestionRepo.GetPendingByID(ctx, suggestionID)
	if err != nil {
		return nil, err
	}

	req := &services.VerifyRequest{
		NodeType:         sug.NodeType,
		CurrentContent:   sug.CurrentContent,
		SuggestedContent: sug.SuggestedContent,
	}
	if sug.NodeNumber != nil {
		req.NodeNumber = *sug.NodeNumber
	}
	if sug.UserReason != nil {
		req.UserReason = *sug.UserReason
	}

	review, verifyErr := s.verifier.VerifySuggestion(ctx, req)

	// A failed call is still recorded on the suggestion so the admin
	// sees the attempt, then surfaced as an upstream failure. The
	// suggestion stays pending either way.
	if review != nil {
		update := &repositories.AgentReviewUpdate{
			Decision:        review.Decision,
			ModifiedContent: review.ModifiedContent,
			Response:        review.Response,
		}
		if review.Decision != models.AgentError {
			confidence := review.Confidence
			update.Confidence = &confidence
		}
		if err := s.suggestionRepo.SetAgentReview(ctx, suggestionID, update); err != nil {
			return nil, err
		}
	}

	if verifyErr != nil {
		s.logger.Error("suggestion verification failed",
			"suggestion_id", suggestionID,
			"error", verifyErr,
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, verifyErr)
	}

	s.logger.Info("suggestion verified",
		"suggestion_id", suggestionID,
		"decision", review.Decision,
		"confidence", review.Confidence,
	)

	return s.suggestionRepo.GetPendingByID(ctx, suggestionID)
}

// Approve applies a pending suggestion to the canonical store. Revision
// creation, node update, search-chunk propagation, and the status
// transition run as one transaction; a failure on any step rolls the
// whole apply back and the suggestion stays pending for retry.
//
// Approval does not re-check staleness against the snapshot: the
// revision records the live content it replaced, so the audit trail
// stays truthful even when the node drifted after submission.
func (s *service) Approve(ctx context.Context, suggestionID int64, actor *models.Actor, useAIContent bool) (int64, error) {
	if err := validateActor(actor); err != nil {
		return 0, err
	}

	sug, err := s.suggestionRepo.GetPendingByID(ctx, suggestionID)
	if err != nil {
		return 0, err
	}

	contentToApply := sug.SuggestedContent
	if useAIContent && sug.AgentModifiedContent != nil && *sug.AgentModifiedContent != "" {
		contentToApply = *sug.AgentModifiedContent
	}

	reason := "Suggestion approved by admin"
	if sug.UserReason != nil && *sug.UserReason != "" {
		reason = *sug.UserReason
	}

	var revisionID int64
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		// Live content is read inside the transaction so the revision's
		// old_content is exactly what this apply replaces.
		node, err := s.nodeRepo.GetByID(txCtx, sug.NodeID)
		if err != nil {
			return err
		}

		rev := &models.Revision{
			WorkID:       sug.WorkID,
			NodeID:       sug.NodeID,
			NodeType:     sug.NodeType,
			NodeNumber:   sug.NodeNumber,
			OldContent:   &node.ContentText,
			NewContent:   contentToApply,
			RevisionType: models.RevisionSuggestionApproved,
			Reason:       reason,
			SuggestionID: &sug.ID,
			ActorType:    models.ActorAdmin,
			CreatedBy:    &actor.ID,
		}
		if err := s.revisionRepo.Create(txCtx, rev); err != nil {
			return err
		}

		if err := s.nodeRepo.UpdateContent(txCtx, sug.NodeID, contentToApply, rev.ID); err != nil {
			return err
		}

		if err := s.chunkRepo.UpdateContentByNode(txCtx, sug.NodeID, contentToApply); err != nil {
			return err
		}

		// The pending-status predicate decides concurrent approvals:
		// the loser updates nothing and rolls back its revision.
		if err := s.suggestionRepo.MarkDecided(txCtx, sug.ID, &repositories.DecisionUpdate{
			Status:     models.SuggestionApproved,
			ReviewedBy: actor.ID,
			ReviewedAt: time.Now().UTC(),
			RevisionID: &rev.ID,
		}); err != nil {
			return err
		}

		revisionID = rev.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("suggestion approved",
		"suggestion_id", suggestionID,
		"revision_id", revisionID,
		"reviewed_by", actor.ID,
		"used_ai_content", useAIContent && contentToApply != sug.SuggestedContent,
	)

	return revisionID, nil
}

// Reject marks a pending suggestion rejected. Terminal, no other side
// effects.
func (s *service) Reject(ctx context.Context, suggestionID int64, actor *models.Actor, reviewNote string) error {
	if err := validateActor(actor); err != nil {
		return err
	}

	update := &repositories.DecisionUpdate{
		Status:     models.SuggestionRejected,
		ReviewedBy: actor.ID,
		ReviewedAt: time.Now().UTC(),
	}
	if note := strings.TrimSpace(reviewNote); note != "" {
		update.ReviewNote = &note
	}

	if err := s.suggestionRepo.MarkDecided(ctx, suggestionID, update); err != nil {
		return err
	}

	s.logger.Info("suggestion rejected",
		"suggestion_id", suggestionID,
		"reviewed_by", actor.ID,
	)

	return nil
}

func validateSubmit(req *services.SubmitSuggestionRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.WorkID, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.NodeID, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.NodeType, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.CurrentContent, validation.Required, validation.Length(1, config.MaxContentLength)),
		validation.Field(&req.SuggestedContent, validation.Required, validation.Length(1, config.MaxContentLength)),
		validation.Field(&req.UserReason, validation.Length(0, config.MaxReasonLength)),
		validation.Field(&req.SubmitterEmail, is.EmailFormat),
	)
}

func validateActor(actor *models.Actor) error {
	if actor == nil || actor.ID == "" {
		return fmt.Errorf("%w: missing actor", domain.ErrValidation)
	}
	if _, err := uuid.Parse(actor.ID); err != nil {
		return fmt.Errorf("%w: actor id is not a valid UUID", domain.ErrValidation)
	}
	return nil
}

// normalizeOptional trims an optional string and drops it when empty.
func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
