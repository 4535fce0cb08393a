package models

import "time"

// Revision types. suggestion_approved is the only type the correction
// workflow produces; agent_correction exists for offline agent runs.
const (
	RevisionSuggestionApproved = "suggestion_approved"
	RevisionAgentCorrection    = "agent_correction"
)

// Actor types recorded on revisions.
const (
	ActorAdmin  = "admin"
	ActorSystem = "system"
)

// Revision is the immutable, append-only audit record of one applied
// content change. A node's content_text must never change without a
// Revision being written in the same transaction; the existence of the
// row is the sole proof that canonical text changed.
type Revision struct {
	ID           int64     `json:"id" db:"id"`
	WorkID       int64     `json:"work_id" db:"work_id"`
	NodeID       int64     `json:"node_id" db:"node_id"`
	NodeType     string    `json:"node_type" db:"node_type"`
	NodeNumber   *string   `json:"node_number" db:"node_number"`
	OldContent   *string   `json:"old_content" db:"old_content"`
	NewContent   string    `json:"new_content" db:"new_content"`
	RevisionType string    `json:"revision_type" db:"revision_type"`
	Reason       string    `json:"reason" db:"reason"`
	SuggestionID *int64    `json:"suggestion_id" db:"suggestion_id"`
	ActorType    string    `json:"actor_type" db:"actor_type"`
	CreatedBy    *string   `json:"created_by" db:"created_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
