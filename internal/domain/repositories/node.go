package repositories

import (
	"context"

	"peraturan/internal/domain/models"
)

// NodeRepository reads and mutates canonical document nodes. Content
// updates must only be issued by the suggestion workflow's revision
// application, inside a transaction that also writes the Revision.
type NodeRepository interface {
	// GetByID retrieves a node by id. Returns domain.ErrNotFound when
	// the node does not exist.
	GetByID(ctx context.Context, id int64) (*models.DocumentNode, error)

	// UpdateContent sets the node's live content and stamps the revision
	// that produced it.
	UpdateContent(ctx context.Context, id int64, content string, revisionID int64) error
}

// WorkRepository reads legislation works for citation resolution.
type WorkRepository interface {
	// GetByID retrieves a work by id. Returns domain.ErrNotFound when
	// absent.
	GetByID(ctx context.Context, id int64) (*models.Work, error)

	// SlugPaths returns the slug-key → reader-path lookup used by the
	// cross-reference tokenizer.
	SlugPaths(ctx context.Context) (map[string]string, error)
}

// ChunkRepository maintains the derived search representation of node
// content. Kept consistent synchronously with the node, in the same
// transaction.
type ChunkRepository interface {
	// UpdateContentByNode rewrites the chunk content for a node.
	UpdateContentByNode(ctx context.Context, nodeID int64, content string) error
}
