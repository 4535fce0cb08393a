package services

import (
	"context"

	"peraturan/internal/crossref"
	"peraturan/internal/domain/models"
)

// NodeService serves document nodes to the reader surface.
type NodeService interface {
	// GetTokenized returns the node with its content split into citation
	// tokens, resolvable citations carrying reader links. Returns
	// domain.ErrNotFound when the node does not exist.
	GetTokenized(ctx context.Context, id int64) (*TokenizedNode, error)
}

// TokenizedNode is a node plus the cross-reference token stream the
// correction UI renders. Concatenating token values reproduces the
// node's content exactly.
type TokenizedNode struct {
	Node   *models.DocumentNode `json:"node"`
	Tokens []crossref.Token     `json:"tokens"`
}
