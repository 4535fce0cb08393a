// Package node serves canonical document nodes with their content
// tokenized for citation rendering.
package node

import (
	"context"
	"log/slog"

	"peraturan/internal/crossref"
	"peraturan/internal/domain/repositories"
	"peraturan/internal/domain/services"
)

// service implements the NodeService interface
type service struct {
	nodeRepo  repositories.NodeRepository
	workRepo  repositories.WorkRepository
	tokenizer *crossref.Tokenizer
	logger    *slog.Logger
}

// NewService creates a new node service
func NewService(
	nodeRepo repositories.NodeRepository,
	workRepo repositories.WorkRepository,
	tokenizer *crossref.Tokenizer,
	logger *slog.Logger,
) services.NodeService {
	return &service{
		nodeRepo:  nodeRepo,
		workRepo:  workRepo,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// GetTokenized loads the node and tokenizes its content against the
// current works table. A citation to a work that is not in the corpus
// stays plain text rather than producing a dead link.
func (s *service) GetTokenized(ctx context.Context, id int64) (*services.TokenizedNode, error) {
	node, err := s.nodeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lookup, err := s.workRepo.SlugPaths(ctx)
	if err != nil {
		return nil, err
	}

	return &services.TokenizedNode{
		Node:   node,
		Tokens: s.tokenizer.Tokenize(node.ContentText, lookup),
	}, nil
}
