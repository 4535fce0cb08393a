package handler

import (
	"log/slog"
	"net/http"

	"peraturan/internal/domain/services"
	"peraturan/internal/httputil"
)

// NodeHandler handles reader-facing node HTTP requests
type NodeHandler struct {
	nodeService services.NodeService
	logger      *slog.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(nodeService services.NodeService, logger *slog.Logger) *NodeHandler {
	return &NodeHandler{
		nodeService: nodeService,
		logger:      logger,
	}
}

// GetNode retrieves a node with its content tokenized for citation links
// GET /api/v1/nodes/{id}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	node, err := h.nodeService.GetTokenized(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, node)
}
