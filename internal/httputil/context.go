package httputil

import (
	"context"
	"net/http"

	"peraturan/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	actorKey contextKey = "actor"
)

// WithActor adds the authenticated admin actor to the request context
func WithActor(r *http.Request, actor *models.Actor) *http.Request {
	ctx := context.WithValue(r.Context(), actorKey, actor)
	return r.WithContext(ctx)
}

// GetActor retrieves the actor from context, returns nil if not found
func GetActor(r *http.Request) *models.Actor {
	actor, _ := r.Context().Value(actorKey).(*models.Actor)
	return actor
}
