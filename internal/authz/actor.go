package authz

import (
	"context"

	"github.com/hahnsoftware/emp-records-api/internal/models"
)

// Actor is the authenticated principal behind the currently-executing request.
// It is threaded through context.Context rather than held in shared state so
// that concurrent requests can never contaminate each other's attribution.
type Actor struct {
	ID           uint
	Username     string
	Role         models.Role
	DepartmentID *uint
}

type actorContextKey struct{}

var actorKey = actorContextKey{}

// WithActor binds the acting principal to the context for the duration of a request.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext extracts the acting principal, if one was bound.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}
