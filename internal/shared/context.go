package shared

import (
	"context"

	"github.com/google/uuid"
)

// ActorRole is the role joined into an actor snapshot.
type ActorRole struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
}

// Actor is the per-request view of the authenticated identity, rebuilt fresh
// from storage on every request so role edits and deactivations take effect
// immediately.
type Actor struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      ActorRole `json:"role"`
	Status    Lifecycle `json:"status"`
}

type actorContextKey struct{}

// ContextWithActor stores the resolved actor in context.
func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the resolved actor from context.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorContextKey{}).(*Actor)
	return actor
}
