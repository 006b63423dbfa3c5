package rbac

import (
	"log/slog"
	"net/http"

	"github.com/wardenhq/warden/internal/platform/httpx"
	"github.com/wardenhq/warden/internal/shared"
)

// Guard wires authorization requirements into HTTP handlers. It only reads
// the actor the authentication middleware placed in context; it never touches
// storage, so a role edit is picked up on the very next request.
type Guard struct {
	Logger *slog.Logger
}

// Require enforces the requirement before the wrapped handler runs. A missing
// actor yields Forbidden, distinct from the authentication layer's uniform
// Unauthenticated outcome: the caller is known but may not act.
func (g Guard) Require(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if req.Empty() {
				next.ServeHTTP(w, r)
				return
			}
			actor := shared.ActorFromContext(r.Context())
			if actor == nil {
				httpx.Fail(w, http.StatusForbidden, "Access denied. User role not found.")
				return
			}
			if !Decide(actor.Role.Name, actor.Role.Permissions, req) {
				if g.Logger != nil {
					g.Logger.Warn("authorization denied",
						slog.String("actor", actor.ID.String()),
						slog.String("role", actor.Role.Name),
						slog.String("path", r.URL.Path))
				}
				httpx.Fail(w, http.StatusForbidden, forbiddenMessage(req))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forbiddenMessage(req Requirement) string {
	if req.mode == ModeRole {
		return "Access denied. Insufficient role privileges."
	}
	return "Access denied. Insufficient permissions."
}
