package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/wardenhq/warden/internal/platform/httpx"
	"github.com/wardenhq/warden/internal/shared"
)

// Directory resolves an identity reference to a live account with its role.
type Directory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// Middleware is the authentication guard. It runs on every protected route
// with no caching between requests: the account and its role are re-read per
// request so deactivation, role edits and revocation take effect immediately.
type Middleware struct {
	Logger  *slog.Logger
	Tokens  *TokenService
	Revoked *RevocationList
	Users   Directory
}

type claimsContextKey struct{}

// ClaimsFromContext extracts the verified token claims, when present.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey{}).(*Claims)
	return claims
}

// Authenticate verifies the bearer credential and attaches the resolved actor
// to the request context. Every failure path produces the same uniform
// outcome so callers cannot tell which sub-check rejected them.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			m.deny(w)
			return
		}
		claims, err := m.Tokens.Verify(raw)
		if err != nil {
			m.deny(w)
			return
		}
		if m.Revoked != nil {
			revoked, err := m.Revoked.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("revocation lookup", slog.Any("error", err))
				}
				httpx.Fail(w, http.StatusInternalServerError, "Server error")
				return
			}
			if revoked {
				m.deny(w)
				return
			}
		}
		userID, err := claims.SubjectID()
		if err != nil {
			m.deny(w)
			return
		}
		user, err := m.Users.FindByID(r.Context(), userID)
		if err != nil || !user.Status.IsActive() {
			m.deny(w)
			return
		}

		ctx := shared.ContextWithActor(r.Context(), user.Actor())
		ctx = context.WithValue(ctx, claimsContextKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m Middleware) deny(w http.ResponseWriter) {
	httpx.RespondError(w, shared.ErrUnauthenticated)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
