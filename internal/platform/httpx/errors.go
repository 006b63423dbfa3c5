package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/wardenhq/warden/internal/shared"
)

// accessDeniedMessage is deliberately uniform for every authentication
// failure so callers cannot probe which sub-check rejected them.
const accessDeniedMessage = "Access denied."

// RespondError maps domain errors to envelope responses. Unexpected errors
// surface as a generic server fault without internal detail.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrUnauthenticated):
		Fail(w, http.StatusUnauthorized, accessDeniedMessage)
	case errors.Is(err, shared.ErrForbidden):
		Fail(w, http.StatusForbidden, clientMessage(err, shared.ErrForbidden, "Forbidden"))
	case errors.Is(err, shared.ErrValidation):
		Fail(w, http.StatusBadRequest, clientMessage(err, shared.ErrValidation, "Validation failed"))
	case errors.Is(err, shared.ErrConflict):
		Fail(w, http.StatusConflict, clientMessage(err, shared.ErrConflict, "Conflict"))
	case errors.Is(err, shared.ErrNotFound):
		Fail(w, http.StatusNotFound, clientMessage(err, shared.ErrNotFound, "Not found"))
	default:
		Fail(w, http.StatusInternalServerError, "Server error")
	}
}

// clientMessage strips the sentinel prefix from a wrapped error so only the
// human-readable part reaches the client.
func clientMessage(err error, sentinel error, fallback string) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return rest
	}
	if msg == sentinel.Error() {
		return fallback
	}
	return msg
}
