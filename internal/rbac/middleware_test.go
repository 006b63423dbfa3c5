package rbac

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/wardenhq/warden/internal/shared"
)

func callGuard(t *testing.T, req Requirement, actor *shared.Actor) *httptest.ResponseRecorder {
	t.Helper()
	guard := Guard{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if actor != nil {
		request = request.WithContext(shared.ContextWithActor(request.Context(), actor))
	}
	recorder := httptest.NewRecorder()
	guard.Require(req)(next).ServeHTTP(recorder, request)
	return recorder
}

func testActor(roleName string, perms ...string) *shared.Actor {
	return &shared.Actor{
		ID:     uuid.New(),
		Status: shared.LifecycleActive,
		Role:   shared.ActorRole{ID: uuid.New(), Name: roleName, Permissions: perms},
	}
}

func TestRequireDeniesWithoutActor(t *testing.T) {
	res := callGuard(t, RequireAny("user:read"), nil)
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without actor, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "User role not found") {
		t.Fatalf("unexpected body: %s", res.Body.String())
	}
}

func TestRequireAllowsMatchingPermission(t *testing.T) {
	res := callGuard(t, RequireAny("user:read", "role:write"), testActor("viewer", "user:read"))
	if res.Code != http.StatusNoContent {
		t.Fatalf("expected handler to run, got %d", res.Code)
	}
}

func TestRequireDeniesMissingPermission(t *testing.T) {
	res := callGuard(t, RequireAny("role:write"), testActor("viewer", "user:read"))
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "Insufficient permissions") {
		t.Fatalf("unexpected body: %s", res.Body.String())
	}
}

func TestRequireRoleMessage(t *testing.T) {
	res := callGuard(t, RequireRole("admin"), testActor("viewer"))
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "Insufficient role privileges") {
		t.Fatalf("unexpected body: %s", res.Body.String())
	}
}

func TestRequireEmptyRequirementPassesThrough(t *testing.T) {
	res := callGuard(t, RequireAny(), nil)
	if res.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through for empty requirement, got %d", res.Code)
	}
}
