package roles

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/wardenhq/warden/internal/platform/httpx"
	"github.com/wardenhq/warden/internal/rbac"
	"github.com/wardenhq/warden/internal/shared"
)

// Handler manages role management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     rbac.Guard
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers role routes. The authentication guard is installed by
// the router; here only capability requirements are attached.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.RequireAny(shared.PermRoleRead)))
		r.Get("/", h.listRoles)
		r.Get("/permissions", h.listPermissions)
		r.Get("/{id}", h.getRole)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.RequireAny(shared.PermRoleWrite)))
		r.Post("/", h.createRole)
		r.Put("/{id}", h.updateRole)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.RequireAny(shared.PermRoleDelete)))
		r.Delete("/{id}", h.deleteRole)
	})
}

type roleRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=50,lowercase,alpha"`
	Description string   `json:"description" validate:"required,min=5,max=200"`
	Permissions []string `json:"permissions" validate:"required"`
}

type roleUpdateRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=2,max=50,lowercase,alpha"`
	Description *string   `json:"description" validate:"omitempty,min=5,max=200"`
	Permissions *[]string `json:"permissions"`
	Status      *string   `json:"status" validate:"omitempty,oneof=active deactivated"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if roles == nil {
		roles = []Role{}
	}
	httpx.OK(w, http.StatusOK, "", map[string]any{"roles": roles})
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, http.StatusOK, "", map[string]any{"permissions": h.service.Permissions()})
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, http.StatusNotFound, "Role not found")
		return
	}
	role, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", map[string]any{"role": role})
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fieldErrs := h.validateStruct(req); len(fieldErrs) > 0 {
		httpx.FailFields(w, http.StatusBadRequest, "Validation failed", fieldErrs)
		return
	}

	role, err := h.service.Create(r.Context(), CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "Role created successfully", map[string]any{"role": role})
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, http.StatusNotFound, "Role not found")
		return
	}
	var req roleUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fieldErrs := h.validateStruct(req); len(fieldErrs) > 0 {
		httpx.FailFields(w, http.StatusBadRequest, "Validation failed", fieldErrs)
		return
	}

	in := UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	}
	if req.Status != nil {
		status := shared.Lifecycle(*req.Status)
		in.Status = &status
	}
	role, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Role updated successfully", map[string]any{"role": role})
}

func (h *Handler) deleteRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, http.StatusNotFound, "Role not found")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Role deleted successfully", nil)
}

func (h *Handler) validateStruct(req any) []httpx.FieldError {
	err := h.validator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs []httpx.FieldError
	for _, fieldErr := range err.(validator.ValidationErrors) {
		fieldErrs = append(fieldErrs, httpx.FieldError{Field: fieldErr.Field(), Message: fieldErr.Error()})
	}
	return fieldErrs
}
