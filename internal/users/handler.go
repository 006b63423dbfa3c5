package users

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/wardenhq/warden/internal/platform/httpx"
	"github.com/wardenhq/warden/internal/rbac"
	"github.com/wardenhq/warden/internal/shared"
)

// Handler manages user management endpoints.
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

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.RequireAny(shared.PermUserRead)))
		r.Get("/", h.listUsers)
		r.Get("/{id}", h.getUser)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.RequireAny(shared.PermUserWrite)))
		r.Post("/", h.createUser)
		r.Put("/{id}", h.updateUser)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.RequireAny(shared.PermUserDelete)))
		r.Delete("/{id}", h.deleteUser)
	})
}

type createUserRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=50"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role" validate:"required,uuid"`
}

type updateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=2,max=50"`
	LastName  *string `json:"lastName" validate:"omitempty,min=2,max=50"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Role      *string `json:"role" validate:"omitempty,uuid"`
	Status    *string `json:"status" validate:"omitempty,oneof=active deactivated"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, pagination, err := h.service.List(r.Context(), page, limit)
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if users == nil {
		users = []User{}
	}
	httpx.OK(w, http.StatusOK, "", map[string]any{
		"users":      users,
		"pagination": pagination,
	})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, http.StatusNotFound, "User not found")
		return
	}
	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", map[string]any{"user": user})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fieldErrs := h.validateStruct(req); len(fieldErrs) > 0 {
		httpx.FailFields(w, http.StatusBadRequest, "Validation failed", fieldErrs)
		return
	}
	roleID, err := uuid.Parse(req.Role)
	if err != nil {
		httpx.FailFields(w, http.StatusBadRequest, "Validation failed",
			[]httpx.FieldError{{Field: "role", Message: "Please provide a valid role ID"}})
		return
	}

	user, err := h.service.Create(r.Context(), CreateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		RoleID:    roleID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "User created successfully", map[string]any{"user": user})
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, http.StatusNotFound, "User not found")
		return
	}
	var req updateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fieldErrs := h.validateStruct(req); len(fieldErrs) > 0 {
		httpx.FailFields(w, http.StatusBadRequest, "Validation failed", fieldErrs)
		return
	}

	in := UpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if req.Role != nil {
		roleID, err := uuid.Parse(*req.Role)
		if err != nil {
			httpx.FailFields(w, http.StatusBadRequest, "Validation failed",
				[]httpx.FieldError{{Field: "role", Message: "Please provide a valid role ID"}})
			return
		}
		in.RoleID = &roleID
	}
	if req.Status != nil {
		status := shared.Lifecycle(*req.Status)
		in.Status = &status
	}

	user, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "User updated successfully", map[string]any{"user": user})
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, http.StatusNotFound, "User not found")
		return
	}
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		httpx.RespondError(w, shared.ErrForbidden)
		return
	}
	if err := h.service.Delete(r.Context(), id, actor.ID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "User deleted successfully", nil)
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
