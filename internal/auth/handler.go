package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/wardenhq/warden/internal/platform/httpx"
	"github.com/wardenhq/warden/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		// Credential endpoints get a tighter limit than the global one.
		r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Authenticate)
		r.Get("/me", h.handleMe)
		r.Post("/logout", h.handleLogout)
	})
}

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=50"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role" validate:"required,uuid"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	fieldErrs := h.validateStruct(req)
	if msg, ok := passwordPolicyError(req.Password); !ok {
		fieldErrs = append(fieldErrs, httpx.FieldError{Field: "password", Message: msg})
	}
	if len(fieldErrs) > 0 {
		httpx.FailFields(w, http.StatusBadRequest, "Validation failed", fieldErrs)
		return
	}

	roleID, err := uuid.Parse(req.Role)
	if err != nil {
		httpx.FailFields(w, http.StatusBadRequest, "Validation failed",
			[]httpx.FieldError{{Field: "role", Message: "Please provide a valid role ID"}})
		return
	}

	token, user, err := h.service.Register(r.Context(), RegisterInput{
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
	httpx.OK(w, http.StatusCreated, "User registered successfully", map[string]any{
		"token": token,
		"user":  user.Actor(),
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fieldErrs := h.validateStruct(req); len(fieldErrs) > 0 {
		httpx.FailFields(w, http.StatusBadRequest, "Validation failed", fieldErrs)
		return
	}

	token, user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Login successful", map[string]any{
		"token": token,
		"user":  user.Actor(),
	})
}

// handleMe returns the actor the guard resolved for this request. No lookup
// happens here: the snapshot is already fresh.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	httpx.OK(w, http.StatusOK, "", map[string]any{"user": actor})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if err := h.service.Logout(r.Context(), claims); err != nil {
		if h.logger != nil {
			h.logger.Error("logout", slog.Any("error", err))
		}
		httpx.Fail(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.OK(w, http.StatusOK, "Logged out successfully", nil)
}

func (h *Handler) validateStruct(req any) []httpx.FieldError {
	err := h.validator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs []httpx.FieldError
	for _, fieldErr := range err.(validator.ValidationErrors) {
		fieldErrs = append(fieldErrs, httpx.FieldError{
			Field:   fieldErr.Field(),
			Message: fieldErr.Error(),
		})
	}
	return fieldErrs
}

// passwordPolicyError checks the lowercase/uppercase/digit rule the validator
// tags cannot express.
func passwordPolicyError(password string) (string, bool) {
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	if lower && upper && digit {
		return "", true
	}
	return "Password must contain at least one lowercase letter, one uppercase letter, and one number", false
}
