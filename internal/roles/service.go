package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wardenhq/warden/internal/shared"
)

// CreateInput carries the fields for a new role.
type CreateInput struct {
	Name        string
	Description string
	Permissions []string
}

// UpdateInput carries partial update fields; nil means "leave unchanged".
type UpdateInput struct {
	Name        *string
	Description *string
	Permissions *[]string
	Status      *shared.Lifecycle
}

// Service enforces the role integrity rules.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns active roles sorted by name.
func (s *Service) List(ctx context.Context) ([]Role, error) {
	return s.repo.List(ctx)
}

// Get returns a single role regardless of lifecycle.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Role, error) {
	role, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: Role not found", shared.ErrNotFound)
		}
		return nil, err
	}
	return role, nil
}

// Create validates and inserts a new role. The duplicate check deliberately
// ignores lifecycle: a name is never reusable once taken.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Role, error) {
	name := strings.ToLower(strings.TrimSpace(in.Name))
	if name == "" {
		return nil, fmt.Errorf("%w: Role name is required", shared.ErrValidation)
	}
	if err := validatePermissions(in.Permissions); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: Role already exists with this name", shared.ErrConflict)
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	role := &Role{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Permissions: in.Permissions,
		Status:      shared.LifecycleActive,
		CreatedAt:   time.Now().UTC(),
	}
	role.UpdatedAt = role.CreatedAt
	if err := s.repo.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// Update applies a partial update. The uniqueness check re-runs only when the
// normalized name actually changes; the permission set is re-validated
// whenever it is present.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Role, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.ToLower(strings.TrimSpace(*in.Name))
		if name == "" {
			return nil, fmt.Errorf("%w: Role name is required", shared.ErrValidation)
		}
		if name != role.Name {
			if _, err := s.repo.FindByName(ctx, name); err == nil {
				return nil, fmt.Errorf("%w: Role already exists with this name", shared.ErrConflict)
			} else if !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
		}
		role.Name = name
	}
	if in.Description != nil {
		role.Description = strings.TrimSpace(*in.Description)
	}
	if in.Permissions != nil {
		if err := validatePermissions(*in.Permissions); err != nil {
			return nil, err
		}
		role.Permissions = *in.Permissions
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, *in.Status)
		}
		role.Status = *in.Status
	}

	if err := s.repo.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// Delete soft-deletes a role, refusing while active users still reference it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.repo.CountActiveUsers(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: Cannot delete role. %d user(s) are currently assigned to this role.",
			shared.ErrConflict, count)
	}
	role.Status = shared.LifecycleDeactivated
	return s.repo.Update(ctx, role)
}

// Permissions returns the closed vocabulary for the listing endpoint.
func (s *Service) Permissions() []shared.Permission {
	return shared.Permissions()
}

func validatePermissions(perms []string) error {
	if invalid := shared.InvalidPermissions(perms); len(invalid) > 0 {
		return fmt.Errorf("%w: Invalid permissions: %s", shared.ErrValidation, strings.Join(invalid, ", "))
	}
	return nil
}
