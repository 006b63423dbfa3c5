package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wardenhq/warden/internal/shared"
)

// CreateInput carries the fields for an administrative create.
type CreateInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	RoleID    uuid.UUID
}

// UpdateInput carries partial update fields; nil means "leave unchanged".
type UpdateInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	RoleID    *uuid.UUID
	Status    *shared.Lifecycle
}

// Service enforces the user integrity rules.
type Service struct {
	repo       RepositoryPort
	bcryptCost int
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// List returns active users newest-first with pagination metadata.
func (s *Service) List(ctx context.Context, page, limit int) ([]User, shared.Pagination, error) {
	total, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	pagination := shared.NewPagination(page, limit, total)
	users, err := s.repo.List(ctx, pagination.Limit, pagination.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return users, pagination, nil
}

// Get returns a single user regardless of lifecycle.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: User not found", shared.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// Create validates and inserts a new account: unique email, existing role,
// one-way transformed credential.
func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	email := strings.TrimSpace(in.Email)
	taken, err := s.repo.EmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: User already exists with this email", shared.ErrConflict)
	}
	exists, err := s.repo.RoleExists(ctx, in.RoleID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: Invalid role ID", shared.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &User{
		ID:           uuid.New(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       in.RoleID,
		Status:       shared.LifecycleActive,
		CreatedAt:    time.Now().UTC(),
	}
	user.UpdatedAt = user.CreatedAt
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.Get(ctx, user.ID)
}

// Update applies a partial update. The duplicate check re-runs only when the
// email changes; role existence re-validates only when the role changes.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != user.Email {
			taken, err := s.repo.EmailTaken(ctx, email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, fmt.Errorf("%w: User already exists with this email", shared.ErrConflict)
			}
		}
		user.Email = email
	}
	if in.RoleID != nil && *in.RoleID != user.RoleID {
		exists, err := s.repo.RoleExists(ctx, *in.RoleID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: Invalid role ID", shared.ErrValidation)
		}
		user.RoleID = *in.RoleID
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, *in.Status)
		}
		user.Status = *in.Status
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes an account. The actor performing the request can never
// deactivate itself through this path, regardless of permissions held.
func (s *Service) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.ID == actorID {
		return fmt.Errorf("%w: You cannot delete your own account", shared.ErrConflict)
	}
	user.Status = shared.LifecycleDeactivated
	return s.repo.Update(ctx, user)
}
