package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wardenhq/warden/internal/shared"
)

// RegisterInput carries the fields accepted by self-service registration.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	RoleID    uuid.UUID
}

// Service wraps authentication business rules.
type Service struct {
	repo       Repository
	tokens     *TokenService
	revoked    *RevocationList
	bcryptCost int
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenService, revoked *RevocationList, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, tokens: tokens, revoked: revoked, bcryptCost: bcryptCost}
}

// Authenticate validates email/password credentials. Unknown accounts,
// deactivated accounts and wrong passwords all collapse into the same
// uniform failure.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrUnauthenticated
	}
	if !user.Status.IsActive() {
		return nil, shared.ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrUnauthenticated
	}
	return user, nil
}

// Login authenticates and issues a bearer token, recording the login time.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	now := time.Now().UTC()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return "", nil, err
	}
	user.LastLogin = &now
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Register creates a new account. Email uniqueness is case-sensitive and the
// referenced role must exist.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, *User, error) {
	in.Email = strings.TrimSpace(in.Email)
	taken, err := s.repo.EmailTaken(ctx, in.Email)
	if err != nil {
		return "", nil, err
	}
	if taken {
		return "", nil, fmt.Errorf("%w: User already exists with this email", shared.ErrConflict)
	}
	exists, err := s.repo.RoleExists(ctx, in.RoleID)
	if err != nil {
		return "", nil, err
	}
	if !exists {
		return "", nil, fmt.Errorf("%w: Invalid role ID", shared.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return "", nil, err
	}
	user := &User{
		ID:           uuid.New(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        in.Email,
		PasswordHash: string(hash),
		RoleID:       in.RoleID,
		Status:       shared.LifecycleActive,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return "", nil, err
	}

	// Re-read to join the role for the response snapshot.
	created, err := s.repo.FindByID(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}
	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return "", nil, err
	}
	return token, created, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if s.revoked == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
