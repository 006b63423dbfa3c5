package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/wardenhq/warden/internal/shared"
)

// User is a managed account record. The credential hash never serializes.
type User struct {
	ID           uuid.UUID        `json:"id"`
	FirstName    string           `json:"firstName"`
	LastName     string           `json:"lastName"`
	Email        string           `json:"email"`
	PasswordHash string           `json:"-"`
	RoleID       uuid.UUID        `json:"-"`
	Role         shared.ActorRole `json:"role"`
	Status       shared.Lifecycle `json:"status"`
	LastLogin    *time.Time       `json:"lastLogin,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}
