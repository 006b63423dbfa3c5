package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/wardenhq/warden/internal/shared"
)

// User is a stored account record with its role joined in.
type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	RoleID       uuid.UUID
	Role         shared.ActorRole
	Status       shared.Lifecycle
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor converts the record into the per-request identity snapshot.
func (u *User) Actor() *shared.Actor {
	return &shared.Actor{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
	}
}
