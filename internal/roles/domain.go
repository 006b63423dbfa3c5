package roles

import (
	"time"

	"github.com/google/uuid"

	"github.com/wardenhq/warden/internal/shared"
)

// Role is a named, reusable bundle of permissions assigned to users. Names
// are stored lowercased; uniqueness holds across both lifecycle states, so a
// name is never reusable once taken.
type Role struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Permissions []string         `json:"permissions"`
	Status      shared.Lifecycle `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}
