package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wardenhq/warden/internal/platform/db"
	"github.com/wardenhq/warden/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]User, error)
	CountActive(ctx context.Context) (int, error)
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	RoleExists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userJoinQuery = `
SELECT u.id, u.first_name, u.last_name, u.email, u.password_hash, u.role_id,
       u.status, u.last_login, u.created_at, u.updated_at,
       r.name, r.description, r.permissions
FROM users u
JOIN roles r ON r.id = u.role_id`

func scanUser(row pgx.Row) (*User, error) {
	var user User
	if err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash,
		&user.RoleID, &user.Status, &user.LastLogin, &user.CreatedAt, &user.UpdatedAt,
		&user.Role.Name, &user.Role.Description, &user.Role.Permissions,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	user.Role.ID = user.RoleID
	return &user, nil
}

// List returns active users sorted by creation time descending.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		userJoinQuery+` WHERE u.status = $1 ORDER BY u.created_at DESC LIMIT $2 OFFSET $3`,
		shared.LifecycleActive, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// CountActive counts active users.
func (r *Repository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE status = $1`, shared.LifecycleActive).Scan(&count)
	return count, err
}

// Get fetches a user by id regardless of lifecycle.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, userJoinQuery+` WHERE u.id = $1`, id))
}

// EmailTaken reports whether any record, active or not, holds the email.
// The comparison is byte-for-byte; see the email case note in DESIGN.md.
func (r *Repository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// RoleExists reports whether the role record exists.
func (r *Repository) RoleExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// Create persists a new account.
func (r *Repository) Create(ctx context.Context, user *User) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO users (id, first_name, last_name, email, password_hash, role_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.RoleID, user.Status, user.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: User already exists with this email", shared.ErrConflict)
		}
		return err
	}
	return nil
}

// Update persists changed fields of the user.
func (r *Repository) Update(ctx context.Context, user *User) error {
	user.UpdatedAt = time.Now().UTC()
	tag, err := r.pool.Exec(ctx, `
UPDATE users SET first_name = $2, last_name = $3, email = $4, role_id = $5, status = $6, updated_at = $7
WHERE id = $1`,
		user.ID, user.FirstName, user.LastName, user.Email, user.RoleID, user.Status, user.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: User already exists with this email", shared.ErrConflict)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
