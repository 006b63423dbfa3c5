package auth

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

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	RoleExists(ctx context.Context, id uuid.UUID) (bool, error)
	CreateUser(ctx context.Context, user *User) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
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

// FindByEmail fetches a user with its role by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, userJoinQuery+` WHERE u.email = $1`, email))
}

// FindByID fetches a user with its role by identifier.
func (r *PGRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, userJoinQuery+` WHERE u.id = $1`, id))
}

// EmailTaken reports whether any record, active or not, holds the email.
func (r *PGRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// RoleExists reports whether the role record exists.
func (r *PGRepository) RoleExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// CreateUser persists a new account. A concurrent duplicate email surfaces
// as a conflict through the unique index rather than slipping past the
// read-then-write pre-check.
func (r *PGRepository) CreateUser(ctx context.Context, user *User) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO users (id, first_name, last_name, email, password_hash, role_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.RoleID, user.Status, user.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: email already registered", shared.ErrConflict)
		}
		return err
	}
	return nil
}

// TouchLastLogin records the login timestamp.
func (r *PGRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	return err
}

var _ Repository = (*PGRepository)(nil)
