package roles

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

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	List(ctx context.Context) ([]Role, error)
	Get(ctx context.Context, id uuid.UUID) (*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)
	Create(ctx context.Context, role *Role) error
	Update(ctx context.Context, role *Role) error
	CountActiveUsers(ctx context.Context, roleID uuid.UUID) (int, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const roleColumns = `id, name, description, permissions, status, created_at, updated_at`

func scanRole(row pgx.Row) (*Role, error) {
	var role Role
	if err := row.Scan(&role.ID, &role.Name, &role.Description, &role.Permissions,
		&role.Status, &role.CreatedAt, &role.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// List returns active roles sorted by name ascending.
func (r *Repository) List(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE status = $1 ORDER BY name ASC`,
		shared.LifecycleActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}
	return roles, rows.Err()
}

// Get fetches a role by id regardless of lifecycle, so deactivated roles
// remain inspectable.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Role, error) {
	return scanRole(r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id))
}

// FindByName fetches a role by its normalized name regardless of lifecycle.
func (r *Repository) FindByName(ctx context.Context, name string) (*Role, error) {
	return scanRole(r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = $1`, name))
}

// Create inserts a new role. The unique index on name turns concurrent
// duplicate creates into conflicts.
func (r *Repository) Create(ctx context.Context, role *Role) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO roles (id, name, description, permissions, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		role.ID, role.Name, role.Description, role.Permissions, role.Status, role.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: Role already exists with this name", shared.ErrConflict)
		}
		return err
	}
	return nil
}

// Update persists changed fields of the role.
func (r *Repository) Update(ctx context.Context, role *Role) error {
	role.UpdatedAt = time.Now().UTC()
	tag, err := r.pool.Exec(ctx, `
UPDATE roles SET name = $2, description = $3, permissions = $4, status = $5, updated_at = $6
WHERE id = $1`,
		role.ID, role.Name, role.Description, role.Permissions, role.Status, role.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: Role already exists with this name", shared.ErrConflict)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountActiveUsers counts active users referencing the role.
func (r *Repository) CountActiveUsers(ctx context.Context, roleID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role_id = $1 AND status = $2`,
		roleID, shared.LifecycleActive).Scan(&count)
	return count, err
}

var _ RepositoryPort = (*Repository)(nil)
