package roles

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/internal/shared"
)

type mockRoleRepo struct {
	roles       map[uuid.UUID]*Role
	activeUsers map[uuid.UUID]int
	err         error
}

func newMockRoleRepo() *mockRoleRepo {
	return &mockRoleRepo{
		roles:       make(map[uuid.UUID]*Role),
		activeUsers: make(map[uuid.UUID]int),
	}
}

func (m *mockRoleRepo) List(_ context.Context) ([]Role, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]Role, 0, len(m.roles))
	for _, r := range m.roles {
		if r.Status.IsActive() {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockRoleRepo) Get(_ context.Context, id uuid.UUID) (*Role, error) {
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.roles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *r
	return &clone, nil
}

func (m *mockRoleRepo) FindByName(_ context.Context, name string) (*Role, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.roles {
		if r.Name == name {
			clone := *r
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockRoleRepo) Create(_ context.Context, role *Role) error {
	if m.err != nil {
		return m.err
	}
	clone := *role
	m.roles[role.ID] = &clone
	return nil
}

func (m *mockRoleRepo) Update(_ context.Context, role *Role) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.roles[role.ID]; !ok {
		return shared.ErrNotFound
	}
	clone := *role
	m.roles[role.ID] = &clone
	return nil
}

func (m *mockRoleRepo) CountActiveUsers(_ context.Context, roleID uuid.UUID) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.activeUsers[roleID], nil
}

func TestCreateNormalizesName(t *testing.T) {
	repo := newMockRoleRepo()
	svc := NewService(repo)

	role, err := svc.Create(context.Background(), CreateInput{
		Name:        "  Editor ",
		Description: "Editing access",
		Permissions: []string{shared.PermUserRead, shared.PermUserWrite},
	})
	require.NoError(t, err)
	assert.Equal(t, "editor", role.Name)
	assert.Equal(t, shared.LifecycleActive, role.Status)

	stored, err := repo.Get(context.Background(), role.ID)
	require.NoError(t, err)
	assert.Equal(t, "editor", stored.Name)
}

func TestCreateRejectsUnknownPermissions(t *testing.T) {
	repo := newMockRoleRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateInput{
		Name:        "auditor",
		Description: "Audit access",
		Permissions: []string{shared.PermUserRead, "bogus:perm", "other:bad"},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Contains(t, err.Error(), "Invalid permissions: bogus:perm, other:bad")
}

func TestCreateDuplicateNameIgnoresCase(t *testing.T) {
	repo := newMockRoleRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateInput{
		Name:        "editor",
		Description: "Editing access",
		Permissions: []string{shared.PermUserRead},
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{
		Name:        "Editor",
		Description: "Another editor",
		Permissions: []string{shared.PermUserRead},
	})
	require.ErrorIs(t, err, shared.ErrConflict)
	assert.Contains(t, err.Error(), "Role already exists with this name")
}

func TestCreateDuplicateNameIgnoresLifecycle(t *testing.T) {
	repo := newMockRoleRepo()
	svc := NewService(repo)

	role, err := svc.Create(context.Background(), CreateInput{
		Name:        "editor",
		Description: "Editing access",
		Permissions: []string{shared.PermUserRead},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), role.ID))

	_, err = svc.Create(context.Background(), CreateInput{
		Name:        "editor",
		Description: "A second life",
		Permissions: []string{shared.PermUserRead},
	})
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestUpdateSkipsUniquenessCheckForSameName(t *testing.T) {
	repo := newMockRoleRepo()
	svc := NewService(repo)

	role, err := svc.Create(context.Background(), CreateInput{
		Name:        "editor",
		Description: "Editing access",
		Permissions: []string{shared.PermUserRead},
	})
	require.NoError(t, err)

	// Same name in different case must not collide with itself.
	name := "EDITOR"
	desc := "Updated description"
	updated, err := svc.Update(context.Background(), role.ID, UpdateInput{Name: &name, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "editor", updated.Name)
	assert.Equal(t, "Updated description", updated.Description)
}

func TestUpdateRejectsCollidingName(t *testing.T) {
	repo := newMockRoleRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateInput{
		Name: "viewer", Description: "Read only", Permissions: []string{shared.PermUserRead},
	})
	require.NoError(t, err)
	role, err := svc.Create(context.Background(), CreateInput{
		Name: "editor", Description: "Editing access", Permissions: []string{shared.PermUserRead},
	})
	require.NoError(t, err)

	name := "Viewer"
	_, err = svc.Update(context.Background(), role.ID, UpdateInput{Name: &name})
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestUpdateRevalidatesPermissions(t *testing.T) {
	repo := newMockRoleRepo()
	svc := NewService(repo)

	role, err := svc.Create(context.Background(), CreateInput{
		Name: "editor", Description: "Editing access", Permissions: []string{shared.PermUserRead},
	})
	require.NoError(t, err)

	perms := []string{"nope"}
	_, err = svc.Update(context.Background(), role.ID, UpdateInput{Permissions: &perms})
	require.ErrorIs(t, err, shared.ErrValidation)

	bad := shared.Lifecycle("archived")
	_, err = svc.Update(context.Background(), role.ID, UpdateInput{Status: &bad})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeleteBlockedWhileUsersAssigned(t *testing.T) {
	repo := newMockRoleRepo()
	svc := NewService(repo)

	role, err := svc.Create(context.Background(), CreateInput{
		Name: "editor", Description: "Editing access", Permissions: []string{shared.PermUserRead},
	})
	require.NoError(t, err)
	repo.activeUsers[role.ID] = 3

	err = svc.Delete(context.Background(), role.ID)
	require.ErrorIs(t, err, shared.ErrConflict)
	assert.True(t, strings.Contains(err.Error(), "3 user(s) are currently assigned"), err.Error())

	stored, err := repo.Get(context.Background(), role.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.LifecycleActive, stored.Status)

	repo.activeUsers[role.ID] = 0
	require.NoError(t, svc.Delete(context.Background(), role.ID))
	stored, err = repo.Get(context.Background(), role.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.LifecycleDeactivated, stored.Status)
}

func TestDeletedRoleLeavesListing(t *testing.T) {
	repo := newMockRoleRepo()
	svc := NewService(repo)

	role, err := svc.Create(context.Background(), CreateInput{
		Name: "editor", Description: "Editing access", Permissions: []string{shared.PermUserRead},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), role.ID))

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed)

	// Still fetchable by id for audit purposes.
	got, err := svc.Get(context.Background(), role.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.LifecycleDeactivated, got.Status)
}

func TestGetUnknownRole(t *testing.T) {
	svc := NewService(newMockRoleRepo())
	_, err := svc.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, shared.ErrNotFound)
	assert.Contains(t, err.Error(), "Role not found")
}

func TestPermissionsReturnsClosedVocabulary(t *testing.T) {
	svc := NewService(newMockRoleRepo())
	perms := svc.Permissions()
	require.Len(t, perms, 8)
	assert.Equal(t, shared.PermUserRead, perms[0].Key)
}
