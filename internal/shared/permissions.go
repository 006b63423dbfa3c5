package shared

// Permission keys form a closed vocabulary fixed at deployment time.
// Every consumer (role validation, the listing endpoint, seeds and tests)
// must read from this table rather than maintain its own copy.
const (
	PermUserRead      = "user:read"
	PermUserWrite     = "user:write"
	PermUserDelete    = "user:delete"
	PermRoleRead      = "role:read"
	PermRoleWrite     = "role:write"
	PermRoleDelete    = "role:delete"
	PermDashboardRead = "dashboard:read"
	PermAdminAccess   = "admin:access"
)

// Permission pairs a vocabulary key with its human-readable description.
type Permission struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

var permissionTable = []Permission{
	{Key: PermUserRead, Description: "View users"},
	{Key: PermUserWrite, Description: "Create and edit users"},
	{Key: PermUserDelete, Description: "Delete users"},
	{Key: PermRoleRead, Description: "View roles"},
	{Key: PermRoleWrite, Description: "Create and edit roles"},
	{Key: PermRoleDelete, Description: "Delete roles"},
	{Key: PermDashboardRead, Description: "Access dashboard"},
	{Key: PermAdminAccess, Description: "Access admin panel"},
}

var permissionKeys = func() map[string]struct{} {
	keys := make(map[string]struct{}, len(permissionTable))
	for _, p := range permissionTable {
		keys[p.Key] = struct{}{}
	}
	return keys
}()

// Permissions returns the full vocabulary in its canonical order.
func Permissions() []Permission {
	out := make([]Permission, len(permissionTable))
	copy(out, permissionTable)
	return out
}

// PermissionKeys returns every vocabulary key in canonical order.
func PermissionKeys() []string {
	keys := make([]string, len(permissionTable))
	for i, p := range permissionTable {
		keys[i] = p.Key
	}
	return keys
}

// KnownPermission reports whether p belongs to the vocabulary.
func KnownPermission(p string) bool {
	_, ok := permissionKeys[p]
	return ok
}

// InvalidPermissions returns every entry of perms that falls outside the
// vocabulary, preserving submission order.
func InvalidPermissions(perms []string) []string {
	var invalid []string
	for _, p := range perms {
		if !KnownPermission(p) {
			invalid = append(invalid, p)
		}
	}
	return invalid
}
