// Package sessionview holds pure predicates over the identity snapshot a
// client receives at login or session-restore time. It exists to gate UI
// rendering and client-side navigation only; it is not a trust boundary.
// The snapshot can be stale relative to a role edit made after login, so
// every decision taken here is re-validated server-side.
package sessionview

import "strings"

// Role is the role bundle embedded in a snapshot.
type Role struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// Snapshot is the locally held view of the authenticated identity.
type Snapshot struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      *Role  `json:"role"`
}

// HasPermission reports whether the snapshot grants a single permission.
// Nil snapshots or snapshots without a role always deny.
func HasPermission(s *Snapshot, permission string) bool {
	if s == nil || s.Role == nil {
		return false
	}
	for _, p := range s.Role.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the snapshot grants at least one of the
// given permissions.
func HasAnyPermission(s *Snapshot, permissions []string) bool {
	for _, p := range permissions {
		if HasPermission(s, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the snapshot grants every one of the
// given permissions.
func HasAllPermissions(s *Snapshot, permissions []string) bool {
	if s == nil || s.Role == nil {
		return false
	}
	for _, p := range permissions {
		if !HasPermission(s, p) {
			return false
		}
	}
	return true
}

// HasRole reports whether the snapshot's role name matches, ignoring case.
func HasRole(s *Snapshot, roleName string) bool {
	if s == nil || s.Role == nil {
		return false
	}
	return strings.EqualFold(s.Role.Name, roleName)
}

// HasAnyRole reports whether the snapshot's role name matches any of the
// given names, ignoring case.
func HasAnyRole(s *Snapshot, roleNames []string) bool {
	for _, name := range roleNames {
		if HasRole(s, name) {
			return true
		}
	}
	return false
}

// Convenience wrappers for the fixed vocabulary.

func CanReadUsers(s *Snapshot) bool       { return HasPermission(s, "user:read") }
func CanWriteUsers(s *Snapshot) bool      { return HasPermission(s, "user:write") }
func CanDeleteUsers(s *Snapshot) bool     { return HasPermission(s, "user:delete") }
func CanReadRoles(s *Snapshot) bool       { return HasPermission(s, "role:read") }
func CanWriteRoles(s *Snapshot) bool      { return HasPermission(s, "role:write") }
func CanDeleteRoles(s *Snapshot) bool     { return HasPermission(s, "role:delete") }
func CanAccessDashboard(s *Snapshot) bool { return HasPermission(s, "dashboard:read") }
func CanAccessAdmin(s *Snapshot) bool     { return HasPermission(s, "admin:access") }

func IsAdmin(s *Snapshot) bool   { return HasRole(s, "admin") }
func IsEditor(s *Snapshot) bool  { return HasRole(s, "editor") }
func IsViewer(s *Snapshot) bool  { return HasRole(s, "viewer") }
func IsManager(s *Snapshot) bool { return HasRole(s, "manager") }
