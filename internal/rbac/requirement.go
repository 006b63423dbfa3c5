package rbac

import "strings"

// Mode selects how a requirement combines its values.
type Mode int

const (
	// ModeAny allows when the actor holds at least one listed permission.
	ModeAny Mode = iota
	// ModeAll allows only when the actor holds every listed permission.
	ModeAll
	// ModeRole allows when the actor's role name matches one of the listed
	// names, compared case-insensitively.
	ModeRole
)

// Requirement is a typed authorization demand attached to a route. An empty
// requirement allows everything; guards treat it as a no-op.
type Requirement struct {
	mode   Mode
	values []string
}

// RequireAny demands at least one of the given permissions.
func RequireAny(perms ...string) Requirement {
	return Requirement{mode: ModeAny, values: normalize(perms)}
}

// RequireAll demands every one of the given permissions.
func RequireAll(perms ...string) Requirement {
	return Requirement{mode: ModeAll, values: normalize(perms)}
}

// RequireRole demands that the actor's role name match one of the given names.
func RequireRole(names ...string) Requirement {
	return Requirement{mode: ModeRole, values: normalize(names)}
}

// Mode returns the combination mode.
func (req Requirement) Mode() Mode { return req.mode }

// Values returns the normalized required values.
func (req Requirement) Values() []string {
	out := make([]string, len(req.values))
	copy(out, req.values)
	return out
}

// Empty reports whether the requirement demands nothing.
func (req Requirement) Empty() bool { return len(req.values) == 0 }

func normalize(values []string) []string {
	unique := make(map[string]struct{}, len(values))
	normalized := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "" {
			continue
		}
		if _, seen := unique[v]; seen {
			continue
		}
		unique[v] = struct{}{}
		normalized = append(normalized, v)
	}
	return normalized
}

// Decide is the pure authorization decision: given the actor's role name and
// granted permission set, it reports whether the requirement is satisfied.
// It is deterministic and total; unknown permissions simply never match.
func Decide(roleName string, granted []string, req Requirement) bool {
	if req.Empty() {
		return true
	}
	switch req.mode {
	case ModeRole:
		name := strings.ToLower(roleName)
		for _, want := range req.values {
			if want == name {
				return true
			}
		}
		return false
	case ModeAll:
		set := grantedSet(granted)
		for _, want := range req.values {
			if _, ok := set[want]; !ok {
				return false
			}
		}
		return true
	default: // ModeAny
		set := grantedSet(granted)
		for _, want := range req.values {
			if _, ok := set[want]; ok {
				return true
			}
		}
		return false
	}
}

func grantedSet(granted []string) map[string]struct{} {
	set := make(map[string]struct{}, len(granted))
	for _, p := range granted {
		set[strings.ToLower(p)] = struct{}{}
	}
	return set
}
