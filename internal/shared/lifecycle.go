package shared

// Lifecycle models the soft-delete state of a record. Records are never
// physically removed; deactivation preserves historical references.
type Lifecycle string

const (
	LifecycleActive      Lifecycle = "active"
	LifecycleDeactivated Lifecycle = "deactivated"
)

// IsActive reports whether the record is live.
func (l Lifecycle) IsActive() bool {
	return l == LifecycleActive
}

// Valid reports whether l is one of the known states.
func (l Lifecycle) Valid() bool {
	return l == LifecycleActive || l == LifecycleDeactivated
}
