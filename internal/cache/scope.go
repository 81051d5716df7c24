package cache

import "strings"

// Scope is a logical grouping of cache keys that are invalidated together
// after a write. It is derived from the write operation and never persisted.
type Scope struct {
	// Entity names the record family the keys belong to ("school",
	// "subject", "timetable", ...).
	Entity string
	// SchoolID is the owning tenant. Empty means a platform-wide scope.
	SchoolID string
	// SubID optionally narrows the scope to a single record or view,
	// e.g. a section+year timetable.
	SubID string
}

// NewScope builds a tenant-wide scope for an entity family.
func NewScope(entity, schoolID string) Scope {
	return Scope{Entity: entity, SchoolID: schoolID}
}

// Narrow returns a copy of the scope restricted to a single sub-identifier.
func (s Scope) Narrow(subID string) Scope {
	s.SubID = subID
	return s
}

// Prefix renders the key prefix all keys in this scope share.
func (s Scope) Prefix() string {
	parts := make([]string, 0, 3)
	if s.Entity != "" {
		parts = append(parts, s.Entity)
	}
	if s.SchoolID != "" {
		parts = append(parts, s.SchoolID)
	}
	if s.SubID != "" {
		parts = append(parts, s.SubID)
	}
	return strings.Join(parts, ":") + ":"
}

// Pattern renders the glob pattern matching every key in this scope.
func (s Scope) Pattern() string {
	return s.Prefix() + "*"
}

// Key builds a concrete cache key under this scope.
func (s Scope) Key(parts ...string) string {
	return s.Prefix() + strings.Join(parts, ":")
}
