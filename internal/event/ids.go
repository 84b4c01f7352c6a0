package event

// TypeID identifies an event type inside a Registry.
type TypeID uint32

const (
	// NoTypeID marks the absence of an event type.
	NoTypeID TypeID = 0
)

// IsValid reports whether the ID refers to a registered type.
func (id TypeID) IsValid() bool { return id != NoTypeID }

// ScopeID identifies a scope inside a zone's scope arena.
type ScopeID uint32

const (
	// NoScopeID marks the absence of a scope association.
	NoScopeID ScopeID = 0
)

// IsValid reports whether the scope ID refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }
