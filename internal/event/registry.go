package event

import (
	"errors"
	"fmt"
	"sync"

	"fortio.org/safecast"
)

var (
	// ErrClassMismatch is returned when a name is redefined with another class.
	ErrClassMismatch = errors.New("event type redefined with a different class")
	// ErrUnknownType is returned when a name is not registered.
	ErrUnknownType = errors.New("unknown event type")
)

// Listener is the capability the indices need from the trace source:
// resolving a well-known name to its registered type.
type Listener interface {
	EventType(name string) *EventType
}

// Registry maps event type names to descriptors. Safe for concurrent use;
// lookups are expected once per index, not per event.
type Registry struct {
	mu     sync.RWMutex
	types  []*EventType // index 0 reserved for NoTypeID
	byName map[string]*EventType
}

// NewRegistry creates a registry with the builtin types defined.
func NewRegistry() *Registry {
	r := &Registry{
		types:  make([]*EventType, 1, 64),
		byName: make(map[string]*EventType, 64),
	}
	for _, b := range builtinTypes {
		if _, err := r.Define(b.name, b.class, b.flags); err != nil {
			panic(fmt.Errorf("builtin event type %q: %w", b.name, err))
		}
	}
	return r
}

// Define registers a type. Redefining a name with the same class returns the
// existing descriptor.
func (r *Registry) Define(name string, class Class, flags Flags) (*EventType, error) {
	if name == "" {
		return nil, fmt.Errorf("define event type: empty name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byName[name]; ok {
		if existing.Class != class {
			return nil, fmt.Errorf("%s: %w (have %s, got %s)", name, ErrClassMismatch, existing.Class, class)
		}
		return existing, nil
	}
	value, err := safecast.Conv[uint32](len(r.types))
	if err != nil {
		panic(fmt.Errorf("event type registry overflow: %w", err))
	}
	et := &EventType{
		ID:    TypeID(value),
		Name:  name,
		Class: class,
		Flags: flags,
	}
	r.types = append(r.types, et)
	r.byName[name] = et
	return et, nil
}

// EventType returns the type registered under name, or nil.
func (r *Registry) EventType(name string) *EventType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// MustEventType is EventType that fails with ErrUnknownType.
func (r *Registry) MustEventType(name string) (*EventType, error) {
	if et := r.EventType(name); et != nil {
		return et, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownType)
}

// Lookup returns the type with the given ID, or nil.
func (r *Registry) Lookup(id TypeID) *EventType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !id.IsValid() || int(id) >= len(r.types) {
		return nil
	}
	return r.types[id]
}

// Len reports the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types) - 1
}
