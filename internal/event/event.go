package event

// Event is a single timestamped trace occurrence.
//
// Zone, Time, Type and Args are set by the producer and treated as immutable
// afterwards. The scope association is written by the zone's index.
type Event struct {
	Zone *Zone
	Time float64 // milliseconds; comparable within a zone
	Type *EventType
	Args map[string]any

	scope ScopeID
}

// New creates an event.
func New(zone *Zone, t float64, typ *EventType, args map[string]any) *Event {
	return &Event{Zone: zone, Time: t, Type: typ, Args: args}
}

// TypeID returns the numeric type identifier, NoTypeID for untyped events.
func (e *Event) TypeID() TypeID {
	if e == nil || e.Type == nil {
		return NoTypeID
	}
	return e.Type.ID
}

// IsScopeEnter reports whether the event opens a scope.
func (e *Event) IsScopeEnter() bool {
	return e != nil && e.Type != nil && e.Type.Class == ClassScope
}

// Name returns the type name, or "" for untyped events.
func (e *Event) Name() string {
	if e == nil || e.Type == nil {
		return ""
	}
	return e.Type.Name
}

// Scope returns the associated scope. For enter events this is the scope the
// event opened.
func (e *Event) Scope() ScopeID { return e.scope }

// SetScope records the scope association.
func (e *Event) SetScope(id ScopeID) { e.scope = id }

// Arg returns a named argument.
func (e *Event) Arg(key string) (any, bool) {
	if e == nil || e.Args == nil {
		return nil, false
	}
	v, ok := e.Args[key]
	return v, ok
}

// StringArg returns a named string argument, "" when absent or not a string.
func (e *Event) StringArg(key string) string {
	v, ok := e.Arg(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
