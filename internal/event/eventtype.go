package event

import "strings"

// Class tells whether events of a type open a scope.
type Class uint8

const (
	ClassInstance Class = iota // instant event
	ClassScope                 // opens a scope, closed by WellKnownScopeLeave
)

func (c Class) String() string {
	switch c {
	case ClassInstance:
		return "instance"
	case ClassScope:
		return "scope"
	default:
		return "unknown"
	}
}

// ParseClass converts a string to a Class. Empty input maps to ClassInstance.
func ParseClass(s string) (Class, bool) {
	switch strings.ToLower(s) {
	case "", "instance":
		return ClassInstance, true
	case "scope":
		return ClassScope, true
	default:
		return ClassInstance, false
	}
}

// Flags carry descriptor bits for an event type.
type Flags uint8

const (
	FlagBuiltin  Flags = 1 << iota // registered by NewRegistry
	FlagInternal                   // trace bookkeeping, hidden from summaries
)

// Has reports whether all bits of f2 are set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// EventType describes a class of events.
type EventType struct {
	ID    TypeID
	Name  string
	Class Class
	Flags Flags
}

// Well-known event type names.
const (
	WellKnownScopeLeave      = "wtf.scope.leave"
	WellKnownScopeAppendData = "wtf.scope.appendData"
	WellKnownZoneCreate      = "wtf.zone.create"
	WellKnownZoneSet         = "wtf.zone.set"
	WellKnownTraceMark       = "wtf.trace.mark"
	WellKnownTraceTimestamp  = "wtf.trace.timestamp"
	WellKnownFlowBranch      = "wtf.flow.branch"
	WellKnownFlowExtend      = "wtf.flow.extend"
	WellKnownFlowTerminate   = "wtf.flow.terminate"
)

var builtinTypes = []struct {
	name  string
	class Class
	flags Flags
}{
	{WellKnownScopeLeave, ClassInstance, FlagBuiltin | FlagInternal},
	{WellKnownScopeAppendData, ClassInstance, FlagBuiltin | FlagInternal},
	{WellKnownZoneCreate, ClassInstance, FlagBuiltin | FlagInternal},
	{WellKnownZoneSet, ClassInstance, FlagBuiltin | FlagInternal},
	{WellKnownTraceMark, ClassInstance, FlagBuiltin},
	{WellKnownTraceTimestamp, ClassInstance, FlagBuiltin},
	{WellKnownFlowBranch, ClassInstance, FlagBuiltin | FlagInternal},
	{WellKnownFlowExtend, ClassInstance, FlagBuiltin | FlagInternal},
	{WellKnownFlowTerminate, ClassInstance, FlagBuiltin | FlagInternal},
}
