package scope

import (
	"math"

	"github.com/gitlisted/tracing-framework/internal/event"
)

// Scope is one call/activity span within a zone.
//
// Parent is a navigation reference only; the arena owns every scope.
// Children keep insertion order, which is time order on the in-order path
// but not necessarily after reconciliation.
type Scope struct {
	Parent   event.ScopeID
	Children []event.ScopeID
	Enter    *event.Event
	Leave    *event.Event

	// set once Children stop being disjoint and ordered by enter time
	unordered bool
}

// Name returns the enter event's type name.
func (s *Scope) Name() string {
	if s == nil {
		return ""
	}
	return s.Enter.Name()
}

// EnterTime returns the time the scope was opened.
func (s *Scope) EnterTime() float64 {
	if s == nil || s.Enter == nil {
		return 0
	}
	return s.Enter.Time
}

// LeaveTime returns the closing time, +Inf for open scopes.
func (s *Scope) LeaveTime() float64 {
	if s == nil || s.Leave == nil {
		return math.Inf(1)
	}
	return s.Leave.Time
}

// IsOpen reports whether no leave event has been recorded.
func (s *Scope) IsOpen() bool { return s != nil && s.Leave == nil }

// Duration returns leave minus enter time, 0 for open scopes.
func (s *Scope) Duration() float64 {
	if s == nil || s.Leave == nil || s.Enter == nil {
		return 0
	}
	return s.Leave.Time - s.Enter.Time
}

// Contains reports whether t lies within [enter, leave].
func (s *Scope) Contains(t float64) bool {
	return s != nil && s.EnterTime() <= t && t <= s.LeaveTime()
}
