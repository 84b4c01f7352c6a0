package scope

import (
	"fmt"
	"sort"

	"fortio.org/safecast"

	"github.com/gitlisted/tracing-framework/internal/event"
)

// Tree stores the scopes of one zone in a slice-based arena.
type Tree struct {
	data  []Scope // index 0 reserved for NoScopeID
	roots []event.ScopeID
}

// NewTree creates an arena with an optional capacity hint.
func NewTree(capacity uint32) *Tree {
	if capacity == 0 {
		capacity = 64
	}
	return &Tree{
		data: make([]Scope, 1, capacity+1),
	}
}

// New allocates a scope opened by enter and associates enter with it.
// The scope starts detached; callers attach it with AddChild or AddRoot.
func (t *Tree) New(enter *event.Event) event.ScopeID {
	value, err := safecast.Conv[uint32](len(t.data))
	if err != nil {
		panic(fmt.Errorf("scope arena overflow: %w", err))
	}
	id := event.ScopeID(value)
	t.data = append(t.data, Scope{Enter: enter})
	if enter != nil {
		enter.SetScope(id)
	}
	return id
}

// Get returns the scope pointer or nil if the ID is invalid.
// The pointer is valid until the next New.
func (t *Tree) Get(id event.ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(t.data) {
		return nil
	}
	return &t.data[id]
}

// Len reports the number of scopes excluding the sentinel.
func (t *Tree) Len() int { return len(t.data) - 1 }

// Data exposes the arena storage without the sentinel.
func (t *Tree) Data() []Scope {
	if len(t.data) <= 1 {
		return nil
	}
	return t.data[1:]
}

// AddChild appends child to parent's children and sets the back-reference.
// Double parenting is not checked.
func (t *Tree) AddChild(parent, child event.ScopeID) {
	p := t.Get(parent)
	c := t.Get(child)
	if p == nil || c == nil {
		return
	}
	if n := len(p.Children); n > 0 {
		last := &t.data[p.Children[n-1]]
		if last.IsOpen() || last.LeaveTime() > c.EnterTime() || last.EnterTime() > c.EnterTime() {
			p.unordered = true
		}
	}
	p.Children = append(p.Children, child)
	c.Parent = parent
}

// SetLeaveEvent records the closing event. A second call overwrites.
func (t *Tree) SetLeaveEvent(id event.ScopeID, leave *event.Event) {
	s := t.Get(id)
	if s == nil {
		return
	}
	s.Leave = leave
	// closing an earlier sibling may overlap the ones after it
	if p := t.Get(s.Parent); p != nil && len(p.Children) > 0 && p.Children[len(p.Children)-1] != id {
		p.unordered = true
	}
}

// Parent returns the parent scope, NoScopeID for top-level scopes.
func (t *Tree) Parent(id event.ScopeID) event.ScopeID {
	if s := t.Get(id); s != nil {
		return s.Parent
	}
	return event.NoScopeID
}

// Children returns the child scopes in structural order. READONLY
func (t *Tree) Children(id event.ScopeID) []event.ScopeID {
	if s := t.Get(id); s != nil {
		return s.Children
	}
	return nil
}

// Roots returns top-level scopes ordered by enter time. READONLY
func (t *Tree) Roots() []event.ScopeID { return t.roots }

// AddRoot registers a top-level scope, keeping Roots ordered by enter time.
// Equal enter times keep registration order.
func (t *Tree) AddRoot(id event.ScopeID) {
	s := t.Get(id)
	if s == nil {
		return
	}
	at := s.EnterTime()
	n := len(t.roots)
	if n == 0 || t.data[t.roots[n-1]].EnterTime() <= at {
		t.roots = append(t.roots, id)
		return
	}
	i := sort.Search(n, func(i int) bool { return t.data[t.roots[i]].EnterTime() > at })
	t.roots = append(t.roots, event.NoScopeID)
	copy(t.roots[i+1:], t.roots[i:])
	t.roots[i] = id
}

// Enclosing returns the deepest scope whose [enter, leave] range contains at,
// or NoScopeID. Open scopes extend to +Inf.
func (t *Tree) Enclosing(at float64) event.ScopeID {
	n := sort.Search(len(t.roots), func(i int) bool { return t.data[t.roots[i]].EnterTime() > at })
	found := event.NoScopeID
	// Roots from different batches may overlap when a scope stayed open.
	for i := n - 1; i >= 0; i-- {
		if t.data[t.roots[i]].Contains(at) {
			found = t.roots[i]
			break
		}
	}
	for found.IsValid() {
		next := t.childAt(found, at)
		if !next.IsValid() {
			break
		}
		found = next
	}
	return found
}

// childAt returns the last child of id containing at. Ordered, disjoint
// children are binary-searched; otherwise they are scanned in reverse.
func (t *Tree) childAt(id event.ScopeID, at float64) event.ScopeID {
	s := &t.data[id]
	children := s.Children
	if !s.unordered {
		i := sort.Search(len(children), func(i int) bool { return t.data[children[i]].EnterTime() > at }) - 1
		if i >= 0 && t.data[children[i]].Contains(at) {
			return children[i]
		}
		return event.NoScopeID
	}
	for i := len(children) - 1; i >= 0; i-- {
		if t.data[children[i]].Contains(at) {
			return children[i]
		}
	}
	return event.NoScopeID
}

// Depth returns the number of ancestors of id.
func (t *Tree) Depth(id event.ScopeID) int {
	depth := 0
	for p := t.Parent(id); p.IsValid(); p = t.Parent(p) {
		depth++
	}
	return depth
}

// Walk visits every scope reachable from the roots in pre-order.
// Returning false from fn skips the scope's children.
func (t *Tree) Walk(fn func(id event.ScopeID, depth int) bool) {
	for _, root := range t.roots {
		t.walk(root, 0, fn)
	}
}

func (t *Tree) walk(id event.ScopeID, depth int, fn func(event.ScopeID, int) bool) {
	if !fn(id, depth) {
		return
	}
	for _, child := range t.data[id].Children {
		t.walk(child, depth+1, fn)
	}
}
