// Package testkit holds structural checks shared by package tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/gitlisted/tracing-framework/internal/event"
	"github.com/gitlisted/tracing-framework/internal/scope"
)

// CheckTreeInvariants runs the structural invariants of a scope tree:
// 1) every scope owns its enter event and, when closed, its leave event
// 2) child and parent links agree
// 3) roots have no parent and are ordered by enter time
// 4) every scope is reachable from exactly one root, exactly once
func CheckTreeInvariants(tree *scope.Tree) error {
	if tree == nil {
		return fmt.Errorf("nil tree")
	}
	n := tree.Len()
	seen := make([]int, n+1)

	for i := 1; i <= n; i++ {
		value, err := safecast.Conv[uint32](i)
		if err != nil {
			return fmt.Errorf("scope index overflow: %w", err)
		}
		id := event.ScopeID(value)
		s := tree.Get(id)

		// 1) event ownership
		if s.Enter == nil {
			return fmt.Errorf("scope %d has no enter event", id)
		}
		if got := s.Enter.Scope(); got != id {
			return fmt.Errorf("scope %d: enter event points to scope %d", id, got)
		}
		if s.Leave != nil && s.Leave.Scope() != id {
			return fmt.Errorf("scope %d: leave event points to scope %d", id, s.Leave.Scope())
		}

		// 2) link agreement
		for _, child := range s.Children {
			if !child.IsValid() || int(child) > n {
				return fmt.Errorf("scope %d: invalid child %d", id, child)
			}
			if p := tree.Parent(child); p != id {
				return fmt.Errorf("scope %d lists child %d whose parent is %d", id, child, p)
			}
		}
	}

	// 3) roots
	roots := tree.Roots()
	for i, root := range roots {
		if tree.Parent(root).IsValid() {
			return fmt.Errorf("root %d has parent %d", root, tree.Parent(root))
		}
		if i > 0 && tree.Get(roots[i-1]).EnterTime() > tree.Get(root).EnterTime() {
			return fmt.Errorf("roots out of order: %d before %d", roots[i-1], root)
		}
	}

	// 4) reachability
	tree.Walk(func(id event.ScopeID, _ int) bool {
		seen[id]++
		return seen[id] == 1
	})
	for i := 1; i <= n; i++ {
		switch seen[i] {
		case 0:
			return fmt.Errorf("scope %d is not reachable from any root", i)
		case 1:
		default:
			return fmt.Errorf("scope %d reached %d times", i, seen[i])
		}
	}
	return nil
}
