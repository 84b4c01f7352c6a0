package zoneindex

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/gitlisted/tracing-framework/internal/event"
	"github.com/gitlisted/tracing-framework/internal/eventlist"
	"github.com/gitlisted/tracing-framework/internal/scope"
	"github.com/gitlisted/tracing-framework/internal/trace"
)

// DefaultPendingWarnThreshold is the deferred-event count above which a
// batch is reported as pathologically disordered.
const DefaultPendingWarnThreshold = 10000

// Options tune an Index.
type Options struct {
	// PendingWarnThreshold triggers a warning when a batch defers more events.
	// Zero selects DefaultPendingWarnThreshold, negative disables the warning.
	PendingWarnThreshold int
	// ScopeCapacity is the initial scope arena capacity hint.
	ScopeCapacity uint32
	Logger        *slog.Logger
	Tracer        trace.Tracer
}

// Stats summarises the work an Index has done.
type Stats struct {
	Batches         int
	Inserted        int // events accepted for this zone
	Scopes          int
	OpenScopes      int
	OutOfOrder      int // events deferred to reconciliation
	Reconciled      int // deferred events attached to an existing scope
	MaxPending      int // largest deferred set of a single batch
	UnmatchedLeaves int
}

// Index is an event list restricted to one zone that maintains the zone's
// scope tree. An Index is not safe for concurrent use and batches must not
// overlap.
type Index struct {
	eventlist.List

	zone   *event.Zone
	scopes *scope.Tree

	// resolved once; compared per event instead of the type name
	leaveType event.TypeID

	currentScope     event.ScopeID
	lastAddEventTime float64
	pending          []*event.Event

	warnThreshold int
	logger        *slog.Logger
	tracer        trace.Tracer
	stats         Stats
}

// New creates an index for zone. The listener is consulted once for the
// well-known scope leave type.
func New(listener event.Listener, zone *event.Zone, opts Options) *Index {
	if zone == nil {
		panic("zoneindex.New: nil zone")
	}
	idx := &Index{
		zone:          zone,
		scopes:        scope.NewTree(opts.ScopeCapacity),
		warnThreshold: opts.PendingWarnThreshold,
		logger:        opts.Logger,
		tracer:        opts.Tracer,
	}
	if idx.warnThreshold == 0 {
		idx.warnThreshold = DefaultPendingWarnThreshold
	}
	if idx.logger == nil {
		idx.logger = slog.Default()
	}
	if idx.tracer == nil {
		idx.tracer = trace.Nop
	}
	if listener != nil {
		if et := listener.EventType(event.WellKnownScopeLeave); et != nil {
			idx.leaveType = et.ID
		}
	}
	return idx
}

// Zone returns the zone this index filters for.
func (z *Index) Zone() *event.Zone { return z.zone }

// Scopes returns the zone's scope tree.
func (z *Index) Scopes() *scope.Tree { return z.scopes }

// Scope resolves a scope ID of this zone.
func (z *Index) Scope(id event.ScopeID) *scope.Scope { return z.scopes.Get(id) }

// Stats returns a snapshot of the index counters.
func (z *Index) Stats() Stats {
	st := z.stats
	st.Scopes = z.scopes.Len()
	data := z.scopes.Data()
	for i := range data {
		if data[i].IsOpen() {
			st.OpenScopes++
		}
	}
	return st
}

func (z *Index) isLeave(e *event.Event) bool {
	return z.leaveType.IsValid() && e.TypeID() == z.leaveType
}

// BeginInserting starts a batch. Events older than the current last event
// time will be treated as out of order; nothing is out of order while the
// index is empty.
func (z *Index) BeginInserting() {
	z.List.BeginInserting()
	z.currentScope = event.NoScopeID
	z.lastAddEventTime = math.Inf(-1)
	if z.List.Count() > 0 {
		z.lastAddEventTime = z.List.LastEventTime()
	}
}

// InsertEvent adds e to the index when it belongs to the index's zone.
func (z *Index) InsertEvent(e *event.Event) {
	if e == nil || e.Zone != z.zone {
		return
	}
	z.stats.Inserted++

	if e.Time < z.lastAddEventTime {
		z.pending = append(z.pending, e)
		z.List.InsertEvent(e)
		return
	}
	z.lastAddEventTime = e.Time

	switch {
	case e.IsScopeEnter():
		id := z.scopes.New(e)
		if z.currentScope.IsValid() {
			z.scopes.AddChild(z.currentScope, id)
		} else {
			z.scopes.AddRoot(id)
		}
		z.currentScope = id
	case z.isLeave(e):
		e.SetScope(z.currentScope)
		if z.currentScope.IsValid() {
			z.scopes.SetLeaveEvent(z.currentScope, e)
			z.currentScope = z.scopes.Parent(z.currentScope)
		} else {
			z.stats.UnmatchedLeaves++
		}
	default:
		if z.currentScope.IsValid() {
			e.SetScope(z.currentScope)
		}
	}

	z.List.InsertEvent(e)
}

// EndInserting resolves the deferred events of the batch and commits it.
func (z *Index) EndInserting() { z.EndInsertingUnder(0) }

// EndInsertingUnder is EndInserting with the reconciliation span nested
// under the trace span parent.
func (z *Index) EndInsertingUnder(parent uint64) {
	z.currentScope = event.NoScopeID
	z.stats.Batches++

	if n := len(z.pending); n > 0 {
		z.stats.OutOfOrder += n
		z.stats.MaxPending = max(z.stats.MaxPending, n)
		if z.warnThreshold > 0 && n > z.warnThreshold {
			z.logger.Warn("zone batch heavily out of order",
				"zone", z.zone.Name,
				"zone_id", z.zone.ID,
				"deferred", n,
				"threshold", z.warnThreshold)
		}
		span := trace.Begin(z.tracer, trace.GranZone, "reconcile:"+z.zone.Name, parent)
		z.reconcile()
		span.End(fmt.Sprintf("%d deferred", n))
	}

	clear(z.pending)
	z.pending = z.pending[:0]
	z.List.EndInserting()
}

// reconcile drains the deferred events in arrival order. The local cursor
// tracks a single open level.
func (z *Index) reconcile() {
	local := event.NoScopeID
	for _, e := range z.pending {
		switch {
		case e.IsScopeEnter():
			parent := z.scopes.Enclosing(e.Time)
			id := z.scopes.New(e)
			if parent.IsValid() {
				z.scopes.AddChild(parent, id)
				z.stats.Reconciled++
			} else {
				z.scopes.AddRoot(id)
			}
			local = id
		case z.isLeave(e):
			if local.IsValid() {
				e.SetScope(local)
				z.scopes.SetLeaveEvent(local, e)
				local = event.NoScopeID
				continue
			}
			// Associated only: closing the enclosing scope would be a
			// walk-up the local pass does not perform.
			// TODO: walk up from the local cursor once multi-level
			// reconstruction is attempted.
			enclosing := z.scopes.Enclosing(e.Time)
			e.SetScope(enclosing)
			if enclosing.IsValid() {
				z.stats.Reconciled++
			} else {
				z.stats.UnmatchedLeaves++
			}
		default:
			if local.IsValid() {
				e.SetScope(local)
				continue
			}
			if enclosing := z.scopes.Enclosing(e.Time); enclosing.IsValid() {
				e.SetScope(enclosing)
				z.stats.Reconciled++
			}
		}
	}
}
