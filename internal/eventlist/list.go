package eventlist

import (
	"cmp"
	"slices"
	"sort"

	"github.com/gitlisted/tracing-framework/internal/event"
)

// List is a time-ordered event sequence filled in insertion batches.
//
// Events inserted between BeginInserting and EndInserting are buffered and
// merged into the committed sequence when the batch ends, so queries always
// observe a sorted sequence. The zero value is ready to use.
type List struct {
	events      []*event.Event
	batch       []*event.Event
	inserting   bool
	subscribers []func(*List)
}

// New creates a list with a capacity hint.
func New(capacity int) *List {
	return &List{events: make([]*event.Event, 0, capacity)}
}

// BeginInserting enters batch mode. Batches do not nest.
func (l *List) BeginInserting() {
	if l.inserting {
		panic("eventlist: BeginInserting called while already inserting")
	}
	l.inserting = true
	l.batch = l.batch[:0]
}

// InsertEvent buffers one event of the current batch. Order within the batch
// does not matter.
func (l *List) InsertEvent(e *event.Event) {
	if !l.inserting {
		panic("eventlist: InsertEvent called outside of a batch")
	}
	l.batch = append(l.batch, e)
}

// EndInserting merges the batch into the committed sequence and notifies
// subscribers when anything was committed.
func (l *List) EndInserting() {
	if !l.inserting {
		panic("eventlist: EndInserting called without BeginInserting")
	}
	l.inserting = false
	if len(l.batch) == 0 {
		return
	}
	slices.SortStableFunc(l.batch, func(a, b *event.Event) int { return cmp.Compare(a.Time, b.Time) })

	if len(l.events) == 0 || l.batch[0].Time >= l.events[len(l.events)-1].Time {
		l.events = append(l.events, l.batch...)
	} else {
		l.events = merge(l.events, l.batch)
	}
	clear(l.batch)
	l.batch = l.batch[:0]

	for _, fn := range l.subscribers {
		fn(l)
	}
}

// merge combines two time-sorted sequences; on equal times committed events
// come first.
func merge(committed, batch []*event.Event) []*event.Event {
	out := make([]*event.Event, 0, len(committed)+len(batch))
	i, j := 0, 0
	for i < len(committed) && j < len(batch) {
		if batch[j].Time < committed[i].Time {
			out = append(out, batch[j])
			j++
			continue
		}
		out = append(out, committed[i])
		i++
	}
	out = append(out, committed[i:]...)
	return append(out, batch[j:]...)
}

// Inserting reports whether a batch is open.
func (l *List) Inserting() bool { return l.inserting }

// LastEventTime returns the time of the last committed event, 0 when empty.
// During a batch this is the value from before the batch started.
func (l *List) LastEventTime() float64 {
	if len(l.events) == 0 {
		return 0
	}
	return l.events[len(l.events)-1].Time
}

// FirstEventTime returns the time of the first committed event, 0 when empty.
func (l *List) FirstEventTime() float64 {
	if len(l.events) == 0 {
		return 0
	}
	return l.events[0].Time
}

// Count returns the number of committed events.
func (l *List) Count() int { return len(l.events) }

// At returns the i-th committed event.
func (l *List) At(i int) *event.Event { return l.events[i] }

// Events exposes the committed sequence. READONLY
func (l *List) Events() []*event.Event { return l.events }

// FirstIndexAt returns the index of the first event with Time >= t.
func (l *List) FirstIndexAt(t float64) int {
	return sort.Search(len(l.events), func(i int) bool { return l.events[i].Time >= t })
}

// ForEachInRange calls fn for committed events with t0 <= Time <= t1 in
// time order until fn returns false.
func (l *List) ForEachInRange(t0, t1 float64, fn func(*event.Event) bool) {
	for i := l.FirstIndexAt(t0); i < len(l.events) && l.events[i].Time <= t1; i++ {
		if !fn(l.events[i]) {
			return
		}
	}
}

// EventsInRange returns committed events with t0 <= Time <= t1.
func (l *List) EventsInRange(t0, t1 float64) []*event.Event {
	start := l.FirstIndexAt(t0)
	end := start
	for end < len(l.events) && l.events[end].Time <= t1 {
		end++
	}
	if start == end {
		return nil
	}
	out := make([]*event.Event, end-start)
	copy(out, l.events[start:end])
	return out
}

// Subscribe registers fn to run after every batch that committed events.
func (l *List) Subscribe(fn func(*List)) {
	if fn != nil {
		l.subscribers = append(l.subscribers, fn)
	}
}
