package eventlist

import (
	"testing"

	"github.com/gitlisted/tracing-framework/internal/event"
)

func at(t float64) *event.Event { return event.New(nil, t, nil, nil) }

func times(l *List) []float64 {
	out := make([]float64, 0, l.Count())
	for _, e := range l.Events() {
		out = append(out, e.Time)
	}
	return out
}

func equal(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBatchSortsAndMerges(t *testing.T) {
	var l List
	l.BeginInserting()
	for _, ts := range []float64{5, 1, 3} {
		l.InsertEvent(at(ts))
	}
	if l.Count() != 0 || l.LastEventTime() != 0 {
		t.Fatalf("batch must not be visible before EndInserting")
	}
	l.EndInserting()
	if got := times(&l); !equal(got, []float64{1, 3, 5}) {
		t.Fatalf("times = %v", got)
	}

	l.BeginInserting()
	if l.LastEventTime() != 5 {
		t.Fatalf("last event time during batch = %v, want 5", l.LastEventTime())
	}
	l.InsertEvent(at(7))
	l.InsertEvent(at(2))
	l.InsertEvent(at(6))
	l.EndInserting()
	if got := times(&l); !equal(got, []float64{1, 2, 3, 5, 6, 7}) {
		t.Fatalf("times after merge = %v", got)
	}
	if l.FirstEventTime() != 1 || l.LastEventTime() != 7 {
		t.Fatalf("bounds = [%v, %v]", l.FirstEventTime(), l.LastEventTime())
	}
}

func TestMergeKeepsCommittedFirstOnTies(t *testing.T) {
	l := New(4)
	committed := at(3)
	l.BeginInserting()
	l.InsertEvent(at(1))
	l.InsertEvent(committed)
	l.EndInserting()

	late := at(3)
	l.BeginInserting()
	l.InsertEvent(late)
	l.InsertEvent(at(0))
	l.EndInserting()
	if l.At(2) != committed || l.At(3) != late {
		t.Fatalf("equal timestamps must keep commit order")
	}
}

func TestRangeQueries(t *testing.T) {
	l := New(0)
	l.BeginInserting()
	for i := 0; i < 10; i++ {
		l.InsertEvent(at(float64(i)))
	}
	l.EndInserting()

	if got := l.EventsInRange(2.5, 5); len(got) != 3 || got[0].Time != 3 || got[2].Time != 5 {
		t.Fatalf("EventsInRange(2.5, 5) = %d events", len(got))
	}
	if got := l.EventsInRange(20, 30); got != nil {
		t.Fatalf("empty range returned %d events", len(got))
	}
	if idx := l.FirstIndexAt(4); idx != 4 {
		t.Fatalf("FirstIndexAt(4) = %d", idx)
	}

	var visited int
	l.ForEachInRange(0, 9, func(e *event.Event) bool {
		visited++
		return e.Time < 3
	})
	if visited != 4 {
		t.Fatalf("ForEachInRange visited %d, want 4", visited)
	}
}

func TestSubscribersFireOnCommit(t *testing.T) {
	l := New(0)
	var calls int
	l.Subscribe(func(got *List) {
		if got != l {
			t.Errorf("subscriber got a different list")
		}
		calls++
	})
	l.BeginInserting()
	l.EndInserting()
	if calls != 0 {
		t.Fatalf("empty batch notified subscribers")
	}
	l.BeginInserting()
	l.InsertEvent(at(1))
	l.EndInserting()
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestBatchMisuse(t *testing.T) {
	cases := map[string]func(l *List){
		"nested begin": func(l *List) { l.BeginInserting(); l.BeginInserting() },
		"insert":       func(l *List) { l.InsertEvent(at(1)) },
		"end":          func(l *List) { l.EndInserting() },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic")
				}
			}()
			fn(New(0))
		})
	}
}
