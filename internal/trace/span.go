package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next record sequence number of the process.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a process-unique span ID, never 0.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// disabled is returned for filtered spans; its methods are no-ops.
var disabled = &Span{}

// Span is an open interval of indexer work. A nil or disabled Span is safe
// to End.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	gran    Granularity
	name    string
	started time.Time
	extra   map[string]string
}

func (s *Span) live() bool { return s != nil && s.tracer != nil && s.tracer.Enabled() }

// Begin opens a span under parent (0 for a root) when t's level lets gran
// through, and emits its begin record.
func Begin(t Tracer, gran Granularity, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(gran) {
		return disabled
	}
	s := &Span{
		tracer:  t,
		id:      NextSpanID(),
		parent:  parent,
		gran:    gran,
		name:    name,
		started: time.Now(),
	}
	s.emit(KindSpanBegin, s.started, "")
	return s
}

// Start is Begin with the tracer and parent span taken from ctx. The returned
// context carries the new span so nested work attaches to it.
func Start(ctx context.Context, gran Granularity, name string) (context.Context, *Span) {
	s := Begin(FromContext(ctx), gran, name, CurrentSpan(ctx))
	if !s.live() {
		return ctx, s
	}
	return WithSpan(ctx, s), s
}

// End emits the end record with detail and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	s.emit(KindSpanEnd, now, detail)
	return now.Sub(s.started)
}

// WithExtra attaches a key/value pair reported on End.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for disabled spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

func (s *Span) emit(kind Kind, at time.Time, detail string) {
	rec := &Record{
		Time:     at,
		Kind:     kind,
		Gran:     s.gran,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
	}
	if kind == KindSpanEnd {
		rec.Extra = s.extra
	}
	s.tracer.Emit(rec)
}

// Point emits an instant record, for example a pending-queue warning.
func Point(t Tracer, gran Granularity, name, detail string) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(gran) {
		return
	}
	t.Emit(&Record{Time: time.Now(), Kind: KindPoint, Gran: gran, Name: name, Detail: detail})
}
