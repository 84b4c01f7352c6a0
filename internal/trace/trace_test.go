package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
		ok    bool
	}{
		{"off", LevelOff, true},
		{"", LevelOff, true},
		{"PHASE", LevelPhase, true},
		{"detail", LevelDetail, true},
		{"debug", LevelDebug, true},
		{"verbose", LevelOff, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.input, got, err)
		}
	}
}

func TestShouldEmit(t *testing.T) {
	if LevelPhase.ShouldEmit(GranBatch) || !LevelPhase.ShouldEmit(GranIngest) {
		t.Fatalf("phase level must stop at ingest granularity")
	}
	if !LevelDebug.ShouldEmit(GranZone) || LevelOff.ShouldEmit(GranCommand) {
		t.Fatalf("debug/off levels wrong")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	span := Begin(tr, GranBatch, "batch", 0)
	span.WithExtra("events", "12").End("ok")
	Begin(tr, GranZone, "filtered", 0).End("")

	out := buf.String()
	if !strings.Contains(out, "→ batch") || !strings.Contains(out, "← batch (ok) {events=12}") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "filtered") {
		t.Fatalf("zone span emitted at detail level:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	Point(tr, GranIngest, "eof", "3 batches")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if rec["kind"] != "point" || rec["gran"] != "ingest" || rec["detail"] != "3 batches" {
		t.Fatalf("record = %v", rec)
	}
}

func TestDisabledTracer(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off level must yield a disabled tracer")
	}
	span := Begin(tr, GranCommand, "noop", 0)
	if span.ID() != 0 || span.End("") != 0 {
		t.Fatalf("disabled span must be inert")
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("missing tracer must fall back to Nop")
	}
	tr := NewStreamTracer(&bytes.Buffer{}, LevelDebug, FormatText)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != tr {
		t.Fatalf("tracer not propagated")
	}
	span := Begin(tr, GranCommand, "cmd", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx) != span.ID() {
		t.Fatalf("span not propagated")
	}
}

func TestStartNestsUnderContextSpan(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	ctx, outer := Start(ctx, GranCommand, "load")
	_, inner := Start(ctx, GranIngest, "pump")
	inner.End("")
	outer.End("")
	if err := tr.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("records = %d, want 4:\n%s", len(lines), buf.String())
	}
	var rec struct {
		Name     string `json:"name"`
		SpanID   uint64 `json:"span_id"`
		ParentID uint64 `json:"parent_id"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Name != "pump" || rec.ParentID != outer.ID() || rec.SpanID != inner.ID() {
		t.Fatalf("inner begin = %+v, outer id %d", rec, outer.ID())
	}
}

func TestStartDisabledKeepsContext(t *testing.T) {
	ctx := context.Background()
	got, span := Start(ctx, GranCommand, "noop")
	if got != ctx || span.ID() != 0 {
		t.Fatalf("disabled Start must not touch the context")
	}
	if span.End("x") != 0 {
		t.Fatalf("disabled span reported a duration")
	}
}
