package treefmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gitlisted/tracing-framework/internal/event"
	"github.com/gitlisted/tracing-framework/internal/zoneindex"
)

func buildIndex(t *testing.T) *zoneindex.Index {
	t.Helper()
	reg := event.NewRegistry()
	zone := event.NewZone("main", event.ZoneScript, "app.js")
	idx := zoneindex.New(reg, zone, zoneindex.Options{})

	mustType := func(name string, class event.Class) *event.EventType {
		et, err := reg.Define(name, class, 0)
		if err != nil {
			t.Fatalf("define %s: %v", name, err)
		}
		return et
	}
	outer := mustType("app.outer", event.ClassScope)
	inner := mustType("app.inner", event.ClassScope)
	leaf := mustType("app.leaf", event.ClassInstance)
	leave := reg.EventType(event.WellKnownScopeLeave)

	idx.BeginInserting()
	for _, e := range []*event.Event{
		event.New(zone, 0, outer, nil),
		event.New(zone, 1, leaf, nil),
		event.New(zone, 2, inner, nil),
		event.New(zone, 3, leaf, nil),
		event.New(zone, 4, leaf, nil),
		event.New(zone, 5, leave, nil),
		event.New(zone, 6, inner, nil),
	} {
		idx.InsertEvent(e)
	}
	idx.EndInserting()
	return idx
}

func TestWritePlain(t *testing.T) {
	idx := buildIndex(t)
	var buf bytes.Buffer
	if err := Write(&buf, idx, Options{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("plain output contains escape codes: %q", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "main@app.js") || !strings.Contains(lines[0], "3 scopes, 2 open, 7 events") {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "app.outer") || !strings.Contains(lines[1], "open") || !strings.Contains(lines[1], "+1") {
		t.Fatalf("outer line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "  app.inner") || !strings.Contains(lines[2], "3.000ms") || !strings.Contains(lines[2], "+2") {
		t.Fatalf("inner line = %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "  app.inner") || !strings.Contains(lines[3], "open") {
		t.Fatalf("second inner line = %q", lines[3])
	}
}

func TestWriteMaxDepth(t *testing.T) {
	idx := buildIndex(t)
	var buf bytes.Buffer
	if err := Write(&buf, idx, Options{MaxDepth: 1}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "app.inner") {
		t.Fatalf("depth-limited output prints children:\n%s", out)
	}
	if !strings.Contains(out, "app.outer") {
		t.Fatalf("root missing:\n%s", out)
	}
}

func TestWriteColor(t *testing.T) {
	idx := buildIndex(t)
	var buf bytes.Buffer
	if err := Write(&buf, idx, Options{Color: true}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("colored output has no escape codes")
	}
}

func TestWriteNilIndex(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil, Options{}); err != nil || buf.Len() != 0 {
		t.Fatalf("nil index: err=%v out=%q", err, buf.String())
	}
}
