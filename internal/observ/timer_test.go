package observ

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	base := time.Unix(0, 0)
	var calls int
	return func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * step)
	}
}

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	timer.now = fakeClock(2 * time.Millisecond)

	load := timer.Begin("load")
	timer.End(load, "8 records")
	err := timer.Measure("index", func() (string, error) { return "", errors.New("boom") })
	if err == nil {
		t.Fatalf("Measure must return fn's error")
	}
	timer.End(42, "ignored")

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(report.Phases))
	}
	if report.Phases[0].DurationMS != 2 || report.Phases[0].Note != "8 records" {
		t.Fatalf("load phase = %+v", report.Phases[0])
	}
	if report.Phases[1].Note != "failed" || report.TotalMS != 4 {
		t.Fatalf("report = %+v", report)
	}

	summary := timer.Summary()
	if !strings.Contains(summary, "load") || !strings.Contains(summary, "// 8 records") || !strings.Contains(summary, "total") {
		t.Fatalf("summary = %q", summary)
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); len(r.Phases) != 0 || r.TotalMS != 0 {
		t.Fatalf("empty report = %+v", r)
	}
}
