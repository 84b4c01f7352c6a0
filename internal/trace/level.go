package trace

import (
	"fmt"
	"strings"
)

// Level selects how fine-grained the self-diagnostic spans are.
type Level uint8

const (
	LevelOff    Level = iota // nothing is emitted
	LevelPhase               // command and pump spans
	LevelDetail              // plus one span per inserted batch
	LevelDebug               // plus zone insertion and reconciliation
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// finest maps a level to the finest granularity it lets through.
var finest = [...]Granularity{
	LevelPhase:  GranIngest,
	LevelDetail: GranBatch,
	LevelDebug:  GranZone,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the names printed by String; "" means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for l, name := range levelNames {
		if name == s {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|phase|detail|debug)", s)
}

// ShouldEmit reports whether records of granularity g pass this level.
func (l Level) ShouldEmit(g Granularity) bool {
	if l == LevelOff || int(l) >= len(finest) {
		return false
	}
	return g <= finest[l]
}
