package trace

import "time"

// Kind represents the type of trace record.
type Kind uint8

const (
	// KindSpanBegin marks the start of a phase.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a phase.
	KindSpanEnd
	// KindPoint represents an instant record.
	KindPoint
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Granularity orders records from coarse to fine.
type Granularity uint8

const (
	GranCommand Granularity = iota + 1 // CLI command
	GranIngest                         // ingest pump
	GranBatch                          // one insertion batch
	GranZone                           // per-zone insertion and reconciliation
)

// String returns the string representation of Granularity.
func (g Granularity) String() string {
	switch g {
	case GranCommand:
		return "command"
	case GranIngest:
		return "ingest"
	case GranBatch:
		return "batch"
	case GranZone:
		return "zone"
	default:
		return "unknown"
	}
}

// Record is a single diagnostic record.
type Record struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Gran     Granularity
	SpanID   uint64
	ParentID uint64
	Name     string
	Detail   string
	Extra    map[string]string
}
