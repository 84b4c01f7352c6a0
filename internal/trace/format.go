package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Format represents the output format for trace records.
type Format uint8

const (
	FormatAuto   Format = iota // pick from the output path
	FormatText                 // human-readable text
	FormatNDJSON               // newline-delimited JSON
)

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	default:
		return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
	}
}

// FormatRecord formats a record according to the specified format.
func FormatRecord(rec *Record, format Format) []byte {
	if format == FormatNDJSON {
		return formatNDJSON(rec)
	}
	return formatText(rec)
}

func formatNDJSON(rec *Record) []byte {
	type jsonRecord struct {
		Time     string            `json:"time"`
		Seq      uint64            `json:"seq"`
		Kind     string            `json:"kind"`
		Gran     string            `json:"gran"`
		SpanID   uint64            `json:"span_id"`
		ParentID uint64            `json:"parent_id,omitempty"`
		Name     string            `json:"name"`
		Detail   string            `json:"detail,omitempty"`
		Extra    map[string]string `json:"extra,omitempty"`
	}

	data, _ := json.Marshal(jsonRecord{
		Time:     rec.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:      rec.Seq,
		Kind:     rec.Kind.String(),
		Gran:     rec.Gran.String(),
		SpanID:   rec.SpanID,
		ParentID: rec.ParentID,
		Name:     rec.Name,
		Detail:   rec.Detail,
		Extra:    rec.Extra,
	})
	return append(data, '\n')
}

// formatText renders: time [gran] →/←/• name (detail) {k=v, ...}
func formatText(rec *Record) []byte {
	var sb strings.Builder
	sb.WriteString(rec.Time.Format("15:04:05.000000"))
	sb.WriteString(" [")
	sb.WriteString(rec.Gran.String())
	sb.WriteString("] ")

	switch rec.Kind {
	case KindSpanBegin:
		sb.WriteString("→ ")
	case KindSpanEnd:
		sb.WriteString("← ")
	case KindPoint:
		sb.WriteString("• ")
	}
	sb.WriteString(rec.Name)

	if rec.Detail != "" {
		sb.WriteString(" (")
		sb.WriteString(rec.Detail)
		sb.WriteString(")")
	}

	if len(rec.Extra) > 0 {
		sb.WriteString(" {")
		for i, k := range slices.Sorted(maps.Keys(rec.Extra)) {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString("=")
			sb.WriteString(rec.Extra[k])
		}
		sb.WriteString("}")
	}

	sb.WriteString("\n")
	return []byte(sb.String())
}
