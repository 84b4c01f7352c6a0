package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrMalformedRecord is returned for records that cannot be decoded.
var ErrMalformedRecord = errors.New("malformed trace record")

// Record is the serialised form of one event.
type Record struct {
	Zone  string         `json:"zone,omitempty" msgpack:"zone,omitempty"`
	Time  float64        `json:"time" msgpack:"time"`
	Type  string         `json:"type" msgpack:"type"`
	Class string         `json:"class,omitempty" msgpack:"class,omitempty"`
	Args  map[string]any `json:"args,omitempty" msgpack:"args,omitempty"`
}

// Reader yields records until io.EOF.
type Reader interface {
	Next() (Record, error)
}

// Format identifies a record encoding.
type Format uint8

const (
	FormatAuto Format = iota
	FormatNDJSON
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatNDJSON:
		return "ndjson"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "ndjson", "jsonl", "json":
		return FormatNDJSON, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	default:
		return FormatAuto, fmt.Errorf("invalid ingest format: %q (expected: auto|ndjson|msgpack)", s)
	}
}

// DetectFormat picks a format from a file extension. NDJSON is the fallback.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp", ".msgpack", ".wtfm":
		return FormatMsgpack
	default:
		return FormatNDJSON
	}
}
