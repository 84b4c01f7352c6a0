package event

import (
	"fmt"

	"github.com/google/uuid"
)

// ZoneType classifies the execution context a zone represents.
type ZoneType uint8

const (
	ZoneScript ZoneType = iota // script thread (default)
	ZoneNative                 // native thread
	ZoneGPU                    // GPU queue
)

func (t ZoneType) String() string {
	switch t {
	case ZoneScript:
		return "script"
	case ZoneNative:
		return "native"
	case ZoneGPU:
		return "gpu"
	default:
		return "unknown"
	}
}

// ParseZoneType converts a string to a ZoneType. Empty input maps to ZoneScript.
func ParseZoneType(s string) (ZoneType, error) {
	switch s {
	case "", "script":
		return ZoneScript, nil
	case "native":
		return ZoneNative, nil
	case "gpu":
		return ZoneGPU, nil
	default:
		return ZoneScript, fmt.Errorf("invalid zone type: %q (expected: script|native|gpu)", s)
	}
}

// Zone is an execution context. Identity is pointer identity; ID is stable
// across serialisation.
type Zone struct {
	ID       uuid.UUID
	Name     string
	Type     ZoneType
	Location string
}

// NewZone creates a zone with a fresh random ID.
func NewZone(name string, typ ZoneType, location string) *Zone {
	return &Zone{
		ID:       uuid.New(),
		Name:     name,
		Type:     typ,
		Location: location,
	}
}

func (z *Zone) String() string {
	if z == nil {
		return "<nil zone>"
	}
	if z.Location == "" {
		return z.Name
	}
	return z.Name + "@" + z.Location
}
