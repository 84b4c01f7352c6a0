package ingest

import (
	"fmt"

	"github.com/gitlisted/tracing-framework/internal/db"
	"github.com/gitlisted/tracing-framework/internal/event"
)

// DefaultZoneName is used for records without a zone.
const DefaultZoneName = "main"

// Decoder converts records into events of a database.
type Decoder struct {
	db         *db.Database
	registry   *event.Registry
	zoneCreate *event.EventType
	last       *event.Zone // most recent zone; records repeat names heavily
}

// NewDecoder creates a decoder bound to database.
func NewDecoder(database *db.Database) *Decoder {
	reg := database.Registry()
	return &Decoder{
		db:         database,
		registry:   reg,
		zoneCreate: reg.EventType(event.WellKnownZoneCreate),
	}
}

// Event converts one record. wtf.zone.create records also create the zone
// named by their "name" argument; without a zone of their own they belong
// to the zone they create.
func (d *Decoder) Event(rec *Record) (*event.Event, error) {
	if rec.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedRecord)
	}
	typ := d.registry.EventType(rec.Type)
	if typ == nil {
		class, ok := event.ParseClass(rec.Class)
		if !ok {
			return nil, fmt.Errorf("%s: %w: invalid class %q", rec.Type, ErrMalformedRecord, rec.Class)
		}
		var err error
		if typ, err = d.registry.Define(rec.Type, class, 0); err != nil {
			return nil, err
		}
	}

	e := event.New(nil, rec.Time, typ, rec.Args)
	if typ == d.zoneCreate {
		created, err := d.createZone(e)
		if err != nil {
			return nil, err
		}
		if rec.Zone == "" {
			e.Zone = created
			return e, nil
		}
	}
	e.Zone = d.zone(rec.Zone, event.ZoneScript, "")
	return e, nil
}

func (d *Decoder) zone(name string, typ event.ZoneType, location string) *event.Zone {
	if name == "" {
		name = DefaultZoneName
	}
	if d.last != nil && d.last.Name == name && location == "" {
		return d.last
	}
	d.last = d.db.CreateZone(name, typ, location)
	return d.last
}

func (d *Decoder) createZone(e *event.Event) (*event.Zone, error) {
	name := e.StringArg("name")
	if name == "" {
		return nil, fmt.Errorf("%s: %w: missing name argument", event.WellKnownZoneCreate, ErrMalformedRecord)
	}
	typ, err := event.ParseZoneType(e.StringArg("type"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", event.WellKnownZoneCreate, ErrMalformedRecord, err)
	}
	return d.zone(name, typ, e.StringArg("location")), nil
}
