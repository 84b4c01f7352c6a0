// Package db owns the zones of a trace and drives one zoneindex.Index per
// zone from a shared stream of insertion batches.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gitlisted/tracing-framework/internal/event"
	"github.com/gitlisted/tracing-framework/internal/eventlist"
	"github.com/gitlisted/tracing-framework/internal/trace"
	"github.com/gitlisted/tracing-framework/internal/zoneindex"
)

// Options configure a Database.
type Options struct {
	// Jobs bounds the number of zones indexed in parallel; 0 uses GOMAXPROCS.
	Jobs                 int
	PendingWarnThreshold int
	Logger               *slog.Logger
	Tracer               trace.Tracer
}

// Stats aggregates ingestion counters.
type Stats struct {
	Batches int
	Events  int
	Unzoned int // events without a zone; kept in the global list only
	Zones   []ZoneStats
}

// ZoneStats pairs a zone with its index counters.
type ZoneStats struct {
	Zone  *event.Zone
	Index zoneindex.Stats
}

// Database is the in-memory trace database.
//
// InsertBatch must not be called concurrently with itself; zone lookups are
// safe from any goroutine.
type Database struct {
	registry *event.Registry
	opts     Options
	events   eventlist.List

	mu      sync.RWMutex
	zones   []*event.Zone
	byName  map[string]*event.Zone
	indices map[*event.Zone]*zoneindex.Index

	batches int
	unzoned int
}

// New creates an empty database resolving event types through registry.
func New(registry *event.Registry, opts Options) *Database {
	if registry == nil {
		registry = event.NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	return &Database{
		registry: registry,
		opts:     opts,
		byName:   make(map[string]*event.Zone),
		indices:  make(map[*event.Zone]*zoneindex.Index),
	}
}

// Registry returns the event type registry.
func (d *Database) Registry() *event.Registry { return d.registry }

// Events returns the list of all events of every zone.
func (d *Database) Events() *eventlist.List { return &d.events }

// CreateZone returns the zone named name, creating it and its index when
// missing. An existing zone keeps its type; an empty location is filled in.
func (d *Database) CreateZone(name string, typ event.ZoneType, location string) *event.Zone {
	d.mu.Lock()
	defer d.mu.Unlock()
	if z, ok := d.byName[name]; ok {
		if z.Location == "" {
			z.Location = location
		}
		return z
	}
	z := event.NewZone(name, typ, location)
	d.addZoneLocked(z)
	return z
}

// AddZone registers a zone created elsewhere.
func (d *Database) AddZone(z *event.Zone) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.indices[z]; !ok {
		d.addZoneLocked(z)
	}
}

func (d *Database) addZoneLocked(z *event.Zone) {
	d.zones = append(d.zones, z)
	if _, taken := d.byName[z.Name]; !taken {
		d.byName[z.Name] = z
	}
	d.indices[z] = zoneindex.New(d.registry, z, zoneindex.Options{
		PendingWarnThreshold: d.opts.PendingWarnThreshold,
		Logger:               d.opts.Logger.With("component", "zoneindex"),
		Tracer:               d.opts.Tracer,
	})
	d.opts.Logger.Debug("zone created", "zone", z.Name, "zone_id", z.ID, "type", z.Type.String())
}

// Zone returns the zone with the given name, or nil.
func (d *Database) Zone(name string) *event.Zone {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.byName[name]
}

// Zones returns all zones in creation order.
func (d *Database) Zones() []*event.Zone {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.zones)
}

// Index returns the index of zone, or nil.
func (d *Database) Index(z *event.Zone) *zoneindex.Index {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.indices[z]
}

// InsertBatch appends a batch to the global list and to the index of every
// zone it touches. Zones are indexed in parallel; each index sees its events
// in arrival order from a single goroutine.
//
// ctx is only checked before anything is committed: a cancelled batch leaves
// the database untouched, and a started batch reaches every zone.
func (d *Database) InsertBatch(ctx context.Context, events []*event.Event) error {
	if len(events) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	span := trace.Begin(d.opts.Tracer, trace.GranBatch, "batch", trace.CurrentSpan(ctx))
	defer span.End(fmt.Sprintf("%d events", len(events)))

	perZone := make(map[*event.Zone][]*event.Event)
	order := make([]*event.Zone, 0, 4)
	d.events.BeginInserting()
	for _, e := range events {
		d.events.InsertEvent(e)
		if e.Zone == nil {
			d.unzoned++
			continue
		}
		if _, seen := perZone[e.Zone]; !seen {
			order = append(order, e.Zone)
			d.AddZone(e.Zone)
		}
		perZone[e.Zone] = append(perZone[e.Zone], e)
	}
	d.events.EndInserting()
	d.batches++

	var g errgroup.Group
	g.SetLimit(min(d.opts.Jobs, len(order)))
	for _, z := range order {
		idx := d.Index(z)
		zoneEvents := perZone[z]
		g.Go(func() error {
			zspan := trace.Begin(d.opts.Tracer, trace.GranZone, "zone:"+z.Name, span.ID())
			idx.BeginInserting()
			for _, e := range zoneEvents {
				idx.InsertEvent(e)
			}
			idx.EndInsertingUnder(zspan.ID())
			zspan.End(fmt.Sprintf("%d events", len(zoneEvents)))
			return nil
		})
	}
	// indexing cannot fail
	_ = g.Wait()
	return nil
}

// Stats returns ingestion counters; call between batches.
func (d *Database) Stats() Stats {
	st := Stats{
		Batches: d.batches,
		Events:  d.events.Count(),
		Unzoned: d.unzoned,
	}
	for _, z := range d.Zones() {
		st.Zones = append(st.Zones, ZoneStats{Zone: z, Index: d.Index(z).Stats()})
	}
	return st
}

// ParseZoneRef splits "name@location" as printed by event.Zone.String.
func ParseZoneRef(ref string) (name, location string) {
	name, location, _ = strings.Cut(ref, "@")
	return name, location
}
