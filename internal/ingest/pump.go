package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gitlisted/tracing-framework/internal/db"
	"github.com/gitlisted/tracing-framework/internal/event"
	"github.com/gitlisted/tracing-framework/internal/trace"
)

// Unbounded makes Pump insert the whole stream as a single batch.
//
// Indices reset their scope cursor between batches, so a scope opened in one
// batch and closed in the next stays open. Bounded batches trade that
// continuity for lower peak latency per insertion.
const Unbounded = 0

// PumpStats reports what a Pump call ingested.
type PumpStats struct {
	Records int
	Batches int
}

// Pump reads every record of r, converting and inserting them into the
// decoder's database in batches of batchSize (Unbounded when <= 0).
func Pump(ctx context.Context, r Reader, dec *Decoder, batchSize int) (PumpStats, error) {
	ctx, span := trace.Start(ctx, trace.GranIngest, "pump")

	var st PumpStats
	batch := make([]*event.Event, 0, max(batchSize, 1024))
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := dec.db.InsertBatch(ctx, batch); err != nil {
			return err
		}
		slog.Debug("ingest batch inserted", "batch", st.Batches, "events", len(batch))
		st.Batches++
		clear(batch)
		batch = batch[:0]
		return nil
	}

	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			span.End("error")
			return st, fmt.Errorf("read record %d: %w", st.Records+1, err)
		}
		e, err := dec.Event(&rec)
		if err != nil {
			span.End("error")
			return st, fmt.Errorf("record %d: %w", st.Records+1, err)
		}
		st.Records++
		batch = append(batch, e)
		if batchSize > 0 && len(batch) >= batchSize {
			if err := flush(); err != nil {
				span.End("error")
				return st, err
			}
		}
	}
	if err := flush(); err != nil {
		span.End("error")
		return st, err
	}
	span.End(fmt.Sprintf("%d records, %d batches", st.Records, st.Batches))
	return st, nil
}

// Load opens path and pumps it into database.
func Load(ctx context.Context, path string, format Format, database *db.Database, batchSize int) (PumpStats, error) {
	f, err := Open(path, format)
	if err != nil {
		return PumpStats{}, fmt.Errorf("open trace: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("close trace", "path", path, "error", closeErr)
		}
	}()
	return Pump(ctx, f, NewDecoder(database), batchSize)
}

// Convert copies every record of r to w.
func Convert(r Reader, w *MsgpackWriter) (int, error) {
	n := 0
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return n, w.Close()
		}
		if err != nil {
			return n, fmt.Errorf("read record %d: %w", n+1, err)
		}
		if err := w.Write(&rec); err != nil {
			return n, fmt.Errorf("write record %d: %w", n+1, err)
		}
		n++
	}
}
