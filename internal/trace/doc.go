// Package trace records the indexer's own ingestion phases.
//
// It is unrelated to the traces being analysed: spans emitted here describe
// how long decoding, batch fan-out and reconciliation took, so slow or hung
// ingestion runs can be diagnosed.
//
// # Usage
//
//	wtfindex stats --trace=- --trace-level=detail app.wtf.ndjson
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelPhase: Command and ingest pump boundaries
//   - LevelDetail: Per-batch spans
//   - LevelDebug: Per-zone insertion and reconciliation spans
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.GranBatch, "batch", 0)
//	defer span.End("")
package trace
