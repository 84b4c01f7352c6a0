// Package ingest turns serialised trace records into event batches.
//
// Two encodings are supported:
//
//   - NDJSON: one JSON record per line, blank lines ignored.
//   - msgpack: a Header followed by a stream of records; produced by
//     `wtfindex convert`.
//
// Record type names are resolved through the database registry. Unknown
// names are defined on the fly with the record's class (instance when
// omitted), so loosely specified traces still load.
package ingest
