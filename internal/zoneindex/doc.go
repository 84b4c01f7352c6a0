// Package zoneindex reconstructs the scope tree of one zone from a stream of
// trace events.
//
// # Fast path
//
// Events are assumed to arrive in time order. A single cursor, the most
// recently opened and not yet closed scope, receives every in-order event:
// enter events open a child of the cursor and become the cursor, leave events
// close the cursor and move it to its parent, instance events are associated
// with the cursor. No stack is kept; parent links provide the walk-up.
//
// # Reconciliation
//
// An event older than the newest in-order event of the batch is deferred.
// EndInserting drains the deferred events in arrival order with a separate
// cursor that tracks one open level only. Enter events are attached to the
// scope enclosing their timestamp; a leave closes the local cursor without
// walking up. Deep or reversed multi-level disorder is not reconstructed.
package zoneindex
