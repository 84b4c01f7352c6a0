// Package event defines the records exchanged between trace ingestion and
// the analysis indices.
//
// # Data model
//
//   - Zone – an execution context (script thread, native thread, GPU queue).
//     Events are always owned by exactly one zone.
//   - EventType – a registered event descriptor. The Class decides whether an
//     event opens a scope (ClassScope) or is an instant (ClassInstance).
//   - Event – a timestamped occurrence. Events are produced by ingestion and
//     outlive every index that references them.
//
// # Scope association
//
// Each Event carries one mutable ScopeID. Only the index of the event's own
// zone writes it: enter events point at the scope they open, leave and
// instance events point at the scope that was open when they were processed.
//
// # Registry
//
// Registry is the trace listener capability consumed by the indices. It
// resolves well-known names (see WellKnown*) to numeric identifiers so hot
// paths compare TypeID values instead of strings.
package event
