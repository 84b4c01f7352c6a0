// Package scope stores the call/activity tree of a zone.
//
// Scopes live in an arena owned by the zone's index and are addressed by
// event.ScopeID. Parent links are plain IDs used for navigation and leave
// association; they never keep a scope alive on their own.
package scope
