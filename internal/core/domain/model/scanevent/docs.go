// Package scanevent implements the immutable field observation reported by
// mobile scanners: what was scanned, where, by which device, with which
// proof-of-delivery artifacts.
//
// Events are deduplicated by the client-generated offline sync key, enriched
// exactly once with a geofence validation outcome and a state-machine
// transition outcome, and kept forever for audit, including scans whose
// transition the state machine rejected.
package scanevent
