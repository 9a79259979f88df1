// Package shipment implements the shipment aggregate: the canonical lifecycle
// state machine, set-once milestone timestamps, and the hold / reroute /
// exception side channels that suspend or annotate normal progression without
// corrupting it.
//
// The aggregate is mutated exclusively through its methods. Every status
// change is validated against a fixed transition graph, stamps at most one
// milestone, keeps the deprecated lowercase status mirror in sync, and records
// a lifecycle event for the bus. Legacy free-text status tokens are translated
// at the boundary by TranslateLegacyStatus and never enter the core untyped.
package shipment
