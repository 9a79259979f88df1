// Package consolidation implements the groupage aggregate: the mother unit
// that carries baby shipments over a linehaul leg as one trackable piece.
//
// The aggregate owns its memberships, enforces capacity and cutoff on every
// add, guards the one-way lock gate, and drives the deconsolidation workflow
// at the destination: scan-out, release, discrepancy reconciliation and the
// final completion check that no member is left behind unaccounted. Every
// status change records a lifecycle event for the bus; the deconsolidation
// audit log is append-only.
package consolidation
