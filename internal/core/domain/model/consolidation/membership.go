package consolidation

import (
	"fmt"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/errs"
)

// MembershipStatus tracks one shipment-consolidation pairing through its own
// small lifecycle: ADDED → LOCKED → IN_TRANSIT → DECONSOLIDATED, or REMOVED if
// withdrawn before lock.
type MembershipStatus int

const (
	// MembershipUnknown represents an invalid or undefined membership status.
	MembershipUnknown MembershipStatus = iota

	// MembershipAdded means the shipment sits in an open consolidation.
	MembershipAdded

	// MembershipLocked means the membership was frozen with the mother.
	MembershipLocked

	// MembershipInTransit means the membership travels with the mother.
	MembershipInTransit

	// MembershipDeconsolidated means the shipment was scanned out of the mother.
	MembershipDeconsolidated

	// MembershipRemoved means the shipment was withdrawn before lock.
	// Removed memberships are kept for audit, never deleted.
	MembershipRemoved
)

// getMembershipStatusStrings returns the token of every membership status.
func getMembershipStatusStrings() map[MembershipStatus]string {
	return map[MembershipStatus]string{
		MembershipUnknown:        "UNKNOWN",
		MembershipAdded:          "ADDED",
		MembershipLocked:         "LOCKED",
		MembershipInTransit:      "IN_TRANSIT",
		MembershipDeconsolidated: "DECONSOLIDATED",
		MembershipRemoved:        "REMOVED",
	}
}

// String returns the uppercase token of the membership status.
func (s MembershipStatus) String() string {
	if str, ok := getMembershipStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate checks the MembershipStatus is one of the defined values.
func (s MembershipStatus) Validate() error {
	if s < MembershipAdded || s > MembershipRemoved {
		return errs.NewValueIsInvalidErrorWithCause(
			"membershipStatus is invalid",
			fmt.Errorf("%d is not a valid membership status", s),
		)
	}
	return nil
}

// DiscrepancyKind classifies a deconsolidation discrepancy.
type DiscrepancyKind string

const (
	// DiscrepancyMissing marks a manifested shipment that could not be scanned out.
	DiscrepancyMissing DiscrepancyKind = "MISSING"

	// DiscrepancyUnmanifested marks a shipment found in the bag without a manifest entry.
	DiscrepancyUnmanifested DiscrepancyKind = "UNMANIFESTED"

	// DiscrepancyDamaged marks a shipment scanned out in damaged condition.
	DiscrepancyDamaged DiscrepancyKind = "DAMAGED"
)

// Validate checks the DiscrepancyKind is one of the defined kinds.
func (k DiscrepancyKind) Validate() error {
	switch k {
	case DiscrepancyMissing, DiscrepancyUnmanifested, DiscrepancyDamaged:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"discrepancyKind is invalid",
			fmt.Errorf("%q is not a valid discrepancy kind", k),
		)
	}
}

// Discrepancy records a reconciliation problem raised against one membership
// during deconsolidation, and its eventual audited resolution.
type Discrepancy struct {
	kind       DiscrepancyKind
	notes      string
	recordedAt time.Time
	resolution string
	resolvedBy string
	resolvedAt *time.Time
}

// Kind returns the discrepancy classification.
func (d *Discrepancy) Kind() DiscrepancyKind { return d.kind }

// Notes returns free-text details recorded with the discrepancy.
func (d *Discrepancy) Notes() string { return d.notes }

// RecordedAt returns when the discrepancy was raised.
func (d *Discrepancy) RecordedAt() time.Time { return d.recordedAt }

// Resolution returns the audited resolution note, empty while open.
func (d *Discrepancy) Resolution() string { return d.resolution }

// ResolvedBy returns who resolved the discrepancy, empty while open.
func (d *Discrepancy) ResolvedBy() string { return d.resolvedBy }

// ResolvedAt returns when the discrepancy was resolved, nil while open.
func (d *Discrepancy) ResolvedAt() *time.Time { return d.resolvedAt }

// IsResolved reports whether the discrepancy has an audited resolution.
func (d *Discrepancy) IsResolved() bool { return d.resolvedAt != nil }

// RestoreDiscrepancy reconstructs a discrepancy record from persistence.
func RestoreDiscrepancy(
	kind DiscrepancyKind,
	notes string,
	recordedAt time.Time,
	resolution string,
	resolvedBy string,
	resolvedAt *time.Time,
) (*Discrepancy, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	return &Discrepancy{
		kind:       kind,
		notes:      notes,
		recordedAt: recordedAt,
		resolution: resolution,
		resolvedBy: resolvedBy,
		resolvedAt: resolvedAt,
	}, nil
}

// Membership is the child entity pairing one baby shipment with its mother.
// It carries the shipment's capacity contribution, a manifest sequence number,
// and its own status. Memberships are created and mutated only through the
// consolidation aggregate so the running totals can never drift.
type Membership struct {
	shipmentID kernel.UUID
	sequence   int
	weightKg   float64
	volumeM3   float64
	status     MembershipStatus
	addedAt    time.Time
	removedAt  *time.Time

	discrepancy *Discrepancy
}

// newMembership creates an ADDED membership with the given manifest sequence.
func newMembership(shipmentID kernel.UUID, sequence int, weightKg, volumeM3 float64, at time.Time) (*Membership, error) {
	if err := shipmentID.Validate(); err != nil {
		return nil, err
	}
	if weightKg <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"weightKg is invalid", fmt.Errorf("%f is not greater than 0", weightKg))
	}
	if volumeM3 <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"volumeM3 is invalid", fmt.Errorf("%f is not greater than 0", volumeM3))
	}

	return &Membership{
		shipmentID: shipmentID,
		sequence:   sequence,
		weightKg:   weightKg,
		volumeM3:   volumeM3,
		status:     MembershipAdded,
		addedAt:    at,
	}, nil
}

// RestoreMembership reconstructs a membership from persistence.
func RestoreMembership(
	shipmentID kernel.UUID,
	sequence int,
	weightKg, volumeM3 float64,
	status MembershipStatus,
	addedAt time.Time,
	removedAt *time.Time,
	discrepancy *Discrepancy,
) (*Membership, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	m, err := newMembership(shipmentID, sequence, weightKg, volumeM3, addedAt)
	if err != nil {
		return nil, err
	}

	m.status = status
	m.removedAt = removedAt
	m.discrepancy = discrepancy
	return m, nil
}

// ShipmentID returns the baby shipment's identifier.
func (m *Membership) ShipmentID() kernel.UUID { return m.shipmentID }

// Sequence returns the manifest sequence number within the mother.
func (m *Membership) Sequence() int { return m.sequence }

// WeightKg returns the membership's weight contribution.
func (m *Membership) WeightKg() float64 { return m.weightKg }

// VolumeM3 returns the membership's volume contribution.
func (m *Membership) VolumeM3() float64 { return m.volumeM3 }

// Status returns the membership's own lifecycle status.
func (m *Membership) Status() MembershipStatus { return m.status }

// AddedAt returns when the shipment was added to the mother.
func (m *Membership) AddedAt() time.Time { return m.addedAt }

// RemovedAt returns when the shipment was withdrawn, nil if never removed.
func (m *Membership) RemovedAt() *time.Time { return m.removedAt }

// Discrepancy returns the reconciliation problem raised against this
// membership, nil if none.
func (m *Membership) Discrepancy() *Discrepancy { return m.discrepancy }

// IsActive reports whether the membership still contributes to the mother's
// running totals (i.e. it was not removed).
func (m *Membership) IsActive() bool { return m.status != MembershipRemoved }

// IsReleased reports whether the membership no longer blocks completion:
// either scanned out, or covered by a resolved discrepancy.
func (m *Membership) IsReleased() bool {
	if m.status == MembershipDeconsolidated {
		return true
	}
	return m.discrepancy != nil && m.discrepancy.IsResolved()
}

func (m *Membership) remove(at time.Time) {
	m.status = MembershipRemoved
	m.removedAt = &at
}

func (m *Membership) recordDiscrepancy(kind DiscrepancyKind, notes string, at time.Time) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	if m.discrepancy != nil {
		return ErrDiscrepancyAlreadyRecorded
	}

	m.discrepancy = &Discrepancy{kind: kind, notes: notes, recordedAt: at}
	return nil
}

func (m *Membership) resolveDiscrepancy(resolution, actor string, at time.Time) error {
	if m.discrepancy == nil {
		return ErrNoDiscrepancy
	}
	if m.discrepancy.IsResolved() {
		return ErrDiscrepancyAlreadyResolved
	}
	if resolution == "" {
		return errs.NewValueIsRequiredError("resolution is required")
	}

	m.discrepancy.resolution = resolution
	m.discrepancy.resolvedBy = actor
	m.discrepancy.resolvedAt = &at
	return nil
}
