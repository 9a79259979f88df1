package consolidation

import (
	"errors"
	"fmt"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/lifecycle"
	"groupage/internal/core/domain/model/shipment"
	"groupage/internal/pkg/errs"
	"groupage/internal/pkg/guard"
)

var (
	// ErrConsolidationIsNotConstructed is returned when a Consolidation was not
	// created through NewConsolidation or RestoreConsolidation.
	ErrConsolidationIsNotConstructed = errors.New(
		"Consolidation must be created via NewConsolidation constructor")

	// ErrConsolidationIsTerminal indicates a mutation was attempted on a
	// consolidation in COMPLETED or CANCELLED.
	ErrConsolidationIsTerminal = errors.New("consolidation is in a terminal status")

	// ErrInvalidStatusTransition indicates the target status is not reachable
	// from the current status.
	ErrInvalidStatusTransition = errors.New("invalid consolidation status transition")

	// ErrNotOpen indicates a membership change was attempted after the
	// consolidation left OPEN. Lock is a one-way gate.
	ErrNotOpen = errors.New("consolidation is not open for membership changes")

	// ErrNotDeconsolidating indicates an unpack operation was attempted outside
	// the DECONSOLIDATING status.
	ErrNotDeconsolidating = errors.New("consolidation is not being deconsolidated")

	// ErrCutoffPassed indicates an add was attempted after the cutoff time.
	ErrCutoffPassed = errors.New("consolidation cutoff has passed")

	// ErrCapacityExceeded indicates an add would push the consolidation over
	// one of its capacity bounds.
	ErrCapacityExceeded = errors.New("consolidation capacity exceeded")

	// ErrEmptyConsolidation indicates a lock was attempted with no active members.
	ErrEmptyConsolidation = errors.New("consolidation has no active members")

	// ErrIncompleteRelease indicates a complete was attempted while at least one
	// member is neither scanned out nor covered by a resolved discrepancy.
	ErrIncompleteRelease = errors.New("not every member has been released")

	// ErrMemberAlreadyAdded indicates the shipment is already an active member.
	ErrMemberAlreadyAdded = errors.New("shipment is already a member of the consolidation")

	// ErrMemberNotFound indicates the shipment is not an active member.
	ErrMemberNotFound = errors.New("shipment is not a member of the consolidation")

	// ErrMemberAlreadyScanned indicates the member was already scanned out.
	ErrMemberAlreadyScanned = errors.New("member has already been scanned out")

	// ErrMemberNotScanned indicates a release was recorded for a member still
	// inside the mother.
	ErrMemberNotScanned = errors.New("member has not been scanned out yet")

	// ErrDiscrepancyAlreadyRecorded indicates the member already carries a
	// discrepancy.
	ErrDiscrepancyAlreadyRecorded = errors.New("member already has a recorded discrepancy")

	// ErrNoDiscrepancy indicates a resolution was attempted on a member without
	// a recorded discrepancy.
	ErrNoDiscrepancy = errors.New("member has no recorded discrepancy")

	// ErrDiscrepancyAlreadyResolved indicates the member's discrepancy was
	// already resolved.
	ErrDiscrepancyAlreadyResolved = errors.New("discrepancy has already been resolved")
)

// StatusTransitionError reports an attempted edge outside the consolidation
// lifecycle. It unwraps to ErrInvalidStatusTransition for errors.Is.
type StatusTransitionError struct {
	From Status
	To   Status
}

// Error implements the error interface.
func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("invalid consolidation status transition: %s -> %s", e.From, e.To)
}

// Unwrap returns ErrInvalidStatusTransition for errors.Is support.
func (e *StatusTransitionError) Unwrap() error {
	return ErrInvalidStatusTransition
}

// CapacityExceededError reports which capacity dimension an add would
// overflow. It unwraps to ErrCapacityExceeded for errors.Is.
type CapacityExceededError struct {
	Dimension string
	Limit     float64
	Requested float64
}

// Error implements the error interface.
func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("consolidation capacity exceeded: %s limit is %v, requested %v",
		e.Dimension, e.Limit, e.Requested)
}

// Unwrap returns ErrCapacityExceeded for errors.Is support.
func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}

// Consolidation is the aggregate root for a groupage unit (the mother). It
// owns its memberships, the running capacity totals, the transport details of
// the linehaul leg and the deconsolidation audit log. Member shipments are
// only ever mutated through the commands that load both sides, never directly
// through this aggregate.
//
// Invariants:
//   - Must be created through NewConsolidation or RestoreConsolidation
//   - Membership changes only while OPEN; lock is a one-way gate
//   - Running totals always equal the sum over active memberships
//   - An add never pushes any capacity dimension over its bound
//   - COMPLETED requires every active member scanned out or covered by a
//     resolved discrepancy
//   - The deconsolidation log is append-only
type Consolidation struct {
	id                kernel.UUID
	reference         string
	consolidationType shipment.ConsolidationType
	motherShipmentID  kernel.UUID

	originBranchID      kernel.UUID
	destinationBranchID kernel.UUID

	capacity Capacity
	cutoffAt time.Time

	status      Status
	memberships []*Membership

	totalWeightKg float64
	totalVolumeM3 float64

	transport    *TransportDetails
	dispatchedAt *time.Time
	arrivedAt    *time.Time

	log []*DeconsolidationEvent

	// version supports optimistic concurrency control in persistence.
	version int

	events []lifecycle.Event

	guard guard.ConstructorGuard
}

// NewConsolidation creates an OPEN consolidation bound to its mother shipment.
//
// Parameters:
//   - id: unique identifier of the consolidation
//   - reference: human-readable bag / manifest reference, required
//   - consolidationType: BBX or LBX; INDIVIDUAL shipments are never grouped
//   - motherShipmentID: the shipment tracked as the traveling unit
//   - originBranchID, destinationBranchID: endpoints of the linehaul leg
//   - capacity: piece / weight / volume bounds
//   - cutoffAt: moment after which no member may be added
//   - createdAt: when the consolidation was opened
//   - actor: who opened it
func NewConsolidation(
	id kernel.UUID,
	reference string,
	consolidationType shipment.ConsolidationType,
	motherShipmentID kernel.UUID,
	originBranchID kernel.UUID,
	destinationBranchID kernel.UUID,
	capacity Capacity,
	cutoffAt time.Time,
	createdAt time.Time,
	actor string,
) (*Consolidation, error) {
	c := &Consolidation{
		status: StatusOpen,
		guard:  guard.NewConstructorGuard(),
	}

	err := errors.Join(
		c.setID(id),
		c.setReference(reference),
		c.setConsolidationType(consolidationType),
		c.setMotherShipmentID(motherShipmentID),
		c.setBranches(originBranchID, destinationBranchID),
		c.setCapacity(capacity),
		c.setCutoffAt(cutoffAt),
	)
	if err != nil {
		return nil, err
	}

	c.recordStatusEvent(StatusUnknown, StatusOpen, createdAt, actor)
	return c, nil
}

// RestoreConsolidation reconstructs a consolidation from persistence. Running
// totals are recomputed from the active memberships; no lifecycle events are
// recorded.
func RestoreConsolidation(
	id kernel.UUID,
	reference string,
	consolidationType shipment.ConsolidationType,
	motherShipmentID kernel.UUID,
	originBranchID kernel.UUID,
	destinationBranchID kernel.UUID,
	capacity Capacity,
	cutoffAt time.Time,
	status Status,
	memberships []*Membership,
	transport *TransportDetails,
	dispatchedAt *time.Time,
	arrivedAt *time.Time,
	log []*DeconsolidationEvent,
	version int,
) (*Consolidation, error) {
	c := &Consolidation{
		guard: guard.NewConstructorGuard(),
	}

	err := errors.Join(
		c.setID(id),
		c.setReference(reference),
		c.setConsolidationType(consolidationType),
		c.setMotherShipmentID(motherShipmentID),
		c.setBranches(originBranchID, destinationBranchID),
		c.setCapacity(capacity),
		c.setCutoffAt(cutoffAt),
		status.Validate(),
	)
	if err != nil {
		return nil, err
	}
	if version < 1 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("version")
	}
	if transport != nil {
		if err := transport.Validate(); err != nil {
			return nil, err
		}
	}

	c.status = status
	c.memberships = memberships
	c.transport = transport
	c.dispatchedAt = dispatchedAt
	c.arrivedAt = arrivedAt
	c.log = log
	c.version = version

	for _, m := range memberships {
		if m.IsActive() {
			c.totalWeightKg += m.WeightKg()
			c.totalVolumeM3 += m.VolumeM3()
		}
	}

	return c, nil
}

// Validate checks the Consolidation was properly constructed.
func (c *Consolidation) Validate() error {
	return c.guard.Validate(ErrConsolidationIsNotConstructed)
}

// IsEqual compares two consolidations by identity.
func (c *Consolidation) IsEqual(other *Consolidation) bool {
	return c.id == other.id
}

// ID returns the consolidation's unique identifier.
func (c *Consolidation) ID() kernel.UUID { return c.id }

// Reference returns the bag / manifest reference.
func (c *Consolidation) Reference() string { return c.reference }

// Type returns the consolidation type (BBX or LBX).
func (c *Consolidation) Type() shipment.ConsolidationType { return c.consolidationType }

// MotherShipmentID returns the shipment tracked as the traveling unit.
func (c *Consolidation) MotherShipmentID() kernel.UUID { return c.motherShipmentID }

// OriginBranchID returns the origin of the linehaul leg.
func (c *Consolidation) OriginBranchID() kernel.UUID { return c.originBranchID }

// DestinationBranchID returns the destination of the linehaul leg.
func (c *Consolidation) DestinationBranchID() kernel.UUID { return c.destinationBranchID }

// Capacity returns the capacity envelope.
func (c *Consolidation) Capacity() Capacity { return c.capacity }

// CutoffAt returns the moment after which no member may be added.
func (c *Consolidation) CutoffAt() time.Time { return c.cutoffAt }

// Status returns the consolidation's current lifecycle status.
func (c *Consolidation) Status() Status { return c.status }

// Memberships returns every membership, including removed ones kept for audit.
func (c *Consolidation) Memberships() []*Membership { return c.memberships }

// Member returns the active membership of the given shipment, nil if none.
func (c *Consolidation) Member(shipmentID kernel.UUID) *Membership {
	for _, m := range c.memberships {
		if m.IsActive() && m.ShipmentID() == shipmentID {
			return m
		}
	}
	return nil
}

// TotalPieces returns the number of active members.
func (c *Consolidation) TotalPieces() int {
	count := 0
	for _, m := range c.memberships {
		if m.IsActive() {
			count++
		}
	}
	return count
}

// TotalWeightKg returns the summed weight of the active members.
func (c *Consolidation) TotalWeightKg() float64 { return c.totalWeightKg }

// TotalVolumeM3 returns the summed volume of the active members.
func (c *Consolidation) TotalVolumeM3() float64 { return c.totalVolumeM3 }

// Transport returns the linehaul transport details, nil before dispatch.
func (c *Consolidation) Transport() *TransportDetails { return c.transport }

// DispatchedAt returns when the mother departed, nil before dispatch.
func (c *Consolidation) DispatchedAt() *time.Time { return c.dispatchedAt }

// ArrivedAt returns when the mother arrived, nil before arrival.
func (c *Consolidation) ArrivedAt() *time.Time { return c.arrivedAt }

// DeconsolidationLog returns the append-only audit log of the unpack workflow.
func (c *Consolidation) DeconsolidationLog() []*DeconsolidationEvent { return c.log }

// Version returns the aggregate version used for optimistic locking.
func (c *Consolidation) Version() int { return c.version }

// AddMember adds a shipment to an OPEN consolidation. The add is atomic: every
// capacity dimension is checked before anything is mutated, so a failed add
// leaves totals and memberships untouched.
func (c *Consolidation) AddMember(shipmentID kernel.UUID, weightKg, volumeM3 float64, at time.Time) error {
	if c.status != StatusOpen {
		return ErrNotOpen
	}
	if at.After(c.cutoffAt) {
		return ErrCutoffPassed
	}
	if c.Member(shipmentID) != nil {
		return ErrMemberAlreadyAdded
	}

	if pieces := c.TotalPieces() + 1; pieces > c.capacity.MaxPieces() {
		return &CapacityExceededError{
			Dimension: "pieces",
			Limit:     float64(c.capacity.MaxPieces()),
			Requested: float64(pieces),
		}
	}
	if weight := c.totalWeightKg + weightKg; weight > c.capacity.MaxWeightKg() {
		return &CapacityExceededError{
			Dimension: "weightKg",
			Limit:     c.capacity.MaxWeightKg(),
			Requested: weight,
		}
	}
	if volume := c.totalVolumeM3 + volumeM3; volume > c.capacity.MaxVolumeM3() {
		return &CapacityExceededError{
			Dimension: "volumeM3",
			Limit:     c.capacity.MaxVolumeM3(),
			Requested: volume,
		}
	}

	membership, err := newMembership(shipmentID, len(c.memberships)+1, weightKg, volumeM3, at)
	if err != nil {
		return err
	}

	c.memberships = append(c.memberships, membership)
	c.totalWeightKg += weightKg
	c.totalVolumeM3 += volumeM3
	return nil
}

// RemoveMember withdraws a shipment from an OPEN consolidation. The membership
// row is kept as REMOVED for audit; totals are decremented.
func (c *Consolidation) RemoveMember(shipmentID kernel.UUID, at time.Time) error {
	if c.status != StatusOpen {
		return ErrNotOpen
	}

	membership := c.Member(shipmentID)
	if membership == nil {
		return ErrMemberNotFound
	}

	membership.remove(at)
	c.totalWeightKg -= membership.WeightKg()
	c.totalVolumeM3 -= membership.VolumeM3()
	return nil
}

// Lock freezes the membership. Requires at least one active member. Every
// active membership moves to LOCKED with the mother.
func (c *Consolidation) Lock(at time.Time, actor string) error {
	if c.status == StatusOpen && c.TotalPieces() == 0 {
		return ErrEmptyConsolidation
	}
	if err := c.changeStatus(StatusLocked, at, actor); err != nil {
		return err
	}

	for _, m := range c.memberships {
		if m.IsActive() {
			m.status = MembershipLocked
		}
	}
	return nil
}

// Dispatch moves a LOCKED consolidation onto its linehaul leg. Transport
// details are required; every active membership moves to IN_TRANSIT.
func (c *Consolidation) Dispatch(transport TransportDetails, at time.Time, actor string) error {
	if err := transport.Validate(); err != nil {
		return err
	}
	if err := c.changeStatus(StatusInTransit, at, actor); err != nil {
		return err
	}

	c.transport = &transport
	c.dispatchedAt = &at

	for _, m := range c.memberships {
		if m.IsActive() {
			m.status = MembershipInTransit
		}
	}
	return nil
}

// Arrive records the mother reaching the destination branch.
func (c *Consolidation) Arrive(at time.Time, actor string) error {
	if err := c.changeStatus(StatusArrived, at, actor); err != nil {
		return err
	}
	c.arrivedAt = &at
	return nil
}

// BeginDeconsolidation starts the unpack workflow at the destination branch.
func (c *Consolidation) BeginDeconsolidation(actor string, at time.Time) error {
	if err := c.changeStatus(StatusDeconsolidating, at, actor); err != nil {
		return err
	}
	return c.appendLog(DeconsolidationStarted, nil, actor, "", at)
}

// ScanMemberOut records one baby scanned out of the mother during
// deconsolidation. The membership moves to DECONSOLIDATED.
func (c *Consolidation) ScanMemberOut(shipmentID kernel.UUID, actor string, at time.Time) error {
	if c.status != StatusDeconsolidating {
		return ErrNotDeconsolidating
	}

	membership := c.Member(shipmentID)
	if membership == nil {
		return ErrMemberNotFound
	}
	if membership.Status() == MembershipDeconsolidated {
		return ErrMemberAlreadyScanned
	}

	membership.status = MembershipDeconsolidated
	return c.appendLog(DeconsolidationShipmentScanned, &shipmentID, actor, "", at)
}

// RecordMemberRelease records a scanned-out baby resuming independent
// tracking. The release is log-only; the baby's own status transition happens
// on the shipment aggregate.
func (c *Consolidation) RecordMemberRelease(shipmentID kernel.UUID, actor string, at time.Time) error {
	if c.status != StatusDeconsolidating {
		return ErrNotDeconsolidating
	}

	membership := c.Member(shipmentID)
	if membership == nil {
		return ErrMemberNotFound
	}
	if membership.Status() != MembershipDeconsolidated {
		return ErrMemberNotScanned
	}

	return c.appendLog(DeconsolidationShipmentReleased, &shipmentID, actor, "", at)
}

// RecordDiscrepancy raises a manifest reconciliation problem during
// deconsolidation. MISSING and DAMAGED attach to the member and block
// completion until resolved; UNMANIFESTED records a foreign shipment found in
// the bag and is log-only, the found shipment gets booked independently.
func (c *Consolidation) RecordDiscrepancy(
	shipmentID *kernel.UUID,
	kind DiscrepancyKind,
	notes string,
	actor string,
	at time.Time,
) error {
	if c.status != StatusDeconsolidating {
		return ErrNotDeconsolidating
	}
	if err := kind.Validate(); err != nil {
		return err
	}

	if kind != DiscrepancyUnmanifested {
		if shipmentID == nil {
			return errs.NewValueIsRequiredError("shipmentID is required")
		}

		membership := c.Member(*shipmentID)
		if membership == nil {
			return ErrMemberNotFound
		}
		if err := membership.recordDiscrepancy(kind, notes, at); err != nil {
			return err
		}
	}

	return c.appendLog(DeconsolidationDiscrepancy, shipmentID, actor, string(kind)+": "+notes, at)
}

// ResolveDiscrepancy records the audited resolution of a member's
// discrepancy, unblocking completion for that member.
func (c *Consolidation) ResolveDiscrepancy(
	shipmentID kernel.UUID,
	resolution string,
	actor string,
	at time.Time,
) error {
	if c.status != StatusDeconsolidating {
		return ErrNotDeconsolidating
	}

	membership := c.Member(shipmentID)
	if membership == nil {
		return ErrMemberNotFound
	}
	if err := membership.resolveDiscrepancy(resolution, actor, at); err != nil {
		return err
	}

	return c.appendLog(DeconsolidationDiscrepancy, &shipmentID, actor, "resolved: "+resolution, at)
}

// Complete closes the unpack workflow. Every active member must be released:
// scanned out, or covered by a resolved discrepancy.
func (c *Consolidation) Complete(actor string, at time.Time) error {
	if c.status != StatusDeconsolidating {
		return ErrNotDeconsolidating
	}

	for _, m := range c.memberships {
		if m.IsActive() && !m.IsReleased() {
			return ErrIncompleteRelease
		}
	}

	if err := c.changeStatus(StatusCompleted, at, actor); err != nil {
		return err
	}
	return c.appendLog(DeconsolidationCompleted, nil, actor, "", at)
}

// Cancel abandons a consolidation before it departs. Allowed only from OPEN or
// LOCKED; memberships stay recorded for audit and the member shipments are
// unlinked by the caller.
func (c *Consolidation) Cancel(actor string, at time.Time) error {
	return c.changeStatus(StatusCancelled, at, actor)
}

// PopEvents returns the lifecycle events recorded since the last call and
// clears the buffer. Handlers publish them after a successful commit.
func (c *Consolidation) PopEvents() []lifecycle.Event {
	events := c.events
	c.events = nil
	return events
}

func (c *Consolidation) changeStatus(target Status, at time.Time, actor string) error {
	if c.status.IsTerminal() {
		return ErrConsolidationIsTerminal
	}
	if !c.status.CanTransitionTo(target) {
		return &StatusTransitionError{From: c.status, To: target}
	}

	previous := c.status
	c.status = target
	c.recordStatusEvent(previous, target, at, actor)
	return nil
}

func (c *Consolidation) appendLog(
	eventType DeconsolidationEventType,
	shipmentID *kernel.UUID,
	actor, notes string,
	at time.Time,
) error {
	event, err := newDeconsolidationEvent(eventType, shipmentID, actor, notes, at)
	if err != nil {
		return err
	}
	c.log = append(c.log, event)
	return nil
}

func (c *Consolidation) recordStatusEvent(previous, current Status, at time.Time, actor string) {
	previousToken := ""
	if previous != StatusUnknown {
		previousToken = previous.String()
	}

	c.events = append(c.events, lifecycle.Event{
		EntityType:     lifecycle.EntityTypeConsolidation,
		EntityID:       c.id,
		PreviousStatus: previousToken,
		NewStatus:      current.String(),
		OccurredAt:     at,
		ActorID:        actor,
	})
}

func (c *Consolidation) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Consolidation) setReference(reference string) error {
	if reference == "" {
		return errs.NewValueIsRequiredError("reference is required")
	}
	c.reference = reference
	return nil
}

func (c *Consolidation) setConsolidationType(consolidationType shipment.ConsolidationType) error {
	if err := consolidationType.Validate(); err != nil {
		return err
	}
	if !consolidationType.IsGroupage() {
		return errs.NewValueIsInvalidErrorWithCause(
			"consolidationType is invalid",
			fmt.Errorf("%s shipments are never grouped", consolidationType),
		)
	}
	c.consolidationType = consolidationType
	return nil
}

func (c *Consolidation) setMotherShipmentID(motherShipmentID kernel.UUID) error {
	if err := motherShipmentID.Validate(); err != nil {
		return err
	}
	c.motherShipmentID = motherShipmentID
	return nil
}

func (c *Consolidation) setBranches(originBranchID, destinationBranchID kernel.UUID) error {
	if err := originBranchID.Validate(); err != nil {
		return err
	}
	if err := destinationBranchID.Validate(); err != nil {
		return err
	}
	if originBranchID == destinationBranchID {
		return errs.NewValueIsInvalidErrorWithCause(
			"destinationBranchID is invalid",
			errors.New("origin and destination branches must differ"),
		)
	}
	c.originBranchID = originBranchID
	c.destinationBranchID = destinationBranchID
	return nil
}

func (c *Consolidation) setCapacity(capacity Capacity) error {
	if err := capacity.Validate(); err != nil {
		return err
	}
	c.capacity = capacity
	return nil
}

func (c *Consolidation) setCutoffAt(cutoffAt time.Time) error {
	if cutoffAt.IsZero() {
		return errs.NewValueIsRequiredError("cutoffAt is required")
	}
	c.cutoffAt = cutoffAt
	return nil
}
