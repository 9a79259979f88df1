package shipment

import (
	"errors"
	"fmt"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/lifecycle"
	"groupage/internal/pkg/errs"
	"groupage/internal/pkg/guard"
)

var (
	// ErrShipmentIsNotConstructed is returned when a Shipment instance was not
	// created through NewShipment or RestoreShipment.
	ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment constructor")

	// ErrInvalidTransition indicates the target status is not reachable from
	// the current status along the forward/branch graph.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyTerminal indicates a mutation was attempted on a shipment in a
	// terminal status (DELIVERED, RETURNED or CANCELLED).
	ErrAlreadyTerminal = errors.New("shipment is in a terminal status")

	// ErrHeldShipment indicates a forward transition was attempted while the
	// shipment is under an active hold.
	ErrHeldShipment = errors.New("shipment is held")

	// ErrShipmentAlreadyHeld indicates a hold was requested while another hold
	// is still active.
	ErrShipmentAlreadyHeld = errors.New("shipment already has an active hold")

	// ErrNoActiveHold indicates a hold release was requested with no active hold.
	ErrNoActiveHold = errors.New("shipment has no active hold")

	// ErrRerouteTooLate indicates a reroute was requested at or after OUT_FOR_DELIVERY.
	ErrRerouteTooLate = errors.New("shipment can no longer be rerouted")

	// ErrCancelAfterPickup indicates a cancel was requested after pickup without
	// the explicit override.
	ErrCancelAfterPickup = errors.New("shipment can only be cancelled before pickup without override")

	// ErrExceptionAlreadyOpen indicates an exception was flagged while another
	// exception is still unresolved.
	ErrExceptionAlreadyOpen = errors.New("shipment already has an open exception")

	// ErrNoOpenException indicates an exception resolution was requested with no
	// open exception.
	ErrNoOpenException = errors.New("shipment has no open exception")

	// ErrAlreadyInConsolidation indicates the shipment is already a member of a
	// consolidation.
	ErrAlreadyInConsolidation = errors.New("shipment already belongs to a consolidation")
)

// InvalidTransitionError reports an attempted edge outside the transition graph.
// It unwraps to ErrInvalidTransition for errors.Is classification.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// Error implements the error interface.
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

// Unwrap returns ErrInvalidTransition for errors.Is support.
func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Shipment is the aggregate root for a trackable unit of cargo. It owns the
// canonical status, the set-once milestone timestamps, and the hold / reroute /
// exception side channels that can suspend or annotate normal progression.
//
// Invariants:
//   - Must be created through NewShipment or RestoreShipment
//   - Tracking number is unique and immutable once assigned
//   - Status moves only along edges of the defined transition graph
//   - Each milestone timestamp is set at most once, when its transition fires
//   - The deprecated lowercase status mirror always equals lower(current status)
//   - An active hold blocks forward transitions but not side-channel operations
//   - Terminal statuses permit no further mutation; shipments are never deleted
type Shipment struct {
	id             kernel.UUID
	trackingNumber string
	waybillNumber  string
	barcode        string

	status     Status
	milestones map[Status]time.Time

	destinationBranchID kernel.UUID

	holds      []*Hold
	reroutes   []*Reroute
	exceptions []*ExceptionRecord

	isConsolidation   bool
	consolidationID   *kernel.UUID
	consolidationType ConsolidationType

	currentLocation *kernel.LocationRef
	lastScanEventID *kernel.UUID

	// version supports optimistic concurrency control in persistence.
	version int

	events []lifecycle.Event

	guard guard.ConstructorGuard
}

// NewShipment creates a freshly booked shipment. The shipment starts in BOOKED
// with the booked milestone stamped and a lifecycle event recorded.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - trackingNumber: unique tracking number (required, immutable)
//   - consolidationType: Individual, BBX or LBX
//   - destinationBranchID: the branch the shipment is headed to
//   - bookedAt: booking instant, becomes the BOOKED milestone
//   - actor: who booked the shipment
func NewShipment(
	id kernel.UUID,
	trackingNumber string,
	consolidationType ConsolidationType,
	destinationBranchID kernel.UUID,
	bookedAt time.Time,
	actor string,
) (*Shipment, error) {
	s := &Shipment{
		status:     Booked,
		milestones: map[Status]time.Time{Booked: bookedAt},
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(id),
		s.setTrackingNumber(trackingNumber),
		s.setConsolidationType(consolidationType),
		s.setDestinationBranchID(destinationBranchID),
	); err != nil {
		return nil, err
	}

	s.recordStatusEvent(Unknown, Booked, bookedAt, actor)
	return s, nil
}

// RestoreShipment reconstructs a shipment from persistence with its full
// operational state: status, milestones, side-channel history, consolidation
// linkage, location pointer and version. The restored aggregate behaves
// identically to one built through normal domain operations, but records no
// lifecycle event.
func RestoreShipment(
	id kernel.UUID,
	trackingNumber string,
	waybillNumber string,
	barcode string,
	status Status,
	milestones map[Status]time.Time,
	destinationBranchID kernel.UUID,
	holds []*Hold,
	reroutes []*Reroute,
	exceptions []*ExceptionRecord,
	isConsolidation bool,
	consolidationID *kernel.UUID,
	consolidationType ConsolidationType,
	currentLocation *kernel.LocationRef,
	lastScanEventID *kernel.UUID,
	version int,
) (*Shipment, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	s := &Shipment{
		status:     status,
		milestones: make(map[Status]time.Time, len(milestones)),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(id),
		s.setTrackingNumber(trackingNumber),
		s.setConsolidationType(consolidationType),
		s.setDestinationBranchID(destinationBranchID),
	); err != nil {
		return nil, err
	}

	for milestone, at := range milestones {
		if err := milestone.Validate(); err != nil {
			return nil, err
		}
		s.milestones[milestone] = at
	}

	if consolidationID != nil {
		if err := consolidationID.Validate(); err != nil {
			return nil, err
		}
	}
	if currentLocation != nil {
		if err := currentLocation.Validate(); err != nil {
			return nil, err
		}
	}
	if lastScanEventID != nil {
		if err := lastScanEventID.Validate(); err != nil {
			return nil, err
		}
	}
	if version < 1 {
		return nil, errs.NewVersionIsInvalidError("version", fmt.Errorf("%d is below the initial persisted version", version))
	}

	s.waybillNumber = waybillNumber
	s.barcode = barcode
	s.holds = holds
	s.reroutes = reroutes
	s.exceptions = exceptions
	s.isConsolidation = isConsolidation
	s.consolidationID = consolidationID
	s.currentLocation = currentLocation
	s.lastScanEventID = lastScanEventID
	s.version = version
	return s, nil
}

// Validate ensures the Shipment was properly constructed.
func (s *Shipment) Validate() error {
	if s == nil {
		return ErrShipmentIsNotConstructed
	}
	return s.guard.Validate(ErrShipmentIsNotConstructed)
}

// IsEqual compares two shipments by their unique identifiers.
func (s *Shipment) IsEqual(other *Shipment) bool {
	return other != nil && s.id.IsEqual(other.id)
}

// ID returns the shipment's unique identifier.
func (s *Shipment) ID() kernel.UUID { return s.id }

// TrackingNumber returns the immutable tracking number.
func (s *Shipment) TrackingNumber() string { return s.trackingNumber }

// WaybillNumber returns the optional waybill number, empty if unset.
func (s *Shipment) WaybillNumber() string { return s.waybillNumber }

// Barcode returns the optional barcode, empty if unset.
func (s *Shipment) Barcode() string { return s.barcode }

// Status returns the current canonical forward status.
func (s *Shipment) Status() Status { return s.status }

// LegacyStatus returns the deprecated lowercase status mirror. It always
// equals lower(Status().String()).
func (s *Shipment) LegacyStatus() string { return s.status.Legacy() }

// DestinationBranchID returns the branch the shipment is currently headed to.
func (s *Shipment) DestinationBranchID() kernel.UUID { return s.destinationBranchID }

// Milestone returns the timestamp recorded when the shipment first reached the
// given status, nil if never reached.
func (s *Shipment) Milestone(status Status) *time.Time {
	if at, ok := s.milestones[status]; ok {
		return &at
	}
	return nil
}

// Milestones returns a copy of all recorded milestone timestamps.
func (s *Shipment) Milestones() map[Status]time.Time {
	out := make(map[Status]time.Time, len(s.milestones))
	for status, at := range s.milestones {
		out[status] = at
	}
	return out
}

// Holds returns the full hold history, oldest first.
func (s *Shipment) Holds() []*Hold { return s.holds }

// Reroutes returns the full reroute history, oldest first.
func (s *Shipment) Reroutes() []*Reroute { return s.reroutes }

// Exceptions returns the full exception history, oldest first.
func (s *Shipment) Exceptions() []*ExceptionRecord { return s.exceptions }

// ActiveHold returns the currently active hold, nil if none.
func (s *Shipment) ActiveHold() *Hold {
	for _, hold := range s.holds {
		if hold.IsActive() {
			return hold
		}
	}
	return nil
}

// IsHeld reports whether forward progression is currently blocked by a hold.
func (s *Shipment) IsHeld() bool { return s.ActiveHold() != nil }

// OpenException returns the unresolved exception, nil if none.
func (s *Shipment) OpenException() *ExceptionRecord {
	for _, record := range s.exceptions {
		if record.IsOpen() {
			return record
		}
	}
	return nil
}

// HasException reports whether an unresolved exception is flagged.
func (s *Shipment) HasException() bool { return s.OpenException() != nil }

// IsConsolidation reports whether this shipment record is itself a mother.
func (s *Shipment) IsConsolidation() bool { return s.isConsolidation }

// ConsolidationID returns the mother this shipment belongs to, nil if none.
func (s *Shipment) ConsolidationID() *kernel.UUID { return s.consolidationID }

// ConsolidationType returns the shipment's consolidation type.
func (s *Shipment) ConsolidationType() ConsolidationType { return s.consolidationType }

// CurrentLocation returns where the shipment currently sits, nil if unknown.
func (s *Shipment) CurrentLocation() *kernel.LocationRef { return s.currentLocation }

// LastScanEventID returns the most recent scan event, nil if never scanned.
func (s *Shipment) LastScanEventID() *kernel.UUID { return s.lastScanEventID }

// Version returns the optimistic concurrency version loaded from persistence.
func (s *Shipment) Version() int { return s.version }

// Apply advances the shipment to the target status along the transition graph.
//
// Rules enforced:
//   - terminal shipments reject all transitions (ErrAlreadyTerminal)
//   - an active hold blocks every forward transition (ErrHeldShipment)
//   - target must be directly reachable from the current status
//     (InvalidTransitionError wrapping ErrInvalidTransition)
//   - the milestone for the new status is stamped only on first arrival
//   - forward milestones must not move backwards in time
//
// On success a lifecycle event with the before/after statuses is recorded.
func (s *Shipment) Apply(target Status, at time.Time, actor string) error {
	if err := target.Validate(); err != nil {
		return err
	}

	if s.status.IsTerminal() {
		return ErrAlreadyTerminal
	}

	if !s.status.CanTransitionTo(target) {
		return &InvalidTransitionError{From: s.status, To: target}
	}

	if s.IsHeld() {
		return ErrHeldShipment
	}

	if last, ok := s.milestones[s.status]; ok && s.status.comesBefore(target) && at.Before(last) {
		return errs.NewValueIsInvalidErrorWithCause(
			"occurredAt is invalid",
			fmt.Errorf("%s precedes the %s milestone at %s", at, s.status, last),
		)
	}

	previous := s.status
	s.status = target
	s.stampMilestone(target, at)
	s.recordStatusEvent(previous, target, at, actor)
	return nil
}

// InitiateReturn branches the shipment onto the return path. It is a
// side-channel operation: legal from any non-terminal status, including while
// held or exception-flagged.
func (s *Shipment) InitiateReturn(at time.Time, actor string) error {
	if s.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	if s.status == ReturnInitiated || s.status == ReturnInTransit {
		return &InvalidTransitionError{From: s.status, To: ReturnInitiated}
	}

	previous := s.status
	s.status = ReturnInitiated
	s.stampMilestone(ReturnInitiated, at)
	s.recordStatusEvent(previous, ReturnInitiated, at, actor)
	return nil
}

// Cancel moves the shipment to CANCELLED. Without override it is only legal
// before pickup; with override it is legal from any non-terminal status.
// Cancellation is a terminal status, not a deletion.
func (s *Shipment) Cancel(at time.Time, actor string, override bool) error {
	if s.status.IsTerminal() {
		return ErrAlreadyTerminal
	}

	if _, pickedUp := s.milestones[PickedUp]; pickedUp && !override {
		return ErrCancelAfterPickup
	}

	previous := s.status
	s.status = Cancelled
	s.stampMilestone(Cancelled, at)
	s.recordStatusEvent(previous, Cancelled, at, actor)
	return nil
}

// PlaceHold parks the shipment without touching the forward status. Forward
// transitions are blocked until the hold is released.
func (s *Shipment) PlaceHold(reason, actor string, at time.Time) error {
	if s.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	if s.IsHeld() {
		return ErrShipmentAlreadyHeld
	}

	hold, err := newHold(reason, actor, at)
	if err != nil {
		return err
	}

	s.holds = append(s.holds, hold)
	return nil
}

// ReleaseHold clears the active hold, resuming normal progression.
func (s *Shipment) ReleaseHold(actor string, at time.Time) error {
	hold := s.ActiveHold()
	if hold == nil {
		return ErrNoActiveHold
	}

	return hold.release(actor, at)
}

// RerouteTo changes the destination branch, recording the prior destination.
// Rerouting is legal only while the shipment has not yet reached OUT_FOR_DELIVERY.
func (s *Shipment) RerouteTo(newBranchID kernel.UUID, actor string, at time.Time) error {
	if s.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	if _, reached := s.milestones[OutForDelivery]; reached {
		return ErrRerouteTooLate
	}

	reroute, err := newReroute(s.destinationBranchID, newBranchID, actor, at)
	if err != nil {
		return err
	}

	s.reroutes = append(s.reroutes, reroute)
	s.destinationBranchID = newBranchID
	return nil
}

// FlagException marks the shipment with an unresolved exception. The forward
// status is untouched; the shipment may still later resume toward DELIVERED or
// RETURNED. The exception milestone is stamped on first occurrence only.
func (s *Shipment) FlagException(category string, severity Severity, notes string, at time.Time) error {
	if s.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	if s.HasException() {
		return ErrExceptionAlreadyOpen
	}

	record, err := newException(category, severity, notes, at)
	if err != nil {
		return err
	}

	s.exceptions = append(s.exceptions, record)
	s.stampMilestone(Exception, at)
	return nil
}

// ResolveException closes the open exception with a required resolution type.
func (s *Shipment) ResolveException(resolutionType, actor string, at time.Time) error {
	record := s.OpenException()
	if record == nil {
		return ErrNoOpenException
	}

	return record.resolve(resolutionType, actor, at)
}

// AssignToConsolidation links the shipment as a baby of the given mother.
// The consolidation engine is responsible for calling this only after its
// capacity and cutoff checks passed.
func (s *Shipment) AssignToConsolidation(consolidationID kernel.UUID, consolidationType ConsolidationType) error {
	if err := consolidationID.Validate(); err != nil {
		return err
	}
	if !consolidationType.IsGroupage() {
		return errs.NewValueIsInvalidErrorWithCause(
			"consolidationType is invalid",
			fmt.Errorf("%s is not a groupage type", consolidationType),
		)
	}
	if s.consolidationID != nil {
		return ErrAlreadyInConsolidation
	}

	s.consolidationID = &consolidationID
	s.consolidationType = consolidationType
	return nil
}

// ClearConsolidation unlinks the shipment from its mother, restoring
// independent tracking.
func (s *Shipment) ClearConsolidation() {
	s.consolidationID = nil
	s.consolidationType = ConsolidationTypeIndividual
}

// MarkAsMother flags this shipment record as representing a consolidation.
func (s *Shipment) MarkAsMother() {
	s.isConsolidation = true
}

// SetWaybillNumber assigns the waybill number once it is known.
func (s *Shipment) SetWaybillNumber(waybillNumber string) {
	s.waybillNumber = waybillNumber
}

// SetBarcode assigns the barcode once it is known.
func (s *Shipment) SetBarcode(barcode string) {
	s.barcode = barcode
}

// RecordScan points the shipment at its most recent scan event and, when the
// scan carried a resolvable location, moves the location pointer.
func (s *Shipment) RecordScan(scanEventID kernel.UUID, location *kernel.LocationRef) error {
	if err := scanEventID.Validate(); err != nil {
		return err
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return err
		}
	}

	s.lastScanEventID = &scanEventID
	if location != nil {
		s.currentLocation = location
	}
	return nil
}

// PopEvents returns the lifecycle events recorded since the last call and
// clears the buffer. Handlers publish them after a successful commit.
func (s *Shipment) PopEvents() []lifecycle.Event {
	events := s.events
	s.events = nil
	return events
}

// stampMilestone records the milestone timestamp on first arrival only.
func (s *Shipment) stampMilestone(status Status, at time.Time) {
	if _, ok := s.milestones[status]; !ok {
		s.milestones[status] = at
	}
}

func (s *Shipment) recordStatusEvent(previous, current Status, at time.Time, actor string) {
	previousToken := ""
	if previous != Unknown {
		previousToken = previous.String()
	}

	s.events = append(s.events, lifecycle.Event{
		EntityType:     lifecycle.EntityTypeShipment,
		EntityID:       s.id,
		PreviousStatus: previousToken,
		NewStatus:      current.String(),
		OccurredAt:     at,
		ActorID:        actor,
	})
}

func (s *Shipment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Shipment) setTrackingNumber(trackingNumber string) error {
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("trackingNumber is required")
	}
	s.trackingNumber = trackingNumber
	return nil
}

func (s *Shipment) setConsolidationType(consolidationType ConsolidationType) error {
	if err := consolidationType.Validate(); err != nil {
		return err
	}
	s.consolidationType = consolidationType
	return nil
}

func (s *Shipment) setDestinationBranchID(destinationBranchID kernel.UUID) error {
	if err := destinationBranchID.Validate(); err != nil {
		return err
	}
	s.destinationBranchID = destinationBranchID
	return nil
}
