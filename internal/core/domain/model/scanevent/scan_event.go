package scanevent

import (
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/errs"
	"groupage/internal/pkg/guard"
)

var (
	// ErrScanEventIsNotConstructed is returned when a ScanEvent was not created
	// through NewScanEvent or RestoreScanEvent.
	ErrScanEventIsNotConstructed = errors.New("ScanEvent must be created via NewScanEvent constructor")

	// ErrValidationAlreadyAttached indicates a second geofence validation was
	// attached to an already validated event.
	ErrValidationAlreadyAttached = errors.New("scan event already carries a validation outcome")

	// ErrTransitionAlreadyAttached indicates a second transition outcome was
	// attached to an already resolved event.
	ErrTransitionAlreadyAttached = errors.New("scan event already carries a transition outcome")

	// ErrPODRequired indicates a delivery scan arrived without proof-of-delivery
	// artifacts.
	ErrPODRequired = errors.New("scan type requires proof-of-delivery artifacts")

	// ErrSyncTimeAlreadyAttached indicates a second device sync time was
	// attached to an already synced event.
	ErrSyncTimeAlreadyAttached = errors.New("scan event already carries a sync time")
)

// PODArtifacts carries the proof-of-delivery captured at handover.
type PODArtifacts struct {
	PhotoURL      string
	SignatureURL  string
	RecipientName string
}

// isEmpty reports whether no artifact at all was captured.
func (p PODArtifacts) isEmpty() bool {
	return p.PhotoURL == "" && p.SignatureURL == "" && p.RecipientName == ""
}

// Validation is the geofence/GPS validation outcome attached after ingestion.
// A failed validation never blocks ingestion; it flags the event for review.
type Validation struct {
	IsValidated           bool
	IsWithinGeofence      *bool
	DistanceFromExpectedM *float64
	ValidationErrors      []string
}

// Transition is the state-machine outcome attached after ingestion. Rejected
// transitions keep the event persisted for audit with the rejection recorded.
type Transition struct {
	Applied         bool
	ResultingStatus string
	RejectionReason string
}

// ScanEvent is an immutable field observation reported by a device. It is
// written once at ingestion, enriched once with its validation and transition
// outcomes, and never mutated afterwards. Replays of the same physical scan
// are absorbed through the unique offline sync key.
type ScanEvent struct {
	id             kernel.UUID
	offlineSyncKey string
	shipmentID     kernel.UUID
	trackingNumber string

	scanType   ScanType
	occurredAt time.Time
	recordedAt time.Time

	deviceID   string
	operatorID string

	location  *kernel.GeoPoint
	accuracyM *float64
	branchID  *kernel.UUID

	pod *PODArtifacts

	validation *Validation
	transition *Transition
	syncedAt   *time.Time

	guard guard.ConstructorGuard
}

// NewScanEvent creates a scan event from a raw device report.
//
// Parameters:
//   - id: unique identifier of the event
//   - offlineSyncKey: client-generated idempotency token, required and unique
//   - shipmentID: the shipment the scan was resolved to
//   - trackingNumber: the tracking number the device reported
//   - scanType: what the device observed
//   - occurredAt: device-side timestamp of the physical scan
//   - recordedAt: server-side timestamp of ingestion
//   - deviceID: the reporting device, required
//   - operatorID: who performed the scan
//   - location, accuracyM: GPS fix, optional
//   - branchID: the branch the device is assigned to, optional
//   - pod: proof-of-delivery artifacts, required for delivery scans
func NewScanEvent(
	id kernel.UUID,
	offlineSyncKey string,
	shipmentID kernel.UUID,
	trackingNumber string,
	scanType ScanType,
	occurredAt time.Time,
	recordedAt time.Time,
	deviceID string,
	operatorID string,
	location *kernel.GeoPoint,
	accuracyM *float64,
	branchID *kernel.UUID,
	pod *PODArtifacts,
) (*ScanEvent, error) {
	e := &ScanEvent{
		guard: guard.NewConstructorGuard(),
	}

	err := errors.Join(
		e.setID(id),
		e.setOfflineSyncKey(offlineSyncKey),
		e.setShipmentID(shipmentID),
		e.setTrackingNumber(trackingNumber),
		e.setScanType(scanType),
		e.setLocation(location),
		e.setDeviceID(deviceID),
	)
	if err != nil {
		return nil, err
	}
	if occurredAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("occurredAt is required")
	}
	if scanType.RequiresPOD() && (pod == nil || pod.isEmpty()) {
		return nil, ErrPODRequired
	}
	if branchID != nil {
		if err := branchID.Validate(); err != nil {
			return nil, err
		}
	}

	e.occurredAt = occurredAt
	e.recordedAt = recordedAt
	e.operatorID = operatorID
	e.accuracyM = accuracyM
	e.branchID = branchID
	e.pod = pod
	return e, nil
}

// RestoreScanEvent reconstructs a scan event from persistence, including the
// outcomes attached at ingestion time.
func RestoreScanEvent(
	id kernel.UUID,
	offlineSyncKey string,
	shipmentID kernel.UUID,
	trackingNumber string,
	scanType ScanType,
	occurredAt time.Time,
	recordedAt time.Time,
	deviceID string,
	operatorID string,
	location *kernel.GeoPoint,
	accuracyM *float64,
	branchID *kernel.UUID,
	pod *PODArtifacts,
	validation *Validation,
	transition *Transition,
	syncedAt *time.Time,
) (*ScanEvent, error) {
	e, err := NewScanEvent(
		id, offlineSyncKey, shipmentID, trackingNumber, scanType,
		occurredAt, recordedAt, deviceID, operatorID, location, accuracyM, branchID, pod)
	if err != nil {
		return nil, err
	}

	e.validation = validation
	e.transition = transition
	e.syncedAt = syncedAt
	return e, nil
}

// Validate checks the ScanEvent was properly constructed.
func (e *ScanEvent) Validate() error {
	return e.guard.Validate(ErrScanEventIsNotConstructed)
}

// ID returns the event's unique identifier.
func (e *ScanEvent) ID() kernel.UUID { return e.id }

// OfflineSyncKey returns the client-generated idempotency token.
func (e *ScanEvent) OfflineSyncKey() string { return e.offlineSyncKey }

// ShipmentID returns the shipment the scan was resolved to.
func (e *ScanEvent) ShipmentID() kernel.UUID { return e.shipmentID }

// TrackingNumber returns the tracking number the device reported.
func (e *ScanEvent) TrackingNumber() string { return e.trackingNumber }

// Type returns what the device observed.
func (e *ScanEvent) Type() ScanType { return e.scanType }

// OccurredAt returns the device-side timestamp of the physical scan.
func (e *ScanEvent) OccurredAt() time.Time { return e.occurredAt }

// RecordedAt returns the server-side timestamp of ingestion.
func (e *ScanEvent) RecordedAt() time.Time { return e.recordedAt }

// DeviceID returns the reporting device.
func (e *ScanEvent) DeviceID() string { return e.deviceID }

// OperatorID returns who performed the scan, empty if unknown.
func (e *ScanEvent) OperatorID() string { return e.operatorID }

// Location returns the GPS fix, nil if the device had no fix.
func (e *ScanEvent) Location() *kernel.GeoPoint { return e.location }

// AccuracyM returns the GPS accuracy radius in meters, nil if unknown.
func (e *ScanEvent) AccuracyM() *float64 { return e.accuracyM }

// BranchID returns the branch the device is assigned to, nil if unassigned.
func (e *ScanEvent) BranchID() *kernel.UUID { return e.branchID }

// POD returns the proof-of-delivery artifacts, nil for non-delivery scans.
func (e *ScanEvent) POD() *PODArtifacts { return e.pod }

// ValidationOutcome returns the geofence validation outcome, nil until attached.
func (e *ScanEvent) ValidationOutcome() *Validation { return e.validation }

// TransitionOutcome returns the state-machine outcome, nil until attached.
func (e *ScanEvent) TransitionOutcome() *Transition { return e.transition }

// SyncedAt returns when the device submitted the event to the server, nil for
// events that never went through the offline queue.
func (e *ScanEvent) SyncedAt() *time.Time { return e.syncedAt }

// AttachSyncedAt records when the device flushed the event from its offline
// queue, once.
func (e *ScanEvent) AttachSyncedAt(at time.Time) error {
	if e.syncedAt != nil {
		return ErrSyncTimeAlreadyAttached
	}
	e.syncedAt = &at
	return nil
}

// AttachValidation records the geofence validation outcome, once.
func (e *ScanEvent) AttachValidation(validation Validation) error {
	if e.validation != nil {
		return ErrValidationAlreadyAttached
	}
	e.validation = &validation
	return nil
}

// AttachTransition records the state-machine outcome, once.
func (e *ScanEvent) AttachTransition(transition Transition) error {
	if e.transition != nil {
		return ErrTransitionAlreadyAttached
	}
	e.transition = &transition
	return nil
}

func (e *ScanEvent) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *ScanEvent) setOfflineSyncKey(offlineSyncKey string) error {
	if offlineSyncKey == "" {
		return errs.NewValueIsRequiredError("offlineSyncKey is required")
	}
	e.offlineSyncKey = offlineSyncKey
	return nil
}

func (e *ScanEvent) setShipmentID(shipmentID kernel.UUID) error {
	if err := shipmentID.Validate(); err != nil {
		return err
	}
	e.shipmentID = shipmentID
	return nil
}

func (e *ScanEvent) setTrackingNumber(trackingNumber string) error {
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("trackingNumber is required")
	}
	e.trackingNumber = trackingNumber
	return nil
}

func (e *ScanEvent) setScanType(scanType ScanType) error {
	if err := scanType.Validate(); err != nil {
		return err
	}
	e.scanType = scanType
	return nil
}

func (e *ScanEvent) setLocation(location *kernel.GeoPoint) error {
	if location == nil {
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}
	e.location = location
	return nil
}

func (e *ScanEvent) setDeviceID(deviceID string) error {
	if deviceID == "" {
		return errs.NewValueIsRequiredError("deviceID is required")
	}
	e.deviceID = deviceID
	return nil
}
