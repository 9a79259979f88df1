package commands

import (
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/scanevent"
	"groupage/internal/pkg/errs"
	"groupage/internal/pkg/guard"
)

var (
	ErrIngestScanCommandIsNotConstructed = errors.New(
		"IngestScanCommand must be created via NewIngestScanCommand constructor",
	)
)

// IngestScanCommand represents a raw field observation submitted by a device.
// The offline sync key is the client-generated idempotency token: replays of
// the same physical scan are absorbed and return the stored event.
//
// Example:
//
//	cmd, err := NewIngestScanCommand("dev42-001", "GRP-0001", scanevent.ScanTypePickup,
//	    occurredAt, "dev42", "courier-7", &gps, nil, &branchID, nil, nil, &fence)
//	if err != nil {
//	    return fmt.Errorf("invalid scan payload: %w", err)
//	}
//
//	handler := NewIngestScanCommandHandler(uowFactory, publisher)
//	event, err := handler.Handle(ctx, cmd)
type IngestScanCommand struct { //nolint:recvcheck //using for validation
	offlineSyncKey string
	trackingNumber string
	scanType       scanevent.ScanType
	occurredAt     time.Time
	deviceID       string
	operatorID     string

	location  *kernel.GeoPoint
	accuracyM *float64
	branchID  *kernel.UUID

	pod      *scanevent.PODArtifacts
	syncedAt *time.Time

	// expectedGeofence is the configured tolerance for the scan's context,
	// nil when no geofence applies.
	expectedGeofence *kernel.Geofence

	guard guard.ConstructorGuard
}

// NewIngestScanCommand creates a command to ingest a field scan.
func NewIngestScanCommand(
	offlineSyncKey string,
	trackingNumber string,
	scanType scanevent.ScanType,
	occurredAt time.Time,
	deviceID string,
	operatorID string,
	location *kernel.GeoPoint,
	accuracyM *float64,
	branchID *kernel.UUID,
	pod *scanevent.PODArtifacts,
	syncedAt *time.Time,
	expectedGeofence *kernel.Geofence,
) (IngestScanCommand, error) {
	command := IngestScanCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOfflineSyncKey(offlineSyncKey),
		command.setTrackingNumber(trackingNumber),
		command.setScanType(scanType),
		command.setOccurredAt(occurredAt),
		command.setDeviceID(deviceID),
		command.setLocation(location),
	); err != nil {
		return IngestScanCommand{}, err
	}

	command.operatorID = operatorID
	command.accuracyM = accuracyM
	command.branchID = branchID
	command.pod = pod
	command.syncedAt = syncedAt
	command.expectedGeofence = expectedGeofence
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c IngestScanCommand) Validate() error {
	return c.guard.Validate(ErrIngestScanCommandIsNotConstructed)
}

// OfflineSyncKey returns the client-generated idempotency token.
func (c IngestScanCommand) OfflineSyncKey() string { return c.offlineSyncKey }

// TrackingNumber returns the tracking number the device reported.
func (c IngestScanCommand) TrackingNumber() string { return c.trackingNumber }

// ScanType returns what the device observed.
func (c IngestScanCommand) ScanType() scanevent.ScanType { return c.scanType }

// OccurredAt returns the device-side timestamp of the physical scan.
func (c IngestScanCommand) OccurredAt() time.Time { return c.occurredAt }

// DeviceID returns the reporting device.
func (c IngestScanCommand) DeviceID() string { return c.deviceID }

// OperatorID returns who performed the scan.
func (c IngestScanCommand) OperatorID() string { return c.operatorID }

// Location returns the GPS fix, nil if the device had none.
func (c IngestScanCommand) Location() *kernel.GeoPoint { return c.location }

// AccuracyM returns the GPS accuracy radius in meters.
func (c IngestScanCommand) AccuracyM() *float64 { return c.accuracyM }

// BranchID returns the branch the device is assigned to.
func (c IngestScanCommand) BranchID() *kernel.UUID { return c.branchID }

// POD returns the proof-of-delivery artifacts.
func (c IngestScanCommand) POD() *scanevent.PODArtifacts { return c.pod }

// SyncedAt returns when the device flushed its offline queue, nil for live scans.
func (c IngestScanCommand) SyncedAt() *time.Time { return c.syncedAt }

// ExpectedGeofence returns the configured tolerance for the scan's context.
func (c IngestScanCommand) ExpectedGeofence() *kernel.Geofence { return c.expectedGeofence }

func (c *IngestScanCommand) setOfflineSyncKey(offlineSyncKey string) error {
	if offlineSyncKey == "" {
		return errs.NewValueIsRequiredError("offlineSyncKey is required")
	}

	c.offlineSyncKey = offlineSyncKey
	return nil
}

func (c *IngestScanCommand) setTrackingNumber(trackingNumber string) error {
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("trackingNumber is required")
	}

	c.trackingNumber = trackingNumber
	return nil
}

func (c *IngestScanCommand) setScanType(scanType scanevent.ScanType) error {
	if err := scanType.Validate(); err != nil {
		return err
	}

	c.scanType = scanType
	return nil
}

func (c *IngestScanCommand) setOccurredAt(occurredAt time.Time) error {
	if occurredAt.IsZero() {
		return errs.NewValueIsRequiredError("occurredAt is required")
	}

	c.occurredAt = occurredAt
	return nil
}

func (c *IngestScanCommand) setDeviceID(deviceID string) error {
	if deviceID == "" {
		return errs.NewValueIsRequiredError("deviceID is required")
	}

	c.deviceID = deviceID
	return nil
}

func (c *IngestScanCommand) setLocation(location *kernel.GeoPoint) error {
	if location == nil {
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}
