// Package scaneventrepo provides data transfer objects and mapping functions for
// scan event persistence. Scan events are immutable once written; the unique
// index on the offline sync key is what makes ingestion idempotent under
// concurrent replays.
package scaneventrepo

import (
	"strings"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/scanevent"

	"github.com/google/uuid"
)

// validationErrorsSeparator joins geofence validation messages into one column.
const validationErrorsSeparator = "\n"

// ScanEventDTO represents the database structure for persisting scan events.
// Optional outcome blocks (validation, transition) use nullable marker columns
// so absence survives the round trip.
type ScanEventDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OfflineSyncKey string     `gorm:"type:varchar(128);not null;uniqueIndex"`
	ShipmentID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	TrackingNumber string     `gorm:"type:varchar(64);not null;index"`
	ScanType       int        `gorm:"type:int;not null"`
	OccurredAt     time.Time  `gorm:"not null;index"`
	RecordedAt     time.Time  `gorm:"not null"`
	DeviceID       string     `gorm:"type:varchar(128);not null"`
	OperatorID     string     `gorm:"type:varchar(128)"`
	Latitude       *float64
	Longitude      *float64
	AccuracyM      *float64
	BranchID       *uuid.UUID `gorm:"type:uuid"`

	PodPhotoURL      string `gorm:"type:text"`
	PodSignatureURL  string `gorm:"type:text"`
	PodRecipientName string `gorm:"type:varchar(255)"`

	Validated             *bool
	WithinGeofence        *bool
	DistanceFromExpectedM *float64
	ValidationErrors      string `gorm:"type:text"`

	TransitionApplied *bool
	ResultingStatus   string `gorm:"type:varchar(32)"`
	RejectionReason   string `gorm:"type:text"`

	SyncedAt *time.Time
}

// TableName specifies the database table name for scan events.
func (ScanEventDTO) TableName() string {
	return "scan_events"
}

// fromDomain converts a scan event domain entity to its database representation.
func fromDomain(event *scanevent.ScanEvent) ScanEventDTO {
	dto := ScanEventDTO{
		ID:             event.ID().Bytes(),
		OfflineSyncKey: event.OfflineSyncKey(),
		ShipmentID:     event.ShipmentID().Bytes(),
		TrackingNumber: event.TrackingNumber(),
		ScanType:       int(event.Type()),
		OccurredAt:     event.OccurredAt(),
		RecordedAt:     event.RecordedAt(),
		DeviceID:       event.DeviceID(),
		OperatorID:     event.OperatorID(),
		AccuracyM:      event.AccuracyM(),
		SyncedAt:       event.SyncedAt(),
	}

	if loc := event.Location(); loc != nil {
		lat, lon := loc.Latitude(), loc.Longitude()
		dto.Latitude = &lat
		dto.Longitude = &lon
	}
	if id := event.BranchID(); id != nil {
		raw := id.Bytes()
		dto.BranchID = &raw
	}
	if pod := event.POD(); pod != nil {
		dto.PodPhotoURL = pod.PhotoURL
		dto.PodSignatureURL = pod.SignatureURL
		dto.PodRecipientName = pod.RecipientName
	}
	if v := event.ValidationOutcome(); v != nil {
		validated := v.IsValidated
		dto.Validated = &validated
		dto.WithinGeofence = v.IsWithinGeofence
		dto.DistanceFromExpectedM = v.DistanceFromExpectedM
		dto.ValidationErrors = strings.Join(v.ValidationErrors, validationErrorsSeparator)
	}
	if tr := event.TransitionOutcome(); tr != nil {
		applied := tr.Applied
		dto.TransitionApplied = &applied
		dto.ResultingStatus = tr.ResultingStatus
		dto.RejectionReason = tr.RejectionReason
	}

	return dto
}

// toDomain converts a database DTO to a scan event domain entity.
func toDomain(dto ScanEventDTO) (*scanevent.ScanEvent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	shipmentID, err := kernel.UUIDFromBytes(dto.ShipmentID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Latitude != nil && dto.Longitude != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	var branchID *kernel.UUID
	if dto.BranchID != nil {
		bID, bErr := kernel.UUIDFromBytes((*dto.BranchID)[:])
		if bErr != nil {
			return nil, bErr
		}
		branchID = &bID
	}

	var pod *scanevent.PODArtifacts
	if dto.PodPhotoURL != "" || dto.PodSignatureURL != "" || dto.PodRecipientName != "" {
		pod = &scanevent.PODArtifacts{
			PhotoURL:      dto.PodPhotoURL,
			SignatureURL:  dto.PodSignatureURL,
			RecipientName: dto.PodRecipientName,
		}
	}

	var validation *scanevent.Validation
	if dto.Validated != nil {
		var validationErrors []string
		if dto.ValidationErrors != "" {
			validationErrors = strings.Split(dto.ValidationErrors, validationErrorsSeparator)
		}
		validation = &scanevent.Validation{
			IsValidated:           *dto.Validated,
			IsWithinGeofence:      dto.WithinGeofence,
			DistanceFromExpectedM: dto.DistanceFromExpectedM,
			ValidationErrors:      validationErrors,
		}
	}

	var transition *scanevent.Transition
	if dto.TransitionApplied != nil {
		transition = &scanevent.Transition{
			Applied:         *dto.TransitionApplied,
			ResultingStatus: dto.ResultingStatus,
			RejectionReason: dto.RejectionReason,
		}
	}

	return scanevent.RestoreScanEvent(
		id,
		dto.OfflineSyncKey,
		shipmentID,
		dto.TrackingNumber,
		scanevent.ScanType(dto.ScanType),
		dto.OccurredAt,
		dto.RecordedAt,
		dto.DeviceID,
		dto.OperatorID,
		location,
		dto.AccuracyM,
		branchID,
		pod,
		validation,
		transition,
		dto.SyncedAt,
	)
}
