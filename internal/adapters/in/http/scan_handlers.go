package http

import (
	"net/http"
	"time"

	"groupage/internal/core/application/usecases/commands"
	"groupage/internal/core/application/usecases/queries"
	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/scanevent"

	"github.com/labstack/echo/v4"
)

// IngestScanRequest is the payload for POST /api/v1/scans. Devices replaying
// their offline queue resend the same offline_sync_key; replays return the
// stored event instead of creating a second one.
type IngestScanRequest struct {
	OfflineSyncKey string     `json:"offline_sync_key"`
	TrackingNumber string     `json:"tracking_number"`
	ScanType       string     `json:"scan_type"`
	OccurredAt     time.Time  `json:"occurred_at"`
	DeviceID       string     `json:"device_id"`
	OperatorID     string     `json:"operator_id"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	AccuracyM      *float64   `json:"accuracy_m,omitempty"`
	BranchID       *string    `json:"branch_id,omitempty"`
	SyncedAt       *time.Time `json:"synced_at,omitempty"`

	POD              *PODRequest      `json:"pod,omitempty"`
	ExpectedGeofence *GeofenceRequest `json:"expected_geofence,omitempty"`
}

// PODRequest carries proof-of-delivery artifacts for delivery-type scans.
type PODRequest struct {
	PhotoURL      string `json:"photo_url"`
	SignatureURL  string `json:"signature_url"`
	RecipientName string `json:"recipient_name"`
}

// GeofenceRequest describes where the scan was expected to happen.
type GeofenceRequest struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_m"`
}

// ScanEventResponse is the stored scan event returned after ingestion and in
// history listings.
type ScanEventResponse struct {
	ID             string     `json:"id"`
	OfflineSyncKey string     `json:"offline_sync_key"`
	ShipmentID     string     `json:"shipment_id"`
	TrackingNumber string     `json:"tracking_number"`
	ScanType       string     `json:"scan_type"`
	OccurredAt     time.Time  `json:"occurred_at"`
	RecordedAt     time.Time  `json:"recorded_at"`
	DeviceID       string     `json:"device_id"`
	OperatorID     string     `json:"operator_id"`
	SyncedAt       *time.Time `json:"synced_at,omitempty"`

	Validation *ScanValidationResponse `json:"validation,omitempty"`
	Transition *ScanTransitionResponse `json:"transition,omitempty"`
}

// ScanValidationResponse reports the geofence check outcome.
type ScanValidationResponse struct {
	IsValidated           bool     `json:"is_validated"`
	IsWithinGeofence      *bool    `json:"is_within_geofence,omitempty"`
	DistanceFromExpectedM *float64 `json:"distance_from_expected_m,omitempty"`
	ValidationErrors      []string `json:"validation_errors,omitempty"`
}

// ScanTransitionResponse reports whether the scan moved the shipment.
type ScanTransitionResponse struct {
	Applied         bool   `json:"applied"`
	ResultingStatus string `json:"resulting_status,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// IngestScan handles POST /api/v1/scans. A scan whose transition was rejected
// is still recorded; it comes back as 422 with the stored event so the device
// can surface the rejection to the operator.
func (s *Server) IngestScan(ctx echo.Context) error {
	var req IngestScanRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	scanType, err := scanevent.ParseScanType(req.ScanType)
	if err != nil {
		return fail(ctx, err)
	}

	var location *kernel.GeoPoint
	if req.Latitude != nil && req.Longitude != nil {
		point, pointErr := kernel.NewGeoPoint(*req.Latitude, *req.Longitude)
		if pointErr != nil {
			return fail(ctx, pointErr)
		}
		location = &point
	}

	var branchID *kernel.UUID
	if req.BranchID != nil {
		id, idErr := kernel.UUIDFromString(*req.BranchID)
		if idErr != nil {
			return fail(ctx, idErr)
		}
		branchID = &id
	}

	var pod *scanevent.PODArtifacts
	if req.POD != nil {
		pod = &scanevent.PODArtifacts{
			PhotoURL:      req.POD.PhotoURL,
			SignatureURL:  req.POD.SignatureURL,
			RecipientName: req.POD.RecipientName,
		}
	}

	var expectedGeofence *kernel.Geofence
	if req.ExpectedGeofence != nil {
		center, centerErr := kernel.NewGeoPoint(
			req.ExpectedGeofence.Latitude, req.ExpectedGeofence.Longitude)
		if centerErr != nil {
			return fail(ctx, centerErr)
		}
		fence, fenceErr := kernel.NewGeofence(center, req.ExpectedGeofence.RadiusMeters)
		if fenceErr != nil {
			return fail(ctx, fenceErr)
		}
		expectedGeofence = &fence
	}

	cmd, err := commands.NewIngestScanCommand(
		req.OfflineSyncKey,
		req.TrackingNumber,
		scanType,
		req.OccurredAt,
		req.DeviceID,
		req.OperatorID,
		location,
		req.AccuracyM,
		branchID,
		pod,
		req.SyncedAt,
		expectedGeofence,
	)
	if err != nil {
		return fail(ctx, err)
	}

	event, err := s.ingestScanHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}

	status := http.StatusCreated
	if transition := event.TransitionOutcome(); transition != nil && !transition.Applied {
		status = http.StatusUnprocessableEntity
	}
	return ctx.JSON(status, toScanEventResponse(event))
}

func toScanEventResponse(event *scanevent.ScanEvent) ScanEventResponse {
	response := ScanEventResponse{
		ID:             event.ID().String(),
		OfflineSyncKey: event.OfflineSyncKey(),
		ShipmentID:     event.ShipmentID().String(),
		TrackingNumber: event.TrackingNumber(),
		ScanType:       event.Type().String(),
		OccurredAt:     event.OccurredAt(),
		RecordedAt:     event.RecordedAt(),
		DeviceID:       event.DeviceID(),
		OperatorID:     event.OperatorID(),
		SyncedAt:       event.SyncedAt(),
	}

	if validation := event.ValidationOutcome(); validation != nil {
		response.Validation = &ScanValidationResponse{
			IsValidated:           validation.IsValidated,
			IsWithinGeofence:      validation.IsWithinGeofence,
			DistanceFromExpectedM: validation.DistanceFromExpectedM,
			ValidationErrors:      validation.ValidationErrors,
		}
	}
	if transition := event.TransitionOutcome(); transition != nil {
		response.Transition = &ScanTransitionResponse{
			Applied:         transition.Applied,
			ResultingStatus: transition.ResultingStatus,
			RejectionReason: transition.RejectionReason,
		}
	}
	return response
}

// ScanHistoryEntry is one row of GET /api/v1/shipments/:trackingNumber/scans.
type ScanHistoryEntry struct {
	ID              string    `json:"id"`
	ScanType        string    `json:"scan_type"`
	OccurredAt      time.Time `json:"occurred_at"`
	DeviceID        string    `json:"device_id"`
	OperatorID      string    `json:"operator_id"`
	Applied         bool      `json:"applied"`
	ResultingStatus string    `json:"resulting_status,omitempty"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
}

// GetScanHistory handles GET /api/v1/shipments/:trackingNumber/scans.
func (s *Server) GetScanHistory(ctx echo.Context) error {
	query, err := queries.NewGetScanHistoryQuery(ctx.Param("trackingNumber"))
	if err != nil {
		return fail(ctx, err)
	}

	history, err := s.getScanHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	entries := make([]ScanHistoryEntry, 0, len(history))
	for _, item := range history {
		entries = append(entries, ScanHistoryEntry{
			ID:              item.ID.String(),
			ScanType:        item.ScanType,
			OccurredAt:      item.OccurredAt,
			DeviceID:        item.DeviceID,
			OperatorID:      item.OperatorID,
			Applied:         item.Applied,
			ResultingStatus: item.ResultingStatus,
			RejectionReason: item.RejectionReason,
		})
	}
	return ctx.JSON(http.StatusOK, entries)
}
