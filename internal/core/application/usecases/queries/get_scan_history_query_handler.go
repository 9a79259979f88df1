package queries

import (
	"context"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/scanevent"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetScanHistoryQueryHandler reads a shipment's scan trail from the read model.
type GetScanHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetScanHistoryQueryHandler creates a handler for scan history lookups.
func NewGetScanHistoryQueryHandler(db *gorm.DB) GetScanHistoryQueryHandler {
	return GetScanHistoryQueryHandler{db: db}
}

// Handle executes the history lookup. An unknown tracking number returns an
// empty history rather than an error; the caller decides whether that matters.
func (h GetScanHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetScanHistoryQuery,
) ([]GetScanHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	history := make([]GetScanHistoryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			scan_type,
			occurred_at,
			device_id,
			operator_id,
			transition_applied,
			resulting_status,
			rejection_reason
		FROM scan_events
		WHERE tracking_number = ?
		ORDER BY occurred_at
	`, query.TrackingNumber()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry GetScanHistoryQueryResponse
		var id uuid.UUID
		var scanType int
		var applied *bool

		err = rows.Scan(
			&id,
			&scanType,
			&entry.OccurredAt,
			&entry.DeviceID,
			&entry.OperatorID,
			&applied,
			&entry.ResultingStatus,
			&entry.RejectionReason,
		)
		if err != nil {
			return nil, err
		}

		eventID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		entry.ID = eventID
		entry.ScanType = scanevent.ScanType(scanType).String()
		if applied != nil {
			entry.Applied = *applied
		}
		history = append(history, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}
