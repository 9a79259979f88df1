package queries

import (
	"context"
	"database/sql"
	"errors"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/shipment"
	"groupage/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetShipmentStatusQueryHandler resolves tracking lookups directly against the
// read model, bypassing aggregate reconstruction.
type GetShipmentStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetShipmentStatusQueryHandler creates a handler for tracking lookups.
// Requires a GORM database connection for query execution.
func NewGetShipmentStatusQueryHandler(db *gorm.DB) GetShipmentStatusQueryHandler {
	return GetShipmentStatusQueryHandler{db: db}
}

// Handle executes the tracking lookup. Returns the shipment's current status
// and its milestone timeline ordered by when each milestone was reached.
func (h GetShipmentStatusQueryHandler) Handle(
	ctx context.Context,
	query GetShipmentStatusQuery,
) (GetShipmentStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetShipmentStatusQueryResponse{}, err
	}

	var (
		id                  uuid.UUID
		status              int
		legacyStatus        string
		destinationBranchID uuid.UUID
		consolidationID     *uuid.UUID
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			current_status,
			status,
			destination_branch_id,
			consolidation_id
		FROM shipments
		WHERE tracking_number = ?
	`, query.TrackingNumber()).Row()

	if err := row.Scan(&id, &status, &legacyStatus, &destinationBranchID, &consolidationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetShipmentStatusQueryResponse{}, errs.NewObjectNotFoundError("shipment", query.TrackingNumber())
		}
		return GetShipmentStatusQueryResponse{}, err
	}

	response := GetShipmentStatusQueryResponse{
		TrackingNumber: query.TrackingNumber(),
		Status:         shipment.Status(status).String(),
		LegacyStatus:   legacyStatus,
	}

	shipmentID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetShipmentStatusQueryResponse{}, err
	}
	response.ID = shipmentID

	branchID, err := kernel.UUIDFromBytes(destinationBranchID[:])
	if err != nil {
		return GetShipmentStatusQueryResponse{}, err
	}
	response.DestinationBranchID = branchID

	if consolidationID != nil {
		cID, cErr := kernel.UUIDFromBytes((*consolidationID)[:])
		if cErr != nil {
			return GetShipmentStatusQueryResponse{}, cErr
		}
		response.ConsolidationID = &cID
	}

	milestones, err := h.loadMilestones(ctx, id)
	if err != nil {
		return GetShipmentStatusQueryResponse{}, err
	}
	response.Milestones = milestones

	return response, nil
}

func (h GetShipmentStatusQueryHandler) loadMilestones(
	ctx context.Context,
	shipmentID uuid.UUID,
) ([]MilestoneResponse, error) {
	milestones := make([]MilestoneResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			occurred_at
		FROM shipment_milestones
		WHERE shipment_id = ?
		ORDER BY occurred_at
	`, shipmentID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var milestone MilestoneResponse
		var status int

		if err = rows.Scan(&status, &milestone.OccurredAt); err != nil {
			return nil, err
		}

		milestone.Status = shipment.Status(status).String()
		milestones = append(milestones, milestone)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return milestones, nil
}
