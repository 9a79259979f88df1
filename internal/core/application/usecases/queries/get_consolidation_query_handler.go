package queries

import (
	"context"
	"database/sql"
	"errors"

	"groupage/internal/core/domain/model/consolidation"
	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetConsolidationQueryHandler resolves manifest lookups directly against the
// read model. Utilization totals are recomputed from the member rows rather
// than stored, so the view can never drift from the manifest.
type GetConsolidationQueryHandler struct {
	db *gorm.DB
}

// NewGetConsolidationQueryHandler creates a handler for manifest lookups.
// Requires a GORM database connection for query execution.
func NewGetConsolidationQueryHandler(db *gorm.DB) GetConsolidationQueryHandler {
	return GetConsolidationQueryHandler{db: db}
}

// Handle executes the manifest lookup. Returns the consolidation's header,
// every membership in manifest order (removed ones included for audit), and
// totals over the active members.
func (h GetConsolidationQueryHandler) Handle(
	ctx context.Context,
	query GetConsolidationQuery,
) (GetConsolidationQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetConsolidationQueryResponse{}, err
	}

	response, err := h.loadHeader(ctx, query.ConsolidationID())
	if err != nil {
		return GetConsolidationQueryResponse{}, err
	}

	members, err := h.loadMembers(ctx, query.ConsolidationID())
	if err != nil {
		return GetConsolidationQueryResponse{}, err
	}
	response.Members = members

	for _, member := range members {
		if member.Status == consolidation.MembershipRemoved.String() {
			continue
		}
		response.TotalPieces++
		response.TotalWeightKg += member.WeightKg
		response.TotalVolumeM3 += member.VolumeM3
	}

	return response, nil
}

func (h GetConsolidationQueryHandler) loadHeader(
	ctx context.Context,
	consolidationID kernel.UUID,
) (GetConsolidationQueryResponse, error) {
	var (
		motherShipmentID    uuid.UUID
		originBranchID      uuid.UUID
		destinationBranchID uuid.UUID
		status              int
	)
	response := GetConsolidationQueryResponse{ID: consolidationID}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			reference,
			status,
			mother_shipment_id,
			origin_branch_id,
			destination_branch_id,
			cutoff_at,
			max_pieces,
			max_weight_kg,
			max_volume_m3
		FROM consolidations
		WHERE id = ?
	`, consolidationID.Bytes()).Row()

	err := row.Scan(
		&response.Reference,
		&status,
		&motherShipmentID,
		&originBranchID,
		&destinationBranchID,
		&response.CutoffAt,
		&response.MaxPieces,
		&response.MaxWeightKg,
		&response.MaxVolumeM3,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetConsolidationQueryResponse{},
				errs.NewObjectNotFoundError("consolidation", consolidationID.String())
		}
		return GetConsolidationQueryResponse{}, err
	}

	response.Status = consolidation.Status(status).String()

	if response.MotherShipmentID, err = kernel.UUIDFromBytes(motherShipmentID[:]); err != nil {
		return GetConsolidationQueryResponse{}, err
	}
	if response.OriginBranchID, err = kernel.UUIDFromBytes(originBranchID[:]); err != nil {
		return GetConsolidationQueryResponse{}, err
	}
	if response.DestinationBranchID, err = kernel.UUIDFromBytes(destinationBranchID[:]); err != nil {
		return GetConsolidationQueryResponse{}, err
	}

	return response, nil
}

func (h GetConsolidationQueryHandler) loadMembers(
	ctx context.Context,
	consolidationID kernel.UUID,
) ([]MemberResponse, error) {
	members := make([]MemberResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			shipment_id,
			sequence,
			weight_kg,
			volume_m3,
			status
		FROM consolidation_members
		WHERE consolidation_id = ?
		ORDER BY sequence
	`, consolidationID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var member MemberResponse
		var shipmentID uuid.UUID
		var status int

		err = rows.Scan(
			&shipmentID,
			&member.Sequence,
			&member.WeightKg,
			&member.VolumeM3,
			&status,
		)
		if err != nil {
			return nil, err
		}

		memberID, idErr := kernel.UUIDFromBytes(shipmentID[:])
		if idErr != nil {
			return nil, idErr
		}
		member.ShipmentID = memberID
		member.Status = consolidation.MembershipStatus(status).String()
		members = append(members, member)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}
