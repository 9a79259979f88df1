package queries

import (
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/guard"
)

var (
	ErrGetConsolidationQueryIsNotConstructed = errors.New(
		"GetConsolidationQuery must be created via NewGetConsolidationQuery constructor",
	)
)

// GetConsolidationQuery retrieves a consolidation's manifest view: its status,
// capacity utilization and the member shipments it carries. Hub operators use
// this to decide whether a bag still has room before cutoff.
//
// Example:
//
//	query, err := NewGetConsolidationQuery(consolidationID)
//	if err != nil {
//	    return fmt.Errorf("invalid consolidation id: %w", err)
//	}
//
//	handler := NewGetConsolidationQueryHandler(db)
//	manifest, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get consolidation: %w", err)
//	}
//	fmt.Printf("%s carries %d pieces, %.1fkg\n", manifest.Reference, manifest.TotalPieces, manifest.TotalWeightKg)
type GetConsolidationQuery struct {
	consolidationID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetConsolidationQuery creates a query for the given consolidation.
func NewGetConsolidationQuery(consolidationID kernel.UUID) (GetConsolidationQuery, error) {
	if err := consolidationID.Validate(); err != nil {
		return GetConsolidationQuery{}, err
	}

	return GetConsolidationQuery{
		consolidationID: consolidationID,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetConsolidationQuery) Validate() error {
	return q.guard.Validate(ErrGetConsolidationQueryIsNotConstructed)
}

// ConsolidationID returns the consolidation to look up.
func (q GetConsolidationQuery) ConsolidationID() kernel.UUID {
	return q.consolidationID
}

// MemberResponse is one baby shipment on the manifest.
type MemberResponse struct {
	ShipmentID kernel.UUID
	Sequence   int
	WeightKg   float64
	VolumeM3   float64
	Status     string
}

// GetConsolidationQueryResponse represents the manifest view of a consolidation.
// Totals cover active members only; removed memberships stay off the balance.
type GetConsolidationQueryResponse struct {
	ID                  kernel.UUID
	Reference           string
	Status              string
	MotherShipmentID    kernel.UUID
	OriginBranchID      kernel.UUID
	DestinationBranchID kernel.UUID
	CutoffAt            time.Time
	MaxPieces           int
	MaxWeightKg         float64
	MaxVolumeM3         float64
	TotalPieces         int
	TotalWeightKg       float64
	TotalVolumeM3       float64
	Members             []MemberResponse
}
