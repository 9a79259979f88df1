package queries

import (
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/errs"
	"groupage/internal/pkg/guard"
)

var (
	ErrGetShipmentStatusQueryIsNotConstructed = errors.New(
		"GetShipmentStatusQuery must be created via NewGetShipmentStatusQuery constructor",
	)
)

// GetShipmentStatusQuery retrieves a shipment's current status and milestone
// timeline by the tracking number printed on the label. This is the lookup
// behind customer-facing tracking pages.
//
// Example:
//
//	query, err := NewGetShipmentStatusQuery("GRP-0001")
//	if err != nil {
//	    return fmt.Errorf("invalid tracking number: %w", err)
//	}
//
//	handler := NewGetShipmentStatusQueryHandler(db)
//	status, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get shipment status: %w", err)
//	}
//	fmt.Printf("Shipment %s is %s\n", status.TrackingNumber, status.Status)
type GetShipmentStatusQuery struct {
	trackingNumber string

	guard guard.ConstructorGuard
}

// NewGetShipmentStatusQuery creates a query for the given tracking number.
func NewGetShipmentStatusQuery(trackingNumber string) (GetShipmentStatusQuery, error) {
	if trackingNumber == "" {
		return GetShipmentStatusQuery{}, errs.NewValueIsRequiredError("trackingNumber is required")
	}

	return GetShipmentStatusQuery{
		trackingNumber: trackingNumber,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetShipmentStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentStatusQueryIsNotConstructed)
}

// TrackingNumber returns the tracking number to look up.
func (q GetShipmentStatusQuery) TrackingNumber() string {
	return q.trackingNumber
}

// MilestoneResponse is one reached status with its first-reached timestamp.
type MilestoneResponse struct {
	Status     string
	OccurredAt time.Time
}

// GetShipmentStatusQueryResponse represents a shipment's tracking view:
// where it stands now and the milestones it passed on the way.
//
// LegacyStatus carries the deprecated lowercase mirror persisted alongside
// the canonical status; consumers that have not migrated still read it.
type GetShipmentStatusQueryResponse struct {
	ID                  kernel.UUID
	TrackingNumber      string
	Status              string
	LegacyStatus        string
	DestinationBranchID kernel.UUID
	ConsolidationID     *kernel.UUID
	Milestones          []MilestoneResponse
}
