package queries

import (
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/errs"
	"groupage/internal/pkg/guard"
)

var (
	ErrGetScanHistoryQueryIsNotConstructed = errors.New(
		"GetScanHistoryQuery must be created via NewGetScanHistoryQuery constructor",
	)
)

// GetScanHistoryQuery retrieves every scan recorded against a tracking number,
// in the order the scans physically happened. Rejected scans are part of the
// history: an auditor sees what the device reported, not only what the state
// machine accepted.
type GetScanHistoryQuery struct {
	trackingNumber string

	guard guard.ConstructorGuard
}

// NewGetScanHistoryQuery creates a query for the given tracking number.
func NewGetScanHistoryQuery(trackingNumber string) (GetScanHistoryQuery, error) {
	if trackingNumber == "" {
		return GetScanHistoryQuery{}, errs.NewValueIsRequiredError("trackingNumber is required")
	}

	return GetScanHistoryQuery{
		trackingNumber: trackingNumber,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetScanHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetScanHistoryQueryIsNotConstructed)
}

// TrackingNumber returns the tracking number to look up.
func (q GetScanHistoryQuery) TrackingNumber() string {
	return q.trackingNumber
}

// GetScanHistoryQueryResponse represents one recorded scan.
type GetScanHistoryQueryResponse struct {
	ID              kernel.UUID
	ScanType        string
	OccurredAt      time.Time
	DeviceID        string
	OperatorID      string
	Applied         bool
	ResultingStatus string
	RejectionReason string
}
