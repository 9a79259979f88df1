package shipment

import (
	"fmt"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/errs"
)

// Severity grades an exception for external alerting. It is advisory only and
// never changes state-machine behavior.
type Severity int

const (
	// SeverityUnknown represents an invalid or undefined severity.
	SeverityUnknown Severity = iota

	// SeverityLow marks exceptions that can wait for routine handling.
	SeverityLow

	// SeverityMedium marks exceptions that need attention within the day.
	SeverityMedium

	// SeverityHigh marks exceptions that need immediate operator attention.
	SeverityHigh
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityUnknown:
		fallthrough
	default:
		return "unknown"
	}
}

// ParseSeverity resolves a lowercase severity name back to its Severity value.
func ParseSeverity(raw string) (Severity, error) {
	switch raw {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	default:
		return SeverityUnknown, errs.NewValueIsInvalidErrorWithCause(
			"severity is invalid",
			fmt.Errorf("%q is not a valid severity", raw),
		)
	}
}

// Validate checks the Severity is one of the defined grades.
func (s Severity) Validate() error {
	if s < SeverityLow || s > SeverityHigh {
		return errs.NewValueIsInvalidErrorWithCause(
			"severity is invalid",
			fmt.Errorf("%d is not a valid severity", s),
		)
	}
	return nil
}

// Hold records one hold placed on a shipment: who parked it, why, and when it
// was released. Holds block forward transitions but never side-channel
// operations. Past holds are kept on the aggregate for audit.
type Hold struct {
	reason     string
	actor      string
	heldAt     time.Time
	releasedAt *time.Time
	releasedBy string
}

// newHold creates an active hold. Reason and actor are required.
func newHold(reason, actor string, at time.Time) (*Hold, error) {
	if reason == "" {
		return nil, errs.NewValueIsRequiredError("hold reason is required")
	}
	if actor == "" {
		return nil, errs.NewValueIsRequiredError("hold actor is required")
	}

	return &Hold{reason: reason, actor: actor, heldAt: at}, nil
}

// RestoreHold reconstructs a hold record from persistence.
func RestoreHold(reason, actor string, heldAt time.Time, releasedAt *time.Time, releasedBy string) (*Hold, error) {
	hold, err := newHold(reason, actor, heldAt)
	if err != nil {
		return nil, err
	}

	hold.releasedAt = releasedAt
	hold.releasedBy = releasedBy
	return hold, nil
}

// Reason returns why the hold was placed.
func (h *Hold) Reason() string { return h.reason }

// Actor returns who placed the hold.
func (h *Hold) Actor() string { return h.actor }

// HeldAt returns when the hold was placed.
func (h *Hold) HeldAt() time.Time { return h.heldAt }

// ReleasedAt returns when the hold was released, nil while active.
func (h *Hold) ReleasedAt() *time.Time { return h.releasedAt }

// ReleasedBy returns who released the hold, empty while active.
func (h *Hold) ReleasedBy() string { return h.releasedBy }

// IsActive reports whether the hold still blocks forward progression.
func (h *Hold) IsActive() bool { return h.releasedAt == nil }

// release closes the hold. Idempotent release is rejected.
func (h *Hold) release(actor string, at time.Time) error {
	if !h.IsActive() {
		return ErrNoActiveHold
	}

	h.releasedAt = &at
	h.releasedBy = actor
	return nil
}

// Reroute records a destination branch change: where the shipment was headed,
// where it is headed now, and who ordered the change.
type Reroute struct {
	fromBranchID kernel.UUID
	toBranchID   kernel.UUID
	actor        string
	reroutedAt   time.Time
}

// newReroute creates a reroute record. Both branch references must be valid.
func newReroute(fromBranchID, toBranchID kernel.UUID, actor string, at time.Time) (*Reroute, error) {
	if err := fromBranchID.Validate(); err != nil {
		return nil, err
	}
	if err := toBranchID.Validate(); err != nil {
		return nil, err
	}
	if fromBranchID.IsEqual(toBranchID) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"toBranchID is invalid",
			fmt.Errorf("reroute target %s equals current destination", toBranchID),
		)
	}
	if actor == "" {
		return nil, errs.NewValueIsRequiredError("reroute actor is required")
	}

	return &Reroute{
		fromBranchID: fromBranchID,
		toBranchID:   toBranchID,
		actor:        actor,
		reroutedAt:   at,
	}, nil
}

// RestoreReroute reconstructs a reroute record from persistence.
func RestoreReroute(fromBranchID, toBranchID kernel.UUID, actor string, reroutedAt time.Time) (*Reroute, error) {
	return newReroute(fromBranchID, toBranchID, actor, reroutedAt)
}

// FromBranchID returns the destination branch before the reroute.
func (r *Reroute) FromBranchID() kernel.UUID { return r.fromBranchID }

// ToBranchID returns the destination branch after the reroute.
func (r *Reroute) ToBranchID() kernel.UUID { return r.toBranchID }

// Actor returns who ordered the reroute.
func (r *Reroute) Actor() string { return r.actor }

// ReroutedAt returns when the reroute was recorded.
func (r *Reroute) ReroutedAt() time.Time { return r.reroutedAt }

// ExceptionRecord captures one exception flagged on a shipment together with
// its eventual resolution. An open exception sets the shipment's HasException
// flag without touching the forward status.
type ExceptionRecord struct {
	category       string
	severity       Severity
	notes          string
	flaggedAt      time.Time
	resolutionType string
	resolvedAt     *time.Time
	resolvedBy     string
}

// newException creates an open exception record.
func newException(category string, severity Severity, notes string, at time.Time) (*ExceptionRecord, error) {
	if category == "" {
		return nil, errs.NewValueIsRequiredError("exception category is required")
	}
	if err := severity.Validate(); err != nil {
		return nil, err
	}

	return &ExceptionRecord{
		category:  category,
		severity:  severity,
		notes:     notes,
		flaggedAt: at,
	}, nil
}

// RestoreException reconstructs an exception record from persistence.
func RestoreException(
	category string,
	severity Severity,
	notes string,
	flaggedAt time.Time,
	resolutionType string,
	resolvedAt *time.Time,
	resolvedBy string,
) (*ExceptionRecord, error) {
	record, err := newException(category, severity, notes, flaggedAt)
	if err != nil {
		return nil, err
	}

	record.resolutionType = resolutionType
	record.resolvedAt = resolvedAt
	record.resolvedBy = resolvedBy
	return record, nil
}

// Category returns the exception category.
func (e *ExceptionRecord) Category() string { return e.category }

// Severity returns the advisory severity grade.
func (e *ExceptionRecord) Severity() Severity { return e.severity }

// Notes returns free-text operator notes.
func (e *ExceptionRecord) Notes() string { return e.notes }

// FlaggedAt returns when the exception was flagged.
func (e *ExceptionRecord) FlaggedAt() time.Time { return e.flaggedAt }

// ResolutionType returns how the exception was resolved, empty while open.
func (e *ExceptionRecord) ResolutionType() string { return e.resolutionType }

// ResolvedAt returns when the exception was resolved, nil while open.
func (e *ExceptionRecord) ResolvedAt() *time.Time { return e.resolvedAt }

// ResolvedBy returns who resolved the exception, empty while open.
func (e *ExceptionRecord) ResolvedBy() string { return e.resolvedBy }

// IsOpen reports whether the exception is still unresolved.
func (e *ExceptionRecord) IsOpen() bool { return e.resolvedAt == nil }

// resolve closes the exception with a required resolution type.
func (e *ExceptionRecord) resolve(resolutionType, actor string, at time.Time) error {
	if !e.IsOpen() {
		return ErrNoOpenException
	}
	if resolutionType == "" {
		return errs.NewValueIsRequiredError("resolutionType is required")
	}

	e.resolutionType = resolutionType
	e.resolvedAt = &at
	e.resolvedBy = actor
	return nil
}
