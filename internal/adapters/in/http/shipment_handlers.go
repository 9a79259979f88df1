package http

import (
	"net/http"
	"time"

	"groupage/internal/core/application/usecases/commands"
	"groupage/internal/core/application/usecases/queries"
	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/shipment"

	"github.com/labstack/echo/v4"
)

// BookShipmentRequest is the payload for POST /api/v1/shipments.
type BookShipmentRequest struct {
	TrackingNumber      string    `json:"tracking_number"`
	ConsolidationType   string    `json:"consolidation_type"`
	DestinationBranchID string    `json:"destination_branch_id"`
	BookedAt            time.Time `json:"booked_at"`
	Actor               string    `json:"actor"`
}

// BookShipmentResponse returns the identifier assigned to the new shipment.
type BookShipmentResponse struct {
	ID             string `json:"id"`
	TrackingNumber string `json:"tracking_number"`
}

// BookShipment handles POST /api/v1/shipments.
func (s *Server) BookShipment(ctx echo.Context) error {
	var req BookShipmentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	consolidationType, err := shipment.ParseConsolidationType(req.ConsolidationType)
	if err != nil {
		return fail(ctx, err)
	}

	branchID, err := kernel.UUIDFromString(req.DestinationBranchID)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewBookShipmentCommand(
		req.TrackingNumber, consolidationType, branchID, req.BookedAt, req.Actor)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.bookShipmentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, BookShipmentResponse{
		ID:             cmd.ShipmentID().String(),
		TrackingNumber: req.TrackingNumber,
	})
}

// ShipmentStatusResponse is the tracking view for GET /api/v1/shipments/:trackingNumber.
// LegacyStatus is the deprecated lowercase status mirror; new consumers read Status.
type ShipmentStatusResponse struct {
	ID                  string              `json:"id"`
	TrackingNumber      string              `json:"tracking_number"`
	Status              string              `json:"status"`
	LegacyStatus        string              `json:"legacy_status"`
	DestinationBranchID string              `json:"destination_branch_id"`
	ConsolidationID     *string             `json:"consolidation_id,omitempty"`
	Milestones          []MilestoneResponse `json:"milestones"`
}

// MilestoneResponse is one entry of the milestone timeline.
type MilestoneResponse struct {
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// GetShipmentStatus handles GET /api/v1/shipments/:trackingNumber.
func (s *Server) GetShipmentStatus(ctx echo.Context) error {
	query, err := queries.NewGetShipmentStatusQuery(ctx.Param("trackingNumber"))
	if err != nil {
		return fail(ctx, err)
	}

	view, err := s.getShipmentStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	response := ShipmentStatusResponse{
		ID:                  view.ID.String(),
		TrackingNumber:      view.TrackingNumber,
		Status:              view.Status,
		LegacyStatus:        view.LegacyStatus,
		DestinationBranchID: view.DestinationBranchID.String(),
		Milestones:          make([]MilestoneResponse, 0, len(view.Milestones)),
	}
	if view.ConsolidationID != nil {
		id := view.ConsolidationID.String()
		response.ConsolidationID = &id
	}
	for _, milestone := range view.Milestones {
		response.Milestones = append(response.Milestones, MilestoneResponse{
			Status:     milestone.Status,
			OccurredAt: milestone.OccurredAt,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// HoldShipmentRequest is the payload for POST /api/v1/shipments/:id/hold.
type HoldShipmentRequest struct {
	Reason string    `json:"reason"`
	Actor  string    `json:"actor"`
	At     time.Time `json:"at"`
}

// HoldShipment handles POST /api/v1/shipments/:id/hold.
func (s *Server) HoldShipment(ctx echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req HoldShipmentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewHoldShipmentCommand(shipmentID, req.Reason, req.Actor, req.At)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.holdShipmentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ActorRequest carries the common actor / timestamp pair used by the simple
// lifecycle endpoints.
type ActorRequest struct {
	Actor string    `json:"actor"`
	At    time.Time `json:"at"`
}

// ReleaseShipmentHold handles POST /api/v1/shipments/:id/release-hold.
func (s *Server) ReleaseShipmentHold(ctx echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req ActorRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewReleaseShipmentHoldCommand(shipmentID, req.Actor, req.At)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.releaseHoldHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// RerouteShipmentRequest is the payload for POST /api/v1/shipments/:id/reroute.
type RerouteShipmentRequest struct {
	NewBranchID string    `json:"new_branch_id"`
	Actor       string    `json:"actor"`
	At          time.Time `json:"at"`
}

// RerouteShipment handles POST /api/v1/shipments/:id/reroute.
func (s *Server) RerouteShipment(ctx echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req RerouteShipmentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	branchID, err := kernel.UUIDFromString(req.NewBranchID)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewRerouteShipmentCommand(shipmentID, branchID, req.Actor, req.At)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.rerouteShipmentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// FlagExceptionRequest is the payload for POST /api/v1/shipments/:id/exceptions.
type FlagExceptionRequest struct {
	Category string    `json:"category"`
	Severity string    `json:"severity"`
	Notes    string    `json:"notes"`
	At       time.Time `json:"at"`
}

// FlagShipmentException handles POST /api/v1/shipments/:id/exceptions.
func (s *Server) FlagShipmentException(ctx echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req FlagExceptionRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	severity, err := shipment.ParseSeverity(req.Severity)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewFlagShipmentExceptionCommand(
		shipmentID, req.Category, severity, req.Notes, req.At)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.flagExceptionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ResolveExceptionRequest is the payload for POST /api/v1/shipments/:id/exceptions/resolve.
type ResolveExceptionRequest struct {
	ResolutionType string    `json:"resolution_type"`
	Actor          string    `json:"actor"`
	At             time.Time `json:"at"`
}

// ResolveShipmentException handles POST /api/v1/shipments/:id/exceptions/resolve.
func (s *Server) ResolveShipmentException(ctx echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req ResolveExceptionRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewResolveShipmentExceptionCommand(
		shipmentID, req.ResolutionType, req.Actor, req.At)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.resolveExceptionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CancelShipmentRequest is the payload for POST /api/v1/shipments/:id/cancel.
// Override permits cancellation after pickup, which otherwise conflicts.
type CancelShipmentRequest struct {
	Actor    string    `json:"actor"`
	At       time.Time `json:"at"`
	Override bool      `json:"override"`
}

// CancelShipment handles POST /api/v1/shipments/:id/cancel.
func (s *Server) CancelShipment(ctx echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req CancelShipmentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewCancelShipmentCommand(shipmentID, req.Actor, req.At, req.Override)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.cancelShipmentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// InitiateReturn handles POST /api/v1/shipments/:id/return.
func (s *Server) InitiateReturn(ctx echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req ActorRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewInitiateReturnCommand(shipmentID, req.Actor, req.At)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.initiateReturnHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
