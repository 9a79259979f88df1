package http

import (
	"net/http"
	"time"

	"groupage/internal/core/application/usecases/commands"
	"groupage/internal/core/application/usecases/queries"
	"groupage/internal/core/domain/model/consolidation"
	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/shipment"

	"github.com/labstack/echo/v4"
)

// CreateConsolidationRequest is the payload for POST /api/v1/consolidations.
type CreateConsolidationRequest struct {
	Reference            string    `json:"reference"`
	ConsolidationType    string    `json:"consolidation_type"`
	MotherTrackingNumber string    `json:"mother_tracking_number"`
	OriginBranchID       string    `json:"origin_branch_id"`
	DestinationBranchID  string    `json:"destination_branch_id"`
	MaxPieces            int       `json:"max_pieces"`
	MaxWeightKg          float64   `json:"max_weight_kg"`
	MaxVolumeM3          float64   `json:"max_volume_m3"`
	CutoffAt             time.Time `json:"cutoff_at"`
	CreatedAt            time.Time `json:"created_at"`
	Actor                string    `json:"actor"`
}

// CreateConsolidationResponse returns the identifiers assigned to the new
// consolidation and its mother shipment.
type CreateConsolidationResponse struct {
	ID               string `json:"id"`
	MotherShipmentID string `json:"mother_shipment_id"`
	Reference        string `json:"reference"`
}

// CreateConsolidation handles POST /api/v1/consolidations.
func (s *Server) CreateConsolidation(ctx echo.Context) error {
	var req CreateConsolidationRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	consolidationType, err := shipment.ParseConsolidationType(req.ConsolidationType)
	if err != nil {
		return fail(ctx, err)
	}

	originBranchID, err := kernel.UUIDFromString(req.OriginBranchID)
	if err != nil {
		return fail(ctx, err)
	}
	destinationBranchID, err := kernel.UUIDFromString(req.DestinationBranchID)
	if err != nil {
		return fail(ctx, err)
	}

	capacity, err := consolidation.NewCapacity(req.MaxPieces, req.MaxWeightKg, req.MaxVolumeM3)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewCreateConsolidationCommand(
		req.Reference,
		consolidationType,
		req.MotherTrackingNumber,
		originBranchID,
		destinationBranchID,
		capacity,
		req.CutoffAt,
		req.CreatedAt,
		req.Actor,
	)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.createConsolidationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateConsolidationResponse{
		ID:               cmd.ConsolidationID().String(),
		MotherShipmentID: cmd.MotherShipmentID().String(),
		Reference:        req.Reference,
	})
}

// ConsolidationManifestResponse is the manifest view for
// GET /api/v1/consolidations/:id.
type ConsolidationManifestResponse struct {
	ID                  string           `json:"id"`
	Reference           string           `json:"reference"`
	Status              string           `json:"status"`
	MotherShipmentID    string           `json:"mother_shipment_id"`
	OriginBranchID      string           `json:"origin_branch_id"`
	DestinationBranchID string           `json:"destination_branch_id"`
	CutoffAt            time.Time        `json:"cutoff_at"`
	MaxPieces           int              `json:"max_pieces"`
	MaxWeightKg         float64          `json:"max_weight_kg"`
	MaxVolumeM3         float64          `json:"max_volume_m3"`
	TotalPieces         int              `json:"total_pieces"`
	TotalWeightKg       float64          `json:"total_weight_kg"`
	TotalVolumeM3       float64          `json:"total_volume_m3"`
	Members             []MemberResponse `json:"members"`
}

// MemberResponse is one manifest line.
type MemberResponse struct {
	ShipmentID string  `json:"shipment_id"`
	Sequence   int     `json:"sequence"`
	WeightKg   float64 `json:"weight_kg"`
	VolumeM3   float64 `json:"volume_m3"`
	Status     string  `json:"status"`
}

// GetConsolidation handles GET /api/v1/consolidations/:id.
func (s *Server) GetConsolidation(ctx echo.Context) error {
	consolidationID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	query, err := queries.NewGetConsolidationQuery(consolidationID)
	if err != nil {
		return fail(ctx, err)
	}

	view, err := s.getConsolidationHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	response := ConsolidationManifestResponse{
		ID:                  view.ID.String(),
		Reference:           view.Reference,
		Status:              view.Status,
		MotherShipmentID:    view.MotherShipmentID.String(),
		OriginBranchID:      view.OriginBranchID.String(),
		DestinationBranchID: view.DestinationBranchID.String(),
		CutoffAt:            view.CutoffAt,
		MaxPieces:           view.MaxPieces,
		MaxWeightKg:         view.MaxWeightKg,
		MaxVolumeM3:         view.MaxVolumeM3,
		TotalPieces:         view.TotalPieces,
		TotalWeightKg:       view.TotalWeightKg,
		TotalVolumeM3:       view.TotalVolumeM3,
		Members:             make([]MemberResponse, 0, len(view.Members)),
	}
	for _, member := range view.Members {
		response.Members = append(response.Members, MemberResponse{
			ShipmentID: member.ShipmentID.String(),
			Sequence:   member.Sequence,
			WeightKg:   member.WeightKg,
			VolumeM3:   member.VolumeM3,
			Status:     member.Status,
		})
	}
	return ctx.JSON(http.StatusOK, response)
}

// AddMemberRequest is the payload for POST /api/v1/consolidations/:id/members.
type AddMemberRequest struct {
	ShipmentID string    `json:"shipment_id"`
	WeightKg   float64   `json:"weight_kg"`
	VolumeM3   float64   `json:"volume_m3"`
	At         time.Time `json:"at"`
}

// AddConsolidationMember handles POST /api/v1/consolidations/:id/members.
func (s *Server) AddConsolidationMember(ctx echo.Context) error {
	consolidationID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req AddMemberRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	shipmentID, err := kernel.UUIDFromString(req.ShipmentID)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewAddConsolidationMemberCommand(
		consolidationID, shipmentID, req.WeightKg, req.VolumeM3, req.At)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.addMemberHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// RemoveConsolidationMember handles
// DELETE /api/v1/consolidations/:id/members/:shipmentId.
func (s *Server) RemoveConsolidationMember(ctx echo.Context) error {
	consolidationID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}
	shipmentID, err := kernel.UUIDFromString(ctx.Param("shipmentId"))
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewRemoveConsolidationMemberCommand(
		consolidationID, shipmentID, time.Now().UTC())
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.removeMemberHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// LockConsolidation handles POST /api/v1/consolidations/:id/lock.
func (s *Server) LockConsolidation(ctx echo.Context) error {
	consolidationID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req ActorRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewLockConsolidationCommand(consolidationID, req.Actor, req.At)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.lockConsolidationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// DispatchConsolidationRequest is the payload for
// POST /api/v1/consolidations/:id/dispatch.
type DispatchConsolidationRequest struct {
	TransportMode  string    `json:"transport_mode"`
	DocumentNumber string    `json:"document_number"`
	CarrierName    string    `json:"carrier_name"`
	Actor          string    `json:"actor"`
	At             time.Time `json:"at"`
}

// DispatchConsolidation handles POST /api/v1/consolidations/:id/dispatch.
func (s *Server) DispatchConsolidation(ctx echo.Context) error {
	consolidationID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req DispatchConsolidationRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	mode, err := consolidation.ParseTransportMode(req.TransportMode)
	if err != nil {
		return fail(ctx, err)
	}

	transport, err := consolidation.NewTransportDetails(mode, req.DocumentNumber, req.CarrierName)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewDispatchConsolidationCommand(
		consolidationID, transport, req.Actor, req.At)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.dispatchConsolidationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ArriveConsolidation handles POST /api/v1/consolidations/:id/arrive.
func (s *Server) ArriveConsolidation(ctx echo.Context) error {
	consolidationID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req ActorRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewArriveConsolidationCommand(consolidationID, req.Actor, req.At)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.arriveConsolidationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// BeginDeconsolidation handles POST /api/v1/consolidations/:id/begin-deconsolidation.
func (s *Server) BeginDeconsolidation(ctx echo.Context) error {
	consolidationID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req ActorRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewBeginDeconsolidationCommand(consolidationID, req.Actor, req.At)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.beginDeconsolidationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ScanMemberOutRequest is the payload for POST /api/v1/consolidations/:id/scan-out.
type ScanMemberOutRequest struct {
	ShipmentID string    `json:"shipment_id"`
	Actor      string    `json:"actor"`
	At         time.Time `json:"at"`
}

// ScanMemberOut handles POST /api/v1/consolidations/:id/scan-out.
func (s *Server) ScanMemberOut(ctx echo.Context) error {
	consolidationID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req ScanMemberOutRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	shipmentID, err := kernel.UUIDFromString(req.ShipmentID)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewScanMemberOutCommand(consolidationID, shipmentID, req.Actor, req.At)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.scanMemberOutHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// RecordDiscrepancyRequest is the payload for
// POST /api/v1/consolidations/:id/discrepancies. ShipmentID is omitted for
// unmanifested finds, where no member row exists to pin the discrepancy to.
type RecordDiscrepancyRequest struct {
	ShipmentID *string   `json:"shipment_id,omitempty"`
	Kind       string    `json:"kind"`
	Notes      string    `json:"notes"`
	Actor      string    `json:"actor"`
	At         time.Time `json:"at"`
}

// RecordDiscrepancy handles POST /api/v1/consolidations/:id/discrepancies.
func (s *Server) RecordDiscrepancy(ctx echo.Context) error {
	consolidationID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req RecordDiscrepancyRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	var shipmentID *kernel.UUID
	if req.ShipmentID != nil {
		id, idErr := kernel.UUIDFromString(*req.ShipmentID)
		if idErr != nil {
			return fail(ctx, idErr)
		}
		shipmentID = &id
	}

	cmd, err := commands.NewRecordDiscrepancyCommand(
		consolidationID,
		shipmentID,
		consolidation.DiscrepancyKind(req.Kind),
		req.Notes,
		req.Actor,
		req.At,
	)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.recordDiscrepancyHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ResolveDiscrepancyRequest is the payload for
// POST /api/v1/consolidations/:id/discrepancies/resolve.
type ResolveDiscrepancyRequest struct {
	ShipmentID string    `json:"shipment_id"`
	Resolution string    `json:"resolution"`
	Actor      string    `json:"actor"`
	At         time.Time `json:"at"`
}

// ResolveDiscrepancy handles POST /api/v1/consolidations/:id/discrepancies/resolve.
func (s *Server) ResolveDiscrepancy(ctx echo.Context) error {
	consolidationID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req ResolveDiscrepancyRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	shipmentID, err := kernel.UUIDFromString(req.ShipmentID)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewResolveDiscrepancyCommand(
		consolidationID, shipmentID, req.Resolution, req.Actor, req.At)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.resolveDiscrepancyHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CompleteConsolidation handles POST /api/v1/consolidations/:id/complete.
func (s *Server) CompleteConsolidation(ctx echo.Context) error {
	consolidationID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req ActorRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewCompleteConsolidationCommand(consolidationID, req.Actor, req.At)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.completeConsolidationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CancelConsolidation handles POST /api/v1/consolidations/:id/cancel.
func (s *Server) CancelConsolidation(ctx echo.Context) error {
	consolidationID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req ActorRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewCancelConsolidationCommand(consolidationID, req.Actor, req.At)
	if err != nil {
		return fail(ctx, err)
	}

	if err := s.cancelConsolidationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
