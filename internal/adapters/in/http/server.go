// Package http exposes the REST API: shipment booking and tracking, scan
// ingestion, and the consolidation lifecycle. Handlers translate JSON
// requests into commands and queries; all state lives behind the use cases.
package http

import (
	"errors"
	"net/http"

	"groupage/internal/core/application/usecases/commands"
	"groupage/internal/core/application/usecases/queries"
	"groupage/internal/core/domain/model/consolidation"
	"groupage/internal/core/domain/model/shipment"
	"groupage/internal/core/ports"
	"groupage/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Shipment command handlers
	bookShipmentHandler      commands.BookShipmentCommandHandler
	holdShipmentHandler      commands.HoldShipmentCommandHandler
	releaseHoldHandler       commands.ReleaseShipmentHoldCommandHandler
	rerouteShipmentHandler   commands.RerouteShipmentCommandHandler
	flagExceptionHandler     commands.FlagShipmentExceptionCommandHandler
	resolveExceptionHandler  commands.ResolveShipmentExceptionCommandHandler
	cancelShipmentHandler    commands.CancelShipmentCommandHandler
	initiateReturnHandler    commands.InitiateReturnCommandHandler

	// Scan ingestion
	ingestScanHandler commands.IngestScanCommandHandler

	// Consolidation command handlers
	createConsolidationHandler   commands.CreateConsolidationCommandHandler
	addMemberHandler             commands.AddConsolidationMemberCommandHandler
	removeMemberHandler          commands.RemoveConsolidationMemberCommandHandler
	lockConsolidationHandler     commands.LockConsolidationCommandHandler
	dispatchConsolidationHandler commands.DispatchConsolidationCommandHandler
	arriveConsolidationHandler   commands.ArriveConsolidationCommandHandler
	beginDeconsolidationHandler  commands.BeginDeconsolidationCommandHandler
	scanMemberOutHandler         commands.ScanMemberOutCommandHandler
	recordDiscrepancyHandler     commands.RecordDiscrepancyCommandHandler
	resolveDiscrepancyHandler    commands.ResolveDiscrepancyCommandHandler
	completeConsolidationHandler commands.CompleteConsolidationCommandHandler
	cancelConsolidationHandler   commands.CancelConsolidationCommandHandler

	// Query handlers
	getShipmentStatusHandler queries.GetShipmentStatusQueryHandler
	getConsolidationHandler  queries.GetConsolidationQueryHandler
	getScanHistoryHandler    queries.GetScanHistoryQueryHandler
}

// ServerHandlers bundles every use case the server exposes. Kept as a struct
// so the composition root wires it in one place.
type ServerHandlers struct {
	BookShipment      commands.BookShipmentCommandHandler
	HoldShipment      commands.HoldShipmentCommandHandler
	ReleaseHold       commands.ReleaseShipmentHoldCommandHandler
	RerouteShipment   commands.RerouteShipmentCommandHandler
	FlagException     commands.FlagShipmentExceptionCommandHandler
	ResolveException  commands.ResolveShipmentExceptionCommandHandler
	CancelShipment    commands.CancelShipmentCommandHandler
	InitiateReturn    commands.InitiateReturnCommandHandler

	IngestScan commands.IngestScanCommandHandler

	CreateConsolidation   commands.CreateConsolidationCommandHandler
	AddMember             commands.AddConsolidationMemberCommandHandler
	RemoveMember          commands.RemoveConsolidationMemberCommandHandler
	LockConsolidation     commands.LockConsolidationCommandHandler
	DispatchConsolidation commands.DispatchConsolidationCommandHandler
	ArriveConsolidation   commands.ArriveConsolidationCommandHandler
	BeginDeconsolidation  commands.BeginDeconsolidationCommandHandler
	ScanMemberOut         commands.ScanMemberOutCommandHandler
	RecordDiscrepancy     commands.RecordDiscrepancyCommandHandler
	ResolveDiscrepancy    commands.ResolveDiscrepancyCommandHandler
	CompleteConsolidation commands.CompleteConsolidationCommandHandler
	CancelConsolidation   commands.CancelConsolidationCommandHandler

	GetShipmentStatus queries.GetShipmentStatusQueryHandler
	GetConsolidation  queries.GetConsolidationQueryHandler
	GetScanHistory    queries.GetScanHistoryQueryHandler
}

// NewServer creates an HTTP server over the given use case handlers.
func NewServer(handlers ServerHandlers) *Server {
	return &Server{
		bookShipmentHandler:          handlers.BookShipment,
		holdShipmentHandler:          handlers.HoldShipment,
		releaseHoldHandler:           handlers.ReleaseHold,
		rerouteShipmentHandler:       handlers.RerouteShipment,
		flagExceptionHandler:         handlers.FlagException,
		resolveExceptionHandler:      handlers.ResolveException,
		cancelShipmentHandler:        handlers.CancelShipment,
		initiateReturnHandler:        handlers.InitiateReturn,
		ingestScanHandler:            handlers.IngestScan,
		createConsolidationHandler:   handlers.CreateConsolidation,
		addMemberHandler:             handlers.AddMember,
		removeMemberHandler:          handlers.RemoveMember,
		lockConsolidationHandler:     handlers.LockConsolidation,
		dispatchConsolidationHandler: handlers.DispatchConsolidation,
		arriveConsolidationHandler:   handlers.ArriveConsolidation,
		beginDeconsolidationHandler:  handlers.BeginDeconsolidation,
		scanMemberOutHandler:         handlers.ScanMemberOut,
		recordDiscrepancyHandler:     handlers.RecordDiscrepancy,
		resolveDiscrepancyHandler:    handlers.ResolveDiscrepancy,
		completeConsolidationHandler: handlers.CompleteConsolidation,
		cancelConsolidationHandler:   handlers.CancelConsolidation,
		getShipmentStatusHandler:     handlers.GetShipmentStatus,
		getConsolidationHandler:      handlers.GetConsolidation,
		getScanHistoryHandler:        handlers.GetScanHistory,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")

	api.POST("/shipments", s.BookShipment)
	api.GET("/shipments/:trackingNumber", s.GetShipmentStatus)
	api.GET("/shipments/:trackingNumber/scans", s.GetScanHistory)
	api.POST("/shipments/:id/hold", s.HoldShipment)
	api.POST("/shipments/:id/release-hold", s.ReleaseShipmentHold)
	api.POST("/shipments/:id/reroute", s.RerouteShipment)
	api.POST("/shipments/:id/exceptions", s.FlagShipmentException)
	api.POST("/shipments/:id/exceptions/resolve", s.ResolveShipmentException)
	api.POST("/shipments/:id/cancel", s.CancelShipment)
	api.POST("/shipments/:id/return", s.InitiateReturn)

	api.POST("/scans", s.IngestScan)

	api.POST("/consolidations", s.CreateConsolidation)
	api.GET("/consolidations/:id", s.GetConsolidation)
	api.POST("/consolidations/:id/members", s.AddConsolidationMember)
	api.DELETE("/consolidations/:id/members/:shipmentId", s.RemoveConsolidationMember)
	api.POST("/consolidations/:id/lock", s.LockConsolidation)
	api.POST("/consolidations/:id/dispatch", s.DispatchConsolidation)
	api.POST("/consolidations/:id/arrive", s.ArriveConsolidation)
	api.POST("/consolidations/:id/begin-deconsolidation", s.BeginDeconsolidation)
	api.POST("/consolidations/:id/scan-out", s.ScanMemberOut)
	api.POST("/consolidations/:id/discrepancies", s.RecordDiscrepancy)
	api.POST("/consolidations/:id/discrepancies/resolve", s.ResolveDiscrepancy)
	api.POST("/consolidations/:id/complete", s.CompleteConsolidation)
	api.POST("/consolidations/:id/cancel", s.CancelConsolidation)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// ErrorResponse is the JSON error envelope returned by all handlers.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// badRequest writes a 400 envelope for malformed request bodies.
func badRequest(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: err.Error(),
	})
}

// fail writes the error envelope with a status derived from the error kind.
func fail(ctx echo.Context, err error) error {
	code := statusFromError(err)
	return ctx.JSON(code, ErrorResponse{Code: code, Message: err.Error()})
}

// statusFromError maps use case errors onto HTTP status codes: missing
// objects are 404, state conflicts are 409, invalid input is 400.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, consolidation.ErrMemberNotFound):
		return http.StatusNotFound

	case errors.Is(err, ports.ErrVersionConflict),
		errors.Is(err, ports.ErrDuplicateScanEvent),
		errors.Is(err, shipment.ErrInvalidTransition),
		errors.Is(err, shipment.ErrAlreadyTerminal),
		errors.Is(err, shipment.ErrHeldShipment),
		errors.Is(err, shipment.ErrShipmentAlreadyHeld),
		errors.Is(err, shipment.ErrNoActiveHold),
		errors.Is(err, shipment.ErrRerouteTooLate),
		errors.Is(err, shipment.ErrCancelAfterPickup),
		errors.Is(err, shipment.ErrExceptionAlreadyOpen),
		errors.Is(err, shipment.ErrNoOpenException),
		errors.Is(err, shipment.ErrAlreadyInConsolidation),
		errors.Is(err, consolidation.ErrConsolidationIsTerminal),
		errors.Is(err, consolidation.ErrInvalidStatusTransition),
		errors.Is(err, consolidation.ErrNotOpen),
		errors.Is(err, consolidation.ErrNotDeconsolidating),
		errors.Is(err, consolidation.ErrCutoffPassed),
		errors.Is(err, consolidation.ErrCapacityExceeded),
		errors.Is(err, consolidation.ErrEmptyConsolidation),
		errors.Is(err, consolidation.ErrIncompleteRelease),
		errors.Is(err, consolidation.ErrMemberAlreadyAdded),
		errors.Is(err, consolidation.ErrMemberAlreadyScanned),
		errors.Is(err, consolidation.ErrMemberNotScanned),
		errors.Is(err, consolidation.ErrDiscrepancyAlreadyRecorded),
		errors.Is(err, consolidation.ErrNoDiscrepancy),
		errors.Is(err, consolidation.ErrDiscrepancyAlreadyResolved):
		return http.StatusConflict

	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
