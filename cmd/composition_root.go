package cmd

import (
	"log/slog"

	"groupage/internal/adapters/out/eventbus"
	"groupage/internal/adapters/out/postgres"
	"groupage/internal/core/application/usecases/commands"
	"groupage/internal/core/application/usecases/queries"
	"groupage/internal/core/ports"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	eventBus   *eventbus.InProcessBus
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	bus := eventbus.NewInProcessBus(logger)
	bus.Subscribe(eventbus.NewLoggingConsumer(logger))

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		eventBus:   bus,
	}
}

// EventBus exposes the lifecycle bus so main can close it on shutdown.
func (c *CompositionRoot) EventBus() *eventbus.InProcessBus {
	return c.eventBus
}

func (c *CompositionRoot) shipmentUoWFactory() commands.ShipmentUoWFactory {
	return FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) consolidationUoWFactory() commands.ConsolidationUoWFactory {
	return FuncConsolidationUoWFactory(func() commands.ConsolidationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) scanUoWFactory() commands.ScanUoWFactory {
	return FuncScanUoWFactory(func() commands.ScanUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) publisher() ports.EventPublisher {
	return c.eventBus
}

func (c *CompositionRoot) CreateBookShipmentCommandHandler() commands.BookShipmentCommandHandler {
	return commands.NewBookShipmentCommandHandler(c.shipmentUoWFactory(), c.publisher())
}

func (c *CompositionRoot) CreateHoldShipmentCommandHandler() commands.HoldShipmentCommandHandler {
	return commands.NewHoldShipmentCommandHandler(c.shipmentUoWFactory())
}

func (c *CompositionRoot) CreateReleaseShipmentHoldCommandHandler() commands.ReleaseShipmentHoldCommandHandler {
	return commands.NewReleaseShipmentHoldCommandHandler(c.shipmentUoWFactory())
}

func (c *CompositionRoot) CreateRerouteShipmentCommandHandler() commands.RerouteShipmentCommandHandler {
	return commands.NewRerouteShipmentCommandHandler(c.shipmentUoWFactory())
}

func (c *CompositionRoot) CreateFlagShipmentExceptionCommandHandler() commands.FlagShipmentExceptionCommandHandler {
	return commands.NewFlagShipmentExceptionCommandHandler(c.shipmentUoWFactory())
}

func (c *CompositionRoot) CreateResolveShipmentExceptionCommandHandler() commands.ResolveShipmentExceptionCommandHandler {
	return commands.NewResolveShipmentExceptionCommandHandler(c.shipmentUoWFactory())
}

func (c *CompositionRoot) CreateCancelShipmentCommandHandler() commands.CancelShipmentCommandHandler {
	return commands.NewCancelShipmentCommandHandler(c.shipmentUoWFactory(), c.publisher())
}

func (c *CompositionRoot) CreateInitiateReturnCommandHandler() commands.InitiateReturnCommandHandler {
	return commands.NewInitiateReturnCommandHandler(c.shipmentUoWFactory(), c.publisher())
}

func (c *CompositionRoot) CreateIngestScanCommandHandler() commands.IngestScanCommandHandler {
	return commands.NewIngestScanCommandHandler(c.scanUoWFactory(), c.publisher())
}

func (c *CompositionRoot) CreateCreateConsolidationCommandHandler() commands.CreateConsolidationCommandHandler {
	return commands.NewCreateConsolidationCommandHandler(c.consolidationUoWFactory(), c.publisher())
}

func (c *CompositionRoot) CreateAddConsolidationMemberCommandHandler() commands.AddConsolidationMemberCommandHandler {
	return commands.NewAddConsolidationMemberCommandHandler(c.consolidationUoWFactory())
}

func (c *CompositionRoot) CreateRemoveConsolidationMemberCommandHandler() commands.RemoveConsolidationMemberCommandHandler {
	return commands.NewRemoveConsolidationMemberCommandHandler(c.consolidationUoWFactory())
}

func (c *CompositionRoot) CreateLockConsolidationCommandHandler() commands.LockConsolidationCommandHandler {
	return commands.NewLockConsolidationCommandHandler(c.consolidationUoWFactory(), c.publisher())
}

func (c *CompositionRoot) CreateDispatchConsolidationCommandHandler() commands.DispatchConsolidationCommandHandler {
	return commands.NewDispatchConsolidationCommandHandler(c.consolidationUoWFactory(), c.publisher())
}

func (c *CompositionRoot) CreateArriveConsolidationCommandHandler() commands.ArriveConsolidationCommandHandler {
	return commands.NewArriveConsolidationCommandHandler(c.consolidationUoWFactory(), c.publisher())
}

func (c *CompositionRoot) CreateBeginDeconsolidationCommandHandler() commands.BeginDeconsolidationCommandHandler {
	return commands.NewBeginDeconsolidationCommandHandler(c.consolidationUoWFactory(), c.publisher())
}

func (c *CompositionRoot) CreateScanMemberOutCommandHandler() commands.ScanMemberOutCommandHandler {
	return commands.NewScanMemberOutCommandHandler(c.consolidationUoWFactory(), c.publisher())
}

func (c *CompositionRoot) CreateRecordDiscrepancyCommandHandler() commands.RecordDiscrepancyCommandHandler {
	return commands.NewRecordDiscrepancyCommandHandler(c.consolidationUoWFactory())
}

func (c *CompositionRoot) CreateResolveDiscrepancyCommandHandler() commands.ResolveDiscrepancyCommandHandler {
	return commands.NewResolveDiscrepancyCommandHandler(c.consolidationUoWFactory())
}

func (c *CompositionRoot) CreateCompleteConsolidationCommandHandler() commands.CompleteConsolidationCommandHandler {
	return commands.NewCompleteConsolidationCommandHandler(c.consolidationUoWFactory(), c.publisher())
}

func (c *CompositionRoot) CreateCancelConsolidationCommandHandler() commands.CancelConsolidationCommandHandler {
	return commands.NewCancelConsolidationCommandHandler(c.consolidationUoWFactory(), c.publisher())
}

func (c *CompositionRoot) CreateLockExpiredConsolidationsCommandHandler() commands.LockExpiredConsolidationsCommandHandler {
	return commands.NewLockExpiredConsolidationsCommandHandler(c.consolidationUoWFactory(), c.publisher())
}

func (c *CompositionRoot) CreateGetShipmentStatusQueryHandler() queries.GetShipmentStatusQueryHandler {
	return queries.NewGetShipmentStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetConsolidationQueryHandler() queries.GetConsolidationQueryHandler {
	return queries.NewGetConsolidationQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetScanHistoryQueryHandler() queries.GetScanHistoryQueryHandler {
	return queries.NewGetScanHistoryQueryHandler(c.gormDB)
}

type FuncShipmentUoWFactory func() commands.ShipmentUoW

func (f FuncShipmentUoWFactory) Create() commands.ShipmentUoW {
	return f()
}

type FuncConsolidationUoWFactory func() commands.ConsolidationUoW

func (f FuncConsolidationUoWFactory) Create() commands.ConsolidationUoW {
	return f()
}

type FuncScanUoWFactory func() commands.ScanUoW

func (f FuncScanUoWFactory) Create() commands.ScanUoW {
	return f()
}
