package commands_test

import (
	"context"
	"time"

	"groupage/internal/core/application/usecases/commands"
	"groupage/internal/core/domain/model/consolidation"
	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/lifecycle"
	"groupage/internal/core/domain/model/scanevent"
	"groupage/internal/core/domain/model/shipment"
	"groupage/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

// Mock implementations for testing.
type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) Add(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*shipment.Shipment, error) {
	args := m.Called(ctx, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetMembers(ctx context.Context, consolidationID kernel.UUID) ([]*shipment.Shipment, error) {
	args := m.Called(ctx, consolidationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipment.Shipment), args.Error(1)
}

type MockConsolidationRepository struct {
	mock.Mock
}

func (m *MockConsolidationRepository) Add(ctx context.Context, c *consolidation.Consolidation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConsolidationRepository) Update(ctx context.Context, c *consolidation.Consolidation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConsolidationRepository) Get(ctx context.Context, id kernel.UUID) (*consolidation.Consolidation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consolidation.Consolidation), args.Error(1)
}

func (m *MockConsolidationRepository) GetOpenPastCutoff(ctx context.Context, now time.Time) ([]*consolidation.Consolidation, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*consolidation.Consolidation), args.Error(1)
}

type MockScanEventRepository struct {
	mock.Mock
}

func (m *MockScanEventRepository) Add(ctx context.Context, e *scanevent.ScanEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockScanEventRepository) GetByOfflineSyncKey(ctx context.Context, offlineSyncKey string) (*scanevent.ScanEvent, error) {
	args := m.Called(ctx, offlineSyncKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scanevent.ScanEvent), args.Error(1)
}

func (m *MockScanEventRepository) GetByShipment(ctx context.Context, shipmentID kernel.UUID) ([]*scanevent.ScanEvent, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*scanevent.ScanEvent), args.Error(1)
}

// mockTx provides the Begin/Commit/Rollback trio shared by every mock UoW.
type mockTx struct {
	mock.Mock
}

func (m *mockTx) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockShipmentUoW struct {
	mockTx
}

func (m *MockShipmentUoW) ShipmentRepository() ports.ShipmentRepository {
	args := m.Called()
	return args.Get(0).(ports.ShipmentRepository)
}

type MockShipmentUoWFactory struct {
	mock.Mock
}

func (m *MockShipmentUoWFactory) Create() commands.ShipmentUoW {
	args := m.Called()
	return args.Get(0).(commands.ShipmentUoW)
}

type MockConsolidationUoW struct {
	mockTx
}

func (m *MockConsolidationUoW) ConsolidationRepository() ports.ConsolidationRepository {
	args := m.Called()
	return args.Get(0).(ports.ConsolidationRepository)
}

func (m *MockConsolidationUoW) ShipmentRepository() ports.ShipmentRepository {
	args := m.Called()
	return args.Get(0).(ports.ShipmentRepository)
}

type MockConsolidationUoWFactory struct {
	mock.Mock
}

func (m *MockConsolidationUoWFactory) Create() commands.ConsolidationUoW {
	args := m.Called()
	return args.Get(0).(commands.ConsolidationUoW)
}

type MockScanUoW struct {
	mockTx
}

func (m *MockScanUoW) ScanEventRepository() ports.ScanEventRepository {
	args := m.Called()
	return args.Get(0).(ports.ScanEventRepository)
}

func (m *MockScanUoW) ShipmentRepository() ports.ShipmentRepository {
	args := m.Called()
	return args.Get(0).(ports.ShipmentRepository)
}

type MockScanUoWFactory struct {
	mock.Mock
}

func (m *MockScanUoWFactory) Create() commands.ScanUoW {
	args := m.Called()
	return args.Get(0).(commands.ScanUoW)
}

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	events []lifecycle.Event
}

func (p *capturingPublisher) Publish(_ context.Context, events ...lifecycle.Event) {
	p.events = append(p.events, events...)
}
