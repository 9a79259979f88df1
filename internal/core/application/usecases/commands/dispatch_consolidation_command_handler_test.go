package commands_test

import (
	"testing"
	"time"

	"groupage/internal/core/application/usecases/commands"
	"groupage/internal/core/domain/model/consolidation"
	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/shipment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newLockedConsolidation builds a consolidation of the given type with the
// given members, locked and ready for dispatch.
func newLockedConsolidation(t *testing.T, ctype shipment.ConsolidationType, memberIDs ...kernel.UUID) *consolidation.Consolidation {
	t.Helper()

	capacity, err := consolidation.NewCapacity(3, 100, 1.5)
	require.NoError(t, err)

	c, err := consolidation.NewConsolidation(
		kernel.NewUUID(),
		"GRP-DXB-LHR-043",
		ctype,
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		capacity,
		cutoffAt,
		bookedAt,
		"hub-ops",
	)
	require.NoError(t, err)

	for i, id := range memberIDs {
		require.NoError(t, c.AddMember(id, 10+float64(i), 0.2, bookedAt.Add(time.Hour)))
	}
	require.NoError(t, c.Lock(cutoffAt, "hub-ops"))
	c.PopEvents()
	return c
}

// assignBaby links a bagged shipment to its consolidation and drops the
// resulting events so tests only see what the handler under test produces.
func assignBaby(t *testing.T, baby *shipment.Shipment, c *consolidation.Consolidation, ctype shipment.ConsolidationType) {
	t.Helper()

	require.NoError(t, baby.AssignToConsolidation(c.ID(), ctype))
	baby.PopEvents()
}

func newAirTransport(t *testing.T) consolidation.TransportDetails {
	t.Helper()

	transport, err := consolidation.NewTransportDetails(consolidation.TransportModeAir, "MAWB-176-1234", "CargoJet")
	require.NoError(t, err)
	return transport
}

func TestDispatchConsolidationCommandHandler_Handle_BBXMembersDepartWithMother(t *testing.T) {
	// Arrange
	ctx := t.Context()
	baby := newBaggedShipment(t, "GRP-0100")
	consolidationEntity := newLockedConsolidation(t, shipment.ConsolidationTypeBBX, baby.ID())
	assignBaby(t, baby, consolidationEntity, shipment.ConsolidationTypeBBX)

	cmd, err := commands.NewDispatchConsolidationCommand(
		consolidationEntity.ID(), newAirTransport(t), "hub-ops", cutoffAt.Add(time.Hour))
	require.NoError(t, err)

	mockConsolidationRepo := new(MockConsolidationRepository)
	mockShipmentRepo := new(MockShipmentRepository)
	mockUoW := new(MockConsolidationUoW)
	mockFactory := new(MockConsolidationUoWFactory)
	publisher := &capturingPublisher{}

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("Rollback", ctx).Return(nil).Once()
	mockUoW.On("Commit", ctx).Return(nil).Once()
	mockUoW.On("ConsolidationRepository").Return(mockConsolidationRepo)
	mockUoW.On("ShipmentRepository").Return(mockShipmentRepo)
	mockConsolidationRepo.On("Get", ctx, consolidationEntity.ID()).Return(consolidationEntity, nil).Once()
	mockConsolidationRepo.On("Update", ctx, consolidationEntity).Return(nil).Once()
	mockShipmentRepo.On("GetMembers", ctx, consolidationEntity.ID()).
		Return([]*shipment.Shipment{baby}, nil).Once()
	mockShipmentRepo.On("Update", ctx, baby).Return(nil).Once()

	handler := commands.NewDispatchConsolidationCommandHandler(mockFactory, publisher)

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, consolidation.StatusInTransit, consolidationEntity.Status())
	assert.Equal(t, shipment.LinehaulDeparted, baby.Status())
	require.Len(t, publisher.events, 2)
	assert.Equal(t, "IN_TRANSIT", publisher.events[0].NewStatus)
	assert.Equal(t, "LINEHAUL_DEPARTED", publisher.events[1].NewStatus)
	mockConsolidationRepo.AssertExpectations(t)
	mockShipmentRepo.AssertExpectations(t)
}

func TestDispatchConsolidationCommandHandler_Handle_LBXMembersKeepOwnStatus(t *testing.T) {
	// Arrange
	ctx := t.Context()
	baby := newBaggedShipment(t, "GRP-0101")
	consolidationEntity := newLockedConsolidation(t, shipment.ConsolidationTypeLBX, baby.ID())
	assignBaby(t, baby, consolidationEntity, shipment.ConsolidationTypeLBX)

	cmd, err := commands.NewDispatchConsolidationCommand(
		consolidationEntity.ID(), newAirTransport(t), "hub-ops", cutoffAt.Add(time.Hour))
	require.NoError(t, err)

	mockConsolidationRepo := new(MockConsolidationRepository)
	mockShipmentRepo := new(MockShipmentRepository)
	mockUoW := new(MockConsolidationUoW)
	mockFactory := new(MockConsolidationUoWFactory)
	publisher := &capturingPublisher{}

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("Rollback", ctx).Return(nil).Once()
	mockUoW.On("Commit", ctx).Return(nil).Once()
	mockUoW.On("ConsolidationRepository").Return(mockConsolidationRepo)
	mockConsolidationRepo.On("Get", ctx, consolidationEntity.ID()).Return(consolidationEntity, nil).Once()
	mockConsolidationRepo.On("Update", ctx, consolidationEntity).Return(nil).Once()

	handler := commands.NewDispatchConsolidationCommandHandler(mockFactory, publisher)

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, consolidation.StatusInTransit, consolidationEntity.Status())
	assert.Equal(t, shipment.Bagged, baby.Status())
	mockShipmentRepo.AssertNotCalled(t, "GetMembers", ctx, mock.Anything)
	mockShipmentRepo.AssertNotCalled(t, "Update", ctx, mock.Anything)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, "IN_TRANSIT", publisher.events[0].NewStatus)
	mockConsolidationRepo.AssertExpectations(t)
}
