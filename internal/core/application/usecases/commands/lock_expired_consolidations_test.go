package commands_test

import (
	"testing"
	"time"

	"groupage/internal/core/application/usecases/commands"
	"groupage/internal/core/domain/model/consolidation"
	"groupage/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockExpiredConsolidationsCommandHandler_Handle(t *testing.T) {
	// Arrange
	ctx := t.Context()
	sweepAt := cutoffAt.Add(time.Minute)

	loaded := newOpenConsolidation(t)
	require.NoError(t, loaded.AddMember(kernel.NewUUID(), 10, 0.2, bookedAt.Add(time.Hour)))
	empty := newOpenConsolidation(t)

	cmd, err := commands.NewLockExpiredConsolidationsCommand(sweepAt, "cutoff-sweep")
	require.NoError(t, err)

	mockConsolidationRepo := new(MockConsolidationRepository)
	mockUoW := new(MockConsolidationUoW)
	mockFactory := new(MockConsolidationUoWFactory)
	publisher := &capturingPublisher{}

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("Rollback", ctx).Return(nil).Once()
	mockUoW.On("Commit", ctx).Return(nil).Once()
	mockUoW.On("ConsolidationRepository").Return(mockConsolidationRepo)
	mockConsolidationRepo.On("GetOpenPastCutoff", ctx, sweepAt).
		Return([]*consolidation.Consolidation{loaded, empty}, nil).Once()
	mockConsolidationRepo.On("Update", ctx, loaded).Return(nil).Once()

	handler := commands.NewLockExpiredConsolidationsCommandHandler(mockFactory, publisher)

	// Act
	locked, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, locked)
	assert.Equal(t, consolidation.StatusLocked, loaded.Status())

	// an empty consolidation stays open, there is nothing to freeze
	assert.Equal(t, consolidation.StatusOpen, empty.Status())
	mockConsolidationRepo.AssertNotCalled(t, "Update", ctx, empty)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "LOCKED", publisher.events[0].NewStatus)
	mockConsolidationRepo.AssertExpectations(t)
}

func TestLockExpiredConsolidationsCommandHandler_Handle_NothingExpired(t *testing.T) {
	// Arrange
	ctx := t.Context()
	sweepAt := cutoffAt.Add(time.Minute)

	cmd, err := commands.NewLockExpiredConsolidationsCommand(sweepAt, "cutoff-sweep")
	require.NoError(t, err)

	mockConsolidationRepo := new(MockConsolidationRepository)
	mockUoW := new(MockConsolidationUoW)
	mockFactory := new(MockConsolidationUoWFactory)
	publisher := &capturingPublisher{}

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("Rollback", ctx).Return(nil).Once()
	mockUoW.On("Commit", ctx).Return(nil).Once()
	mockUoW.On("ConsolidationRepository").Return(mockConsolidationRepo)
	mockConsolidationRepo.On("GetOpenPastCutoff", ctx, sweepAt).
		Return([]*consolidation.Consolidation{}, nil).Once()

	handler := commands.NewLockExpiredConsolidationsCommandHandler(mockFactory, publisher)

	// Act
	locked, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, locked)
	assert.Empty(t, publisher.events)
}
