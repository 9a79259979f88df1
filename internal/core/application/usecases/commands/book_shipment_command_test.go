package commands_test

import (
	"testing"
	"time"

	"groupage/internal/core/application/usecases/commands"
	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/shipment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookShipmentCommand(t *testing.T) {
	destinationBranchID := kernel.NewUUID()

	t.Run("valid command generates a shipment ID", func(t *testing.T) {
		// Act
		cmd, err := commands.NewBookShipmentCommand(
			"GRP-0001", shipment.ConsolidationTypeIndividual, destinationBranchID, bookedAt, "booking-desk")

		// Assert
		require.NoError(t, err)
		assert.NoError(t, cmd.ShipmentID().Validate())
		assert.Equal(t, "GRP-0001", cmd.TrackingNumber())
		assert.Equal(t, shipment.ConsolidationTypeIndividual, cmd.ConsolidationType())
		assert.Equal(t, destinationBranchID, cmd.DestinationBranchID())
		assert.Equal(t, bookedAt, cmd.BookedAt())
		assert.Equal(t, "booking-desk", cmd.Actor())
		assert.NoError(t, cmd.Validate())
	})

	t.Run("tracking number is required", func(t *testing.T) {
		_, err := commands.NewBookShipmentCommand(
			"", shipment.ConsolidationTypeIndividual, destinationBranchID, bookedAt, "booking-desk")

		require.Error(t, err)
	})

	t.Run("consolidation type must be known", func(t *testing.T) {
		_, err := commands.NewBookShipmentCommand(
			"GRP-0001", shipment.ConsolidationTypeUnknown, destinationBranchID, bookedAt, "booking-desk")

		require.Error(t, err)
	})

	t.Run("booked time is required", func(t *testing.T) {
		_, err := commands.NewBookShipmentCommand(
			"GRP-0001", shipment.ConsolidationTypeIndividual, destinationBranchID, time.Time{}, "booking-desk")

		require.Error(t, err)
	})

	t.Run("zero value command fails validation", func(t *testing.T) {
		var cmd commands.BookShipmentCommand

		require.ErrorIs(t, cmd.Validate(), commands.ErrBookShipmentCommandIsNotConstructed)
	})
}
