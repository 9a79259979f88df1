package shipment_test

import (
	"testing"

	"groupage/internal/core/domain/model/shipment"
	"groupage/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "BOOKED", shipment.Booked.String())
	assert.Equal(t, "OUT_FOR_DELIVERY", shipment.OutForDelivery.String())
	assert.Equal(t, "RETURN_IN_TRANSIT", shipment.ReturnInTransit.String())
	assert.Equal(t, "EXCEPTION", shipment.Exception.String())
	assert.Equal(t, "UNKNOWN", shipment.Unknown.String())
	assert.Equal(t, "UNKNOWN", shipment.Status(99).String())
}

func TestStatus_Legacy(t *testing.T) {
	// The deprecated mirror must always be the lowercase canonical token.
	assert.Equal(t, "booked", shipment.Booked.Legacy())
	assert.Equal(t, "at_destination_hub", shipment.AtDestinationHub.Legacy())
	assert.Equal(t, "delivered", shipment.Delivered.Legacy())
}

func TestStatus_Validate(t *testing.T) {
	t.Run("valid statuses pass", func(t *testing.T) {
		for _, s := range []shipment.Status{
			shipment.Booked, shipment.PickedUp, shipment.CustomsHold,
			shipment.Delivered, shipment.Returned, shipment.Cancelled, shipment.Exception,
		} {
			require.NoError(t, s.Validate(), s.String())
		}
	})

	t.Run("unknown and out-of-range fail", func(t *testing.T) {
		require.Error(t, shipment.Unknown.Validate())
		require.Error(t, shipment.Status(-1).Validate())
		require.Error(t, shipment.Status(99).Validate())
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, shipment.Delivered.IsTerminal())
	assert.True(t, shipment.Returned.IsTerminal())
	assert.True(t, shipment.Cancelled.IsTerminal())
	assert.False(t, shipment.Booked.IsTerminal())
	assert.False(t, shipment.CustomsHold.IsTerminal())
	assert.False(t, shipment.Exception.IsTerminal())
}

func TestStatus_CanTransitionTo(t *testing.T) {
	t.Run("forward edges", func(t *testing.T) {
		assert.True(t, shipment.Booked.CanTransitionTo(shipment.PickupScheduled))
		assert.True(t, shipment.Booked.CanTransitionTo(shipment.PickedUp))
		assert.True(t, shipment.AtOriginHub.CanTransitionTo(shipment.Bagged))
		assert.True(t, shipment.AtOriginHub.CanTransitionTo(shipment.LinehaulDeparted))
		assert.True(t, shipment.AtDestinationHub.CanTransitionTo(shipment.CustomsHold))
		assert.True(t, shipment.AtDestinationHub.CanTransitionTo(shipment.OutForDelivery))
		assert.True(t, shipment.CustomsHold.CanTransitionTo(shipment.CustomsCleared))
		assert.True(t, shipment.OutForDelivery.CanTransitionTo(shipment.Delivered))
	})

	t.Run("customs hold cannot skip clearance", func(t *testing.T) {
		assert.False(t, shipment.CustomsHold.CanTransitionTo(shipment.Delivered))
		assert.False(t, shipment.CustomsHold.CanTransitionTo(shipment.OutForDelivery))
	})

	t.Run("no skipping ahead", func(t *testing.T) {
		assert.False(t, shipment.Booked.CanTransitionTo(shipment.Delivered))
		assert.False(t, shipment.PickedUp.CanTransitionTo(shipment.LinehaulDeparted))
	})

	t.Run("no moving backwards", func(t *testing.T) {
		assert.False(t, shipment.Delivered.CanTransitionTo(shipment.OutForDelivery))
		assert.False(t, shipment.AtDestinationHub.CanTransitionTo(shipment.Booked))
	})

	t.Run("return branch", func(t *testing.T) {
		assert.True(t, shipment.ReturnInitiated.CanTransitionTo(shipment.ReturnInTransit))
		assert.True(t, shipment.ReturnInTransit.CanTransitionTo(shipment.Returned))
		assert.False(t, shipment.ReturnInitiated.CanTransitionTo(shipment.Returned))
	})

	t.Run("terminal statuses have no edges", func(t *testing.T) {
		assert.False(t, shipment.Delivered.CanTransitionTo(shipment.ReturnInitiated))
		assert.False(t, shipment.Cancelled.CanTransitionTo(shipment.Booked))
		assert.False(t, shipment.Returned.CanTransitionTo(shipment.ReturnInTransit))
	})
}

func TestParseStatus(t *testing.T) {
	t.Run("round trips canonical tokens", func(t *testing.T) {
		for _, s := range []shipment.Status{
			shipment.Booked, shipment.Bagged, shipment.LinehaulArrived,
			shipment.CustomsCleared, shipment.Delivered, shipment.Cancelled,
		} {
			parsed, err := shipment.ParseStatus(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("rejects unknown tokens", func(t *testing.T) {
		_, err := shipment.ParseStatus("UNKNOWN")
		require.Error(t, err)

		_, err = shipment.ParseStatus("definitely-not-a-status")
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestTranslateLegacyStatus(t *testing.T) {
	t.Run("translates documented tokens", func(t *testing.T) {
		cases := map[string]shipment.Status{
			"created":          shipment.Booked,
			"pending":          shipment.Booked,
			"pickup_assigned":  shipment.PickupScheduled,
			"picked":           shipment.PickedUp,
			"at_hub":           shipment.AtOriginHub,
			"in_transit":       shipment.LinehaulDeparted,
			"customs":          shipment.CustomsHold,
			"ofd":              shipment.OutForDelivery,
			"delivered":        shipment.Delivered,
			"rto_initiated":    shipment.ReturnInitiated,
			"rto":              shipment.ReturnInTransit,
			"rto_delivered":    shipment.Returned,
			"canceled":         shipment.Cancelled,
			"problem":          shipment.Exception,
		}

		for token, want := range cases {
			got, err := shipment.TranslateLegacyStatus(token)
			require.NoError(t, err, token)
			assert.Equal(t, want, got, token)
		}
	})

	t.Run("is case and whitespace insensitive", func(t *testing.T) {
		got, err := shipment.TranslateLegacyStatus("  Delivered ")
		require.NoError(t, err)
		assert.Equal(t, shipment.Delivered, got)
	})

	t.Run("rejects untranslated free text", func(t *testing.T) {
		_, err := shipment.TranslateLegacyStatus("somewhere in a warehouse")
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
