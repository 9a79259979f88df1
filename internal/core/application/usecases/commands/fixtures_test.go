package commands_test

import (
	"testing"
	"time"

	"groupage/internal/core/domain/model/consolidation"
	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/shipment"

	"github.com/stretchr/testify/require"
)

var (
	bookedAt = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	cutoffAt = time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC)
)

func newBookedShipment(t *testing.T, trackingNumber string) *shipment.Shipment {
	t.Helper()

	s, err := shipment.NewShipment(
		kernel.NewUUID(),
		trackingNumber,
		shipment.ConsolidationTypeIndividual,
		kernel.NewUUID(),
		bookedAt,
		"booking-desk",
	)
	require.NoError(t, err)
	s.PopEvents()
	return s
}

// newBaggedShipment walks a booked shipment to BAGGED, the state babies are
// in when they join a physical consolidation.
func newBaggedShipment(t *testing.T, trackingNumber string) *shipment.Shipment {
	t.Helper()

	s := newBookedShipment(t, trackingNumber)
	for i, status := range []shipment.Status{shipment.PickedUp, shipment.AtOriginHub, shipment.Bagged} {
		require.NoError(t, s.Apply(status, bookedAt.Add(time.Duration(i+1)*time.Hour), "hub-ops"))
	}
	s.PopEvents()
	return s
}

func newOpenConsolidation(t *testing.T) *consolidation.Consolidation {
	t.Helper()

	capacity, err := consolidation.NewCapacity(3, 100, 1.5)
	require.NoError(t, err)

	c, err := consolidation.NewConsolidation(
		kernel.NewUUID(),
		"GRP-DXB-LHR-042",
		shipment.ConsolidationTypeBBX,
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		capacity,
		cutoffAt,
		bookedAt,
		"hub-ops",
	)
	require.NoError(t, err)
	c.PopEvents()
	return c
}

// newDeconsolidatingConsolidation drives a consolidation with the given
// members through lock, linehaul and arrival into the unpack phase.
func newDeconsolidatingConsolidation(t *testing.T, memberIDs ...kernel.UUID) *consolidation.Consolidation {
	t.Helper()

	c := newOpenConsolidation(t)
	for i, id := range memberIDs {
		require.NoError(t, c.AddMember(id, 10+float64(i), 0.2, bookedAt.Add(time.Hour)))
	}

	transport, err := consolidation.NewTransportDetails(consolidation.TransportModeAir, "MAWB-176-1234", "CargoJet")
	require.NoError(t, err)

	require.NoError(t, c.Lock(cutoffAt, "hub-ops"))
	require.NoError(t, c.Dispatch(transport, cutoffAt.Add(time.Hour), "hub-ops"))
	require.NoError(t, c.Arrive(cutoffAt.Add(10*time.Hour), "hub-ops"))
	require.NoError(t, c.BeginDeconsolidation("dest-ops", cutoffAt.Add(11*time.Hour)))
	c.PopEvents()
	return c
}
