package services_test

import (
	"testing"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/scanevent"
	"groupage/internal/core/domain/model/shipment"
	"groupage/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var routedAt = time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)

func bookedShipment(t *testing.T) *shipment.Shipment {
	t.Helper()

	s, err := shipment.NewShipment(
		kernel.NewUUID(), "GRP-0001", shipment.ConsolidationTypeIndividual,
		kernel.NewUUID(), routedAt.Add(-24*time.Hour), "booking-desk")
	require.NoError(t, err)
	s.PopEvents()
	return s
}

func fieldScan(t *testing.T, scanType scanevent.ScanType, location *kernel.GeoPoint, branchID *kernel.UUID) *scanevent.ScanEvent {
	t.Helper()

	var pod *scanevent.PODArtifacts
	if scanType.RequiresPOD() {
		pod = &scanevent.PODArtifacts{SignatureURL: "s3://pod/sig.png"}
	}

	e, err := scanevent.NewScanEvent(
		kernel.NewUUID(), "dev42-100", kernel.NewUUID(), "GRP-0001", scanType,
		routedAt, routedAt.Add(time.Second), "dev42", "courier-7", location, nil, branchID, pod)
	require.NoError(t, err)
	return e
}

func TestScanRouterRoute(t *testing.T) {
	router := services.NewScanRouter()

	t.Run("pickup scan advances the shipment", func(t *testing.T) {
		s := bookedShipment(t)
		branchID := kernel.NewUUID()
		event := fieldScan(t, scanevent.ScanTypePickup, nil, &branchID)

		transition, err := router.Route(s, event)

		require.NoError(t, err)
		assert.True(t, transition.Applied)
		assert.Equal(t, "PICKED_UP", transition.ResultingStatus)
		assert.Equal(t, shipment.PickedUp, s.Status())
		require.NotNil(t, s.LastScanEventID())
		assert.True(t, s.LastScanEventID().IsEqual(event.ID()))
		require.NotNil(t, s.CurrentLocation())
		assert.Equal(t, kernel.LocationKindHub, s.CurrentLocation().Kind())
		assert.Equal(t, *event.TransitionOutcome(), transition)
	})

	t.Run("rejected transition is recorded, not dropped", func(t *testing.T) {
		s := bookedShipment(t)
		event := fieldScan(t, scanevent.ScanTypeDelivery, nil, nil)

		transition, err := router.Route(s, event)

		require.NoError(t, err)
		assert.False(t, transition.Applied)
		assert.Equal(t, "BOOKED", transition.ResultingStatus)
		assert.NotEmpty(t, transition.RejectionReason)
		assert.Equal(t, shipment.Booked, s.Status(), "status unchanged")
		require.NotNil(t, s.LastScanEventID(), "scan pointer still moves")
	})

	t.Run("checkpoint scan moves the pointer only", func(t *testing.T) {
		s := bookedShipment(t)
		event := fieldScan(t, scanevent.ScanTypeCheckpoint, nil, nil)

		transition, err := router.Route(s, event)

		require.NoError(t, err)
		assert.False(t, transition.Applied)
		assert.Empty(t, transition.RejectionReason)
		assert.Equal(t, "BOOKED", transition.ResultingStatus)
	})

	t.Run("routing twice is rejected", func(t *testing.T) {
		s := bookedShipment(t)
		event := fieldScan(t, scanevent.ScanTypePickup, nil, nil)
		_, err := router.Route(s, event)
		require.NoError(t, err)

		_, err = router.Route(s, event)

		require.ErrorIs(t, err, scanevent.ErrTransitionAlreadyAttached)
	})
}

func TestScanRouterValidateGeofence(t *testing.T) {
	router := services.NewScanRouter()

	hub, err := kernel.NewGeoPoint(52.52, 13.405)
	require.NoError(t, err)
	fence, err := kernel.NewGeofence(hub, 500)
	require.NoError(t, err)

	t.Run("no geofence configured passes", func(t *testing.T) {
		event := fieldScan(t, scanevent.ScanTypePickup, nil, nil)

		validation := router.ValidateGeofence(event, nil)

		assert.True(t, validation.IsValidated)
		assert.Nil(t, validation.IsWithinGeofence)
	})

	t.Run("fix inside the fence validates", func(t *testing.T) {
		nearby, err := kernel.NewGeoPoint(52.521, 13.406)
		require.NoError(t, err)
		event := fieldScan(t, scanevent.ScanTypePickup, &nearby, nil)

		validation := router.ValidateGeofence(event, &fence)

		assert.True(t, validation.IsValidated)
		require.NotNil(t, validation.IsWithinGeofence)
		assert.True(t, *validation.IsWithinGeofence)
		require.NotNil(t, validation.DistanceFromExpectedM)
		assert.Less(t, *validation.DistanceFromExpectedM, 500.0)
	})

	t.Run("fix outside the fence is flagged, not blocked", func(t *testing.T) {
		faraway, err := kernel.NewGeoPoint(48.8566, 2.3522)
		require.NoError(t, err)
		event := fieldScan(t, scanevent.ScanTypePickup, &faraway, nil)

		validation := router.ValidateGeofence(event, &fence)

		assert.False(t, validation.IsValidated)
		require.NotNil(t, validation.IsWithinGeofence)
		assert.False(t, *validation.IsWithinGeofence)
		assert.NotEmpty(t, validation.ValidationErrors)
	})

	t.Run("missing fix with configured fence is flagged", func(t *testing.T) {
		event := fieldScan(t, scanevent.ScanTypePickup, nil, nil)

		validation := router.ValidateGeofence(event, &fence)

		assert.False(t, validation.IsValidated)
		assert.NotEmpty(t, validation.ValidationErrors)
	})
}
