package consolidation_test

import (
	"testing"
	"time"

	"groupage/internal/core/domain/model/consolidation"
	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/lifecycle"
	"groupage/internal/core/domain/model/shipment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	openedAt = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	cutoffAt = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
)

func newCapacity(t *testing.T) consolidation.Capacity {
	t.Helper()

	capacity, err := consolidation.NewCapacity(3, 100, 1.5)
	require.NoError(t, err)
	return capacity
}

func newOpenConsolidation(t *testing.T) *consolidation.Consolidation {
	t.Helper()

	c, err := consolidation.NewConsolidation(
		kernel.NewUUID(),
		"BBX-2026-0001",
		shipment.ConsolidationTypeBBX,
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		newCapacity(t),
		cutoffAt,
		openedAt,
		"hub-operator",
	)
	require.NoError(t, err)
	c.PopEvents()
	return c
}

func addMember(t *testing.T, c *consolidation.Consolidation, weightKg, volumeM3 float64) kernel.UUID {
	t.Helper()

	shipmentID := kernel.NewUUID()
	require.NoError(t, c.AddMember(shipmentID, weightKg, volumeM3, openedAt.Add(time.Minute)))
	return shipmentID
}

func newTransport(t *testing.T) consolidation.TransportDetails {
	t.Helper()

	transport, err := consolidation.NewTransportDetails(consolidation.TransportModeAir, "MAWB-176-1234", "CargoJet")
	require.NoError(t, err)
	return transport
}

// dispatchWithMembers brings a fresh consolidation to IN_TRANSIT with the given
// member loads and returns the member shipment IDs.
func dispatchWithMembers(t *testing.T, c *consolidation.Consolidation, loads ...float64) []kernel.UUID {
	t.Helper()

	ids := make([]kernel.UUID, 0, len(loads))
	for _, weight := range loads {
		ids = append(ids, addMember(t, c, weight, 0.1))
	}
	require.NoError(t, c.Lock(cutoffAt, "hub-operator"))
	require.NoError(t, c.Dispatch(newTransport(t), cutoffAt.Add(time.Hour), "hub-operator"))
	return ids
}

// deconsolidating additionally arrives the mother and starts the unpack.
func deconsolidating(t *testing.T, c *consolidation.Consolidation, loads ...float64) []kernel.UUID {
	t.Helper()

	ids := dispatchWithMembers(t, c, loads...)
	require.NoError(t, c.Arrive(cutoffAt.Add(10*time.Hour), "dest-hub"))
	require.NoError(t, c.BeginDeconsolidation("dest-hub", cutoffAt.Add(11*time.Hour)))
	return ids
}

func TestNewConsolidation(t *testing.T) {
	t.Run("creates open consolidation with event", func(t *testing.T) {
		id := kernel.NewUUID()

		c, err := consolidation.NewConsolidation(
			id, "LBX-2026-0042", shipment.ConsolidationTypeLBX, kernel.NewUUID(),
			kernel.NewUUID(), kernel.NewUUID(), newCapacity(t), cutoffAt, openedAt, "hub-operator")

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.Equal(t, consolidation.StatusOpen, c.Status())
		assert.Equal(t, shipment.ConsolidationTypeLBX, c.Type())
		assert.Zero(t, c.TotalPieces())

		events := c.PopEvents()
		require.Len(t, events, 1)
		assert.Equal(t, lifecycle.EntityTypeConsolidation, events[0].EntityType)
		assert.True(t, events[0].EntityID.IsEqual(id))
		assert.Empty(t, events[0].PreviousStatus)
		assert.Equal(t, "OPEN", events[0].NewStatus)
	})

	t.Run("rejects individual type", func(t *testing.T) {
		_, err := consolidation.NewConsolidation(
			kernel.NewUUID(), "X", shipment.ConsolidationTypeIndividual, kernel.NewUUID(),
			kernel.NewUUID(), kernel.NewUUID(), newCapacity(t), cutoffAt, openedAt, "a")

		require.Error(t, err)
	})

	t.Run("rejects same origin and destination", func(t *testing.T) {
		branchID := kernel.NewUUID()

		_, err := consolidation.NewConsolidation(
			kernel.NewUUID(), "X", shipment.ConsolidationTypeBBX, kernel.NewUUID(),
			branchID, branchID, newCapacity(t), cutoffAt, openedAt, "a")

		require.Error(t, err)
	})
}

func TestConsolidationAddMember(t *testing.T) {
	t.Run("adds member and updates totals", func(t *testing.T) {
		c := newOpenConsolidation(t)

		shipmentID := addMember(t, c, 40, 0.5)

		assert.Equal(t, 1, c.TotalPieces())
		assert.InEpsilon(t, 40.0, c.TotalWeightKg(), 1e-9)
		assert.InEpsilon(t, 0.5, c.TotalVolumeM3(), 1e-9)

		member := c.Member(shipmentID)
		require.NotNil(t, member)
		assert.Equal(t, 1, member.Sequence())
		assert.Equal(t, consolidation.MembershipAdded, member.Status())
	})

	t.Run("rejects duplicate member", func(t *testing.T) {
		c := newOpenConsolidation(t)
		shipmentID := addMember(t, c, 10, 0.1)

		err := c.AddMember(shipmentID, 10, 0.1, openedAt.Add(time.Minute))

		require.ErrorIs(t, err, consolidation.ErrMemberAlreadyAdded)
	})

	t.Run("rejects add after cutoff", func(t *testing.T) {
		c := newOpenConsolidation(t)

		err := c.AddMember(kernel.NewUUID(), 10, 0.1, cutoffAt.Add(time.Second))

		require.ErrorIs(t, err, consolidation.ErrCutoffPassed)
	})

	t.Run("rejects add over piece capacity", func(t *testing.T) {
		c := newOpenConsolidation(t)
		for range 3 {
			addMember(t, c, 10, 0.1)
		}

		err := c.AddMember(kernel.NewUUID(), 10, 0.1, openedAt.Add(time.Minute))

		require.ErrorIs(t, err, consolidation.ErrCapacityExceeded)
		var capacityErr *consolidation.CapacityExceededError
		require.ErrorAs(t, err, &capacityErr)
		assert.Equal(t, "pieces", capacityErr.Dimension)
	})

	t.Run("failed add leaves totals untouched", func(t *testing.T) {
		c := newOpenConsolidation(t)
		addMember(t, c, 60, 0.5)

		err := c.AddMember(kernel.NewUUID(), 50, 0.5, openedAt.Add(time.Minute))

		require.ErrorIs(t, err, consolidation.ErrCapacityExceeded)
		var capacityErr *consolidation.CapacityExceededError
		require.ErrorAs(t, err, &capacityErr)
		assert.Equal(t, "weightKg", capacityErr.Dimension)
		assert.Equal(t, 1, c.TotalPieces())
		assert.InEpsilon(t, 60.0, c.TotalWeightKg(), 1e-9)
	})

	t.Run("rejects add over volume capacity", func(t *testing.T) {
		c := newOpenConsolidation(t)
		addMember(t, c, 10, 1.4)

		err := c.AddMember(kernel.NewUUID(), 10, 0.2, openedAt.Add(time.Minute))

		var capacityErr *consolidation.CapacityExceededError
		require.ErrorAs(t, err, &capacityErr)
		assert.Equal(t, "volumeM3", capacityErr.Dimension)
	})

	t.Run("rejects non-positive load", func(t *testing.T) {
		c := newOpenConsolidation(t)

		require.Error(t, c.AddMember(kernel.NewUUID(), 0, 0.1, openedAt.Add(time.Minute)))
		require.Error(t, c.AddMember(kernel.NewUUID(), 10, -1, openedAt.Add(time.Minute)))
	})
}

func TestConsolidationRemoveMember(t *testing.T) {
	t.Run("removes member, keeps audit row, frees capacity", func(t *testing.T) {
		c := newOpenConsolidation(t)
		shipmentID := addMember(t, c, 90, 1.0)

		require.NoError(t, c.RemoveMember(shipmentID, openedAt.Add(2*time.Minute)))

		assert.Zero(t, c.TotalPieces())
		assert.InDelta(t, 0.0, c.TotalWeightKg(), 1e-9)
		assert.Nil(t, c.Member(shipmentID))
		require.Len(t, c.Memberships(), 1)
		removed := c.Memberships()[0]
		assert.Equal(t, consolidation.MembershipRemoved, removed.Status())
		require.NotNil(t, removed.RemovedAt())

		// freed capacity can be reused
		require.NoError(t, c.AddMember(kernel.NewUUID(), 90, 1.0, openedAt.Add(3*time.Minute)))
	})

	t.Run("rejects unknown member", func(t *testing.T) {
		c := newOpenConsolidation(t)

		require.ErrorIs(t, c.RemoveMember(kernel.NewUUID(), openedAt), consolidation.ErrMemberNotFound)
	})
}

func TestConsolidationLock(t *testing.T) {
	t.Run("locks membership as one-way gate", func(t *testing.T) {
		c := newOpenConsolidation(t)
		shipmentID := addMember(t, c, 10, 0.1)

		require.NoError(t, c.Lock(cutoffAt, "hub-operator"))

		assert.Equal(t, consolidation.StatusLocked, c.Status())
		assert.Equal(t, consolidation.MembershipLocked, c.Member(shipmentID).Status())

		assert.ErrorIs(t, c.AddMember(kernel.NewUUID(), 1, 0.1, cutoffAt), consolidation.ErrNotOpen)
		assert.ErrorIs(t, c.RemoveMember(shipmentID, cutoffAt), consolidation.ErrNotOpen)

		events := c.PopEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "OPEN", events[0].PreviousStatus)
		assert.Equal(t, "LOCKED", events[0].NewStatus)
	})

	t.Run("rejects locking an empty consolidation", func(t *testing.T) {
		c := newOpenConsolidation(t)

		require.ErrorIs(t, c.Lock(cutoffAt, "hub-operator"), consolidation.ErrEmptyConsolidation)
	})

	t.Run("empty after removals still counts as empty", func(t *testing.T) {
		c := newOpenConsolidation(t)
		shipmentID := addMember(t, c, 10, 0.1)
		require.NoError(t, c.RemoveMember(shipmentID, openedAt.Add(time.Minute)))

		require.ErrorIs(t, c.Lock(cutoffAt, "hub-operator"), consolidation.ErrEmptyConsolidation)
	})
}

func TestConsolidationDispatch(t *testing.T) {
	t.Run("dispatch moves members in transit", func(t *testing.T) {
		c := newOpenConsolidation(t)
		ids := dispatchWithMembers(t, c, 10, 20)

		assert.Equal(t, consolidation.StatusInTransit, c.Status())
		require.NotNil(t, c.Transport())
		assert.Equal(t, consolidation.TransportModeAir, c.Transport().Mode())
		require.NotNil(t, c.DispatchedAt())
		for _, id := range ids {
			assert.Equal(t, consolidation.MembershipInTransit, c.Member(id).Status())
		}
	})

	t.Run("rejects dispatch from open", func(t *testing.T) {
		c := newOpenConsolidation(t)
		addMember(t, c, 10, 0.1)

		err := c.Dispatch(newTransport(t), cutoffAt, "hub-operator")

		require.ErrorIs(t, err, consolidation.ErrInvalidStatusTransition)
		var transitionErr *consolidation.StatusTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, consolidation.StatusOpen, transitionErr.From)
		assert.Equal(t, consolidation.StatusInTransit, transitionErr.To)
	})

	t.Run("rejects unconstructed transport details", func(t *testing.T) {
		c := newOpenConsolidation(t)
		addMember(t, c, 10, 0.1)
		require.NoError(t, c.Lock(cutoffAt, "hub-operator"))

		err := c.Dispatch(consolidation.TransportDetails{}, cutoffAt, "hub-operator")

		require.Error(t, err)
		assert.Equal(t, consolidation.StatusLocked, c.Status())
	})
}

func TestConsolidationDeconsolidation(t *testing.T) {
	t.Run("full unpack releases every member", func(t *testing.T) {
		c := newOpenConsolidation(t)
		ids := deconsolidating(t, c, 10, 20)

		for _, id := range ids {
			require.NoError(t, c.ScanMemberOut(id, "dest-hub", cutoffAt.Add(12*time.Hour)))
			require.NoError(t, c.RecordMemberRelease(id, "dest-hub", cutoffAt.Add(12*time.Hour)))
		}
		require.NoError(t, c.Complete("dest-hub", cutoffAt.Add(13*time.Hour)))

		assert.Equal(t, consolidation.StatusCompleted, c.Status())

		log := c.DeconsolidationLog()
		require.Len(t, log, 6) // started + 2 scans + 2 releases + completed
		assert.Equal(t, consolidation.DeconsolidationStarted, log[0].Type())
		assert.Equal(t, consolidation.DeconsolidationCompleted, log[5].Type())
	})

	t.Run("scan out twice is rejected", func(t *testing.T) {
		c := newOpenConsolidation(t)
		ids := deconsolidating(t, c, 10)
		require.NoError(t, c.ScanMemberOut(ids[0], "dest-hub", cutoffAt))

		require.ErrorIs(t, c.ScanMemberOut(ids[0], "dest-hub", cutoffAt), consolidation.ErrMemberAlreadyScanned)
	})

	t.Run("release requires prior scan out", func(t *testing.T) {
		c := newOpenConsolidation(t)
		ids := deconsolidating(t, c, 10)

		require.ErrorIs(t, c.RecordMemberRelease(ids[0], "dest-hub", cutoffAt), consolidation.ErrMemberNotScanned)
	})

	t.Run("unpack operations require deconsolidating status", func(t *testing.T) {
		c := newOpenConsolidation(t)
		ids := dispatchWithMembers(t, c, 10)

		require.ErrorIs(t, c.ScanMemberOut(ids[0], "dest-hub", cutoffAt), consolidation.ErrNotDeconsolidating)
		require.ErrorIs(t, c.Complete("dest-hub", cutoffAt), consolidation.ErrNotDeconsolidating)
	})

	t.Run("missing member blocks completion until resolved", func(t *testing.T) {
		c := newOpenConsolidation(t)
		ids := deconsolidating(t, c, 10, 20)
		require.NoError(t, c.ScanMemberOut(ids[0], "dest-hub", cutoffAt))

		missingID := ids[1]
		require.NoError(t, c.RecordDiscrepancy(
			&missingID, consolidation.DiscrepancyMissing, "not in bag", "dest-hub", cutoffAt))
		require.ErrorIs(t, c.Complete("dest-hub", cutoffAt), consolidation.ErrIncompleteRelease)

		require.NoError(t, c.ResolveDiscrepancy(missingID, "written off, claim filed", "supervisor", cutoffAt))
		require.NoError(t, c.Complete("dest-hub", cutoffAt))

		discrepancy := c.Member(missingID).Discrepancy()
		require.NotNil(t, discrepancy)
		assert.True(t, discrepancy.IsResolved())
		assert.Equal(t, "supervisor", discrepancy.ResolvedBy())
	})

	t.Run("unmanifested shipment is log-only and does not block", func(t *testing.T) {
		c := newOpenConsolidation(t)
		ids := deconsolidating(t, c, 10)
		require.NoError(t, c.ScanMemberOut(ids[0], "dest-hub", cutoffAt))

		foundID := kernel.NewUUID()
		require.NoError(t, c.RecordDiscrepancy(
			&foundID, consolidation.DiscrepancyUnmanifested, "no manifest entry", "dest-hub", cutoffAt))

		require.NoError(t, c.Complete("dest-hub", cutoffAt))
	})

	t.Run("duplicate discrepancy is rejected", func(t *testing.T) {
		c := newOpenConsolidation(t)
		ids := deconsolidating(t, c, 10)
		require.NoError(t, c.RecordDiscrepancy(
			&ids[0], consolidation.DiscrepancyMissing, "", "dest-hub", cutoffAt))

		err := c.RecordDiscrepancy(&ids[0], consolidation.DiscrepancyDamaged, "", "dest-hub", cutoffAt)

		require.ErrorIs(t, err, consolidation.ErrDiscrepancyAlreadyRecorded)
	})

	t.Run("resolving without discrepancy is rejected", func(t *testing.T) {
		c := newOpenConsolidation(t)
		ids := deconsolidating(t, c, 10)

		require.ErrorIs(t, c.ResolveDiscrepancy(ids[0], "x", "a", cutoffAt), consolidation.ErrNoDiscrepancy)
	})
}

func TestConsolidationCancel(t *testing.T) {
	t.Run("cancel from open", func(t *testing.T) {
		c := newOpenConsolidation(t)

		require.NoError(t, c.Cancel("hub-operator", openedAt.Add(time.Hour)))

		assert.Equal(t, consolidation.StatusCancelled, c.Status())
		assert.ErrorIs(t, c.Cancel("hub-operator", openedAt), consolidation.ErrConsolidationIsTerminal)
	})

	t.Run("cancel from locked", func(t *testing.T) {
		c := newOpenConsolidation(t)
		addMember(t, c, 10, 0.1)
		require.NoError(t, c.Lock(cutoffAt, "hub-operator"))

		require.NoError(t, c.Cancel("hub-operator", cutoffAt))
	})

	t.Run("cancel rejected once in transit", func(t *testing.T) {
		c := newOpenConsolidation(t)
		dispatchWithMembers(t, c, 10)

		require.ErrorIs(t, c.Cancel("hub-operator", cutoffAt), consolidation.ErrInvalidStatusTransition)
	})
}

func TestRestoreConsolidation(t *testing.T) {
	t.Run("recomputes totals from active members", func(t *testing.T) {
		active, err := consolidation.RestoreMembership(
			kernel.NewUUID(), 1, 40, 0.4, consolidation.MembershipLocked, openedAt, nil, nil)
		require.NoError(t, err)
		removedAt := openedAt.Add(time.Minute)
		removed, err := consolidation.RestoreMembership(
			kernel.NewUUID(), 2, 30, 0.3, consolidation.MembershipRemoved, openedAt, &removedAt, nil)
		require.NoError(t, err)

		c, err := consolidation.RestoreConsolidation(
			kernel.NewUUID(), "BBX-2026-0001", shipment.ConsolidationTypeBBX, kernel.NewUUID(),
			kernel.NewUUID(), kernel.NewUUID(), newCapacity(t), cutoffAt,
			consolidation.StatusLocked, []*consolidation.Membership{active, removed},
			nil, nil, nil, nil, 3)

		require.NoError(t, err)
		assert.Equal(t, 1, c.TotalPieces())
		assert.InEpsilon(t, 40.0, c.TotalWeightKg(), 1e-9)
		assert.InEpsilon(t, 0.4, c.TotalVolumeM3(), 1e-9)
		assert.Equal(t, 3, c.Version())
		assert.Empty(t, c.PopEvents(), "restore records no events")
	})

	t.Run("rejects invalid version", func(t *testing.T) {
		_, err := consolidation.RestoreConsolidation(
			kernel.NewUUID(), "BBX-2026-0001", shipment.ConsolidationTypeBBX, kernel.NewUUID(),
			kernel.NewUUID(), kernel.NewUUID(), newCapacity(t), cutoffAt,
			consolidation.StatusOpen, nil, nil, nil, nil, nil, 0)

		require.Error(t, err)
	})
}

func TestCapacity(t *testing.T) {
	t.Run("rejects non-positive bounds", func(t *testing.T) {
		_, err := consolidation.NewCapacity(0, 100, 1)
		require.Error(t, err)
		_, err = consolidation.NewCapacity(3, 0, 1)
		require.Error(t, err)
		_, err = consolidation.NewCapacity(3, 100, 0)
		require.Error(t, err)
	})
}

func TestTransportDetails(t *testing.T) {
	t.Run("requires mode and document number", func(t *testing.T) {
		_, err := consolidation.NewTransportDetails(consolidation.TransportModeUnknown, "DOC", "")
		require.Error(t, err)
		_, err = consolidation.NewTransportDetails(consolidation.TransportModeRoad, " ", "")
		require.Error(t, err)
	})

	t.Run("parses mode token", func(t *testing.T) {
		mode, err := consolidation.ParseTransportMode("sea")
		require.NoError(t, err)
		assert.Equal(t, consolidation.TransportModeSea, mode)

		_, err = consolidation.ParseTransportMode("TELEPORT")
		require.Error(t, err)
	})
}
