package scaneventrepo_test

import (
	"context"
	"testing"
	"time"

	"groupage/internal/adapters/out/postgres/scaneventrepo"
	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/scanevent"
	"groupage/internal/core/ports"
	"groupage/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ScanEventRepositoryIntegrationTestSuite provides integration tests for
// ScanEventRepository using PostgreSQL containers. The database must be
// opened with TranslateError so the unique sync key violation surfaces as
// gorm.ErrDuplicatedKey.
type ScanEventRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *scaneventrepo.GormScanEventRepository
}

func (suite *ScanEventRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&scaneventrepo.ScanEventDTO{}))
}

func (suite *ScanEventRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE scan_events").Error)
	suite.repository = scaneventrepo.NewGormScanEventRepository(suite.db)
}

func (suite *ScanEventRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

var scanOccurredAt = time.Date(2026, 3, 10, 11, 30, 0, 0, time.UTC)

func (suite *ScanEventRepositoryIntegrationTestSuite) newScanEvent(
	syncKey string, shipmentID kernel.UUID, occurredAt time.Time,
) *scanevent.ScanEvent {
	location, err := kernel.NewGeoPoint(25.2532, 55.3657)
	suite.Require().NoError(err)
	accuracy := 4.5
	branchID := kernel.NewUUID()

	event, err := scanevent.NewScanEvent(
		kernel.NewUUID(),
		syncKey,
		shipmentID,
		"GRP-0001",
		scanevent.ScanTypePickup,
		occurredAt,
		occurredAt.Add(2*time.Second),
		"device-17",
		"operator-42",
		&location,
		&accuracy,
		&branchID,
		nil,
	)
	suite.Require().NoError(err)
	return event
}

func (suite *ScanEventRepositoryIntegrationTestSuite) TestAddAndGetByOfflineSyncKey_RoundTrip() {
	ctx := context.Background()
	shipmentID := kernel.NewUUID()
	original := suite.newScanEvent("device-17:1700000000:GRP-0001", shipmentID, scanOccurredAt)

	within := true
	distance := 12.0
	suite.Require().NoError(original.AttachValidation(scanevent.Validation{
		IsValidated:           true,
		IsWithinGeofence:      &within,
		DistanceFromExpectedM: &distance,
	}))
	suite.Require().NoError(original.AttachTransition(scanevent.Transition{
		Applied:         true,
		ResultingStatus: "PICKED_UP",
	}))

	suite.Require().NoError(suite.repository.Add(ctx, original))

	restored, err := suite.repository.GetByOfflineSyncKey(ctx, "device-17:1700000000:GRP-0001")
	suite.Require().NoError(err)

	suite.True(restored.ID().IsEqual(original.ID()))
	suite.True(restored.ShipmentID().IsEqual(shipmentID))
	suite.Equal(scanevent.ScanTypePickup, restored.Type())
	suite.Equal("device-17", restored.DeviceID())
	suite.Equal("operator-42", restored.OperatorID())
	suite.Require().NotNil(restored.Location())
	suite.InDelta(25.2532, restored.Location().Latitude(), 0.0001)
	suite.Require().NotNil(restored.AccuracyM())
	suite.InDelta(4.5, *restored.AccuracyM(), 0.001)
	suite.Require().NotNil(restored.BranchID())

	validation := restored.ValidationOutcome()
	suite.Require().NotNil(validation)
	suite.True(validation.IsValidated)
	suite.Require().NotNil(validation.IsWithinGeofence)
	suite.True(*validation.IsWithinGeofence)
	suite.Require().NotNil(validation.DistanceFromExpectedM)
	suite.InDelta(12.0, *validation.DistanceFromExpectedM, 0.001)

	transition := restored.TransitionOutcome()
	suite.Require().NotNil(transition)
	suite.True(transition.Applied)
	suite.Equal("PICKED_UP", transition.ResultingStatus)
}

func (suite *ScanEventRepositoryIntegrationTestSuite) TestAdd_PersistsRejectedTransition() {
	ctx := context.Background()
	original := suite.newScanEvent("device-17:1700000050:GRP-0001", kernel.NewUUID(), scanOccurredAt)

	suite.Require().NoError(original.AttachValidation(scanevent.Validation{
		IsValidated:      false,
		ValidationErrors: []string{"no GPS fix", "device clock skew"},
	}))
	suite.Require().NoError(original.AttachTransition(scanevent.Transition{
		Applied:         false,
		RejectionReason: "shipment is on hold",
	}))
	suite.Require().NoError(suite.repository.Add(ctx, original))

	restored, err := suite.repository.GetByOfflineSyncKey(ctx, "device-17:1700000050:GRP-0001")
	suite.Require().NoError(err)

	validation := restored.ValidationOutcome()
	suite.Require().NotNil(validation)
	suite.False(validation.IsValidated)
	suite.Equal([]string{"no GPS fix", "device clock skew"}, validation.ValidationErrors)

	transition := restored.TransitionOutcome()
	suite.Require().NotNil(transition)
	suite.False(transition.Applied)
	suite.Equal("shipment is on hold", transition.RejectionReason)
}

func (suite *ScanEventRepositoryIntegrationTestSuite) TestAdd_DuplicateSyncKey_ReturnsDuplicateError() {
	ctx := context.Background()
	shipmentID := kernel.NewUUID()
	first := suite.newScanEvent("device-17:1700000100:GRP-0001", shipmentID, scanOccurredAt)
	suite.Require().NoError(suite.repository.Add(ctx, first))

	replay := suite.newScanEvent("device-17:1700000100:GRP-0001", shipmentID, scanOccurredAt)
	err := suite.repository.Add(ctx, replay)
	suite.Require().ErrorIs(err, ports.ErrDuplicateScanEvent)
}

func (suite *ScanEventRepositoryIntegrationTestSuite) TestGetByOfflineSyncKey_NotFound() {
	_, err := suite.repository.GetByOfflineSyncKey(context.Background(), "device-17:unknown")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ScanEventRepositoryIntegrationTestSuite) TestGetByShipment_OrdersByOccurredAt() {
	ctx := context.Background()
	shipmentID := kernel.NewUUID()

	later := suite.newScanEvent("device-17:1700000300:GRP-0001", shipmentID, scanOccurredAt.Add(time.Hour))
	earlier := suite.newScanEvent("device-17:1700000200:GRP-0001", shipmentID, scanOccurredAt)
	other := suite.newScanEvent("device-18:1700000200:GRP-0002", kernel.NewUUID(), scanOccurredAt)
	suite.Require().NoError(suite.repository.Add(ctx, later))
	suite.Require().NoError(suite.repository.Add(ctx, earlier))
	suite.Require().NoError(suite.repository.Add(ctx, other))

	history, err := suite.repository.GetByShipment(ctx, shipmentID)
	suite.Require().NoError(err)
	suite.Require().Len(history, 2)
	suite.True(history[0].ID().IsEqual(earlier.ID()))
	suite.True(history[1].ID().IsEqual(later.ID()))
}

func TestScanEventRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ScanEventRepositoryIntegrationTestSuite))
}
