package queries_test

import (
	"context"
	"testing"
	"time"

	"groupage/internal/adapters/out/postgres/consolidationrepo"
	"groupage/internal/core/application/usecases/queries"
	"groupage/internal/core/domain/model/consolidation"
	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/shipment"
	"groupage/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetConsolidationQueryHandlerTestSuite struct {
	suite.Suite
	container         *postgres.PostgresContainer
	db                *gorm.DB
	handler           queries.GetConsolidationQueryHandler
	consolidationRepo *consolidationrepo.GormConsolidationRepository
}

func (suite *GetConsolidationQueryHandlerTestSuite) SetupSuite() {
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

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&consolidationrepo.ConsolidationDTO{},
		&consolidationrepo.MembershipDTO{},
		&consolidationrepo.DeconsolidationEventDTO{},
	)
	suite.Require().NoError(err)

	suite.handler = queries.NewGetConsolidationQueryHandler(db)
	suite.consolidationRepo = consolidationrepo.NewGormConsolidationRepository(db, &mockAggregateTracker{})
}

func (suite *GetConsolidationQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetConsolidationQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE consolidations CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *GetConsolidationQueryHandlerTestSuite) newOpenConsolidation(reference string) *consolidation.Consolidation {
	capacity, err := consolidation.NewCapacity(5, 200, 3)
	suite.Require().NoError(err)

	c, err := consolidation.NewConsolidation(
		kernel.NewUUID(),
		reference,
		shipment.ConsolidationTypeBBX,
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		capacity,
		time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		"groupage-desk",
	)
	suite.Require().NoError(err)
	c.PopEvents()
	return c
}

func (suite *GetConsolidationQueryHandlerTestSuite) TestHandle_UnknownID_ReturnsNotFound() {
	query, err := queries.NewGetConsolidationQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *GetConsolidationQueryHandlerTestSuite) TestHandle_ManifestView() {
	ctx := context.Background()
	group := suite.newOpenConsolidation("GRP-DXB-LHR-020")
	addedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	first := kernel.NewUUID()
	second := kernel.NewUUID()
	suite.Require().NoError(group.AddMember(first, 12, 0.3, addedAt))
	suite.Require().NoError(group.AddMember(second, 8, 0.2, addedAt.Add(time.Minute)))
	suite.Require().NoError(suite.consolidationRepo.Add(ctx, group))

	query, err := queries.NewGetConsolidationQuery(group.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.True(result.ID.IsEqual(group.ID()))
	suite.Equal("GRP-DXB-LHR-020", result.Reference)
	suite.Equal("OPEN", result.Status)
	suite.True(result.MotherShipmentID.IsEqual(group.MotherShipmentID()))
	suite.Equal(5, result.MaxPieces)
	suite.InDelta(200, result.MaxWeightKg, 0.001)
	suite.Equal(2, result.TotalPieces)
	suite.InDelta(20, result.TotalWeightKg, 0.001)
	suite.InDelta(0.5, result.TotalVolumeM3, 0.001)

	suite.Require().Len(result.Members, 2)
	suite.True(result.Members[0].ShipmentID.IsEqual(first))
	suite.Equal(1, result.Members[0].Sequence)
	suite.Equal("ADDED", result.Members[0].Status)
	suite.True(result.Members[1].ShipmentID.IsEqual(second))
	suite.Equal(2, result.Members[1].Sequence)
}

func (suite *GetConsolidationQueryHandlerTestSuite) TestHandle_RemovedMemberStaysOffTotals() {
	ctx := context.Background()
	group := suite.newOpenConsolidation("GRP-DXB-LHR-021")
	addedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	kept := kernel.NewUUID()
	removed := kernel.NewUUID()
	suite.Require().NoError(group.AddMember(kept, 12, 0.3, addedAt))
	suite.Require().NoError(group.AddMember(removed, 8, 0.2, addedAt))
	suite.Require().NoError(group.RemoveMember(removed, addedAt.Add(time.Hour)))
	suite.Require().NoError(suite.consolidationRepo.Add(ctx, group))

	query, err := queries.NewGetConsolidationQuery(group.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Equal(1, result.TotalPieces)
	suite.InDelta(12, result.TotalWeightKg, 0.001)

	// removed membership stays visible on the manifest for audit
	suite.Require().Len(result.Members, 2)
	statuses := map[string]bool{}
	for _, member := range result.Members {
		statuses[member.Status] = true
	}
	suite.True(statuses["REMOVED"], "Removed member should stay on the manifest")
}

func TestGetConsolidationQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetConsolidationQueryHandlerTestSuite))
}
