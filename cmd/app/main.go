package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"groupage/cmd"
	httpadapter "groupage/internal/adapters/in/http"
	"groupage/internal/adapters/out/postgres/consolidationrepo"
	"groupage/internal/adapters/out/postgres/scaneventrepo"
	"groupage/internal/adapters/out/postgres/shipmentrepo"
	"groupage/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)
	mustMigrateDB(gormDB)

	app := cmd.NewCompositionRoot(configs, gormDB, logger)
	defer app.EventBus().Close()

	jobManager := jobs.NewJobManager(
		app.CreateLockExpiredConsolidationsCommandHandler(),
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost,
		configs.DBPort,
		configs.DBUser,
		configs.DBPassword,
		configs.DBName,
		configs.DBSslMode,
	)

	// TranslateError maps unique constraint violations onto gorm.ErrDuplicatedKey,
	// which scan ingestion relies on for sync key dedupe.
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

func mustMigrateDB(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&shipmentrepo.ShipmentDTO{},
		&shipmentrepo.MilestoneDTO{},
		&shipmentrepo.HoldDTO{},
		&shipmentrepo.RerouteDTO{},
		&shipmentrepo.ExceptionDTO{},
		&consolidationrepo.ConsolidationDTO{},
		&consolidationrepo.MembershipDTO{},
		&consolidationrepo.DeconsolidationEventDTO{},
		&scaneventrepo.ScanEventDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := httpadapter.NewServer(httpadapter.ServerHandlers{
		BookShipment:          app.CreateBookShipmentCommandHandler(),
		HoldShipment:          app.CreateHoldShipmentCommandHandler(),
		ReleaseHold:           app.CreateReleaseShipmentHoldCommandHandler(),
		RerouteShipment:       app.CreateRerouteShipmentCommandHandler(),
		FlagException:         app.CreateFlagShipmentExceptionCommandHandler(),
		ResolveException:      app.CreateResolveShipmentExceptionCommandHandler(),
		CancelShipment:        app.CreateCancelShipmentCommandHandler(),
		InitiateReturn:        app.CreateInitiateReturnCommandHandler(),
		IngestScan:            app.CreateIngestScanCommandHandler(),
		CreateConsolidation:   app.CreateCreateConsolidationCommandHandler(),
		AddMember:             app.CreateAddConsolidationMemberCommandHandler(),
		RemoveMember:          app.CreateRemoveConsolidationMemberCommandHandler(),
		LockConsolidation:     app.CreateLockConsolidationCommandHandler(),
		DispatchConsolidation: app.CreateDispatchConsolidationCommandHandler(),
		ArriveConsolidation:   app.CreateArriveConsolidationCommandHandler(),
		BeginDeconsolidation:  app.CreateBeginDeconsolidationCommandHandler(),
		ScanMemberOut:         app.CreateScanMemberOutCommandHandler(),
		RecordDiscrepancy:     app.CreateRecordDiscrepancyCommandHandler(),
		ResolveDiscrepancy:    app.CreateResolveDiscrepancyCommandHandler(),
		CompleteConsolidation: app.CreateCompleteConsolidationCommandHandler(),
		CancelConsolidation:   app.CreateCancelConsolidationCommandHandler(),
		GetShipmentStatus:     app.CreateGetShipmentStatusQueryHandler(),
		GetConsolidation:      app.CreateGetConsolidationQueryHandler(),
		GetScanHistory:        app.CreateGetScanHistoryQueryHandler(),
	})
	server.RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := e.Close(); err != nil {
		e.Logger.Error(err)
	}
}
