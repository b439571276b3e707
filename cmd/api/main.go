package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"

	"radicado/internal/audit"
	"radicado/internal/config"
	"radicado/internal/convert"
	"radicado/internal/database"
	"radicado/internal/database/migration"
	handlers "radicado/internal/http/handler"
	"radicado/internal/http/middleware"
	"radicado/internal/otel"
	"radicado/internal/render"
	"radicado/internal/repository/postgres"
	"radicado/internal/service"
	"radicado/internal/stamp"
	"radicado/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(envOr("APP_TIMEZONE", "America/Bogota"))
	if err != nil {
		loc = time.UTC
	}

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() { _ = shutdownTracing(ctx) }()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Artifact storage: S3-compatible object store, or local filesystem for
	// single-node deployments.
	var objStore storage.Storage
	switch cfg.Storage.Driver {
	case "local":
		objStore, err = storage.NewLocal(cfg.Storage)
	default:
		objStore, err = storage.NewMinIO(cfg.MinIO)
	}
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Editable-to-PDF converter collaborator.
	var converter convert.Converter
	switch cfg.Converter.Driver {
	case "chrome":
		converter = convert.NewChrome(cfg.Converter)
	default:
		converter, err = convert.NewHTTP(cfg.Converter)
		if err != nil {
			log.Fatalf("failed to initialize converter: %v", err)
		}
	}

	stamper, err := stamp.NewEngine(cfg.Stamp)
	if err != nil {
		log.Fatalf("failed to initialize stamping engine: %v", err)
	}

	// Initialize repositories, pipeline and services
	docRepo := postgres.NewDocumentPostgres(db)
	actorRepo := postgres.NewActorPostgres(db)
	auditRepo := postgres.NewAuditPostgres(db)
	radicator := postgres.NewRadicationPostgres(db)

	pipeline := render.NewPipeline(converter, objStore, stamper, loc)
	trail := audit.NewEmitter(auditRepo)

	docSvc := service.NewDocumentService(objStore, docRepo, actorRepo, auditRepo, trail)
	radSvc := service.NewRadicationService(objStore, docRepo, actorRepo, radicator, pipeline, trail)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    32 * 1024 * 1024,
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.LoggerWithWriter(os.Stdout, loc))

	promMW, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, docSvc, radSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
