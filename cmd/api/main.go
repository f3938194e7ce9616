package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hondaapi/docs"
	"hondaapi/internal/config"
	"hondaapi/internal/database"
	"hondaapi/internal/database/migration"
	"hondaapi/internal/docstore"
	fsstore "hondaapi/internal/docstore/firestore"
	pgstore "hondaapi/internal/docstore/postgres"
	"hondaapi/internal/firebase"
	handlers "hondaapi/internal/http/handler"
	"hondaapi/internal/http/middleware"
	"hondaapi/internal/logging"
	"hondaapi/internal/media"
	"hondaapi/internal/otel"
	"hondaapi/internal/projection"
	"hondaapi/internal/service"
	"hondaapi/internal/storage"
)

// @title Honda Maintenance API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	logger := logging.New(os.Stdout, loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "server stopped", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *logging.SlogLogger) error {
	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer shutdownTracing(context.Background())

	// Firebase handles are shared by the Firestore and GCS backends and built once.
	var clients *firebase.Clients
	if cfg.DocStore.Backend == "firestore" || cfg.Blob.Backend == "gcs" {
		clients, err = firebase.NewClients(ctx, cfg.Firebase)
		if err != nil {
			return err
		}
		defer clients.Close()
	}

	store, closeStore, err := openDocStore(ctx, cfg, clients, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	blobs, err := openBlobStore(cfg, clients)
	if err != nil {
		logger.Warn(ctx, "blob store unavailable, image uploads disabled", "error", err.Error())
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	projMetrics, err := projection.NewMetrics(reg)
	if err != nil {
		return err
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	var uploader *media.Uploader
	if blobs != nil {
		mediaMetrics, err := media.NewMetrics(reg)
		if err != nil {
			return err
		}
		uploader = media.NewUploader(blobs, cfg.Blob.DownloadHost,
			media.WithMaxSize(cfg.Blob.MaxUploadBytes),
			media.WithMetrics(mediaMetrics),
			media.WithLogger(logger.With("component", "media")),
		)
	}

	deps := service.Deps{
		Store:     store,
		Projector: projection.NewProjector(cfg.Projection.DisplayOffset, projMetrics),
		Log:       logger,
	}
	batch := cfg.Projection.BatchResolve
	svcs := handlers.Services{
		Banners:         service.NewBannerService(deps, uploader),
		Products:        service.NewProductService(deps, uploader),
		Services:        service.NewCatalogService(deps),
		Vehicles:        service.NewVehicleService(deps),
		Users:           service.NewUserService(deps),
		RepairSchedules: service.NewRepairScheduleService(deps, projection.StaffNames(store, projection.UnknownStaff, logger), batch),
		TestDrives:      service.NewTestDriveService(deps),
		Billing:         service.NewBillingService(deps),
		Reviews:         service.NewReviewService(deps, projection.StaffNames(store, projection.Unknown, logger), batch),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Room for the multipart envelope around a maximum-size image
		BodyLimit: int(cfg.Blob.MaxUploadBytes) + 1<<20,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog(logger))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, svcs, store.Ping)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "shutdown failed", "error", err.Error())
		}
	}()

	logger.Info(ctx, "server starting",
		"port", cfg.Port,
		"docstore", cfg.DocStore.Backend,
		"blobstore", cfg.Blob.Backend,
		"display_offset", cfg.Projection.DisplayOffset.String(),
		"batch_resolve", batch,
	)
	return app.Listen(":" + cfg.Port)
}

// openDocStore returns the configured document store and its release func.
func openDocStore(ctx context.Context, cfg *config.AppConfig, clients *firebase.Clients, logger logging.Logger) (docstore.Store, func(), error) {
	switch cfg.DocStore.Backend {
	case "firestore":
		return fsstore.NewStore(clients.Firestore), func() {}, nil
	case "postgres":
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			db.Close()
			return nil, nil, err
		}
		return pgstore.NewStore(db), func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown document store backend %q", cfg.DocStore.Backend)
	}
}

func openBlobStore(cfg *config.AppConfig, clients *firebase.Clients) (storage.Storage, error) {
	switch cfg.Blob.Backend {
	case "gcs":
		return storage.NewGCS(clients.BucketName(), clients.Bucket)
	case "s3":
		return storage.NewMinIO(cfg.Blob)
	default:
		return nil, fmt.Errorf("unknown blob store backend %q", cfg.Blob.Backend)
	}
}
