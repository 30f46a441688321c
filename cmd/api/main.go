package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mayankk-1803/file-store/docs"
	"github.com/mayankk-1803/file-store/internal/auth"
	"github.com/mayankk-1803/file-store/internal/config"
	"github.com/mayankk-1803/file-store/internal/database"
	"github.com/mayankk-1803/file-store/internal/database/migration"
	handlers "github.com/mayankk-1803/file-store/internal/http/handler"
	"github.com/mayankk-1803/file-store/internal/http/middleware"
	"github.com/mayankk-1803/file-store/internal/mail"
	"github.com/mayankk-1803/file-store/internal/otel"
	"github.com/mayankk-1803/file-store/internal/repository/postgres"
	"github.com/mayankk-1803/file-store/internal/service"
	"github.com/mayankk-1803/file-store/internal/storage"
)

// @title File Store API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	store, err := newStorage(cfg, db)
	if err != nil {
		log.Fatalf("failed to initialize %s storage: %v", cfg.Storage.Backend, err)
	}

	mailer, err := mail.NewSMTP(cfg.SMTP)
	if err != nil {
		log.Fatalf("failed to initialize mailer: %v", err)
	}

	userRepo := postgres.NewUserPostgres(db)
	docRepo := postgres.NewDocumentPostgres(db)
	shareRepo := postgres.NewSharePostgres(db)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenIssuer([]byte(cfg.Auth.JWTSecret), time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	authSvc := service.NewAuthService(userRepo, hasher, tokens, mailer, time.Duration(cfg.Auth.OTPValiditySec)*time.Second)
	docSvc := service.NewDocumentService(store, docRepo, shareRepo)
	shareSvc := service.NewShareService(shareRepo, docRepo, userRepo, store, mailer, cfg.FrontendOrigin)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	promMW, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to initialize metrics: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    50 * 1024 * 1024,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 15 * time.Minute,
	}))
	app.Use(promMW.Handler())
	app.Use(otelfiber.Middleware())

	handlers.RegisterRoutes(app, db, authSvc, docSvc, shareSvc)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

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

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// newStorage picks the payload backend configured by STORAGE_BACKEND.
func newStorage(cfg *config.AppConfig, db *sql.DB) (storage.Storage, error) {
	switch cfg.Storage.Backend {
	case "minio":
		return storage.NewMinIO(cfg.MinIO)
	case "disk":
		return storage.NewDisk(cfg.Storage.DiskRoot)
	case "postgres":
		return storage.NewPostgres(db)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
