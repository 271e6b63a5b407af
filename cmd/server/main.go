package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"liveclass-service/internal/api"
	"liveclass-service/internal/bridge"
	"liveclass-service/internal/catalog"
	"liveclass-service/internal/config"
	"liveclass-service/internal/events"
	"liveclass-service/internal/provider"
	"liveclass-service/internal/repository"
	"liveclass-service/internal/schedule"
	"liveclass-service/internal/storage"
	"liveclass-service/internal/tracing"
	_ "liveclass-service/migrations"
)

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		fmt.Println("No .env.dev file found, reading from environment variables provided by Docker")
	}

	api.SetupGlobalHandler("liveclass-service")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	shutdownTracer, err := tracing.InitTracerProvider("liveclass-service")
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations(cfg)
		return
	}

	eventPublisher, err := events.NewNatsPublisher(cfg.NatsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	log.Println("Successfully connected to NATS.")

	var courseBridge *bridge.Bridge
	var sessionProvider provider.SessionProvider

	switch cfg.ProviderMode {
	case "bridge":
		db := connectDB(cfg)
		defer db.Close()

		presigner, err := storage.NewFilePresigner()
		if err != nil {
			log.Printf("WARNING: S3 presigner unavailable, certificate URLs will be empty: %v", err)
			presigner = nil
		}

		userRepo := repository.NewPostgresUserRepository(db)
		sessionRepo := repository.NewPostgresSessionRepository(db)
		enrolmentRepo := repository.NewPostgresEnrolmentRepository(db)
		methodRepo := repository.NewPostgresEnrolMethodRepository(db)
		certificateRepo := repository.NewPostgresCertificateRepository(db)

		courseBridge = bridge.New(userRepo, sessionRepo, enrolmentRepo, methodRepo, certificateRepo,
			eventPublisher, presignerOrNil(presigner), time.Now)
		sessionProvider = courseBridge
	case "http":
		sessionProvider = provider.NewHTTPProvider(cfg.ProviderBaseURL, cfg.InternalSecret)
	default:
		log.Println("No session provider configured, fallback policy applies.")
	}

	registry := catalog.NewEnrolmentRegistry()
	dashboardService := catalog.NewService(sessionProvider, cfg.EnableFallback, registry, time.Now)

	watcher := schedule.NewWatcher(time.Now, cfg.CountdownInterval, eventPublisher)
	watcher.Start()
	defer watcher.Stop()

	dashboardHandler := api.NewDashboardHandler(dashboardService, watcher, time.Now)

	app := fiber.New()
	app.Use(otelfiber.Middleware())
	app.Use(api.PrometheusMiddleware())

	maxRequest, _ := strconv.Atoi(os.Getenv("RATE_LIMIT_MAX"))
	if maxRequest == 0 {
		maxRequest = 100
	}
	expirationSec, _ := strconv.Atoi(os.Getenv("RATE_LIMIT_EXPIRATION"))
	if expirationSec == 0 {
		expirationSec = 60
	}

	app.Use(limiter.New(limiter.Config{
		Max:        maxRequest,
		Expiration: time.Duration(expirationSec) * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many request, please try again later.",
			})
		},
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "liveclass-service"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/v1")

	// Provider routes live under /v1/provider with their own guard, so the
	// user-token middleware is attached per route rather than on the group.
	authRequired := api.AuthMiddleware()
	v1.Get("/catalog", authRequired, dashboardHandler.GetCatalog)
	v1.Get("/enrolments", authRequired, dashboardHandler.GetEnrolments)
	v1.Get("/certificates", authRequired, dashboardHandler.GetCertificates)
	v1.Get("/dashboard", authRequired, dashboardHandler.GetDashboard)
	v1.Post("/sessions/:id/enrol", authRequired, dashboardHandler.EnrolSession)
	v1.Get("/sessions/:id/countdown", authRequired, dashboardHandler.GetCountdown)

	if courseBridge != nil {
		providerHandler := api.NewProviderHandler(courseBridge)
		providerRoutes := v1.Group("/provider", api.InternalAuthMiddleware())
		providerRoutes.Get("/catalog/:userid", providerHandler.GetCatalog)
		providerRoutes.Get("/enrolments/:userid", providerHandler.GetEnrolments)
		providerRoutes.Get("/certificates/:userid", providerHandler.GetCertificates)
		providerRoutes.Post("/sessions/:id/enrol", providerHandler.EnrolSession)
	}

	log.Printf("Listening liveclass-service on port %s", cfg.AppPort)
	log.Fatal(app.Listen(":" + cfg.AppPort))
}

func presignerOrNil(p *storage.FilePresigner) storage.Presigner {
	if p == nil {
		return nil
	}
	return p
}

func connectDB(cfg config.Config) *sqlx.DB {
	db, err := sqlx.Connect("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Successfully connected to the database.")
	return db
}

func handleMigrations(cfg config.Config) {
	fmt.Println("Running database migrations...")

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	fmt.Println("Migrations applied successfully!")
}
