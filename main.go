package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"esports-registration/config"
	"esports-registration/handlers"
	"esports-registration/middleware"
	"esports-registration/models"
	"esports-registration/registration"
	"esports-registration/services"
	"esports-registration/sessions"
	"esports-registration/utils"
	"esports-registration/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ invalid configuration: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Game{},
		&models.Tournament{},
		&models.Registration{},
		&models.Admin{},
		&models.ContactMessage{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if cfg.SeedCatalog {
		seed := services.DefaultCatalog()
		if cfg.CatalogSeedFile != "" {
			if seed, err = services.LoadCatalogSeed(cfg.CatalogSeedFile); err != nil {
				log.Fatal("failed to load catalog seed:", err)
			}
		}
		if err := services.SeedCatalog(ctx, db, seed); err != nil {
			log.Fatal("failed to seed catalog:", err)
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	// 🔐 GLOBAL: Gateway token when configured
	app.Use(middleware.GatewayAuthMiddleware(cfg.GatewayToken))

	allowedOrigins := strings.Join(cfg.AllowedOrigins, ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PATCH,OPTIONS,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: !strings.Contains(allowedOrigins, "*"),
		MaxAge:           86400,
	}))

	var storage utils.ObjectStorage
	switch cfg.StorageBackend {
	case config.StorageLocal:
		if err := utils.EnsureUploadDir(); err != nil {
			log.Fatal("failed to ensure upload dir:", err)
		}
		storage = utils.NewLocalStorage(utils.UploadDir, cfg.LocalUploadBaseURL)
		app.Static("/uploads", "./"+utils.UploadDir)
	default:
		r2, err := utils.NewR2Storage(ctx, utils.R2Config{
			AccountID:       cfg.CloudflareAccount,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			Bucket:          cfg.R2Bucket,
			CDNBaseURL:      cfg.CDNBaseURL,
		})
		if err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		storage = r2
	}

	var (
		store  sessions.Store
		purger services.SessionPurger
	)
	if cfg.RedisAddr != "" {
		redisStore, err := sessions.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
		if err != nil {
			log.Fatal("failed to connect to redis:", err)
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		log.Println("⚠️  REDIS_ADDR not set, keeping registration sessions in memory")
		memoryStore := sessions.NewMemoryStore(cfg.SessionTTL)
		store, purger = memoryStore, memoryStore
	}

	policy := registration.DefaultPolicy()
	policy.PhoneRequired = cfg.PhoneRequired
	policy.MaxScreenshotBytes = cfg.MaxScreenshotBytes
	policy.CallTimeout = cfg.ExternalCallTimeout
	// Stay well inside the sweep grace period so a reused upload cannot be deleted under a retry.
	policy.UploadReuseWindow = cfg.OrphanGracePeriod / 2

	directory := services.NewDirectory(db, storage)
	sweeper := workers.NewOrphanSweeper(storage, directory, cfg.OrphanGracePeriod, cfg.OrphanSweepDelete)

	catalogService := services.NewCatalogService(directory)
	registrationService := services.NewRegistrationService(directory, store, policy)
	contactService := services.NewContactService(directory, cfg.ExternalCallTimeout)
	adminService := services.NewAdminService(sweeper)

	sweepEvery := time.Duration(0)
	if cfg.OrphanSweepEnabled {
		sweepEvery = cfg.OrphanSweepInterval
	}
	scheduler, err := services.StartMaintenanceScheduler(ctx, sweeper, sweepEvery, purger, 10*time.Minute)
	if err != nil {
		log.Fatal("failed to start scheduler:", err)
	}

	handlers.SetupHealthRoutes(app)
	handlers.SetupCatalogRoutes(app, catalogService)
	handlers.SetupRegistrationRoutes(app, registrationService)
	handlers.SetupContactRoutes(app, contactService)
	handlers.SetupAdminRoutes(app, adminService, directory)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ Storage backend: %s", cfg.StorageBackend)
	log.Printf("✅ CORS configured for origins: %s", allowedOrigins)
	if cfg.OrphanSweepEnabled {
		log.Printf("✅ Orphan screenshot sweep every %s (delete=%t)", cfg.OrphanSweepInterval, cfg.OrphanSweepDelete)
	}

	<-ctx.Done()
	log.Println("Shutting down server...")

	if err := scheduler.Shutdown(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
