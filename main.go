package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"craft-mentor-system/handlers"
	"craft-mentor-system/middleware"
	"craft-mentor-system/models"
	"craft-mentor-system/services"
	"craft-mentor-system/utils"
	"craft-mentor-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // 20MB — completion photos
	})

	// 🔐 GLOBAL: only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-Org-ID, X-User-Roles, X-User-Name, X-User-Email",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.ActivityRecord{},
		&models.BadgeGrant{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if _, err := services.EnsureDefaultOrganization(db); err != nil {
		log.Fatal("failed to ensure default organization:", err)
	}

	// Completion photo storage is optional — the engine degrades to
	// photo-less activity records when R2 is not configured.
	if err := utils.InitStorage(); err != nil {
		log.Printf("⚠️  R2 storage disabled: %v", err)
	}

	progressionService := services.NewProgressionService(db)
	streakService := services.NewStreakService(db)
	badgeService := services.NewBadgeService(db)
	billingService := services.NewBillingService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Tier reconciliation against the billing service (optional) ---
	billingServiceURL := os.Getenv("BILLING_SERVICE_URL")
	mentorServiceToken := os.Getenv("MENTOR_SERVICE_TOKEN")
	if billingServiceURL != "" {
		tierSyncWorker := workers.NewTierSyncWorker(db, billingServiceURL, "/api/v1/internal/subscriptions/changes", mentorServiceToken)
		tierSyncWorker.Start(ctx)
	} else {
		log.Println("⚠️  BILLING_SERVICE_URL not set — tier sync worker disabled, relying on tier hook only")
	}

	progressionService.StartUsageReportScheduler()

	// ✅ Setup routes — enforced Gateway auth + consistent /s/ prefix
	handlers.SetupActivityRoutes(app, progressionService)
	handlers.SetupProfileRoutes(app, progressionService, streakService, badgeService)
	handlers.SetupBillingRoutes(app, db, billingService, progressionService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Usage report scheduler running")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
