package api

import (
	"log"
	"time"

	"github.com/IngrediSense/auth_service/config"
	"github.com/IngrediSense/auth_service/infra/queue"
	"github.com/IngrediSense/auth_service/internal/api/rest/handlers"
	"github.com/IngrediSense/auth_service/internal/api/rest/middleware"
	"github.com/IngrediSense/auth_service/internal/domain"
	"github.com/IngrediSense/auth_service/internal/helper"
	"github.com/IngrediSense/auth_service/internal/helper/utils"
	"github.com/IngrediSense/auth_service/internal/interfaces"
	"github.com/IngrediSense/auth_service/internal/repository"
	"github.com/IngrediSense/auth_service/internal/services"
	cloud "github.com/IngrediSense/auth_service/pkg/cloudinary"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New(fiber.Config{
		ErrorHandler: utils.ErrorHandler(cfg.Env),
	})

	// A panicking handler must not take the process down with it.
	app.Use(recover.New())
	if cfg.Env != "production" {
		app.Use(logger.New())
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Content-Type, Accept, Authorization, X-Requested-With",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	if err := db.AutoMigrate(&domain.User{}, &domain.HealthProfile{}); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	// ---------- Infra ----------
	var producer interfaces.ProducerHandler
	if cfg.KafkaBroker != "" {
		producer = queue.NewProducer(cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaUsername, cfg.KafkaPassword)
	}

	authHelper := helper.SetupAuth(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db, cfg.BcryptCost)
	profileRepo := repository.NewHealthProfileRepository(db)

	// ---------- Services ----------
	authSvc := services.NewAuthService(userRepo, authHelper, producer)
	profileSvc := services.NewProfileService(profileRepo)

	protect := middleware.Protect(authHelper, userRepo)

	// ---------- Handlers ----------
	apiGroup := app.Group("/api")

	handlers.NewAuthHandler(authSvc).SetupRoutes(apiGroup, protect)
	handlers.NewProfileHandler(profileSvc).SetupRoutes(apiGroup, protect)
	handlers.NewIngredientHandler().SetupRoutes(apiGroup)

	if cfg.CloudinaryURL != "" {
		cld, err := cloud.New()
		if err != nil {
			log.Printf("cloudinary init error, avatar upload disabled: %v", err)
		} else {
			uploader := cloud.NewCloudinaryUploader(cld)
			handlers.NewUploadHandler(authSvc, uploader).SetupRoutes(apiGroup, protect)
		}
	}

	// ---------- Info & health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to IngrediSense API",
			"version": "1.0.0",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "success",
			"message":     "IngrediSense API is running",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": cfg.Env,
		})
	})
	apiGroup.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "IngrediSense API v1.0.0",
			"endpoints": fiber.Map{
				"health":      "/health",
				"auth":        "/api/auth",
				"ingredients": "/api/ingredients",
				"profile":     "/api/profile",
			},
		})
	})

	log.Println("listening on", cfg.ServerPort)
	log.Fatal(app.Listen(cfg.ServerPort))
}
