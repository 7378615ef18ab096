package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/Pranjal095/Pahani-Project/database"
	"github.com/Pranjal095/Pahani-Project/internal/models"
	"github.com/Pranjal095/Pahani-Project/internal/routes"
	"github.com/Pranjal095/Pahani-Project/internal/services"
	"github.com/Pranjal095/Pahani-Project/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("⚠️  No .env file found - checking environment variables")
		}
	}

	// Initialize storage
	var store storage.Store

	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.Citizen{},
			&models.Official{},
			&models.OTP{},
			&models.PahaniRequest{},
			&models.RequestTransition{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}
	storage.SetStore(store)

	// SMS dispatcher: Twilio in production, logged codes without creds
	var sms services.SMSSender
	twilioService, err := services.NewTwilioService()
	if err != nil {
		log.Println("⚠️  Twilio not configured - OTP codes will only be logged")
		sms = logSMS{}
	} else {
		log.Println("✅ Twilio service initialized")
		sms = twilioService
	}

	// Document blob store
	blobs, err := services.NewDiskBlobStore()
	if err != nil {
		log.Fatal("Failed to initialize document storage:", err)
	}

	// Core services
	catalog := services.NewLocationCatalog()
	identity := services.NewIdentityService(store, sms)
	lifecycle := services.NewLifecycleService(store, catalog)
	attachment := services.NewAttachmentService(store, blobs, lifecycle)

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Pahani Portal Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Completed documents are served from the blob directory
	app.Static("/documents", blobs.Dir())

	// Service info endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "Pahani Portal Backend",
			"version": "1.0.0",
			"status":  "healthy",
			"storage": getStorageType(),
		})
	})

	routes.SetupRoutes(app, store, identity, catalog, lifecycle, attachment)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	log.Println("========================================")
	log.Printf("🚀 Pahani Portal Backend starting on port %s", port)
	log.Printf("📊 Storage: %s", getStorageType())
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

func getStorageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

// logSMS is the development fallback when Twilio credentials are absent.
type logSMS struct{}

func (logSMS) SendSMS(to, message string) error {
	log.Printf("📱 SMS to %s: %s", to, message)
	return nil
}
