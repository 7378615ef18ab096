package routes

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/Pranjal095/Pahani-Project/internal/handlers"
	"github.com/Pranjal095/Pahani-Project/internal/middleware"
	"github.com/Pranjal095/Pahani-Project/internal/models"
	"github.com/Pranjal095/Pahani-Project/internal/services"
	"github.com/Pranjal095/Pahani-Project/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, identity *services.IdentityService,
	catalog *services.LocationCatalog, lifecycle *services.LifecycleService,
	attachment *services.AttachmentService) {

	authHandler := handlers.NewAuthHandler(identity)
	locationHandler := handlers.NewLocationHandler(catalog)
	requestHandler := handlers.NewRequestHandler(lifecycle)
	adminHandler := handlers.NewAdminHandler(lifecycle, attachment)
	paymentHandler := handlers.NewPaymentHandler(lifecycle)

	// Health check
	app.Get("/health", handlers.Health)

	// ========== AUTH ROUTES ==========
	app.Post("/register/user", authHandler.RegisterCitizen)
	app.Post("/register/admin", authHandler.RegisterOfficial)
	app.Post("/login/user/otp", authHandler.RequestOTP)
	app.Post("/login/user", authHandler.VerifyOTP)
	app.Post("/login/admin", authHandler.LoginOfficial)

	// ========== LOCATION ROUTES (public) ==========
	location := app.Group("/location")
	location.Get("/districts", locationHandler.Districts)
	location.Get("/mandals/:district", locationHandler.Mandals)
	location.Get("/villages/:district/:mandal", locationHandler.Villages)

	// ========== CITIZEN ROUTES ==========
	app.Post("/pahani-request", middleware.RequireRole(models.RoleCitizen), requestHandler.Submit)

	user := app.Group("/user", middleware.RequireRole(models.RoleCitizen, models.RoleOfficial))
	user.Get("/my-pahani-requests", requestHandler.MyRequests)
	user.Get("/pahani-request-status/:id", requestHandler.Status)

	// ========== ADMIN ROUTES ==========
	admin := app.Group("/admin", middleware.RequireRole(models.RoleOfficial))
	admin.Get("/pahani-requests", adminHandler.ListRequests)
	admin.Post("/pahani-requests/:id/approve", adminHandler.Approve)
	admin.Post("/pahani-requests/:id/reject", adminHandler.Reject)
	admin.Post("/pahani-requests/:id/document", adminHandler.AttachDocument)
	admin.Post("/pahani-requests/:id/mark-paid", adminHandler.MarkPaid)
	admin.Get("/pahani-requests/:id/history", adminHandler.History)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")
	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true" {
		// Development: skip signature validation
		webhooks.Post("/payment", paymentHandler.HandleWebhook)
	} else {
		// Production: validate webhook signature
		webhooks.Post("/payment", middleware.ValidatePaymentSignature(), paymentHandler.HandleWebhook)
	}
}
