package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Pranjal095/Pahani-Project/internal/middleware"
	"github.com/Pranjal095/Pahani-Project/internal/models"
	"github.com/Pranjal095/Pahani-Project/internal/services"
)

// RequestHandler handles citizen-facing request operations
type RequestHandler struct {
	lifecycle *services.LifecycleService
}

func NewRequestHandler(lifecycle *services.LifecycleService) *RequestHandler {
	return &RequestHandler{lifecycle: lifecycle}
}

// Submit creates a new Pahani request owned by the logged-in citizen
func (h *RequestHandler) Submit(c *fiber.Ctx) error {
	var sub models.RequestSubmission
	if err := c.BodyParser(&sub); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(&sub); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "District, mandal, village, survey number and year range are required",
		})
	}

	req, err := h.lifecycle.Submit(middleware.AccountID(c), &sub)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Request submitted",
		"request": req,
	})
}

// MyRequests lists the citizen's own requests, newest first
func (h *RequestHandler) MyRequests(c *fiber.Ctx) error {
	requests, err := h.lifecycle.ListForCitizen(middleware.AccountID(c))
	if err != nil {
		return respondError(c, err)
	}
	if requests == nil {
		requests = []*models.PahaniRequest{}
	}
	return c.JSON(requests)
}

// Status returns the live status of one request for citizen polling
func (h *RequestHandler) Status(c *fiber.Ctx) error {
	status, err := h.lifecycle.GetStatus(c.Params("id"), middleware.AccountID(c), middleware.Role(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}
