package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/Pranjal095/Pahani-Project/internal/middleware"
	"github.com/Pranjal095/Pahani-Project/internal/models"
	"github.com/Pranjal095/Pahani-Project/internal/services"
)

// AdminHandler handles the official workflow: listing, approval,
// rejection, document upload and the audit trail.
type AdminHandler struct {
	lifecycle  *services.LifecycleService
	attachment *services.AttachmentService
}

func NewAdminHandler(lifecycle *services.LifecycleService, attachment *services.AttachmentService) *AdminHandler {
	return &AdminHandler{lifecycle: lifecycle, attachment: attachment}
}

// ListRequests returns requests matching ?filter=all|pending|processed|approved|completed
func (h *AdminHandler) ListRequests(c *fiber.Ctx) error {
	requests, err := h.lifecycle.ListForOfficial(c.Query("filter", models.FilterAll))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown filter",
		})
	}
	if requests == nil {
		requests = []*models.PahaniRequest{}
	}
	return c.JSON(requests)
}

// Approve moves a submitted request to approved
func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	req, err := h.lifecycle.Approve(c.Params("id"), middleware.AccountID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Request approved",
		"request": req,
	})
}

type rejectBody struct {
	Reason string `json:"reason"`
}

// Reject terminates a submitted or approved request with a reason
func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	var body rejectBody
	if err := c.BodyParser(&body); err != nil || body.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A rejection reason is required",
		})
	}

	req, err := h.lifecycle.Reject(c.Params("id"), middleware.AccountID(c), body.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Request rejected",
		"request": req,
	})
}

// AttachDocument accepts a multipart PDF upload for an approved request
func (h *AdminHandler) AttachDocument(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("document")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A document file is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not read uploaded file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not read uploaded file",
		})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	req, err := h.attachment.Attach(c.Params("id"), middleware.AccountID(c), contentType, data)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":      "Document attached",
		"request":      req,
		"document_url": req.DocumentURL,
	})
}

// MarkPaid lets an official close a document_attached request manually
func (h *AdminHandler) MarkPaid(c *fiber.Ctx) error {
	req, err := h.lifecycle.MarkPaid(c.Params("id"), middleware.AccountID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Request completed",
		"request": req,
	})
}

// History returns the transition audit trail of a request
func (h *AdminHandler) History(c *fiber.Ctx) error {
	transitions, err := h.lifecycle.History(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(transitions)
}
