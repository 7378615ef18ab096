package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Pranjal095/Pahani-Project/internal/services"
)

// PaymentHandler receives payment-gateway confirmations
type PaymentHandler struct {
	lifecycle *services.LifecycleService
}

func NewPaymentHandler(lifecycle *services.LifecycleService) *PaymentHandler {
	return &PaymentHandler{lifecycle: lifecycle}
}

type paymentWebhook struct {
	RequestID string `json:"request_id"`
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

// HandleWebhook marks a request paid once the gateway confirms.
// Signature validation happens in middleware before we get here.
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	var body paymentWebhook
	if err := c.BodyParser(&body); err != nil || body.RequestID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	if body.Status != "captured" && body.Status != "paid" {
		// Not a success event; acknowledge so the gateway stops retrying
		return c.JSON(fiber.Map{"message": "Event ignored"})
	}

	actor := "payment-gateway"
	if body.PaymentID != "" {
		actor = "payment:" + body.PaymentID
	}

	req, err := h.lifecycle.MarkPaid(body.RequestID, actor)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Payment recorded",
		"request": req,
	})
}
