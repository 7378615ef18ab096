package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
)

// ValidatePaymentSignature validates that a payment webhook carries a
// valid HMAC-SHA256 signature of the raw body, keyed with the shared
// gateway secret.
func ValidatePaymentSignature() fiber.Handler {
	return func(c *fiber.Ctx) error {
		signature := c.Get("X-Payment-Signature")
		if signature == "" {
			return c.Status(401).JSON(fiber.Map{
				"error": "Missing payment signature",
			})
		}

		secret := os.Getenv("PAYMENT_WEBHOOK_SECRET")
		if secret == "" {
			// Log error but don't expose to client
			log.Println("ERROR: PAYMENT_WEBHOOK_SECRET not set")
			return c.Status(500).JSON(fiber.Map{
				"error": "Server configuration error",
			})
		}

		expected := calculatePaymentSignature(secret, c.Body())
		if !hmac.Equal([]byte(signature), []byte(expected)) {
			return c.Status(401).JSON(fiber.Map{
				"error": "Invalid signature",
			})
		}

		return c.Next()
	}
}

// calculatePaymentSignature calculates the expected signature
func calculatePaymentSignature(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
