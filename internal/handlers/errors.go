package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Pranjal095/Pahani-Project/internal/apperrors"
)

var validate = validator.New()

// respondError maps the service error taxonomy to HTTP in one place.
func respondError(c *fiber.Ctx, err error) error {
	if sc, ok := apperrors.IsStateConflict(err); ok {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":          "Request already processed by someone else",
			"current_status": sc.Current,
		})
	}

	var dep *apperrors.DependencyFailure
	if errors.As(err, &dep) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Service temporarily unavailable, please try again later",
		})
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrInvalidOTP):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicatePhone),
		errors.Is(err, apperrors.ErrDuplicateNationalID),
		errors.Is(err, apperrors.ErrDuplicateEmail):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnsupportedFormat):
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAttachmentFailed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidPhone),
		errors.Is(err, apperrors.ErrInvalidNationalID),
		errors.Is(err, apperrors.ErrInvalidYearRange),
		errors.Is(err, apperrors.ErrWeakPassword),
		errors.Is(err, apperrors.ErrUnknownLocation),
		errors.Is(err, apperrors.ErrUnknownPhone):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
