package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Pranjal095/Pahani-Project/internal/models"
	"github.com/Pranjal095/Pahani-Project/internal/services"
)

// AuthHandler handles registration and login for both roles
type AuthHandler struct {
	identity *services.IdentityService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identity *services.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

// RegisterCitizen handles citizen registration
func (h *AuthHandler) RegisterCitizen(c *fiber.Ctx) error {
	var reg models.CitizenRegistration
	if err := c.BodyParser(&reg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(&reg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name, phone and national id are required",
		})
	}

	citizen, err := h.identity.RegisterCitizen(&reg)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registered successfully. Log in with an OTP sent to your phone.",
		"citizen": citizen,
	})
}

// RegisterOfficial handles official registration
func (h *AuthHandler) RegisterOfficial(c *fiber.Ctx) error {
	var reg models.OfficialRegistration
	if err := c.BodyParser(&reg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(&reg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name, email and password are required",
		})
	}

	official, err := h.identity.RegisterOfficial(&reg)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Official account created",
		"official": official,
	})
}

type otpRequest struct {
	Phone string `json:"phone" validate:"required"`
}

// RequestOTP sends a login code to a registered citizen's phone
func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var body otpRequest
	if err := c.BodyParser(&body); err != nil || body.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Phone number is required",
		})
	}

	if err := h.identity.RequestOTP(body.Phone); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "OTP sent",
	})
}

type otpVerify struct {
	Phone string `json:"phone" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

// VerifyOTP completes the citizen login and returns a bearer token
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var body otpVerify
	if err := c.BodyParser(&body); err != nil || body.Phone == "" || body.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Phone and code are required",
		})
	}

	token, citizen, err := h.identity.VerifyOTPLogin(body.Phone, body.Code)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"user": fiber.Map{
			"id":    citizen.CitizenID,
			"name":  citizen.Name,
			"phone": citizen.Phone,
			"role":  models.RoleCitizen,
		},
	})
}

type officialLogin struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginOfficial completes the official login and returns a bearer token
func (h *AuthHandler) LoginOfficial(c *fiber.Ctx) error {
	var body officialLogin
	if err := c.BodyParser(&body); err != nil || body.Email == "" || body.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	token, official, err := h.identity.LoginOfficial(body.Email, body.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"user": fiber.Map{
			"id":    official.OfficialID,
			"name":  official.Name,
			"email": official.Email,
			"role":  models.RoleOfficial,
		},
	})
}
