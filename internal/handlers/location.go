package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Pranjal095/Pahani-Project/internal/services"
)

// LocationHandler serves the district/mandal/village pickers
type LocationHandler struct {
	catalog *services.LocationCatalog
}

func NewLocationHandler(catalog *services.LocationCatalog) *LocationHandler {
	return &LocationHandler{catalog: catalog}
}

// Districts lists all districts
func (h *LocationHandler) Districts(c *fiber.Ctx) error {
	return c.JSON(h.catalog.Districts())
}

// Mandals lists mandals of a district
func (h *LocationHandler) Mandals(c *fiber.Ctx) error {
	mandals, err := h.catalog.Mandals(c.Params("district"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(mandals)
}

// Villages lists villages of a district/mandal pairing
func (h *LocationHandler) Villages(c *fiber.Ctx) error {
	villages, err := h.catalog.Villages(c.Params("district"), c.Params("mandal"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(villages)
}
