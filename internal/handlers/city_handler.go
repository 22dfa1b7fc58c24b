package handlers

import (
	"log"
	"strings"

	"matjar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CityHandler handles HTTP requests for the delivery-company city list.
type CityHandler struct {
	service *services.CityService
}

// NewCityHandler creates a new CityHandler.
func NewCityHandler(service *services.CityService) *CityHandler {
	return &CityHandler{
		service: service,
	}
}

// RegisterRoutes registers the city routes with the Fiber app.
func (h *CityHandler) RegisterRoutes(router fiber.Router) {
	cityRoutes := router.Group("/cities")
	cityRoutes.Get("/", h.HandleGetCities)
	cityRoutes.Get("/:id", h.HandleGetCityByID)
	cityRoutes.Post("/refresh", h.HandleRefreshCities)
}

// HandleGetCities returns the cached city list.
func (h *CityHandler) HandleGetCities(c *fiber.Ctx) error {
	cities, err := h.service.ListCities()
	if err != nil {
		log.Printf("Error getting cities: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve cities",
			"error":   err.Error(),
		})
	}
	return c.JSON(cities)
}

// HandleGetCityByID returns one city with its delivery fee.
func (h *CityHandler) HandleGetCityByID(c *fiber.Ctx) error {
	cityID := c.Params("id")
	city, err := h.service.GetCity(cityID)
	if err != nil {
		log.Printf("Error getting city %s: %v", cityID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "City not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve city",
			"error":   err.Error(),
		})
	}
	return c.JSON(city)
}

// HandleRefreshCities pulls a fresh city list from the delivery company's
// API and replaces the cache.
func (h *CityHandler) HandleRefreshCities(c *fiber.Ctx) error {
	cities, err := h.service.RefreshCities(c.Context())
	if err != nil {
		log.Printf("Error refreshing cities: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Could not refresh cities from the delivery company",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "City list refreshed",
		"count":   len(cities),
	})
}
