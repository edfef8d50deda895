package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/foodblog-api/internal/models"
	"github.com/maheshrc27/foodblog-api/internal/service"
)

type NavigationHandler struct {
	s service.NavigationService
}

func NewNavigationHandler(service service.NavigationService) *NavigationHandler {
	return &NavigationHandler{s: service}
}

func (h *NavigationHandler) GetNavigation(c *fiber.Ctx) error {
	items, err := h.s.Get(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(items)
}

func (h *NavigationHandler) UpdateNavigation(c *fiber.Ctx) error {
	var items []models.NavigationItem
	if err := c.BodyParser(&items); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Navigation must be an array of items",
		})
	}

	items, err := h.s.Replace(c.Context(), items)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(items)
}
