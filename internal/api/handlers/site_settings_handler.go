package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/foodblog-api/internal/service"
)

type SiteSettingsHandler struct {
	s service.SiteSettingsService
}

func NewSiteSettingsHandler(service service.SiteSettingsService) *SiteSettingsHandler {
	return &SiteSettingsHandler{s: service}
}

func (h *SiteSettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.s.Get(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(settings)
}

func (h *SiteSettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	settings, err := h.s.Update(c.Context(), c.Body())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "Settings updated successfully",
		"settings": settings,
	})
}

func (h *SiteSettingsHandler) UploadAsset(c *fiber.Ctx) error {
	form, err := multipartForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}
	file := readFile(form, "image")
	if file == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	url, settings, err := h.s.UploadAsset(c.Context(), c.FormValue("type"), *file)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "Image uploaded successfully",
		"imageUrl": url,
		"settings": settings,
	})
}
