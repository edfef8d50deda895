package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/foodblog-api/internal/service"
	"github.com/maheshrc27/foodblog-api/internal/transfer"
)

type LandingHandler struct {
	s service.LandingService
}

func NewLandingHandler(service service.LandingService) *LandingHandler {
	return &LandingHandler{s: service}
}

func (h *LandingHandler) GetLandingPage(c *fiber.Ctx) error {
	page, err := h.s.Get(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(page)
}

func (h *LandingHandler) UpdateLandingPage(c *fiber.Ctx) error {
	page, err := h.s.Update(c.Context(), c.Body())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(page)
}

func (h *LandingHandler) UploadHeroMedia(c *fiber.Ctx) error {
	form, err := multipartForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}
	files := readFiles(form, "media")
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files uploaded",
		})
	}

	urls, page, err := h.s.UploadHero(c.Context(), files)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"files":       urls,
		"landingPage": page,
	})
}

func (h *LandingHandler) UploadMedia(c *fiber.Ctx) error {
	form, err := multipartForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}

	urls, err := h.s.Upload(c.Context(), readFiles(form, "media"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"files": urls,
	})
}

func (h *LandingHandler) AddReel(c *fiber.Ctx) error {
	form, err := multipartForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}

	title := c.FormValue("title")
	reel, page, err := h.s.AddReel(c.Context(), title, readFiles(form, "media"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"reel":        reel,
		"landingPage": page,
	})
}

func (h *LandingHandler) DeleteReel(c *fiber.Ctx) error {
	page, err := h.s.DeleteReel(c.Context(), c.Params("reelId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":     "Reel deleted successfully",
		"landingPage": page,
	})
}

func (h *LandingHandler) UpdateReelsSection(c *fiber.Ctx) error {
	var in transfer.ReelsSectionUpdate
	if err := c.BodyParser(&in); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	page, err := h.s.UpdateReelsSection(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"landingPage": page,
	})
}
