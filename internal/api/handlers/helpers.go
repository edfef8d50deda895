package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/foodblog-api/internal/api/middleware"
	"github.com/maheshrc27/foodblog-api/internal/models"
	"github.com/maheshrc27/foodblog-api/internal/service"
)

func GetCaller(c *fiber.Ctx) *models.Caller {
	caller, _ := c.Locals(middleware.CallerKey).(*models.Caller)
	return caller
}

func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation, service.KindConflict:
		return fiber.StatusBadRequest
	case service.KindNotFound:
		return fiber.StatusNotFound
	case service.KindAuthRequired:
		return fiber.StatusUnauthorized
	case service.KindForbidden:
		return fiber.StatusForbidden
	case service.KindStorageFailure:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadGateway
	}
}

func respondError(c *fiber.Ctx, err error) error {
	kind := service.KindOf(err)
	if kind == service.KindStorageFailure || kind == service.KindUpstreamFailure {
		slog.Error(err.Error())
	}
	return c.Status(statusFor(kind)).JSON(fiber.Map{
		"error": service.MessageOf(err),
	})
}

// multipartForm returns nil for requests that are not multipart.
func multipartForm(c *fiber.Ctx) (*multipart.Form, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		slog.Error(err.Error())
		return nil, err
	}
	return form, nil
}

func toFile(fh *multipart.FileHeader, caption string) service.File {
	return service.File{
		Filename: fh.Filename,
		MIMEType: fh.Header.Get(fiber.HeaderContentType),
		Size:     fh.Size,
		Caption:  caption,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// readFiles collects the files posted under field. A caption is taken from
// caption_<filename>, or from caption when a single file is sent.
func readFiles(form *multipart.Form, field string) []service.File {
	if form == nil {
		return nil
	}
	headers := form.File[field]
	files := make([]service.File, 0, len(headers))
	for _, fh := range headers {
		caption := firstValue(form, "caption_"+fh.Filename)
		if caption == "" && len(headers) == 1 {
			caption = firstValue(form, "caption")
		}
		files = append(files, toFile(fh, caption))
	}
	return files
}

func readFile(form *multipart.Form, field string) *service.File {
	files := readFiles(form, field)
	if len(files) == 0 {
		return nil
	}
	return &files[0]
}

func firstValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// listValues gathers repeated form values under each key. A value holding a
// JSON array is expanded.
func listValues(form *multipart.Form, keys ...string) []string {
	if form == nil {
		return nil
	}
	var out []string
	for _, key := range keys {
		for _, v := range form.Value[key] {
			v = strings.TrimSpace(v)
			if strings.HasPrefix(v, "[") {
				var list []string
				if err := json.Unmarshal([]byte(v), &list); err == nil {
					out = append(out, list...)
					continue
				}
			}
			if v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
