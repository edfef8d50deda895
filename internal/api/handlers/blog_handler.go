package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/foodblog-api/internal/service"
	"github.com/maheshrc27/foodblog-api/internal/transfer"
)

type BlogHandler struct {
	s service.BlogService
}

func NewBlogHandler(service service.BlogService) *BlogHandler {
	return &BlogHandler{s: service}
}

func (h *BlogHandler) ListBlogs(c *fiber.Ctx) error {
	var q transfer.BlogQuery
	if err := c.QueryParser(&q); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid query parameters",
		})
	}

	blogs, err := h.s.List(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(blogs)
}

func (h *BlogHandler) GetBlog(c *fiber.Ctx) error {
	blog, err := h.s.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(blog)
}

func (h *BlogHandler) CountBlogs(c *fiber.Ctx) error {
	count, err := h.s.Count(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"count": count})
}

func (h *BlogHandler) CountComments(c *fiber.Ctx) error {
	count, err := h.s.CountComments(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"count": count})
}

func (h *BlogHandler) CreateBlog(c *fiber.Ctx) error {
	form, err := multipartForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}

	var in transfer.BlogInput
	if err := c.BodyParser(&in); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	blog, err := h.s.Create(c.Context(), in, readFiles(form, "media"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(blog)
}

func (h *BlogHandler) UpdateBlog(c *fiber.Ctx) error {
	form, err := multipartForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}

	var in transfer.BlogInput
	if err := c.BodyParser(&in); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	deleteMedia := listValues(form, "deleteMedia", "deleteMedia[]")
	blog, err := h.s.Update(c.Context(), c.Params("id"), in, readFiles(form, "media"), deleteMedia)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(blog)
}

func (h *BlogHandler) DeleteBlog(c *fiber.Ctx) error {
	if err := h.s.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Blog deleted successfully",
	})
}

func (h *BlogHandler) UploadImage(c *fiber.Ctx) error {
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

	blog, err := h.s.UploadImage(c.Context(), c.Params("id"), *file)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Image uploaded successfully",
		"blog":    blog,
	})
}

func (h *BlogHandler) LikeBlog(c *fiber.Ctx) error {
	likes, err := h.s.Like(c.Context(), GetCaller(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Blog liked successfully",
		"likes":   likes,
	})
}

func (h *BlogHandler) UnlikeBlog(c *fiber.Ctx) error {
	likes, err := h.s.Unlike(c.Context(), GetCaller(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Blog unliked successfully",
		"likes":   likes,
	})
}

func (h *BlogHandler) CommentBlog(c *fiber.Ctx) error {
	var req transfer.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	comments, err := h.s.Comment(c.Context(), GetCaller(c), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "Comment posted successfully",
		"comments": comments,
	})
}

func (h *BlogHandler) DeleteComment(c *fiber.Ctx) error {
	comments, err := h.s.DeleteComment(c.Context(), GetCaller(c), c.Params("id"), c.Params("commentId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "Comment unliked successfully",
		"comments": comments,
	})
}
