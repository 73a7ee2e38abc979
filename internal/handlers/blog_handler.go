package handlers

import (
	"errors"
	"log"

	"pandastore/internal/models"
	"pandastore/internal/repositories"
	"pandastore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// BlogHandler handles HTTP requests for the blog site: post listing,
// per-slug lookup, and contact-form submissions.
type BlogHandler struct {
	service  *services.BlogService
	validate *validator.Validate
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(service *services.BlogService) *BlogHandler {
	return &BlogHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public blog routes.
func (h *BlogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/blogs", h.HandleGetBlogs)
	router.Get("/getblog/:slug", h.HandleGetBlog)
	router.Post("/contact", h.HandleContact)
}

// HandleGetBlogs returns all blog posts, newest first.
func (h *BlogHandler) HandleGetBlogs(c *fiber.Ctx) error {
	blogs, err := h.service.GetAllBlogs()
	if err != nil {
		log.Printf("Error getting blog posts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch blogs",
		})
	}
	return c.JSON(fiber.Map{"blogs": blogs})
}

// HandleGetBlog returns a single blog post by its slug.
func (h *BlogHandler) HandleGetBlog(c *fiber.Ctx) error {
	slug := c.Params("slug")
	blog, err := h.service.GetBlogBySlug(slug)
	if err != nil {
		if errors.Is(err, repositories.ErrBlogNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Blog not found",
			})
		}
		log.Printf("Error getting blog %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch blog",
		})
	}
	return c.JSON(blog)
}

// HandleContact accepts a contact-form submission. Every field is
// required; incomplete submissions are rejected without being stored.
func (h *BlogHandler) HandleContact(c *fiber.Ctx) error {
	var message models.ContactMessage
	if err := c.BodyParser(&message); err != nil {
		log.Printf("Error parsing contact request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if err := h.validate.Struct(message); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "All fields are required",
		})
	}

	if err := h.service.SubmitContactMessage(&message); err != nil {
		log.Printf("Error saving contact message from %s: %v", message.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to send message",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Message sent successfully!",
	})
}
