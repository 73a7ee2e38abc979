package handlers

import (
	"log"

	"pandastore/internal/models"
	"pandastore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the public catalog routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/getproducts", h.HandleGetProducts)
}

// RegisterProtectedRoutes registers the catalog management routes.
func (h *ProductHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Post("/updateproducts", h.HandleUpdateProducts)
}

// HandleGetProducts returns the full product catalog.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Could not retrieve products",
		})
	}
	return c.JSON(fiber.Map{"products": products})
}

// HandleUpdateProducts applies a batch of catalog updates.
func (h *ProductHandler) HandleUpdateProducts(c *fiber.Ctx) error {
	var products []models.Product
	if err := c.BodyParser(&products); err != nil {
		log.Printf("Error parsing product update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if err := h.service.UpdateProducts(products); err != nil {
		log.Printf("Error updating products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Could not update products",
		})
	}

	return c.JSON(fiber.Map{"success": "Product Updated Successfully"})
}
