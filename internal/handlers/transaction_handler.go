package handlers

import (
	"errors"
	"fmt"
	"log"

	"pandastore/internal/repositories"
	"pandastore/internal/services"
	"pandastore/pkg/paytm"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// TransactionHandler handles the checkout initiation endpoint and the
// payment gateway's asynchronous status callback.
type TransactionHandler struct {
	checkout *services.CheckoutService
	callback *services.CallbackService
	validate *validator.Validate
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(checkout *services.CheckoutService, callback *services.CallbackService) *TransactionHandler {
	return &TransactionHandler{
		checkout: checkout,
		callback: callback,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public transaction routes. Only POST is
// registered, so other methods get a method-not-allowed response.
func (h *TransactionHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/pretransaction", h.HandlePreTransaction)
	router.Post("/posttransaction", h.HandlePostTransaction)
}

// RegisterProtectedRoutes registers the order lookup routes that require a
// logged-in user.
func (h *TransactionHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/myorder", h.HandleMyOrders)
	router.Get("/order/:oid", h.HandleGetOrder)
}

// HandlePreTransaction validates the checkout submission, persists a
// Pending order, and returns the gateway transaction token.
func (h *TransactionHandler) HandlePreTransaction(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Missing required fields",
			"errors":  errorMessages,
		})
	}

	result, err := h.checkout.Initiate(c.UserContext(), req)
	if err != nil {
		log.Printf("Checkout initiation failed for order %s: %v", req.OrderID, err)
		switch {
		case errors.Is(err, services.ErrPriceMismatch),
			errors.Is(err, repositories.ErrProductNotFound),
			errors.Is(err, repositories.ErrInsufficientStock):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		case errors.Is(err, paytm.ErrTimeout), errors.Is(err, paytm.ErrNetwork):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"success": false,
				"error":   "Transaction failed, please try again",
			})
		case errors.Is(err, paytm.ErrProtocol):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"success": false,
				"error":   "Transaction failed",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Transaction failed",
			})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   result.Token,
		"orderId": result.OrderID,
		"mid":     result.MerchantID,
	})
}

// callbackRequest is the minimal shape of the gateway's status callback;
// the full raw body is stored on the order for audit.
type callbackRequest struct {
	OrderID string `json:"ORDERID"`
	Status  string `json:"STATUS"`
}

// HandlePostTransaction applies the gateway's final payment decision to the
// order and, on success, reconciles inventory.
func (h *TransactionHandler) HandlePostTransaction(c *fiber.Ctx) error {
	var req callbackRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing gateway callback body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if req.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "ORDERID is required",
		})
	}

	// Copy the raw body: fiber reuses its buffer once the handler returns.
	raw := make([]byte, len(c.Body()))
	copy(raw, c.Body())

	order, err := h.callback.Process(req.OrderID, req.Status, raw)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Order not found",
			})
		}
		log.Printf("Error processing payment callback for order %s: %v", req.OrderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Internal Server Error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// HandleMyOrders lists the logged-in user's orders. The email comes from
// the validated JWT claims, never from the query string.
func (h *TransactionHandler) HandleMyOrders(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)
	if email == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Missing email claim",
		})
	}

	orders, err := h.checkout.OrdersByEmail(email)
	if err != nil {
		log.Printf("Error getting orders for %s: %v", email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Could not retrieve orders",
		})
	}

	return c.JSON(fiber.Map{"orders": orders})
}

// HandleGetOrder retrieves a single order of the logged-in user.
func (h *TransactionHandler) HandleGetOrder(c *fiber.Ctx) error {
	orderID := c.Params("oid")
	order, err := h.checkout.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   fmt.Sprintf("Order %s not found", orderID),
			})
		}
		log.Printf("Error getting order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Could not retrieve order",
		})
	}

	// Users may only see their own orders.
	if email, _ := c.Locals("email").(string); email != order.Email {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "Order belongs to another account",
		})
	}

	return c.JSON(fiber.Map{"success": true, "order": order})
}
