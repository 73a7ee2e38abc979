package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"

	"pandastore/internal/models"
	"pandastore/internal/repositories"
)

// ErrPriceMismatch is returned when the client-claimed cart prices or
// subtotal disagree with the authoritative product catalog.
var ErrPriceMismatch = errors.New("price of some items has changed, please try again")

// CartItem is a single checkout cart line as submitted by the client.
type CartItem struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  int     `json:"qty" validate:"required,gt=0"`
	Price     float64 `json:"price" validate:"required,gt=0"`
}

// CheckoutRequest is the client's checkout submission.
type CheckoutRequest struct {
	Email    string     `json:"email" validate:"required,email"`
	OrderID  string     `json:"oid" validate:"required"`
	Cart     []CartItem `json:"cart" validate:"required,min=1,dive"`
	Address  string     `json:"address" validate:"required"`
	Subtotal float64    `json:"subtotal" validate:"required,gt=0"`
}

// CheckoutResult carries the gateway token back to the client so it can
// open the payment UI.
type CheckoutResult struct {
	Token      string
	OrderID    string
	MerchantID string
}

// CheckoutService handles checkout initiation: it re-prices the cart
// against the catalog, persists a Pending order, and obtains a transaction
// token from the payment gateway.
type CheckoutService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	gateway     TransactionInitiator
	merchantID  string
	events      EventPublisher
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, gateway TransactionInitiator, merchantID string, events EventPublisher) *CheckoutService {
	return &CheckoutService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		gateway:     gateway,
		merchantID:  merchantID,
		events:      events,
	}
}

// Initiate runs the pre-transaction flow. The Pending order is persisted
// before the gateway is contacted, so a record exists even when the gateway
// call fails or the callback arrives out of order; gateway failures leave
// that Pending order intact for diagnostics.
func (s *CheckoutService) Initiate(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	// Re-price the cart from the authoritative catalog instead of trusting
	// the client-claimed prices and subtotal.
	var subtotal float64
	items := make([]models.OrderItem, 0, len(req.Cart))
	for _, line := range req.Cart {
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("cart item %s: %w", line.ProductID, err)
		}
		if math.Abs(product.Price-line.Price) >= 0.01 {
			return nil, fmt.Errorf("cart item %s: %w", line.ProductID, ErrPriceMismatch)
		}
		if product.AvailableQty < line.Quantity {
			return nil, fmt.Errorf("product %s (requested: %d, available: %d): %w",
				product.Title, line.Quantity, product.AvailableQty, repositories.ErrInsufficientStock)
		}
		subtotal += product.Price * float64(line.Quantity)
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
	}
	if math.Abs(subtotal-req.Subtotal) >= 0.01 {
		return nil, fmt.Errorf("subtotal %.2f does not match cart total %.2f: %w", req.Subtotal, subtotal, ErrPriceMismatch)
	}

	order := &models.Order{
		OrderID: req.OrderID,
		Email:   req.Email,
		Items:   items,
		Address: req.Address,
		Amount:  subtotal,
		Status:  models.OrderStatusPending,
	}
	if err := s.orderRepo.Create(order); err != nil {
		// A retry with the same orderId is fine as long as the earlier
		// attempt is still Pending and the resubmitted cart matches what
		// was recorded; re-request the gateway token for it.
		existing, lookupErr := s.orderRepo.GetByOrderID(req.OrderID)
		if lookupErr != nil || existing.Status != models.OrderStatusPending {
			return nil, fmt.Errorf("failed to persist order %s: %w", req.OrderID, err)
		}
		if !cartMatchesOrder(existing, items, subtotal) {
			return nil, fmt.Errorf("order %s was already placed with a different cart (recorded amount %.2f, resubmitted %.2f): %w",
				req.OrderID, existing.Amount, subtotal, ErrPriceMismatch)
		}
		log.Printf("Order %s already pending, retrying transaction initiation", req.OrderID)
	} else {
		s.publish(EventOrderCreated, order)
	}

	resp, err := s.gateway.InitiateTransaction(ctx, req.OrderID, req.Email, subtotal)
	if err != nil {
		return nil, fmt.Errorf("transaction initiation for order %s failed: %w", req.OrderID, err)
	}

	return &CheckoutResult{
		Token:      resp.TxnToken,
		OrderID:    req.OrderID,
		MerchantID: s.merchantID,
	}, nil
}

// cartMatchesOrder reports whether the re-priced cart is the same purchase the
// order already records: equal amount and the same productId/qty lines. Without
// this check a dup-orderId retry could obtain a token priced for a cart other
// than the persisted one.
func cartMatchesOrder(order *models.Order, items []models.OrderItem, subtotal float64) bool {
	if math.Abs(order.Amount-subtotal) >= 0.01 {
		return false
	}
	if len(order.Items) != len(items) {
		return false
	}
	quantities := make(map[string]int, len(order.Items))
	for _, item := range order.Items {
		quantities[item.ProductID] += item.Quantity
	}
	for _, item := range items {
		quantities[item.ProductID] -= item.Quantity
	}
	for _, qty := range quantities {
		if qty != 0 {
			return false
		}
	}
	return true
}

// OrdersByEmail lists all orders placed with the given email, newest first.
func (s *CheckoutService) OrdersByEmail(email string) ([]models.Order, error) {
	return s.orderRepo.GetByEmail(email)
}

// GetOrder retrieves a single order by its orderId.
func (s *CheckoutService) GetOrder(orderID string) (*models.Order, error) {
	return s.orderRepo.GetByOrderID(orderID)
}

// publish emits an order lifecycle event; failures are logged, never fatal.
func (s *CheckoutService) publish(eventType string, order *models.Order) {
	if s.events == nil {
		log.Println("Event publisher is not initialized. Skipping message publication.")
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"orderId": order.OrderID,
		"email":   order.Email,
		"status":  order.Status,
		"amount":  order.Amount,
	})
	if err != nil {
		log.Printf("Failed to marshal order event: %v", err)
		return
	}
	if err := s.events.Publish(eventType, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", eventType, order.OrderID, err)
	}
}
