package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"pandastore/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order // keyed by orderId
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// GetByOrderID returns an order by its orderId.
func (r *MockOrderRepository) GetByOrderID(orderID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
	}
	return &order, nil
}

// GetByEmail returns all orders placed with the given email, newest first.
func (r *MockOrderRepository) GetByEmail(email string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.orders {
		if order.Email == email {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.OrderID]; exists {
		return fmt.Errorf("order with orderId %s already exists", order.OrderID)
	}
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = time.Now()
	r.orders[order.OrderID] = *order
	return nil
}

// MarkPaid transitions an order out of Pending into Paid.
func (r *MockOrderRepository) MarkPaid(orderID string, paymentInfo string) (bool, error) {
	return r.transition(orderID, models.OrderStatusPaid, paymentInfo)
}

// MarkFromPending applies a non-success transition out of Pending.
func (r *MockOrderRepository) MarkFromPending(orderID string, status string, paymentInfo string) (bool, error) {
	return r.transition(orderID, status, paymentInfo)
}

func (r *MockOrderRepository) transition(orderID, status, paymentInfo string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return false, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
	}
	if order.Status != models.OrderStatusPending {
		return false, nil
	}
	order.Status = status
	order.PaymentInfo = paymentInfo
	order.UpdatedAt = time.Now()
	r.orders[orderID] = order
	return true, nil
}
