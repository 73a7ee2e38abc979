package repositories

import (
	"fmt"

	"pandastore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetByOrderID retrieves a single order, with its line items, by the
// client-generated orderId.
func (r *GORMOrderRepository) GetByOrderID(orderID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "order_id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	return &order, nil
}

// GetByEmail retrieves all orders placed with the given email address.
func (r *GORMOrderRepository) GetByEmail(email string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Order("created_at DESC").Find(&orders, "email = ?", email).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for %s: %w", email, err)
	}
	return orders, nil
}

// Create persists a new order together with its line items.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order %s: %w", order.OrderID, err)
	}
	return nil
}

// MarkPaid transitions an order from Pending to Paid in a single conditional
// UPDATE and records the raw gateway payload. RowsAffected tells us whether
// this call won the transition; a replayed callback finds the order already
// Paid and affects zero rows.
func (r *GORMOrderRepository) MarkPaid(orderID string, paymentInfo string) (bool, error) {
	res := r.db.Model(&models.Order{}).
		Where("order_id = ? AND status = ?", orderID, models.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":       models.OrderStatusPaid,
			"payment_info": paymentInfo,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark order %s paid: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return false, r.checkExists(orderID)
	}
	return true, nil
}

// MarkFromPending applies a non-success transition (Pending re-affirmed or
// Failed) with the same only-out-of-Pending guard as MarkPaid, so a late
// failure callback can never clobber an order that already settled as Paid.
func (r *GORMOrderRepository) MarkFromPending(orderID string, status string, paymentInfo string) (bool, error) {
	res := r.db.Model(&models.Order{}).
		Where("order_id = ? AND status = ?", orderID, models.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"payment_info": paymentInfo,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update order %s to %s: %w", orderID, status, res.Error)
	}
	if res.RowsAffected == 0 {
		return false, r.checkExists(orderID)
	}
	return true, nil
}

// checkExists distinguishes "no such order" from "order exists but already
// left Pending" after a conditional update touched zero rows.
func (r *GORMOrderRepository) checkExists(orderID string) error {
	var count int64
	if err := r.db.Model(&models.Order{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check order %s: %w", orderID, err)
	}
	if count == 0 {
		return fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
	}
	return nil
}
