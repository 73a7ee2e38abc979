package repositories

import (
	"errors"

	"pandastore/internal/models"
)

// ErrOrderNotFound is returned when no order matches the given orderId.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order data access.
//
// MarkPaid and MarkFromPending are conditional updates: they transition an
// order only while its current status is Pending, and report whether a row
// actually transitioned. Callers must treat transitioned==false as "this
// order was already settled" and skip any follow-up mutation, which is what
// makes replayed gateway callbacks safe.
type OrderRepository interface {
	GetByOrderID(orderID string) (*models.Order, error)
	GetByEmail(email string) ([]models.Order, error)
	Create(order *models.Order) error
	MarkPaid(orderID string, paymentInfo string) (transitioned bool, err error)
	MarkFromPending(orderID string, status string, paymentInfo string) (transitioned bool, err error)
}
