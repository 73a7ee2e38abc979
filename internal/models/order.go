package models

import "time"

// Order statuses. Paid is terminal: once an order is Paid it never
// transitions again, so replayed gateway callbacks cannot re-mutate it.
const (
	OrderStatusPending = "Pending"
	OrderStatusPaid    = "Paid"
	OrderStatusFailed  = "Failed"
)

// OrderItem is a single line of an order, snapshotting the price the
// customer saw at checkout time.
type OrderItem struct {
	ID        uint    `json:"-" gorm:"primaryKey"`
	OrderID   string  `json:"-" gorm:"index;type:varchar(64)"`
	ProductID string  `json:"productId" gorm:"type:varchar(36)"`
	Quantity  int     `json:"qty"`
	Price     float64 `json:"price"`
}

// Order represents a customer's attempted purchase, tracked through the
// Pending/Paid/Failed lifecycle. OrderID is the client-generated identifier
// the payment gateway echoes back in its callback.
type Order struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string      `json:"orderId" gorm:"uniqueIndex;type:varchar(64)"`
	Email       string      `json:"email" gorm:"type:varchar(255)"`
	Items       []OrderItem `json:"products" gorm:"foreignKey:OrderID;references:OrderID"`
	Address     string      `json:"address" gorm:"type:varchar(500)"`
	Amount      float64     `json:"amount"`
	Status      string      `json:"status" gorm:"type:varchar(16);default:Pending"`
	PaymentInfo string      `json:"paymentInfo,omitempty" gorm:"type:text"` // raw gateway callback payload, kept for audit
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
