package repositories

import (
	"errors"

	"pandastore/internal/models"
)

// ErrProductNotFound is returned when no product matches the given ID.
var ErrProductNotFound = errors.New("product not found")

// ErrInsufficientStock is returned by DecrementStock when the decrement
// would take availableQty below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// ProductRepository defines the interface for product data access.
//
// DecrementStock must be a single conditional update at the store layer
// (decrement only while enough stock remains), never a read-modify-write in
// application memory.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	DecrementStock(id string, qty int) error
}
