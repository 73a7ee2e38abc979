package repositories

import (
	"errors"

	"pandastore/internal/models"
)

// ErrUserNotFound is returned when no user matches the given key.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
