package repositories

import "pandastore/internal/models"

// ContactRepository defines the interface for contact-message persistence.
type ContactRepository interface {
	Create(message *models.ContactMessage) error
}
