package repositories

import (
	"sync"
	"time"

	"pandastore/internal/models"

	"github.com/google/uuid"
)

// MockContactRepository is an in-memory implementation of ContactRepository.
type MockContactRepository struct {
	messages []models.ContactMessage
	mu       sync.Mutex
}

// NewMockContactRepository creates a new instance of MockContactRepository.
func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{}
}

// Create stores a new contact message.
func (r *MockContactRepository) Create(message *models.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	r.messages = append(r.messages, *message)
	return nil
}

// Messages returns a copy of every stored contact message.
func (r *MockContactRepository) Messages() []models.ContactMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.ContactMessage, len(r.messages))
	copy(out, r.messages)
	return out
}
