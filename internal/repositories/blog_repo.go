package repositories

import (
	"errors"

	"pandastore/internal/models"
)

// ErrBlogNotFound is returned when no blog post matches the given slug.
var ErrBlogNotFound = errors.New("blog post not found")

// BlogRepository defines the interface for blog post data access.
type BlogRepository interface {
	GetAll() ([]models.Blog, error)
	GetBySlug(slug string) (*models.Blog, error)
	Create(blog *models.Blog) error
}
