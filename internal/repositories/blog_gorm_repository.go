package repositories

import (
	"fmt"

	"pandastore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBlogRepository is a GORM implementation of BlogRepository.
type GORMBlogRepository struct {
	db *gorm.DB
}

// NewGORMBlogRepository creates a new instance of GORMBlogRepository.
func NewGORMBlogRepository(db *gorm.DB) *GORMBlogRepository {
	return &GORMBlogRepository{
		db: db,
	}
}

// GetAll retrieves all blog posts, newest first.
func (r *GORMBlogRepository) GetAll() ([]models.Blog, error) {
	var blogs []models.Blog
	if err := r.db.Order("created_at DESC").Find(&blogs).Error; err != nil {
		return nil, fmt.Errorf("failed to get blog posts: %w", err)
	}
	return blogs, nil
}

// GetBySlug retrieves a single blog post by its slug.
func (r *GORMBlogRepository) GetBySlug(slug string) (*models.Blog, error) {
	var blog models.Blog
	if err := r.db.First(&blog, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("blog %s: %w", slug, ErrBlogNotFound)
		}
		return nil, fmt.Errorf("failed to get blog %s: %w", slug, err)
	}
	return &blog, nil
}

// Create persists a new blog post.
func (r *GORMBlogRepository) Create(blog *models.Blog) error {
	if blog.ID == "" {
		blog.ID = uuid.New().String()
	}
	if err := r.db.Create(blog).Error; err != nil {
		return fmt.Errorf("failed to create blog %s: %w", blog.Slug, err)
	}
	return nil
}
