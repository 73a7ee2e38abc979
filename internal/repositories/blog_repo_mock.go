package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"pandastore/internal/models"

	"github.com/google/uuid"
)

// MockBlogRepository is an in-memory implementation of BlogRepository.
type MockBlogRepository struct {
	blogs map[string]models.Blog // keyed by slug
	mu    sync.RWMutex
}

// NewMockBlogRepository creates a new instance of MockBlogRepository.
func NewMockBlogRepository() *MockBlogRepository {
	return &MockBlogRepository{
		blogs: make(map[string]models.Blog),
	}
}

// GetAll returns all blog posts, newest first.
func (r *MockBlogRepository) GetAll() ([]models.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	blogList := make([]models.Blog, 0, len(r.blogs))
	for _, b := range r.blogs {
		blogList = append(blogList, b)
	}
	sort.Slice(blogList, func(i, j int) bool {
		return blogList[i].CreatedAt.After(blogList[j].CreatedAt)
	})
	return blogList, nil
}

// GetBySlug returns a blog post by its slug.
func (r *MockBlogRepository) GetBySlug(slug string) (*models.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	blog, ok := r.blogs[slug]
	if !ok {
		return nil, fmt.Errorf("blog %s: %w", slug, ErrBlogNotFound)
	}
	return &blog, nil
}

// Create adds a new blog post.
func (r *MockBlogRepository) Create(blog *models.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.blogs[blog.Slug]; exists {
		return fmt.Errorf("blog with slug %s already exists", blog.Slug)
	}
	if blog.ID == "" {
		blog.ID = uuid.New().String()
	}
	if blog.CreatedAt.IsZero() {
		blog.CreatedAt = time.Now()
	}
	r.blogs[blog.Slug] = *blog
	return nil
}
