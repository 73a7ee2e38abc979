package services

import (
	"pandastore/internal/models"
	"pandastore/internal/repositories"
)

// BlogService handles the blog site's content: post listing, per-slug
// lookup, and contact-form submissions.
type BlogService struct {
	blogRepo    repositories.BlogRepository
	contactRepo repositories.ContactRepository
}

// NewBlogService creates a new BlogService.
func NewBlogService(blogRepo repositories.BlogRepository, contactRepo repositories.ContactRepository) *BlogService {
	return &BlogService{
		blogRepo:    blogRepo,
		contactRepo: contactRepo,
	}
}

// GetAllBlogs retrieves all blog posts, newest first.
func (s *BlogService) GetAllBlogs() ([]models.Blog, error) {
	return s.blogRepo.GetAll()
}

// GetBlogBySlug retrieves a single blog post by its slug.
func (s *BlogService) GetBlogBySlug(slug string) (*models.Blog, error) {
	return s.blogRepo.GetBySlug(slug)
}

// CreateBlog publishes a new blog post.
func (s *BlogService) CreateBlog(blog *models.Blog) error {
	return s.blogRepo.Create(blog)
}

// SubmitContactMessage persists a contact-form submission.
func (s *BlogService) SubmitContactMessage(message *models.ContactMessage) error {
	return s.contactRepo.Create(message)
}
