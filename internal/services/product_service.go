package services

import (
	"fmt"

	"pandastore/internal/models"
	"pandastore/internal/repositories"
)

// ProductService handles business logic related to the product catalog.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// UpdateProducts applies a batch of catalog updates: existing products
// (with an ID) are updated in place, the rest are created.
func (s *ProductService) UpdateProducts(products []models.Product) error {
	for i := range products {
		p := &products[i]
		if p.ID == "" {
			if err := s.repo.Create(p); err != nil {
				return fmt.Errorf("failed to create product %s: %w", p.Slug, err)
			}
			continue
		}
		if err := s.repo.Update(p); err != nil {
			return fmt.Errorf("failed to update product %s: %w", p.ID, err)
		}
	}
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}
