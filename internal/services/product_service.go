package services

import (
	"matjar/internal/catalog"
	"matjar/internal/models"
	"matjar/internal/repositories"
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

// GetAllProducts retrieves products, optionally filtered by category.
func (s *ProductService) GetAllProducts(categoryID string) ([]models.Product, error) {
	return s.repo.GetAll(categoryID)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// ImportProduct parses a raw backend document into a typed product record
// and stores it. Schema drift in the document is absorbed by the parser.
func (s *ProductService) ImportProduct(id string, doc map[string]any) (*models.Product, error) {
	product := catalog.ParseProduct(id, doc)
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}
