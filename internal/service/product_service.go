package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/shopboard/internal/apperr"
	"github.com/mmynk/shopboard/internal/models"
	"github.com/mmynk/shopboard/internal/storage"
)

// ProductInput is the client-supplied data for a new product. Price is a
// pointer so an absent price can be told apart from a price of zero.
type ProductInput struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Description string   `json:"description"`
}

// ProductService exposes the storefront catalog.
type ProductService struct {
	store storage.ProductStore
}

// NewProductService creates a new ProductService with the given storage backend.
func NewProductService(store storage.ProductStore) *ProductService {
	return &ProductService{store: store}
}

// CreateProduct validates the input and persists a new product.
func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	slog.Info("CreateProduct request received", "name", in.Name)

	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if in.Price == nil {
		return nil, apperr.Required("price")
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		slog.Error("CreateProduct failed", "error", err)
		return nil, err
	}

	slog.Info("Product created", "product_id", product.ID)
	return product, nil
}

// GetProduct retrieves a product by ID.
func (s *ProductService) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		slog.Warn("GetProduct failed", "product_id", productID, "error", err)
		return nil, err
	}
	return product, nil
}

// ListProducts retrieves products in creation order.
func (s *ProductService) ListProducts(ctx context.Context, page storage.Page) ([]*models.Product, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	products, err := s.store.ListProducts(ctx, page)
	if err != nil {
		slog.Error("ListProducts failed", "error", err)
		return nil, err
	}

	slog.Debug("ListProducts successful", "count", len(products))
	return products, nil
}

// DeleteProduct removes a product by ID.
func (s *ProductService) DeleteProduct(ctx context.Context, productID string) error {
	if err := s.store.DeleteProduct(ctx, productID); err != nil {
		slog.Warn("DeleteProduct failed", "product_id", productID, "error", err)
		return err
	}

	slog.Info("Product deleted", "product_id", productID)
	return nil
}
