package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/shopboard/internal/apperr"
	"github.com/mmynk/shopboard/internal/models"
	"github.com/mmynk/shopboard/internal/storage"
)

// CreateProduct persists a new product to the database.
func (s *SQLiteStore) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO products (id, name, price, description, created_at) VALUES (?, ?, ?, ?, ?)",
		product.ID, product.Name, product.Price, product.Description, toNanos(product.CreatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("product %q: %w", product.ID, apperr.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

// GetProduct retrieves a product by ID.
func (s *SQLiteStore) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	product := &models.Product{}
	var createdAt int64

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, price, description, created_at FROM products WHERE id = ?",
		productID,
	).Scan(&product.ID, &product.Name, &product.Price, &product.Description, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("product", productID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	product.CreatedAt = fromNanos(createdAt)
	return product, nil
}

// ListProducts retrieves products in creation order.
func (s *SQLiteStore) ListProducts(ctx context.Context, page storage.Page) ([]*models.Product, error) {
	limit, offset := limitOffset(page)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, price, description, created_at
		 FROM products ORDER BY created_at, rowid LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		product := &models.Product{}
		var createdAt int64
		if err := rows.Scan(&product.ID, &product.Name, &product.Price, &product.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		product.CreatedAt = fromNanos(createdAt)
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// DeleteProduct removes a product by ID.
func (s *SQLiteStore) DeleteProduct(ctx context.Context, productID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("product", productID)
	}
	return nil
}
