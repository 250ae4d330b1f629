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
)

// CreateOrder persists an order and its line items in one transaction.
func (s *SQLiteStore) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	var userID interface{}
	if order.UserID != "" {
		userID = order.UserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, total, currency, status, payment_session_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		order.ID, userID, order.Total, order.Currency, string(order.Status),
		order.PaymentSessionID, toNanos(order.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i, item := range order.Items {
		var productID interface{}
		if item.ProductID != "" {
			productID = item.ProductID
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, position, product_id, name, price, quantity)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			order.ID, i, productID, item.Name, item.Price, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetOrder retrieves an order by ID, including its line items in submission order.
func (s *SQLiteStore) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order := &models.Order{}
	var userID sql.NullString
	var status string
	var createdAt int64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, total, currency, status, payment_session_id, created_at
		 FROM orders WHERE id = ?`,
		orderID,
	).Scan(&order.ID, &userID, &order.Total, &order.Currency, &status,
		&order.PaymentSessionID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("order", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if userID.Valid {
		order.UserID = userID.String
	}
	order.Status = models.OrderStatus(status)
	order.CreatedAt = fromNanos(createdAt)

	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, name, price, quantity
		 FROM order_items WHERE order_id = ? ORDER BY position`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	order.Items = []models.LineItem{}
	for rows.Next() {
		var item models.LineItem
		var productID sql.NullString
		if err := rows.Scan(&productID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		if productID.Valid {
			item.ProductID = productID.String
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order items: %w", err)
	}

	return order, nil
}
