package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/shopboard/internal/apperr"
	"github.com/mmynk/shopboard/internal/calculator"
	"github.com/mmynk/shopboard/internal/middleware"
	"github.com/mmynk/shopboard/internal/models"
	"github.com/mmynk/shopboard/internal/payment"
	"github.com/mmynk/shopboard/internal/storage"
)

// CheckoutRequest is the cart submitted by the client.
type CheckoutRequest struct {
	Items []models.LineItem `json:"items"`
}

// CheckoutResult tells the client where to complete payment.
type CheckoutResult struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
	OrderID   string `json:"orderId"`
}

// CheckoutService prices carts, opens payment sessions and records orders.
type CheckoutService struct {
	provider     payment.Provider
	orders       storage.OrderStore
	currency     string
	clientOrigin string
}

// NewCheckoutService creates a new CheckoutService. clientOrigin is the base
// URL the payment provider redirects back to.
func NewCheckoutService(provider payment.Provider, orders storage.OrderStore, currency, clientOrigin string) *CheckoutService {
	return &CheckoutService{
		provider:     provider,
		orders:       orders,
		currency:     strings.ToLower(currency),
		clientOrigin: strings.TrimRight(clientOrigin, "/"),
	}
}

// Checkout opens a payment session for the cart and records a pending order.
// Nothing is persisted when the provider rejects the session.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	slog.Info("Checkout request received", "items_count", len(req.Items), "provider", s.provider.Name())

	totals, err := calculator.CalculateOrder(req.Items)
	if err != nil {
		return nil, err
	}

	orderID := uuid.New().String()
	session, err := s.provider.CreateSession(ctx, payment.SessionRequest{
		OrderID:       orderID,
		Currency:      s.currency,
		Lines:         totals.Lines,
		CustomerEmail: middleware.GetEmail(ctx),
		SuccessURL:    s.clientOrigin + "/success",
		CancelURL:     s.clientOrigin + "/cancel",
	})
	if err != nil {
		slog.Error("Payment session failed", "order_id", orderID, "provider", s.provider.Name(), "error", err)
		return nil, err
	}

	order := &models.Order{
		ID:               orderID,
		UserID:           middleware.GetUserID(ctx),
		Items:            req.Items,
		Total:            totals.Total(),
		Currency:         s.currency,
		Status:           models.OrderStatusPending,
		PaymentSessionID: session.ID,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		slog.Error("CreateOrder failed", "order_id", orderID, "session_id", session.ID, "error", err)
		return nil, err
	}

	slog.Info("Checkout session created",
		"order_id", orderID,
		"session_id", session.ID,
		"total", order.Total,
		"currency", order.Currency,
	)

	return &CheckoutResult{
		SessionID: session.ID,
		URL:       session.URL,
		OrderID:   orderID,
	}, nil
}

// GetOrder retrieves an order. Orders placed by a signed-in user are only
// visible to that user.
func (s *CheckoutService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		slog.Warn("GetOrder failed", "order_id", orderID, "error", err)
		return nil, err
	}
	if order.UserID != "" && order.UserID != middleware.GetUserID(ctx) {
		return nil, apperr.NotFound("order", orderID)
	}
	return order, nil
}
