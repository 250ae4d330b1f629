package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/shopboard/internal/apperr"
)

// OrderStatus is the payment state of an order.
type OrderStatus string

// OrderStatusPending is the only state an order reaches without webhook
// reconciliation: a payment session was opened for it.
const OrderStatusPending OrderStatus = "pending"

// LineItem is one product line submitted at checkout.
type LineItem struct {
	// ProductID optionally references a catalog Product. It is not checked.
	ProductID string  `json:"productId,omitempty" bson:"product_id,omitempty"`
	Name      string  `json:"name" bson:"name"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int64   `json:"quantity" bson:"quantity"`
}

// Validate checks a single line. index is used to name the offending field.
func (li LineItem) Validate(index int) error {
	prefix := fmt.Sprintf("items[%d].", index)
	if strings.TrimSpace(li.Name) == "" {
		return apperr.Required(prefix + "name")
	}
	if err := validatePrice(prefix+"price", li.Price); err != nil {
		return err
	}
	if li.Quantity < 1 {
		return apperr.Invalid(prefix+"quantity", "must be at least 1")
	}
	return nil
}

// Order records a checkout attempt.
type Order struct {
	ID string `json:"id" bson:"_id"`

	// UserID is the authenticated buyer, empty for guest checkouts.
	UserID string `json:"userId,omitempty" bson:"user_id,omitempty"`

	Items    []LineItem  `json:"items" bson:"items"`
	Total    float64     `json:"total" bson:"total"`
	Currency string      `json:"currency" bson:"currency"`
	Status   OrderStatus `json:"status" bson:"status"`

	// PaymentSessionID is the provider's checkout session identifier.
	PaymentSessionID string `json:"paymentSessionId" bson:"payment_session_id"`

	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}
