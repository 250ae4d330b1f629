package models

import (
	"math"
	"strings"
	"time"

	"github.com/mmynk/shopboard/internal/apperr"
)

// Product is a catalog entry.
type Product struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Price       float64   `json:"price" bson:"price"`
	Description string    `json:"description" bson:"description"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// Validate checks the fields a store requires before insert.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Required("name")
	}
	return validatePrice("price", p.Price)
}

func validatePrice(field string, price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return apperr.Invalid(field, "must be a finite number")
	}
	if price < 0 {
		return apperr.Invalid(field, "must not be negative")
	}
	return nil
}
