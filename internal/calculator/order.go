// Package calculator computes checkout totals from submitted line items.
package calculator

import (
	"fmt"
	"math"

	"github.com/mmynk/shopboard/internal/apperr"
	"github.com/mmynk/shopboard/internal/models"
)

// maxMinorUnits bounds any single amount so sums cannot overflow int64.
const maxMinorUnits = math.MaxInt64 / 1024

// LineTotal is the priced result for one submitted line.
type LineTotal struct {
	Name string
	// UnitAmount is the unit price in minor currency units (cents).
	UnitAmount int64
	Quantity   int64
	// Subtotal is UnitAmount × Quantity in minor units.
	Subtotal int64
}

// OrderTotals is the output of CalculateOrder.
type OrderTotals struct {
	Lines []LineTotal
	// TotalMinor is the sum of line subtotals in minor units.
	TotalMinor int64
}

// Total returns the order total in major units (e.g. dollars).
func (t *OrderTotals) Total() float64 {
	return FromMinorUnits(t.TotalMinor)
}

// CalculateOrder prices every line and sums them.
// Prices are rounded to cents before multiplying so the total equals the sum
// of what the provider will charge per line.
func CalculateOrder(items []models.LineItem) (*OrderTotals, error) {
	if len(items) == 0 {
		return nil, apperr.Required("items")
	}

	totals := &OrderTotals{Lines: make([]LineTotal, len(items))}
	for i, item := range items {
		if err := item.Validate(i); err != nil {
			return nil, err
		}

		if item.Price*100 > float64(maxMinorUnits) {
			return nil, apperr.Invalid(fmt.Sprintf("items[%d].price", i), "is too large")
		}
		unit := ToMinorUnits(item.Price)
		if unit > maxMinorUnits || (unit > 0 && item.Quantity > maxMinorUnits/unit) {
			return nil, apperr.Invalid("items", "amount is too large")
		}
		subtotal := unit * item.Quantity
		if totals.TotalMinor > maxMinorUnits-subtotal {
			return nil, apperr.Invalid("items", "amount is too large")
		}

		totals.Lines[i] = LineTotal{
			Name:       item.Name,
			UnitAmount: unit,
			Quantity:   item.Quantity,
			Subtotal:   subtotal,
		}
		totals.TotalMinor += subtotal
	}

	return totals, nil
}

// ToMinorUnits converts a major-unit amount to cents, rounding half away from zero.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromMinorUnits converts cents back to a major-unit amount.
func FromMinorUnits(minor int64) float64 {
	return float64(minor) / 100
}
