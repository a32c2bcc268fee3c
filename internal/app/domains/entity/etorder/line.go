package etorder

import (
	"strings"

	"github.com/shopspring/decimal"

	"freshmart/internal/app/pkg/errorx"
)

// Line order line (value object). Name, price and unit are snapshots taken when the
// line was added and never follow later catalog changes.
type Line struct {
	ProductID *int64  `json:"productId,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Unit      string  `json:"unit,omitempty"`
}

// Validate checks the line invariants: a name, quantity >= 1, price >= 0.
func (l Line) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return errorx.Validation("items.name", "item name is required")
	}
	if l.Quantity < 1 {
		return errorx.Validation("items.quantity", "item quantity must be at least 1")
	}
	if l.Price < 0 {
		return errorx.Validation("items.price", "item price must not be negative")
	}
	return nil
}

// matches prefers the product reference when both lines carry one and falls back
// to the (name, unit) pair otherwise.
func (l Line) matches(other Line) bool {
	if l.ProductID != nil && other.ProductID != nil {
		return *l.ProductID == *other.ProductID
	}
	return l.Name == other.Name && l.Unit == other.Unit
}

// Subtotal price * quantity, unrounded.
func (l Line) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ComputeTotal returns round2(sum(price*quantity) + deliveryCharge).
// Rounding is half away from zero on the decimal value, so 1.005 becomes 1.01.
func ComputeTotal(lines []Line, deliveryCharge float64) float64 {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal())
	}
	total, _ := sum.Add(decimal.NewFromFloat(deliveryCharge)).Round(2).Float64()
	return total
}

// RoundCharge rounds a money amount to 2 places, half away from zero.
func RoundCharge(v float64) float64 {
	r, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return r
}

func cloneLine(l Line) Line {
	if l.ProductID != nil {
		id := *l.ProductID
		l.ProductID = &id
	}
	return l
}
