// Package pricing computes cart money amounts. Everything here is a pure
// function of its inputs; persistence and stock rules live elsewhere.
package pricing

import "github.com/samukelok/harvviie-backend/internal/domain"

// DefaultTaxRate is the VAT rate applied when config does not override it.
const DefaultTaxRate = 0.15

// UnitPriceCents returns the discounted unit price, floor-rounded.
func UnitPriceCents(priceCents, discountPercent int) int {
	if discountPercent > 0 {
		return priceCents * (100 - discountPercent) / 100
	}
	return priceCents
}

// SubtotalCents sums quantity x snapshot unit price over the cart lines.
// Snapshot prices are used deliberately: the subtotal honors the price at
// add-time even when the catalog price has since changed.
func SubtotalCents(items []domain.CartItem) int {
	total := 0
	for _, it := range items {
		total += it.Quantity * it.UnitPriceCents
	}
	return total
}

// TaxCents is floor(subtotal x rate).
func TaxCents(subtotalCents int, rate float64) int {
	return int(float64(subtotalCents) * rate)
}

// Totals bundles the derived amounts for a cart view.
type Totals struct {
	TotalItems    int `json:"total_items"`
	SubtotalCents int `json:"subtotal_cents"`
	TaxCents      int `json:"tax_cents"`
	TotalCents    int `json:"total_cents"`
}

// Compute derives all totals for a set of cart lines at the given tax rate.
func Compute(items []domain.CartItem, taxRate float64) Totals {
	t := Totals{}
	for _, it := range items {
		t.TotalItems += it.Quantity
	}
	t.SubtotalCents = SubtotalCents(items)
	t.TaxCents = TaxCents(t.SubtotalCents, taxRate)
	t.TotalCents = t.SubtotalCents + t.TaxCents
	return t
}
