package pricing_test

import (
	"testing"

	"github.com/samukelok/harvviie-backend/internal/domain"
	"github.com/samukelok/harvviie-backend/internal/pricing"
)

func TestUnitPriceCentsFloors(t *testing.T) {
	cases := []struct {
		price, disc, want int
	}{
		{45000, 0, 45000},
		{120000, 20, 96000},
		{1500, 20, 1200},
		{999, 33, 669}, // 669.33 floors
		{101, 50, 50},  // 50.5 floors
		{1, 99, 0},
	}
	for _, c := range cases {
		if got := pricing.UnitPriceCents(c.price, c.disc); got != c.want {
			t.Errorf("UnitPriceCents(%d,%d) = %d, want %d", c.price, c.disc, got, c.want)
		}
	}
}

func TestTaxCentsFloors(t *testing.T) {
	if got := pricing.TaxCents(1000, 0.15); got != 150 {
		t.Fatalf("TaxCents(1000, 0.15) = %d, want 150", got)
	}
	if got := pricing.TaxCents(101, 0.15); got != 15 {
		t.Fatalf("TaxCents(101, 0.15) = %d, want 15", got)
	}
	if got := pricing.TaxCents(0, 0.15); got != 0 {
		t.Fatalf("TaxCents(0, 0.15) = %d, want 0", got)
	}
}

func TestComputeTotals(t *testing.T) {
	items := []domain.CartItem{
		{ProductID: "a", Quantity: 2, UnitPriceCents: 1200},
	}
	got := pricing.Compute(items, 0.15)
	want := pricing.Totals{TotalItems: 2, SubtotalCents: 2400, TaxCents: 360, TotalCents: 2760}
	if got != want {
		t.Fatalf("Compute = %+v, want %+v", got, want)
	}
}

func TestComputeEmptyCart(t *testing.T) {
	got := pricing.Compute(nil, 0.15)
	if got != (pricing.Totals{}) {
		t.Fatalf("empty cart totals should be zero, got %+v", got)
	}
}

func TestTotalIsSubtotalPlusTax(t *testing.T) {
	items := []domain.CartItem{
		{ProductID: "a", Quantity: 3, UnitPriceCents: 96000},
		{ProductID: "b", Quantity: 1, UnitPriceCents: 45000},
	}
	tot := pricing.Compute(items, 0.15)
	if tot.TotalCents != tot.SubtotalCents+tot.TaxCents {
		t.Fatalf("total %d != subtotal %d + tax %d", tot.TotalCents, tot.SubtotalCents, tot.TaxCents)
	}
}
