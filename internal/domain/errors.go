package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound covers both a missing record and a record that exists but
// does not belong to the caller; the two are indistinguishable on purpose.
var ErrNotFound = errors.New("not found")

// InsufficientStockError is returned when a requested quantity (plus any
// quantity already carted) exceeds the product's current stock.
type InsufficientStockError struct {
	ProductID string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (available %d)", e.ProductID, e.Available)
}
