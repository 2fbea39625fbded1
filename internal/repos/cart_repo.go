package repos

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/samukelok/harvviie-backend/internal/domain"
	"github.com/samukelok/harvviie-backend/internal/pricing"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

func ownerColumn(owner domain.CartOwner) (col, key string) {
	if owner.Anonymous() {
		return "session_id", owner.SessionID
	}
	return "user_id", owner.UserID
}

// GetOrCreate returns the owner's active cart id, creating the row on first
// access. The insert relies on the partial unique indexes: two concurrent
// first-time calls race on the insert, one loses via ON CONFLICT DO NOTHING,
// and both re-read the same surviving row.
func (r *CartRepo) GetOrCreate(owner domain.CartOwner) (string, error) {
	col, key := ownerColumn(owner)

	var id string
	err := r.db.Get(&id, `SELECT id FROM carts WHERE `+col+` = ? AND status = 'active'`, key)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	if _, err := r.db.Exec(`
		INSERT INTO carts(id, `+col+`, status) VALUES(?, ?, 'active')
		ON CONFLICT DO NOTHING
	`, uuid.NewString(), key); err != nil {
		return "", err
	}
	if err := r.db.Get(&id, `SELECT id FROM carts WHERE `+col+` = ? AND status = 'active'`, key); err != nil {
		return "", err
	}
	return id, nil
}

// LoadWithItems materializes the full cart aggregate in two queries; no
// per-field lazy loading.
func (r *CartRepo) LoadWithItems(cartID string) (domain.Cart, error) {
	var cart domain.Cart
	err := r.db.Get(&cart, `
	  SELECT id, COALESCE(user_id,'') AS user_id, COALESCE(session_id,'') AS session_id,
	         status, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM carts WHERE id = ?
	`, cartID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cart{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Cart{}, err
	}

	cart.Items = []domain.CartItem{}
	err = r.db.Select(&cart.Items, `
	  SELECT id, cart_id, product_id, quantity, unit_price_cents,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM cart_items
	  WHERE cart_id = ?
	  ORDER BY created_at, id
	`, cartID)
	return cart, err
}

type productSnapshot struct {
	PriceCents      int  `db:"price_cents"`
	DiscountPercent int  `db:"discount_percent"`
	Stock           int  `db:"stock"`
	IsActive        bool `db:"is_active"`
}

func getSnapshot(tx *sqlx.Tx, productID string) (productSnapshot, error) {
	var p productSnapshot
	err := tx.Get(&p, `
	  SELECT price_cents, discount_percent, stock, is_active
	  FROM products WHERE id = ? AND deleted = 0
	`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return productSnapshot{}, domain.ErrNotFound
	}
	if err != nil {
		return productSnapshot{}, err
	}
	if !p.IsActive {
		return productSnapshot{}, domain.ErrNotFound
	}
	return p, nil
}

// AddItem creates or merges a cart line after an advisory stock check. The
// check counts quantity already carted for the same product, and the unit
// price is re-snapshotted from the product's current discounted price.
// Stock itself is not decremented here; that happens at order placement.
func (r *CartRepo) AddItem(cartID, productID string, qty int) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	p, err := getSnapshot(tx, productID)
	if err != nil {
		return err
	}

	have := 0
	if err := tx.Get(&have, `
	  SELECT quantity FROM cart_items WHERE cart_id = ? AND product_id = ?
	`, cartID, productID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if p.Stock < qty+have {
		return &domain.InsufficientStockError{ProductID: productID, Available: p.Stock}
	}

	unit := pricing.UnitPriceCents(p.PriceCents, p.DiscountPercent)
	if _, err := tx.Exec(`
		INSERT INTO cart_items(id, cart_id, product_id, quantity, unit_price_cents, created_at)
		VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id, product_id) DO UPDATE
		SET quantity = quantity + excluded.quantity,
		    unit_price_cents = excluded.unit_price_cents,
		    updated_at = CURRENT_TIMESTAMP
	`, uuid.NewString(), cartID, productID, qty, unit); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE carts SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, cartID); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateItem replaces a line's quantity. Ownership is checked first: an item
// id that is not in this cart reads as not found, regardless of whether it
// exists elsewhere.
func (r *CartRepo) UpdateItem(cartID, itemID string, qty int) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var productID string
	err = tx.Get(&productID, `SELECT product_id FROM cart_items WHERE id = ? AND cart_id = ?`, itemID, cartID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}

	p, err := getSnapshot(tx, productID)
	if err != nil {
		return err
	}
	if p.Stock < qty {
		return &domain.InsufficientStockError{ProductID: productID, Available: p.Stock}
	}

	unit := pricing.UnitPriceCents(p.PriceCents, p.DiscountPercent)
	if _, err := tx.Exec(`
		UPDATE cart_items
		SET quantity = ?, unit_price_cents = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND cart_id = ?
	`, qty, unit, itemID, cartID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE carts SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, cartID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *CartRepo) RemoveItem(cartID, itemID string) error {
	res, err := r.db.Exec(`DELETE FROM cart_items WHERE id = ? AND cart_id = ?`, itemID, cartID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	_, _ = r.db.Exec(`UPDATE carts SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, cartID)
	return nil
}

// Clear empties the cart; clearing an already-empty cart is a no-op.
func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}

// MergeForLogin folds a guest session cart into the user's cart. Lines for
// the same product merge quantities and keep the guest cart's newer price
// snapshot; the session cart is then marked abandoned so the one-active-cart
// rule keeps holding for that session key.
func (r *CartRepo) MergeForLogin(sessionID, userID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var srcID string
	err = tx.Get(&srcID, `SELECT id FROM carts WHERE session_id = ? AND status = 'active'`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // nothing to merge
	}
	if err != nil {
		return err
	}

	var dstID string
	err = tx.Get(&dstID, `SELECT id FROM carts WHERE user_id = ? AND status = 'active'`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		dstID = uuid.NewString()
		if _, err := tx.Exec(`
			INSERT INTO carts(id, user_id, status) VALUES(?, ?, 'active')
		`, dstID, userID); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	var lines []domain.CartItem
	if err := tx.Select(&lines, `
	  SELECT id, cart_id, product_id, quantity, unit_price_cents,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM cart_items WHERE cart_id = ?
	`, srcID); err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := tx.Exec(`
			INSERT INTO cart_items(id, cart_id, product_id, quantity, unit_price_cents, created_at)
			VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(cart_id, product_id) DO UPDATE
			SET quantity = quantity + excluded.quantity,
			    unit_price_cents = excluded.unit_price_cents,
			    updated_at = CURRENT_TIMESTAMP
		`, uuid.NewString(), dstID, l.ProductID, l.Quantity, l.UnitPriceCents); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, srcID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE carts SET status = 'abandoned', updated_at = CURRENT_TIMESTAMP WHERE id = ?`, srcID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE carts SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, dstID); err != nil {
		return err
	}
	return tx.Commit()
}
