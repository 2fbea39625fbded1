package repos

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/samukelok/harvviie-backend/internal/domain"
	"github.com/samukelok/harvviie-backend/internal/pricing"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `
  id, order_number, COALESCE(user_id,'') AS user_id, customer_name, customer_email,
  items_json, amount_cents, status, shipping_json, placed_at, created_at,
  COALESCE(updated_at,'') AS updated_at`

// nextOrderNumber issues HV-YYYYMMDD-NNNN, continuing the day's sequence.
// Runs inside the placement transaction so two orders cannot take the same
// number; the unique index on order_number backs it up.
func nextOrderNumber(tx *sqlx.Tx, now time.Time) (string, error) {
	prefix := "HV-" + now.Format("20060102") + "-"
	var last string
	err := tx.Get(&last, `
	  SELECT order_number FROM orders
	  WHERE order_number LIKE ?
	  ORDER BY order_number DESC LIMIT 1
	`, prefix+"%")
	seq := 1
	switch {
	case err == nil:
		n, perr := strconv.Atoi(last[len(last)-4:])
		if perr != nil {
			return "", fmt.Errorf("malformed order number %q", last)
		}
		seq = n + 1
	case errors.Is(err, sql.ErrNoRows):
	default:
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// CreateFromCart converts an active cart into an order in one transaction:
// re-read the lines, decrement stock per line with the conditional-update
// guard, snapshot the lines into items_json, and mark the cart converted.
// Any failed decrement aborts the whole transaction, so an over-sell that
// slipped past the cart's advisory check is caught here.
func (r *OrderRepo) CreateFromCart(cartID, userID, customerName, customerEmail string, shipping *domain.Address, taxRate float64) (domain.Order, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var items []domain.CartItem
	if err := tx.Select(&items, `
	  SELECT id, cart_id, product_id, quantity, unit_price_cents,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM cart_items WHERE cart_id = ? ORDER BY created_at, id
	`, cartID); err != nil {
		return domain.Order{}, err
	}
	if len(items) == 0 {
		return domain.Order{}, domain.ErrNotFound
	}

	lines := make([]domain.OrderLine, 0, len(items))
	for _, it := range items {
		if err := decrementStock(tx, it.ProductID, it.Quantity); err != nil {
			return domain.Order{}, err
		}
		lines = append(lines, domain.OrderLine{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
		})
	}

	totals := pricing.Compute(items, taxRate)
	itemsJSON, err := json.Marshal(lines)
	if err != nil {
		return domain.Order{}, err
	}
	shippingJSON := ""
	if shipping != nil {
		b, err := json.Marshal(shipping)
		if err != nil {
			return domain.Order{}, err
		}
		shippingJSON = string(b)
	}

	now := time.Now().UTC()
	number, err := nextOrderNumber(tx, now)
	if err != nil {
		return domain.Order{}, err
	}

	o := domain.Order{
		ID:              uuid.NewString(),
		OrderNumber:     number,
		UserID:          userID,
		CustomerName:    customerName,
		CustomerEmail:   customerEmail,
		ItemsJSON:       string(itemsJSON),
		Items:           lines,
		AmountCents:     totals.TotalCents,
		Status:          domain.OrderStatusPending,
		ShippingJSON:    shippingJSON,
		ShippingAddress: shipping,
		PlacedAt:        now.Format(time.RFC3339),
	}
	if _, err := tx.Exec(`
		INSERT INTO orders(id, order_number, user_id, customer_name, customer_email,
		                   items_json, amount_cents, status, shipping_json, placed_at)
		VALUES(?,?,?,?,?,?,?,?,?,?)
	`, o.ID, o.OrderNumber, nullable(o.UserID), o.CustomerName, o.CustomerEmail,
		o.ItemsJSON, o.AmountCents, o.Status, o.ShippingJSON, o.PlacedAt); err != nil {
		return domain.Order{}, err
	}

	if _, err := tx.Exec(`
		UPDATE carts SET status = 'converted', updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'active'
	`, cartID); err != nil {
		return domain.Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

// Create inserts an order directly from a payload (the staff path).
func (r *OrderRepo) Create(o domain.Order) error {
	_, err := r.db.Exec(`
		INSERT INTO orders(id, order_number, user_id, customer_name, customer_email,
		                   items_json, amount_cents, status, shipping_json, placed_at)
		VALUES(?,?,?,?,?,?,?,?,?,?)
	`, o.ID, o.OrderNumber, nullable(o.UserID), o.CustomerName, o.CustomerEmail,
		o.ItemsJSON, o.AmountCents, o.Status, o.ShippingJSON, o.PlacedAt)
	return err
}

// NextOrderNumber issues a number outside a placement transaction.
func (r *OrderRepo) NextOrderNumber() (string, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()
	n, err := nextOrderNumber(tx, time.Now().UTC())
	if err != nil {
		return "", err
	}
	return n, tx.Commit()
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	return hydrate(o)
}

// ListFilter narrows the staff order listing.
type ListFilter struct {
	Status   string
	DateFrom string
	DateTo   string
	Q        string
	Limit    int
	Offset   int
}

func (r *OrderRepo) List(f ListFilter) ([]domain.Order, error) {
	where := `1=1`
	args := []any{}
	if f.Status != "" {
		where += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.DateFrom != "" {
		where += ` AND placed_at >= ?`
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		where += ` AND placed_at <= ?`
		args = append(args, f.DateTo)
	}
	if f.Q != "" {
		where += ` AND (order_number LIKE ? OR customer_name LIKE ? OR customer_email LIKE ?)`
		like := "%" + f.Q + "%"
		args = append(args, like, like, like)
	}
	if f.Limit <= 0 {
		f.Limit = 15
	}
	args = append(args, f.Limit, f.Offset)

	var rows []domain.Order
	err := r.db.Select(&rows, `
	  SELECT `+orderCols+` FROM orders
	  WHERE `+where+`
	  ORDER BY placed_at DESC
	  LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, err
	}
	return hydrateAll(rows)
}

func (r *OrderRepo) ListByUser(userID, status string, limit, offset int) ([]domain.Order, error) {
	where := `user_id = ?`
	args := []any{userID}
	if status != "" {
		where += ` AND status = ?`
		args = append(args, status)
	}
	if limit <= 0 {
		limit = 15
	}
	args = append(args, limit, offset)

	var rows []domain.Order
	err := r.db.Select(&rows, `
	  SELECT `+orderCols+` FROM orders
	  WHERE `+where+`
	  ORDER BY placed_at DESC
	  LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, err
	}
	return hydrateAll(rows)
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	res, err := r.db.Exec(`
		UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// hydrate unpacks items_json / shipping_json into the struct fields the
// API serves.
func hydrate(o domain.Order) (domain.Order, error) {
	o.Items = []domain.OrderLine{}
	if o.ItemsJSON != "" {
		if err := json.Unmarshal([]byte(o.ItemsJSON), &o.Items); err != nil {
			return domain.Order{}, err
		}
	}
	if o.ShippingJSON != "" {
		var a domain.Address
		if err := json.Unmarshal([]byte(o.ShippingJSON), &a); err != nil {
			return domain.Order{}, err
		}
		o.ShippingAddress = &a
	}
	return o, nil
}

func hydrateAll(rows []domain.Order) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(rows))
	for _, o := range rows {
		h, err := hydrate(o)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}
