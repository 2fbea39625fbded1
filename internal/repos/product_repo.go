package repos

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/samukelok/harvviie-backend/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, sku, name, slug, description, price_cents, discount_percent, stock,
  is_active, deleted, metadata_json, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ? AND deleted = 0`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, err
}

func (r *ProductRepo) GetBySlug(slug string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE slug = ? AND deleted = 0`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, err
}

// ProductFilter narrows the product listing. Price bounds apply to the
// undiscounted catalog price.
type ProductFilter struct {
	Q             string
	CollectionID  string
	ActiveOnly    bool
	PriceMinCents int
	PriceMaxCents int
	Limit         int
	Offset        int
}

// List returns non-deleted products matching the filter, newest first.
func (r *ProductRepo) List(f ProductFilter) ([]domain.Product, error) {
	where := `p.deleted = 0`
	args := []any{}
	if f.ActiveOnly {
		where += ` AND p.is_active = 1`
	}
	if f.Q != "" {
		where += ` AND (LOWER(p.name) LIKE ? OR LOWER(p.description) LIKE ? OR LOWER(p.sku) LIKE ?)`
		like := "%" + f.Q + "%"
		args = append(args, like, like, like)
	}
	if f.PriceMinCents > 0 {
		where += ` AND p.price_cents >= ?`
		args = append(args, f.PriceMinCents)
	}
	if f.PriceMaxCents > 0 {
		where += ` AND p.price_cents <= ?`
		args = append(args, f.PriceMaxCents)
	}
	join := ``
	if f.CollectionID != "" {
		join = ` JOIN collection_products cp ON cp.product_id = p.id AND cp.collection_id = ?`
		args = append(args, f.CollectionID)
	}
	if f.Limit <= 0 {
		f.Limit = 15
	}

	query := `
	  SELECT p.id, p.sku, p.name, p.slug, p.description, p.price_cents, p.discount_percent,
	         p.stock, p.is_active, p.deleted, p.metadata_json, p.created_at,
	         COALESCE(p.updated_at,'') AS updated_at
	  FROM products p` + join + `
	  WHERE ` + where + `
	  ORDER BY p.created_at DESC
	  LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	var out []domain.Product
	err := r.db.Select(&out, query, args...)
	return out, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
		INSERT INTO products(id, sku, name, slug, description, price_cents, discount_percent,
		                     stock, is_active, metadata_json, created_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, p.ID, p.SKU, p.Name, p.Slug, p.Description, p.PriceCents, p.DiscountPercent,
		p.Stock, p.IsActive, p.MetadataJSON)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	res, err := r.db.Exec(`
		UPDATE products
		SET sku=?, name=?, slug=?, description=?, price_cents=?, discount_percent=?,
		    stock=?, is_active=?, metadata_json=?, updated_at=?
		WHERE id=? AND deleted=0
	`, p.SKU, p.Name, p.Slug, p.Description, p.PriceCents, p.DiscountPercent,
		p.Stock, p.IsActive, p.MetadataJSON, time.Now().UTC().Format(time.RFC3339), p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetDeleted toggles the explicit soft-delete flag.
func (r *ProductRepo) SetDeleted(id string, deleted bool) error {
	res, err := r.db.Exec(`UPDATE products SET deleted=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, deleted, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Stock returns the current stock count for a product. This is the read
// side of the stock authority; only order placement writes the counter.
func (r *ProductRepo) Stock(id string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT stock FROM products WHERE id = ? AND deleted = 0`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	return n, err
}

// DecrementStock atomically subtracts "by" units if enough stock exists.
// Zero rows affected means the guard failed: the caller gets an
// InsufficientStockError with the stock that remains.
func (r *ProductRepo) DecrementStock(e sqlx.Ext, id string, by int) error {
	return decrementStock(e, id, by)
}

// decrementStock is the single write path for the stock counter; order
// placement runs it per line inside the placement transaction.
func decrementStock(e sqlx.Ext, id string, by int) error {
	res, err := e.Exec(`
		UPDATE products
		SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted = 0 AND stock >= ?
	`, by, id, by)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var avail int
		if err := sqlx.Get(e, &avail, `SELECT stock FROM products WHERE id = ? AND deleted = 0`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
		return &domain.InsufficientStockError{ProductID: id, Available: avail}
	}
	return nil
}
