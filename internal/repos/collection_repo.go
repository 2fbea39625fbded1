package repos

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/samukelok/harvviie-backend/internal/domain"
)

type CollectionRepo struct{ db *sqlx.DB }

func NewCollectionRepo(db *sqlx.DB) *CollectionRepo { return &CollectionRepo{db: db} }

const collectionCols = `
  id, name, slug, description, deleted, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *CollectionRepo) List() ([]domain.Collection, error) {
	var out []domain.Collection
	err := r.db.Select(&out, `
	  SELECT `+collectionCols+` FROM collections WHERE deleted = 0 ORDER BY name
	`)
	return out, err
}

func (r *CollectionRepo) Get(id string) (domain.Collection, error) {
	var c domain.Collection
	err := r.db.Get(&c, `
	  SELECT `+collectionCols+` FROM collections WHERE (id = ? OR slug = ?) AND deleted = 0
	`, id, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Collection{}, domain.ErrNotFound
	}
	return c, err
}

// Products lists a collection's products in pivot position order.
func (r *CollectionRepo) Products(collectionID string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT p.id, p.sku, p.name, p.slug, p.description, p.price_cents, p.discount_percent,
	         p.stock, p.is_active, p.deleted, p.metadata_json, p.created_at,
	         COALESCE(p.updated_at,'') AS updated_at
	  FROM collection_products cp
	  JOIN products p ON p.id = cp.product_id
	  WHERE cp.collection_id = ? AND p.deleted = 0
	  ORDER BY cp.position, p.name
	`, collectionID)
	return out, err
}

func (r *CollectionRepo) Create(c domain.Collection) error {
	_, err := r.db.Exec(`
		INSERT INTO collections(id, name, slug, description, created_at)
		VALUES(?,?,?,?,CURRENT_TIMESTAMP)
	`, c.ID, c.Name, c.Slug, c.Description)
	return err
}

func (r *CollectionRepo) Update(c domain.Collection) error {
	res, err := r.db.Exec(`
		UPDATE collections SET name=?, slug=?, description=?, updated_at=?
		WHERE id=? AND deleted=0
	`, c.Name, c.Slug, c.Description, time.Now().UTC().Format(time.RFC3339), c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CollectionRepo) SetDeleted(id string, deleted bool) error {
	res, err := r.db.Exec(`UPDATE collections SET deleted=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, deleted, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AssignProducts upserts pivot rows; re-assigning an existing product just
// moves its position.
func (r *CollectionRepo) AssignProducts(collectionID string, productIDs []string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for i, pid := range productIDs {
		if _, err := tx.Exec(`
			INSERT INTO collection_products(collection_id, product_id, position)
			VALUES(?,?,?)
			ON CONFLICT(collection_id, product_id) DO UPDATE SET position = excluded.position
		`, collectionID, pid, i+1); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *CollectionRepo) RemoveProduct(collectionID, productID string) error {
	res, err := r.db.Exec(`
		DELETE FROM collection_products WHERE collection_id=? AND product_id=?
	`, collectionID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
