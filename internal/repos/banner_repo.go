package repos

import (
	"github.com/jmoiron/sqlx"

	"github.com/samukelok/harvviie-backend/internal/domain"
)

type BannerRepo struct{ db *sqlx.DB }

func NewBannerRepo(db *sqlx.DB) *BannerRepo { return &BannerRepo{db: db} }

const bannerCols = `id, title, subtitle, image_url, link_url, position, is_active`

// ListActive is the public listing, position order.
func (r *BannerRepo) ListActive() ([]domain.Banner, error) {
	var out []domain.Banner
	err := r.db.Select(&out, `
	  SELECT `+bannerCols+` FROM banners WHERE is_active = 1 ORDER BY position, title
	`)
	return out, err
}

func (r *BannerRepo) ListAll() ([]domain.Banner, error) {
	var out []domain.Banner
	err := r.db.Select(&out, `SELECT `+bannerCols+` FROM banners ORDER BY position, title`)
	return out, err
}

func (r *BannerRepo) Create(b domain.Banner) error {
	_, err := r.db.Exec(`
		INSERT INTO banners(id, title, subtitle, image_url, link_url, position, is_active)
		VALUES(?,?,?,?,?,?,?)
	`, b.ID, b.Title, b.Subtitle, b.ImageURL, b.LinkURL, b.Position, b.IsActive)
	return err
}

func (r *BannerRepo) Update(b domain.Banner) error {
	res, err := r.db.Exec(`
		UPDATE banners
		SET title=?, subtitle=?, image_url=?, link_url=?, position=?, is_active=?,
		    updated_at=CURRENT_TIMESTAMP
		WHERE id=?
	`, b.Title, b.Subtitle, b.ImageURL, b.LinkURL, b.Position, b.IsActive, b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BannerRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM banners WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
