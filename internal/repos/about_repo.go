package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/samukelok/harvviie-backend/internal/domain"
)

// AboutRepo manages the singleton about-page row.
type AboutRepo struct{ db *sqlx.DB }

func NewAboutRepo(db *sqlx.DB) *AboutRepo { return &AboutRepo{db: db} }

func (r *AboutRepo) Get() (domain.About, error) {
	var a domain.About
	err := r.db.Get(&a, `
	  SELECT id, title, content, image_url, COALESCE(updated_at,'') AS updated_at
	  FROM about WHERE id = 'about'
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.About{}, domain.ErrNotFound
	}
	return a, err
}

func (r *AboutRepo) Update(a domain.About) error {
	_, err := r.db.Exec(`
		INSERT INTO about(id, title, content, image_url, updated_at)
		VALUES('about', ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE
		SET title = excluded.title, content = excluded.content,
		    image_url = excluded.image_url, updated_at = CURRENT_TIMESTAMP
	`, a.Title, a.Content, a.ImageURL)
	return err
}
