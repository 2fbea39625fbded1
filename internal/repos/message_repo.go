package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/samukelok/harvviie-backend/internal/domain"
)

type MessageRepo struct{ db *sqlx.DB }

func NewMessageRepo(db *sqlx.DB) *MessageRepo { return &MessageRepo{db: db} }

const messageCols = `
  id, name, email, subject, body, status, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *MessageRepo) Insert(m domain.Message) error {
	_, err := r.db.Exec(`
		INSERT INTO messages(id, name, email, subject, body, status)
		VALUES(?,?,?,?,?,?)
	`, m.ID, m.Name, m.Email, m.Subject, m.Body, m.Status)
	return err
}

func (r *MessageRepo) List(status string, limit, offset int) ([]domain.Message, error) {
	where := `1=1`
	args := []any{}
	if status != "" {
		where += ` AND status = ?`
		args = append(args, status)
	}
	if limit <= 0 {
		limit = 15
	}
	args = append(args, limit, offset)

	var out []domain.Message
	err := r.db.Select(&out, `
	  SELECT `+messageCols+` FROM messages
	  WHERE `+where+`
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?
	`, args...)
	return out, err
}

func (r *MessageRepo) Get(id string) (domain.Message, error) {
	var m domain.Message
	err := r.db.Get(&m, `SELECT `+messageCols+` FROM messages WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Message{}, domain.ErrNotFound
	}
	return m, err
}

func (r *MessageRepo) UpdateStatus(id, status string) error {
	res, err := r.db.Exec(`
		UPDATE messages SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MessageRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM messages WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
