package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/samukelok/harvviie-backend/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, name, email, password_hash, role, phone, address_json`

func (r *UserRepo) Create(u domain.User) error {
	_, err := r.DB.Exec(`
		INSERT INTO users(id, name, email, password_hash, role, phone, address_json)
		VALUES(?,?,?,?,?,?,?)
	`, u.ID, u.Name, u.Email, u.Hash, u.Role, u.Phone, u.AddressJSON)
	return err
}

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UpdateProfile(id, name, phone, addressJSON string) error {
	res, err := r.DB.Exec(`
		UPDATE users SET name=?, phone=?, address_json=?, updated_at=CURRENT_TIMESTAMP
		WHERE id=?
	`, name, phone, addressJSON, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// InsertToken stores the hash of a freshly issued bearer token.
func (r *UserRepo) InsertToken(userID, tokenHash string) error {
	_, err := r.DB.Exec(`
		INSERT INTO api_tokens(id, user_id, token_hash) VALUES(?,?,?)
	`, uuid.NewString(), userID, tokenHash)
	return err
}

// ByTokenHash resolves a bearer token hash to its user and touches
// last_used_at. Tokens older than ttlHours read as not found.
func (r *UserRepo) ByTokenHash(tokenHash string, ttlHours int) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
	  SELECT u.id, u.name, u.email, u.password_hash, u.role, u.phone, u.address_json
	  FROM api_tokens t
	  JOIN users u ON u.id = t.user_id
	  WHERE t.token_hash = ?
	    AND t.created_at >= datetime('now', ?)
	`, tokenHash, fmt.Sprintf("-%d hours", ttlHours))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	_, _ = r.DB.Exec(`UPDATE api_tokens SET last_used_at=CURRENT_TIMESTAMP WHERE token_hash=?`, tokenHash)
	return &u, nil
}

func (r *UserRepo) DeleteToken(tokenHash string) error {
	_, err := r.DB.Exec(`DELETE FROM api_tokens WHERE token_hash=?`, tokenHash)
	return err
}
