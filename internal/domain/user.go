package domain

// User roles.
const (
	RoleAdmin    = "admin"
	RoleEditor   = "editor"
	RoleCustomer = "customer"
)

type User struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Email       string `db:"email" json:"email"`
	Hash        string `db:"password_hash" json:"-"`
	Role        string `db:"role" json:"role"`
	Phone       string `db:"phone" json:"phone,omitempty"`
	AddressJSON string `db:"address_json" json:"-"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsStaff reports whether the user may access back-office routes.
func (u User) IsStaff() bool { return u.Role == RoleAdmin || u.Role == RoleEditor }
