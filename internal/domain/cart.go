package domain

// Cart statuses. The core only ever moves a cart from active to converted;
// abandoned is an administrative state.
const (
	CartStatusActive    = "active"
	CartStatusAbandoned = "abandoned"
	CartStatusConverted = "converted"
)

// CartOwner identifies whose cart an operation targets: an authenticated
// user id, or an anonymous session key. Exactly one side is set.
type CartOwner struct {
	UserID    string
	SessionID string
}

func UserOwner(userID string) CartOwner     { return CartOwner{UserID: userID} }
func SessionOwner(sessionID string) CartOwner { return CartOwner{SessionID: sessionID} }

func (o CartOwner) Anonymous() bool { return o.UserID == "" }

type Cart struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"user_id,omitempty"`
	SessionID string     `db:"session_id" json:"session_id,omitempty"`
	Status    string     `db:"status" json:"status"`
	Items     []CartItem `db:"-" json:"items"`
	CreatedAt string     `db:"created_at" json:"created_at"`
	UpdatedAt string     `db:"updated_at" json:"updated_at,omitempty"`
}

// CartItem holds a snapshot price taken at add/update time; it is not
// recomputed when the catalog price changes later.
type CartItem struct {
	ID             string `db:"id" json:"id"`
	CartID         string `db:"cart_id" json:"-"`
	ProductID      string `db:"product_id" json:"product_id"`
	Quantity       int    `db:"quantity" json:"quantity"`
	UnitPriceCents int    `db:"unit_price_cents" json:"unit_price_cents"`
	CreatedAt      string `db:"created_at" json:"-"`
	UpdatedAt      string `db:"updated_at" json:"-"`
}
