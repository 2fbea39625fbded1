package domain

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderLine is a snapshot of a cart line at placement time, serialized
// into the order's items_json column.
type OrderLine struct {
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int    `json:"unit_price_cents"`
}

type Address struct {
	Name       string `json:"name,omitempty"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

type Order struct {
	ID              string      `db:"id" json:"id"`
	OrderNumber     string      `db:"order_number" json:"order_number"`
	UserID          string      `db:"user_id" json:"user_id,omitempty"`
	CustomerName    string      `db:"customer_name" json:"customer_name"`
	CustomerEmail   string      `db:"customer_email" json:"customer_email"`
	ItemsJSON       string      `db:"items_json" json:"-"`
	Items           []OrderLine `db:"-" json:"items"`
	AmountCents     int         `db:"amount_cents" json:"amount_cents"`
	Status          string      `db:"status" json:"status"`
	ShippingJSON    string      `db:"shipping_json" json:"-"`
	ShippingAddress *Address    `db:"-" json:"shipping_address,omitempty"`
	PlacedAt        string      `db:"placed_at" json:"placed_at"`
	CreatedAt       string      `db:"created_at" json:"created_at"`
	UpdatedAt       string      `db:"updated_at" json:"updated_at,omitempty"`
}
