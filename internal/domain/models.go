package domain

type Product struct {
	ID              string `db:"id" json:"id"`
	SKU             string `db:"sku" json:"sku,omitempty"`
	Name            string `db:"name" json:"name"`
	Slug            string `db:"slug" json:"slug"`
	Description     string `db:"description" json:"description,omitempty"`
	PriceCents      int    `db:"price_cents" json:"price_cents"`
	DiscountPercent int    `db:"discount_percent" json:"discount_percent"`
	Stock           int    `db:"stock" json:"stock"`
	IsActive        bool   `db:"is_active" json:"is_active"`
	Deleted         bool   `db:"deleted" json:"-"`
	MetadataJSON    string `db:"metadata_json" json:"-"`
	CreatedAt       string `db:"created_at" json:"created_at"`
	UpdatedAt       string `db:"updated_at" json:"updated_at,omitempty"`
}

// Available reports whether the product may be sold (and thus carted).
func (p Product) Available() bool { return p.IsActive && !p.Deleted }

type Collection struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Slug        string `db:"slug" json:"slug"`
	Description string `db:"description" json:"description,omitempty"`
	Deleted     bool   `db:"deleted" json:"-"`
	CreatedAt   string `db:"created_at" json:"created_at"`
	UpdatedAt   string `db:"updated_at" json:"updated_at,omitempty"`
}

type Banner struct {
	ID       string `db:"id" json:"id"`
	Title    string `db:"title" json:"title"`
	Subtitle string `db:"subtitle" json:"subtitle,omitempty"`
	ImageURL string `db:"image_url" json:"image_url,omitempty"`
	LinkURL  string `db:"link_url" json:"link_url,omitempty"`
	Position int    `db:"position" json:"position"`
	IsActive bool   `db:"is_active" json:"is_active"`
}

type About struct {
	ID        string `db:"id" json:"-"`
	Title     string `db:"title" json:"title"`
	Content   string `db:"content" json:"content"`
	ImageURL  string `db:"image_url" json:"image_url,omitempty"`
	UpdatedAt string `db:"updated_at" json:"updated_at,omitempty"`
}

// Message statuses.
const (
	MessageStatusNew      = "new"
	MessageStatusRead     = "read"
	MessageStatusArchived = "archived"
)

type Message struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	Subject   string `db:"subject" json:"subject,omitempty"`
	Body      string `db:"body" json:"body"`
	Status    string `db:"status" json:"status"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at,omitempty"`
}
