package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// An in-memory database exists per connection, so the pool must not
	// grow past one.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline catalog/content if DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & API tokens
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('admin','editor','customer')),
  phone TEXT NOT NULL DEFAULT '',
  address_json TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS api_tokens(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  token_hash TEXT NOT NULL UNIQUE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_used_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_api_tokens_user ON api_tokens(user_id);

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  price_cents INTEGER NOT NULL CHECK (price_cents >= 0),
  discount_percent INTEGER NOT NULL DEFAULT 0 CHECK (discount_percent BETWEEN 0 AND 100),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  is_active INTEGER NOT NULL DEFAULT 1,
  deleted INTEGER NOT NULL DEFAULT 0,
  metadata_json TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_sku ON products(sku) WHERE sku != '';
CREATE INDEX IF NOT EXISTS idx_products_available ON products(is_active, deleted);
CREATE INDEX IF NOT EXISTS idx_products_name ON products(LOWER(name));

-- Collections
CREATE TABLE IF NOT EXISTS collections(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  deleted INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS collection_products(
  collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  position INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY(collection_id, product_id)
);

-- Carts
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  user_id TEXT,
  session_id TEXT,
  status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','abandoned','converted')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
-- At most one active cart per owner key; the partial unique indexes make
-- find-or-create safe under concurrent first-time access.
CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_active_user
  ON carts(user_id) WHERE status = 'active' AND user_id IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_active_session
  ON carts(session_id) WHERE status = 'active' AND session_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS cart_items(
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  unit_price_cents INTEGER NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  UNIQUE(cart_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_cart_items_cart ON cart_items(cart_id);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  items_json TEXT NOT NULL DEFAULT '[]',
  amount_cents INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending'
    CHECK (status IN ('pending','processing','shipped','delivered','cancelled')),
  shipping_json TEXT NOT NULL DEFAULT '',
  placed_at TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_status_placed ON orders(status, placed_at);
CREATE INDEX IF NOT EXISTS idx_orders_email ON orders(customer_email);

-- Banners / About / Messages
CREATE TABLE IF NOT EXISTS banners(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  subtitle TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  link_url TEXT NOT NULL DEFAULT '',
  position INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS about(
  id TEXT PRIMARY KEY CHECK (id = 'about'),
  title TEXT NOT NULL,
  content TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS messages(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  subject TEXT NOT NULL DEFAULT '',
  body TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'new' CHECK (status IN ('new','read','archived')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_messages_status ON messages(status);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo catalog/content")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,sku,name,slug,description,price_cents,discount_percent,stock) VALUES
	  ('prd-linen-shirt','HV-SHIRT-01','Linen Shirt','linen-shirt','Relaxed fit linen shirt',45000,0,24),
	  ('prd-denim-jacket','HV-JKT-01','Raw Denim Jacket','raw-denim-jacket','Heavyweight raw denim',120000,20,8),
	  ('prd-canvas-tote','HV-TOTE-01','Canvas Tote','canvas-tote','Everyday canvas tote bag',25000,0,40)`)

	tx.MustExec(`INSERT INTO collections(id,name,slug,description) VALUES
	  ('col-new-season','New Season','new-season','Latest drops'),
	  ('col-essentials','Essentials','essentials','Year-round staples')`)

	tx.MustExec(`INSERT INTO collection_products(collection_id,product_id,position) VALUES
	  ('col-new-season','prd-denim-jacket',1),
	  ('col-essentials','prd-linen-shirt',1),
	  ('col-essentials','prd-canvas-tote',2)`)

	tx.MustExec(`INSERT INTO banners(id,title,subtitle,image_url,link_url,position) VALUES
	  ('bnr-season','New season is here','Up to 20% off jackets','banners/season.jpg','/collections/new-season',1)`)

	tx.MustExec(`INSERT INTO about(id,title,content) VALUES
	  ('about','About Harvviie','Harvviie is an independent clothing label.')`)

	return tx.Commit()
}

// seedUsers ensures an admin, an editor and a customer exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Name, Email, Role, Hash string
	}
	mk := func(id, name, email, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Name: name, Email: email, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-admin", "Admin", "admin@harvviie.test", "admin", "Passw0rd!"),
		mk("u-editor", "Editor", "editor@harvviie.test", "editor", "Passw0rd!"),
		mk("u-thandi", "Thandi", "thandi@harvviie.test", "customer", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,name,email,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Name, x.Email, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
