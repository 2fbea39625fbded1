package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"github.com/samukelok/harvviie-backend/internal/config"
	"github.com/samukelok/harvviie-backend/internal/http/handlers"
	"github.com/samukelok/harvviie-backend/internal/repos"
)

// envelope mirrors the JSON shape every endpoint responds with.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{TaxRate: 0.15, MaxItemQty: 50}
	deps := handlers.NewDeps(db, cfg)

	app := fiber.New()
	app.Use(handlers.Authenticate(deps.Auth))
	api := app.Group("/api")
	api.Post("/login", deps.AuthHandler.Login)
	api.Get("/cart", deps.CartHandler.Show)
	api.Post("/cart/items", deps.CartHandler.AddItem)
	api.Put("/cart/items/:itemID", deps.CartHandler.UpdateItem)
	api.Delete("/cart/items/:itemID", deps.CartHandler.RemoveItem)
	api.Delete("/cart/clear", deps.CartHandler.Clear)
	api.Post("/checkout", deps.OrderHandler.Checkout)

	admin := api.Group("/admin", handlers.RequireAuth(deps.Auth), handlers.StaffOnly())
	admin.Get("/dashboard", deps.DashboardHandler.Show)
	admin.Get("/orders", deps.OrderHandler.Index)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, hdr map[string]string) (*http.Response, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode envelope: %v", method, path, err)
	}
	return resp, env
}

func TestCartShowStartsEmpty(t *testing.T) {
	app, _ := newTestApp(t)
	hdr := map[string]string{"X-Cart-Session": "sess-http"}

	resp, env := doJSON(t, app, "GET", "/api/cart", "", hdr)
	if resp.StatusCode != 200 || !env.Success {
		t.Fatalf("status %d, success %v, message %q", resp.StatusCode, env.Success, env.Message)
	}
	var cart struct {
		Items      []json.RawMessage `json:"items"`
		TotalCents int               `json:"total_cents"`
	}
	if err := json.Unmarshal(env.Data, &cart); err != nil {
		t.Fatal(err)
	}
	if cart.Items == nil || len(cart.Items) != 0 || cart.TotalCents != 0 {
		t.Fatalf("want empty cart with items [], got %s", env.Data)
	}
}

func TestCartAddComputesTotals(t *testing.T) {
	app, _ := newTestApp(t)
	hdr := map[string]string{"X-Cart-Session": "sess-http"}

	resp, env := doJSON(t, app, "POST", "/api/cart/items",
		`{"product_id":"prd-denim-jacket","quantity":2}`, hdr)
	if resp.StatusCode != 200 || !env.Success {
		t.Fatalf("status %d, message %q", resp.StatusCode, env.Message)
	}
	var cart struct {
		Items []struct {
			Quantity       int `json:"quantity"`
			UnitPriceCents int `json:"unit_price_cents"`
		} `json:"items"`
		SubtotalCents int `json:"subtotal_cents"`
		TaxCents      int `json:"tax_cents"`
		TotalCents    int `json:"total_cents"`
	}
	if err := json.Unmarshal(env.Data, &cart); err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 1 || cart.Items[0].UnitPriceCents != 96000 {
		t.Fatalf("bad items: %s", env.Data)
	}
	if cart.SubtotalCents != 192000 || cart.TaxCents != 28800 || cart.TotalCents != 220800 {
		t.Fatalf("bad totals: %s", env.Data)
	}
}

func TestCartAddInsufficientStock(t *testing.T) {
	app, _ := newTestApp(t)
	hdr := map[string]string{"X-Cart-Session": "sess-http"}

	resp, env := doJSON(t, app, "POST", "/api/cart/items",
		`{"product_id":"prd-denim-jacket","quantity":100}`, hdr)
	if resp.StatusCode != 400 || env.Success {
		t.Fatalf("status %d, success %v", resp.StatusCode, env.Success)
	}
	var data struct {
		AvailableStock int `json:"available_stock"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.AvailableStock != 8 {
		t.Fatalf("want available_stock 8, got %d", data.AvailableStock)
	}
}

func TestCartAddUnknownProduct(t *testing.T) {
	app, _ := newTestApp(t)
	hdr := map[string]string{"X-Cart-Session": "sess-http"}

	resp, env := doJSON(t, app, "POST", "/api/cart/items",
		`{"product_id":"prd-ghost","quantity":1}`, hdr)
	if resp.StatusCode != 404 || env.Success {
		t.Fatalf("status %d, success %v, message %q", resp.StatusCode, env.Success, env.Message)
	}
}

func TestSessionsGetSeparateCarts(t *testing.T) {
	app, _ := newTestApp(t)

	_, _ = doJSON(t, app, "POST", "/api/cart/items",
		`{"product_id":"prd-linen-shirt","quantity":1}`, map[string]string{"X-Cart-Session": "sess-a"})

	_, env := doJSON(t, app, "GET", "/api/cart", "", map[string]string{"X-Cart-Session": "sess-b"})
	var cart struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &cart); err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("session b sees session a's items: %s", env.Data)
	}
}

func TestCheckoutEndpoint(t *testing.T) {
	app, db := newTestApp(t)
	hdr := map[string]string{"X-Cart-Session": "sess-http"}

	_, env := doJSON(t, app, "POST", "/api/cart/items",
		`{"product_id":"prd-linen-shirt","quantity":2}`, hdr)
	if !env.Success {
		t.Fatalf("add failed: %q", env.Message)
	}

	resp, env := doJSON(t, app, "POST", "/api/checkout",
		`{"customer_name":"Thandi","customer_email":"thandi@harvviie.test"}`, hdr)
	if resp.StatusCode != 201 || !env.Success {
		t.Fatalf("status %d, message %q", resp.StatusCode, env.Message)
	}
	var order struct {
		OrderNumber string `json:"order_number"`
		AmountCents int    `json:"amount_cents"`
		Status      string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &order); err != nil {
		t.Fatal(err)
	}
	// 2 x 45000 = 90000 subtotal, 13500 tax
	if order.AmountCents != 103500 || order.Status != "pending" {
		t.Fatalf("bad order: %s", env.Data)
	}
	if !strings.HasPrefix(order.OrderNumber, "HV-") {
		t.Fatalf("bad order number %q", order.OrderNumber)
	}

	var stock int
	if err := db.Get(&stock, `SELECT stock FROM products WHERE id = 'prd-linen-shirt'`); err != nil {
		t.Fatal(err)
	}
	if stock != 22 {
		t.Fatalf("want stock 22 after checkout, got %d", stock)
	}

	// empty cart now; another checkout is a 400
	resp, env = doJSON(t, app, "POST", "/api/checkout",
		`{"customer_name":"Thandi","customer_email":"thandi@harvviie.test"}`, hdr)
	if resp.StatusCode != 400 || env.Success {
		t.Fatalf("empty cart checkout: status %d, success %v", resp.StatusCode, env.Success)
	}
}
