package services_test

import (
	"errors"
	"regexp"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/samukelok/harvviie-backend/internal/domain"
	"github.com/samukelok/harvviie-backend/internal/repos"
	"github.com/samukelok/harvviie-backend/internal/services"
)

var orderNumberRe = regexp.MustCompile(`^HV-\d{8}-\d{4}$`)

func newOrderService(db *sqlx.DB) (*services.CartService, *services.OrderService) {
	cartRepo := repos.NewCartRepo(db)
	return services.NewCartService(cartRepo, 0.15, 50),
		services.NewOrderService(cartRepo, repos.NewOrderRepo(db), 0.15)
}

func TestCheckoutFlow(t *testing.T) {
	db := memdb(t)
	cartSvc, orderSvc := newOrderService(db)
	owner := domain.SessionOwner("sess-1")

	if _, err := cartSvc.AddItem(owner, "prd-denim-jacket", 2); err != nil {
		t.Fatal(err)
	}
	before, err := cartSvc.View(owner)
	if err != nil {
		t.Fatal(err)
	}

	o, err := orderSvc.Checkout(owner, "Thandi", "thandi@harvviie.test", &domain.Address{City: "Durban"})
	if err != nil {
		t.Fatal(err)
	}

	if !orderNumberRe.MatchString(o.OrderNumber) {
		t.Fatalf("bad order number %q", o.OrderNumber)
	}
	// 2 x 96000 = 192000 subtotal, 28800 tax
	if o.AmountCents != 220800 {
		t.Fatalf("want amount 220800, got %d", o.AmountCents)
	}
	if o.Status != domain.OrderStatusPending {
		t.Fatalf("want pending, got %s", o.Status)
	}
	if len(o.Items) != 1 || o.Items[0].Quantity != 2 || o.Items[0].UnitPriceCents != 96000 {
		t.Fatalf("bad order lines: %+v", o.Items)
	}

	var stock int
	if err := db.Get(&stock, `SELECT stock FROM products WHERE id = 'prd-denim-jacket'`); err != nil {
		t.Fatal(err)
	}
	if stock != 6 {
		t.Fatalf("want stock 6 after checkout, got %d", stock)
	}

	var status string
	if err := db.Get(&status, `SELECT status FROM carts WHERE id = ?`, before.ID); err != nil {
		t.Fatal(err)
	}
	if status != domain.CartStatusConverted {
		t.Fatalf("cart should be converted, got %s", status)
	}

	// the next view starts a fresh cart
	after, err := cartSvc.View(owner)
	if err != nil {
		t.Fatal(err)
	}
	if after.ID == before.ID {
		t.Fatal("converted cart was reused")
	}
	if len(after.Items) != 0 {
		t.Fatalf("fresh cart should be empty, got %d items", len(after.Items))
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	_, orderSvc := newOrderService(memdb(t))
	_, err := orderSvc.Checkout(domain.SessionOwner("sess-1"), "Thandi", "thandi@harvviie.test", nil)
	if !errors.Is(err, services.ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart, got %v", err)
	}
}

// Two carts both hold 5 jackets against a stock of 8. The first checkout
// wins; the second must fail atomically, leaving stock and its cart alone.
func TestCheckoutDepletedStockAborts(t *testing.T) {
	db := memdb(t)
	cartSvc, orderSvc := newOrderService(db)
	first := domain.SessionOwner("sess-first")
	second := domain.SessionOwner("sess-second")

	if _, err := cartSvc.AddItem(first, "prd-denim-jacket", 5); err != nil {
		t.Fatal(err)
	}
	if _, err := cartSvc.AddItem(second, "prd-denim-jacket", 5); err != nil {
		t.Fatal(err)
	}

	if _, err := orderSvc.Checkout(first, "First", "first@harvviie.test", nil); err != nil {
		t.Fatal(err)
	}

	_, err := orderSvc.Checkout(second, "Second", "second@harvviie.test", nil)
	var stock *domain.InsufficientStockError
	if !errors.As(err, &stock) {
		t.Fatalf("want InsufficientStockError, got %v", err)
	}
	if stock.Available != 3 {
		t.Fatalf("want available 3, got %d", stock.Available)
	}

	var left int
	if err := db.Get(&left, `SELECT stock FROM products WHERE id = 'prd-denim-jacket'`); err != nil {
		t.Fatal(err)
	}
	if left != 3 {
		t.Fatalf("failed checkout changed stock: %d", left)
	}

	var orders int
	if err := db.Get(&orders, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatal(err)
	}
	if orders != 1 {
		t.Fatalf("want exactly one order, got %d", orders)
	}

	// the losing cart stays active with its items intact
	cv, err := cartSvc.View(second)
	if err != nil {
		t.Fatal(err)
	}
	if cv.Status != domain.CartStatusActive || len(cv.Items) != 1 || cv.Items[0].Quantity != 5 {
		t.Fatalf("losing cart was mutated: %+v", cv)
	}
}

func TestOrderNumbersIncrementWithinDay(t *testing.T) {
	db := memdb(t)
	cartSvc, orderSvc := newOrderService(db)

	var numbers []string
	for i, sess := range []string{"sess-a", "sess-b"} {
		owner := domain.SessionOwner(sess)
		if _, err := cartSvc.AddItem(owner, "prd-linen-shirt", 1); err != nil {
			t.Fatal(err)
		}
		o, err := orderSvc.Checkout(owner, "Buyer", "buyer@harvviie.test", nil)
		if err != nil {
			t.Fatalf("checkout %d: %v", i, err)
		}
		numbers = append(numbers, o.OrderNumber)
	}

	a, _ := strconv.Atoi(numbers[0][len(numbers[0])-4:])
	b, _ := strconv.Atoi(numbers[1][len(numbers[1])-4:])
	if b != a+1 {
		t.Fatalf("want consecutive numbers, got %s then %s", numbers[0], numbers[1])
	}
}

func TestStaffCreateAndStatusFlow(t *testing.T) {
	db := memdb(t)
	_, orderSvc := newOrderService(db)

	o, err := orderSvc.Create(services.CreateOrderInput{
		CustomerName:  "Walk In",
		CustomerEmail: "walkin@harvviie.test",
		Items:         []domain.OrderLine{{ProductID: "prd-linen-shirt", Quantity: 1, UnitPriceCents: 45000}},
		AmountCents:   51750,
	})
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != domain.OrderStatusPending {
		t.Fatalf("want default pending, got %s", o.Status)
	}
	if !orderNumberRe.MatchString(o.OrderNumber) {
		t.Fatalf("bad order number %q", o.OrderNumber)
	}

	if err := orderSvc.UpdateStatus(o.ID, "shipped"); err != nil {
		t.Fatal(err)
	}
	if err := orderSvc.UpdateStatus(o.ID, "teleported"); !errors.Is(err, services.ErrBadStatus) {
		t.Fatalf("want ErrBadStatus, got %v", err)
	}

	got, err := orderSvc.Get(o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.OrderStatusShipped {
		t.Fatalf("want shipped, got %s", got.Status)
	}

	if err := orderSvc.Cancel(o.ID); err != nil {
		t.Fatal(err)
	}
	got, _ = orderSvc.Get(o.ID)
	if got.Status != domain.OrderStatusCancelled {
		t.Fatalf("want cancelled, got %s", got.Status)
	}
}
