package services_test

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/samukelok/harvviie-backend/internal/domain"
	"github.com/samukelok/harvviie-backend/internal/repos"
	"github.com/samukelok/harvviie-backend/internal/services"
)

// memdb opens a seeded in-memory database. The seed catalog includes
// prd-linen-shirt (45000c, stock 24) and prd-denim-jacket (120000c, 20%
// off, stock 8).
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newCartService(db *sqlx.DB) *services.CartService {
	return services.NewCartService(repos.NewCartRepo(db), 0.15, 50)
}

func TestAddMergesSameProduct(t *testing.T) {
	svc := newCartService(memdb(t))
	owner := domain.SessionOwner("sess-1")

	if _, err := svc.AddItem(owner, "prd-linen-shirt", 2); err != nil {
		t.Fatal(err)
	}
	cv, err := svc.AddItem(owner, "prd-linen-shirt", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 1 {
		t.Fatalf("want one merged line, got %d", len(cv.Items))
	}
	if cv.Items[0].Quantity != 5 {
		t.Fatalf("want quantity 5, got %d", cv.Items[0].Quantity)
	}
	if cv.Items[0].UnitPriceCents != 45000 {
		t.Fatalf("want unit price 45000, got %d", cv.Items[0].UnitPriceCents)
	}
}

func TestAddSnapshotsDiscountedPrice(t *testing.T) {
	svc := newCartService(memdb(t))
	cv, err := svc.AddItem(domain.SessionOwner("sess-1"), "prd-denim-jacket", 1)
	if err != nil {
		t.Fatal(err)
	}
	// 120000 at 20% off
	if cv.Items[0].UnitPriceCents != 96000 {
		t.Fatalf("want discounted unit price 96000, got %d", cv.Items[0].UnitPriceCents)
	}
}

func TestAddRespectsStockAcrossMerges(t *testing.T) {
	svc := newCartService(memdb(t))
	owner := domain.SessionOwner("sess-1")

	if _, err := svc.AddItem(owner, "prd-denim-jacket", 8); err != nil {
		t.Fatal(err)
	}
	_, err := svc.AddItem(owner, "prd-denim-jacket", 1)
	var stock *domain.InsufficientStockError
	if !errors.As(err, &stock) {
		t.Fatalf("want InsufficientStockError, got %v", err)
	}
	if stock.Available != 8 {
		t.Fatalf("want available 8, got %d", stock.Available)
	}

	// the failed add must not have touched the line
	cv, err := svc.View(owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 1 || cv.Items[0].Quantity != 8 {
		t.Fatalf("cart changed by failed add: %+v", cv.Items)
	}
}

func TestAddUnknownOrInactiveProduct(t *testing.T) {
	db := memdb(t)
	svc := newCartService(db)
	owner := domain.SessionOwner("sess-1")

	if _, err := svc.AddItem(owner, "prd-nope", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown product: want ErrNotFound, got %v", err)
	}

	db.MustExec(`UPDATE products SET is_active = 0 WHERE id = 'prd-linen-shirt'`)
	if _, err := svc.AddItem(owner, "prd-linen-shirt", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("inactive product: want ErrNotFound, got %v", err)
	}
}

func TestUpdateItemChecksOwnership(t *testing.T) {
	svc := newCartService(memdb(t))
	alice := domain.SessionOwner("sess-alice")
	bob := domain.SessionOwner("sess-bob")

	cv, err := svc.AddItem(alice, "prd-linen-shirt", 1)
	if err != nil {
		t.Fatal(err)
	}
	itemID := cv.Items[0].ID

	if _, err := svc.UpdateItem(bob, itemID, 3); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign item id should read as not found, got %v", err)
	}

	cv, err = svc.UpdateItem(alice, itemID, 3)
	if err != nil {
		t.Fatal(err)
	}
	if cv.Items[0].Quantity != 3 {
		t.Fatalf("want quantity 3, got %d", cv.Items[0].Quantity)
	}
}

func TestRemoveItemAndClear(t *testing.T) {
	svc := newCartService(memdb(t))
	owner := domain.SessionOwner("sess-1")

	cv, err := svc.AddItem(owner, "prd-linen-shirt", 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RemoveItem(owner, "itm-nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("removing unknown item: want ErrNotFound, got %v", err)
	}
	cv, err = svc.RemoveItem(owner, cv.Items[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 0 {
		t.Fatalf("want empty cart, got %d items", len(cv.Items))
	}

	// clearing an already-empty cart is fine
	if _, err := svc.Clear(owner); err != nil {
		t.Fatal(err)
	}
}

func TestViewTotals(t *testing.T) {
	svc := newCartService(memdb(t))
	owner := domain.SessionOwner("sess-1")

	if _, err := svc.AddItem(owner, "prd-denim-jacket", 2); err != nil {
		t.Fatal(err)
	}
	cv, err := svc.View(owner)
	if err != nil {
		t.Fatal(err)
	}
	if cv.SubtotalCents != 192000 {
		t.Fatalf("want subtotal 192000, got %d", cv.SubtotalCents)
	}
	if cv.TaxCents != 28800 {
		t.Fatalf("want tax 28800, got %d", cv.TaxCents)
	}
	if cv.TotalCents != 220800 {
		t.Fatalf("want total 220800, got %d", cv.TotalCents)
	}
	if cv.TotalItems != 2 {
		t.Fatalf("want 2 items, got %d", cv.TotalItems)
	}
}

func TestSnapshotPriceSurvivesCatalogChange(t *testing.T) {
	db := memdb(t)
	svc := newCartService(db)
	owner := domain.SessionOwner("sess-1")

	if _, err := svc.AddItem(owner, "prd-linen-shirt", 1); err != nil {
		t.Fatal(err)
	}
	db.MustExec(`UPDATE products SET price_cents = 99000 WHERE id = 'prd-linen-shirt'`)

	cv, err := svc.View(owner)
	if err != nil {
		t.Fatal(err)
	}
	if cv.Items[0].UnitPriceCents != 45000 {
		t.Fatalf("snapshot price changed to %d", cv.Items[0].UnitPriceCents)
	}
}

func TestMergeForLoginFoldsGuestCart(t *testing.T) {
	db := memdb(t)
	svc := newCartService(db)

	if _, err := svc.AddItem(domain.SessionOwner("sess-guest"), "prd-linen-shirt", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddItem(domain.UserOwner("u-thandi"), "prd-linen-shirt", 1); err != nil {
		t.Fatal(err)
	}
	if err := svc.MergeIntoUser("sess-guest", "u-thandi"); err != nil {
		t.Fatal(err)
	}

	cv, err := svc.View(domain.UserOwner("u-thandi"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 1 || cv.Items[0].Quantity != 3 {
		t.Fatalf("want merged line of 3, got %+v", cv.Items)
	}

	// the guest key gets a fresh empty cart afterwards
	guest, err := svc.View(domain.SessionOwner("sess-guest"))
	if err != nil {
		t.Fatal(err)
	}
	if len(guest.Items) != 0 {
		t.Fatalf("guest cart should be empty after merge, got %d items", len(guest.Items))
	}
}

// Concurrent first access must converge on a single active cart. A file
// database is used because the in-memory one is pinned to one connection.
func TestConcurrentGetOrCreateSingleCart(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "carts.db") + "?_pragma=busy_timeout(5000)"
	db, err := repos.OpenDB(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	svc := newCartService(db)
	owner := domain.SessionOwner("sess-race")

	const workers = 8
	ids := make([]string, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			cv, err := svc.View(owner)
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			ids[i] = cv.ID
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("worker %d got cart %s, worker 0 got %s", i, ids[i], ids[0])
		}
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM carts WHERE session_id = 'sess-race' AND status = 'active'`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want exactly one active cart, got %d", n)
	}
}
