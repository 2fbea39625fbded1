package services

import (
	"encoding/json"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/samukelok/harvviie-backend/internal/domain"
	"github.com/samukelok/harvviie-backend/internal/repos"
)

// DashboardService aggregates back-office summary numbers.
type DashboardService struct {
	DB     *sqlx.DB
	Orders *repos.OrderRepo
}

func NewDashboardService(db *sqlx.DB, orders *repos.OrderRepo) *DashboardService {
	return &DashboardService{DB: db, Orders: orders}
}

type Summary struct {
	TotalOrders   int `db:"total_orders" json:"total_orders"`
	PendingOrders int `db:"pending_orders" json:"pending_orders"`
	RevenueCents  int `db:"revenue_cents" json:"revenue_cents"`
	TotalProducts int `db:"total_products" json:"total_products"`
	NewMessages   int `db:"new_messages" json:"new_messages"`
}

func (s *DashboardService) Summary() (Summary, error) {
	var out Summary
	err := s.DB.Get(&out, `
	  SELECT
	    (SELECT COUNT(*) FROM orders) AS total_orders,
	    (SELECT COUNT(*) FROM orders WHERE status = 'pending') AS pending_orders,
	    (SELECT COALESCE(SUM(amount_cents),0) FROM orders WHERE status != 'cancelled') AS revenue_cents,
	    (SELECT COUNT(*) FROM products WHERE deleted = 0) AS total_products,
	    (SELECT COUNT(*) FROM messages WHERE status = 'new') AS new_messages
	`)
	return out, err
}

type TopProduct struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// TopProducts ranks products by quantity ordered across non-cancelled
// orders. Line items live in orders.items_json, so the aggregation happens
// here rather than in SQL.
func (s *DashboardService) TopProducts(limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 5
	}
	var blobs []string
	if err := s.DB.Select(&blobs, `
	  SELECT items_json FROM orders WHERE status != 'cancelled'
	`); err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, blob := range blobs {
		var lines []domain.OrderLine
		if err := json.Unmarshal([]byte(blob), &lines); err != nil {
			continue // tolerate malformed legacy rows
		}
		for _, l := range lines {
			counts[l.ProductID] += l.Quantity
		}
	}

	out := make([]TopProduct, 0, len(counts))
	for pid, qty := range counts {
		tp := TopProduct{ProductID: pid, Quantity: qty}
		_ = s.DB.Get(&tp.Name, `SELECT name FROM products WHERE id = ?`, pid)
		out = append(out, tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].ProductID < out[j].ProductID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *DashboardService) PendingOrders(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.Orders.List(repos.ListFilter{Status: domain.OrderStatusPending, Limit: limit})
}
