package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/samukelok/harvviie-backend/internal/domain"
	"github.com/samukelok/harvviie-backend/internal/repos"
)

var (
	ErrEmptyCart = errors.New("cart is empty")
	ErrBadStatus = errors.New("unknown order status")
)

type OrderService struct {
	Carts   *repos.CartRepo
	Orders  *repos.OrderRepo
	TaxRate float64
}

func NewOrderService(carts *repos.CartRepo, orders *repos.OrderRepo, taxRate float64) *OrderService {
	return &OrderService{Carts: carts, Orders: orders, TaxRate: taxRate}
}

// Checkout converts the owner's active cart into an order. The heavy
// lifting (stock decrement, order number, cart conversion) runs in a single
// transaction in the repo; a failed stock guard aborts with no state change.
func (s *OrderService) Checkout(owner domain.CartOwner, customerName, customerEmail string, shipping *domain.Address) (domain.Order, error) {
	cartID, err := s.Carts.GetOrCreate(owner)
	if err != nil {
		return domain.Order{}, err
	}
	cart, err := s.Carts.LoadWithItems(cartID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(cart.Items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}
	return s.Orders.CreateFromCart(cartID, owner.UserID, customerName, customerEmail, shipping, s.TaxRate)
}

// CreateOrderInput is the staff path: an order written directly from a
// payload rather than converted from a cart.
type CreateOrderInput struct {
	UserID        string
	CustomerName  string
	CustomerEmail string
	Items         []domain.OrderLine
	AmountCents   int
	Status        string
	Shipping      *domain.Address
	PlacedAt      string
}

func (s *OrderService) Create(in CreateOrderInput) (domain.Order, error) {
	if in.Status == "" {
		in.Status = domain.OrderStatusPending
	}
	if !domain.ValidOrderStatus(in.Status) {
		return domain.Order{}, ErrBadStatus
	}
	if in.PlacedAt == "" {
		in.PlacedAt = time.Now().UTC().Format(time.RFC3339)
	}

	itemsJSON, err := json.Marshal(in.Items)
	if err != nil {
		return domain.Order{}, err
	}
	shippingJSON := ""
	if in.Shipping != nil {
		b, err := json.Marshal(in.Shipping)
		if err != nil {
			return domain.Order{}, err
		}
		shippingJSON = string(b)
	}

	number, err := s.Orders.NextOrderNumber()
	if err != nil {
		return domain.Order{}, err
	}

	o := domain.Order{
		ID:              uuid.NewString(),
		OrderNumber:     number,
		UserID:          in.UserID,
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		ItemsJSON:       string(itemsJSON),
		Items:           in.Items,
		AmountCents:     in.AmountCents,
		Status:          in.Status,
		ShippingJSON:    shippingJSON,
		ShippingAddress: in.Shipping,
		PlacedAt:        in.PlacedAt,
	}
	if o.Items == nil {
		o.Items = []domain.OrderLine{}
		o.ItemsJSON = "[]"
	}
	if err := s.Orders.Create(o); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (s *OrderService) List(f repos.ListFilter) ([]domain.Order, error) {
	if f.Status != "" && !domain.ValidOrderStatus(f.Status) {
		return nil, ErrBadStatus
	}
	return s.Orders.List(f)
}

func (s *OrderService) ListByUser(userID, status string, limit, offset int) ([]domain.Order, error) {
	if status != "" && !domain.ValidOrderStatus(status) {
		return nil, ErrBadStatus
	}
	return s.Orders.ListByUser(userID, status, limit, offset)
}

func (s *OrderService) Get(id string) (domain.Order, error) {
	return s.Orders.Get(id)
}

func (s *OrderService) UpdateStatus(id, status string) error {
	if !domain.ValidOrderStatus(status) {
		return ErrBadStatus
	}
	return s.Orders.UpdateStatus(id, status)
}

// Cancel marks an order cancelled; orders are never hard-deleted.
func (s *OrderService) Cancel(id string) error {
	return s.Orders.UpdateStatus(id, domain.OrderStatusCancelled)
}
