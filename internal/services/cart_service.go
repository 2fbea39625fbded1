package services

import (
	"github.com/samukelok/harvviie-backend/internal/domain"
	"github.com/samukelok/harvviie-backend/internal/pricing"
	"github.com/samukelok/harvviie-backend/internal/repos"
	"github.com/samukelok/harvviie-backend/internal/validate"
)

// CartService is the single authority for mutating cart contents under
// stock constraints. Identity is an explicit owner key resolved by the
// HTTP layer; nothing here reads ambient request state.
type CartService struct {
	Carts      *repos.CartRepo
	TaxRate    float64
	MaxItemQty int
}

func NewCartService(carts *repos.CartRepo, taxRate float64, maxItemQty int) *CartService {
	return &CartService{Carts: carts, TaxRate: taxRate, MaxItemQty: maxItemQty}
}

// CartView is the persisted cart plus derived totals, recomputed on every
// read rather than stored.
type CartView struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id,omitempty"`
	SessionID string            `json:"session_id,omitempty"`
	Status    string            `json:"status"`
	Items     []domain.CartItem `json:"items"`
	pricing.Totals
}

func (s *CartService) view(cartID string) (CartView, error) {
	cart, err := s.Carts.LoadWithItems(cartID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{
		ID:        cart.ID,
		UserID:    cart.UserID,
		SessionID: cart.SessionID,
		Status:    cart.Status,
		Items:     cart.Items,
		Totals:    pricing.Compute(cart.Items, s.TaxRate),
	}, nil
}

// View returns the owner's active cart, creating it lazily on first access.
func (s *CartService) View(owner domain.CartOwner) (CartView, error) {
	cartID, err := s.Carts.GetOrCreate(owner)
	if err != nil {
		return CartView{}, err
	}
	return s.view(cartID)
}

// AddItem puts qty units of a product into the owner's cart, merging with
// any existing line for the same product. Returns the refreshed cart view.
func (s *CartService) AddItem(owner domain.CartOwner, productID string, qty int) (CartView, error) {
	qty = validate.Qty(qty, s.MaxItemQty)
	cartID, err := s.Carts.GetOrCreate(owner)
	if err != nil {
		return CartView{}, err
	}
	if err := s.Carts.AddItem(cartID, productID, qty); err != nil {
		return CartView{}, err
	}
	return s.view(cartID)
}

// UpdateItem sets a line's quantity outright.
func (s *CartService) UpdateItem(owner domain.CartOwner, itemID string, qty int) (CartView, error) {
	qty = validate.Qty(qty, s.MaxItemQty)
	cartID, err := s.Carts.GetOrCreate(owner)
	if err != nil {
		return CartView{}, err
	}
	if err := s.Carts.UpdateItem(cartID, itemID, qty); err != nil {
		return CartView{}, err
	}
	return s.view(cartID)
}

func (s *CartService) RemoveItem(owner domain.CartOwner, itemID string) (CartView, error) {
	cartID, err := s.Carts.GetOrCreate(owner)
	if err != nil {
		return CartView{}, err
	}
	if err := s.Carts.RemoveItem(cartID, itemID); err != nil {
		return CartView{}, err
	}
	return s.view(cartID)
}

// MergeIntoUser absorbs a guest session cart into a user's cart at login.
func (s *CartService) MergeIntoUser(sessionID, userID string) error {
	if sessionID == "" || userID == "" {
		return nil
	}
	return s.Carts.MergeForLogin(sessionID, userID)
}

func (s *CartService) Clear(owner domain.CartOwner) (CartView, error) {
	cartID, err := s.Carts.GetOrCreate(owner)
	if err != nil {
		return CartView{}, err
	}
	if err := s.Carts.Clear(cartID); err != nil {
		return CartView{}, err
	}
	return s.view(cartID)
}
