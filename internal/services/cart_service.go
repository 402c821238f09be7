package services

import (
	"errors"
	"fmt"

	"lume/internal/models"
	"lume/internal/store"
)

// ErrMissingProductID is returned when an item without a product ID is added
// to the cart.
var ErrMissingProductID = errors.New("cart item must have a product id")

// CartService handles business logic for the shopping cart. The cart is a
// list of line items persisted in a single store slot, with at most one line
// per product ID.
type CartService struct {
	store store.Store
}

// NewCartService creates a new CartService.
func NewCartService(s store.Store) *CartService {
	return &CartService{store: s}
}

// Cart returns the persisted cart. A missing or corrupt slot yields an empty
// cart, not an error.
func (s *CartService) Cart() ([]models.CartItem, error) {
	return readCart(s.store)
}

// Add merges item into the cart: if a line with the same product ID exists
// its quantity is incremented by the item's quantity (default 1), otherwise
// the item is appended preserving insertion order.
func (s *CartService) Add(item models.CartItem) error {
	if item.ID == 0 {
		return ErrMissingProductID
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	cart, err := readCart(s.store)
	if err != nil {
		return err
	}

	merged := false
	for i := range cart {
		if cart[i].ID == item.ID {
			cart[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart = append(cart, item)
	}

	return s.save(cart)
}

// Remove deletes the line with the given product ID. Removing a missing line
// is a no-op, not an error.
func (s *CartService) Remove(id int) error {
	cart, err := readCart(s.store)
	if err != nil {
		return err
	}

	kept := cart[:0]
	for _, item := range cart {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	return s.save(kept)
}

// SetQuantity sets the quantity of the line with the given product ID. A
// quantity below one removes the line; a missing ID is a no-op.
func (s *CartService) SetQuantity(id, quantity int) error {
	if quantity < 1 {
		return s.Remove(id)
	}

	cart, err := readCart(s.store)
	if err != nil {
		return err
	}

	for i := range cart {
		if cart[i].ID == id {
			cart[i].Quantity = quantity
			return s.save(cart)
		}
	}
	return nil
}

// Clear deletes the entire cart. The interactive confirmation gate is
// enforced by the caller, not here.
func (s *CartService) Clear() error {
	if err := s.store.Delete(store.KeyCart); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Count returns the cart item counter, the sum of all line quantities.
func (s *CartService) Count() (int, error) {
	cart, err := readCart(s.store)
	if err != nil {
		return 0, err
	}
	return countItems(cart), nil
}

func (s *CartService) save(cart []models.CartItem) error {
	return store.SetJSON(s.store, store.KeyCart, cart)
}

func readCart(tx store.Tx) ([]models.CartItem, error) {
	var cart []models.CartItem
	if _, err := store.GetJSON(tx, store.KeyCart, &cart); err != nil {
		return nil, err
	}
	if cart == nil {
		cart = []models.CartItem{}
	}
	return cart, nil
}

func countItems(cart []models.CartItem) int {
	total := 0
	for _, item := range cart {
		total += item.Quantity
	}
	return total
}
