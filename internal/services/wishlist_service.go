package services

import (
	"lume/internal/models"
	"lume/internal/store"
)

// WishlistService handles the saved-for-later list. Entries are keyed by
// product ID and toggled on and off by a single action.
type WishlistService struct {
	store store.Store
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(s store.Store) *WishlistService {
	return &WishlistService{store: s}
}

// List returns the wishlist. A missing or corrupt slot yields an empty list.
func (s *WishlistService) List() ([]models.WishlistItem, error) {
	var list []models.WishlistItem
	if _, err := store.GetJSON(s.store, store.KeyWishlist, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.WishlistItem{}
	}
	return list, nil
}

// Toggle adds the item when its product ID is absent from the wishlist and
// removes it when present. It reports whether the item is on the list after
// the call.
func (s *WishlistService) Toggle(item models.WishlistItem) (bool, error) {
	if item.ID == 0 {
		return false, ErrMissingProductID
	}

	list, err := s.List()
	if err != nil {
		return false, err
	}

	kept := list[:0]
	removed := false
	for _, existing := range list {
		if existing.ID == item.ID {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	if !removed {
		kept = append(kept, item)
	}

	if err := store.SetJSON(s.store, store.KeyWishlist, kept); err != nil {
		return false, err
	}
	return !removed, nil
}

// Contains reports whether the product is on the wishlist.
func (s *WishlistService) Contains(id int) (bool, error) {
	list, err := s.List()
	if err != nil {
		return false, err
	}
	for _, item := range list {
		if item.ID == id {
			return true, nil
		}
	}
	return false, nil
}
