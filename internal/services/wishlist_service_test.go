package services_test

import (
	"testing"

	"lume/internal/models"
	"lume/internal/services"
	"lume/internal/store"

	"github.com/stretchr/testify/assert"
)

func TestWishlistService_Toggle(t *testing.T) {
	wishlistService := services.NewWishlistService(store.NewMemoryStore())
	item := models.WishlistItem{ID: 101, Title: "Arco Floor Lamp", Price: "$299.00"}

	// First toggle adds.
	added, err := wishlistService.Toggle(item)
	assert.NoError(t, err)
	assert.True(t, added)

	onList, err := wishlistService.Contains(101)
	assert.NoError(t, err)
	assert.True(t, onList)

	// Second toggle removes.
	added, err = wishlistService.Toggle(item)
	assert.NoError(t, err)
	assert.False(t, added)

	list, err := wishlistService.List()
	assert.NoError(t, err)
	assert.Empty(t, list)
}

func TestWishlistService_KeyedByProductID(t *testing.T) {
	wishlistService := services.NewWishlistService(store.NewMemoryStore())

	// Two products sharing a title do not collide; the keys are IDs.
	_, err := wishlistService.Toggle(models.WishlistItem{ID: 101, Title: "Floor Lamp"})
	assert.NoError(t, err)
	_, err = wishlistService.Toggle(models.WishlistItem{ID: 202, Title: "Floor Lamp"})
	assert.NoError(t, err)

	list, err := wishlistService.List()
	assert.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestWishlistService_ToggleRequiresProductID(t *testing.T) {
	wishlistService := services.NewWishlistService(store.NewMemoryStore())

	_, err := wishlistService.Toggle(models.WishlistItem{Title: "No ID"})
	assert.ErrorIs(t, err, services.ErrMissingProductID)
}
