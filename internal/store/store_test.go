package store_test

import (
	"errors"
	"testing"

	"lume/internal/store"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_GetSetDelete(t *testing.T) {
	s := store.NewMemoryStore()

	// Missing slot
	_, ok, err := s.Get("cart")
	assert.NoError(t, err)
	assert.False(t, ok)

	// Set then read back
	assert.NoError(t, s.Set("cart", `[{"id":1}]`))
	value, ok, err := s.Get("cart")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, value)

	// Delete, then deleting again is a no-op
	assert.NoError(t, s.Delete("cart"))
	_, ok, _ = s.Get("cart")
	assert.False(t, ok)
	assert.NoError(t, s.Delete("cart"))
}

func TestMemoryStore_UpdateCommitsBatch(t *testing.T) {
	s := store.NewMemoryStore()
	assert.NoError(t, s.Set("cart", "old"))

	err := s.Update(func(tx store.Tx) error {
		if err := tx.Set("orderHistory", "orders"); err != nil {
			return err
		}
		return tx.Delete("cart")
	})
	assert.NoError(t, err)

	_, ok, _ := s.Get("cart")
	assert.False(t, ok)
	value, ok, _ := s.Get("orderHistory")
	assert.True(t, ok)
	assert.Equal(t, "orders", value)
}

func TestMemoryStore_UpdateRollsBackOnError(t *testing.T) {
	s := store.NewMemoryStore()
	assert.NoError(t, s.Set("cart", "old"))

	boom := errors.New("boom")
	err := s.Update(func(tx store.Tx) error {
		if err := tx.Delete("cart"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// The delete inside the failed batch must not be visible.
	value, ok, _ := s.Get("cart")
	assert.True(t, ok)
	assert.Equal(t, "old", value)
}

func TestGetJSON_CorruptSlotIsAbsent(t *testing.T) {
	s := store.NewMemoryStore()
	assert.NoError(t, s.Set("cart", "{not json"))

	var items []map[string]interface{}
	ok, err := store.GetJSON(s, "cart", &items)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, items)
}

func TestSetJSON_RoundTrip(t *testing.T) {
	s := store.NewMemoryStore()

	type record struct {
		Name string `json:"name"`
	}
	assert.NoError(t, store.SetJSON(s, "currentUser", record{Name: "Ada"}))

	var got record
	ok, err := store.GetJSON(s, "currentUser", &got)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Ada", got.Name)
}
