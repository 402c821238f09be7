package store

import (
	"encoding/json"
	"fmt"
)

// Slot names used by the storefront. All persisted state lives in this flat
// namespace of JSON-encoded values.
const (
	KeyCart            = "cart"
	KeyRegisteredUsers = "registeredUsers"
	KeyCurrentUser     = "currentUser"
	KeyRememberUser    = "rememberUser"
	KeyShippingInfo    = "shippingInfo"
	KeyPaymentInfo     = "paymentInfo"
	KeyOrderHistory    = "orderHistory"
	KeyWishlist        = "wishlist"
)

// Tx is the mutation surface available inside an Update callback.
type Tx interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Store is the persistent key-value store all storefront components are built
// on: string keys mapped to JSON-encoded string values. Update runs a batch
// of mutations atomically, so multi-slot writes either all land or none do.
type Store interface {
	Tx
	Update(fn func(tx Tx) error) error
}

// GetJSON reads the value at key and unmarshals it into v. A missing slot or
// a value that fails to parse is reported as absent, not as an error.
func GetJSON(tx Tx, key string, v interface{}) (bool, error) {
	raw, ok, err := tx.Get(key)
	if err != nil {
		return false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		// Corrupt slots are treated as absent.
		return false, nil
	}
	return true, nil
}

// SetJSON marshals v and writes it to key.
func SetJSON(tx Tx, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode slot %s: %w", key, err)
	}
	if err := tx.Set(key, string(raw)); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}
