package models

// CartItem is one line of the shopping cart. At most one line exists per
// product ID; the price is snapshotted at the time the product is added.
type CartItem struct {
	ID       int     `json:"id" validate:"required"`
	Name     string  `json:"name"`
	Price    float64 `json:"price" validate:"gte=0"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity" validate:"gte=1"`
}

// CartItemFromProduct builds a cart line for a product with the given
// quantity, snapshotting the current price.
func CartItemFromProduct(p Product, quantity int) CartItem {
	return CartItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.Image,
		Category: p.Category,
		Quantity: quantity,
	}
}
