package models

// ShippingInfo is the delivery information staged during checkout. It is
// overwritten each time the shipping step is submitted and deleted when the
// order completes.
type ShippingInfo struct {
	FullName     string `json:"fullName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required"`
	Address      string `json:"address" validate:"required"`
	City         string `json:"city" validate:"required"`
	Zip          string `json:"zip" validate:"required"`
	DeliveryDate string `json:"deliveryDate,omitempty"`
}

// PaymentInfo is the reduced payment record staged during checkout. Only the
// last four digits and the derived card type are ever persisted; the full
// card number and CVV are discarded immediately after validation.
type PaymentInfo struct {
	LastFourDigits string `json:"lastFourDigits"`
	Expiry         string `json:"expiry"`
	CardType       string `json:"cardType"`
}

// Totals is the priced-out view of a cart. Monetary figures are formatted to
// exactly two decimal places.
type Totals struct {
	Subtotal     string `json:"subtotal"`
	Shipping     string `json:"shipping"`
	Tax          string `json:"tax,omitempty"`
	Total        string `json:"total"`
	FreeShipping bool   `json:"freeShipping"`
}

// Order is a completed purchase, appended to the order history and never
// mutated or deleted afterwards.
type Order struct {
	ID          string       `json:"id"`
	OrderNumber string       `json:"orderNumber"`
	User        Session      `json:"user"`
	Shipping    ShippingInfo `json:"shipping"`
	Payment     PaymentInfo  `json:"payment"`
	Items       []CartItem   `json:"items"`
	Totals      Totals       `json:"totals"`
	OrderDate   string       `json:"orderDate"`
}
