package services

import (
	"fmt"

	"lume/internal/models"
)

// Business rules for pricing: orders up to the free-shipping threshold pay a
// flat shipping fee, larger orders ship free. Tax, where applied, is a flat
// rate on the subtotal.
const (
	FreeShippingThreshold = 500.0
	ShippingFee           = 50.0
	TaxRate               = 0.10
)

// TaxMode selects which of the two totals formulas is used: the cart page
// includes tax, the checkout flow does not.
type TaxMode int

const (
	// TaxExcluded computes total = subtotal + shipping (checkout flow).
	TaxExcluded TaxMode = iota
	// TaxIncluded computes total = subtotal + shipping + 10% tax (cart page).
	TaxIncluded
)

// CalculateTotals prices out a cart. Shipping is zero for an empty cart, the
// flat fee up to the free-shipping threshold and free above it. All figures
// are formatted to exactly two decimal places.
func CalculateTotals(items []models.CartItem, mode TaxMode) models.Totals {
	subtotal := 0.0
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}

	shipping := 0.0
	if subtotal > 0 && subtotal <= FreeShippingThreshold {
		shipping = ShippingFee
	}

	total := subtotal + shipping
	totals := models.Totals{
		Subtotal:     money(subtotal),
		Shipping:     money(shipping),
		Total:        money(total),
		FreeShipping: subtotal > FreeShippingThreshold,
	}

	if mode == TaxIncluded {
		tax := subtotal * TaxRate
		totals.Tax = money(tax)
		totals.Total = money(total + tax)
	}
	return totals
}

// AmountToFreeShipping returns how much more must be spent to reach free
// shipping, or zero if the subtotal already qualifies.
func AmountToFreeShipping(items []models.CartItem) float64 {
	subtotal := 0.0
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return FreeShippingThreshold - subtotal
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
