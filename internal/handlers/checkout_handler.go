package handlers

import (
	"errors"

	"lume/internal/models"
	"lume/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles HTTP requests for the checkout pipeline. Each
// stage re-reads its staged data from the store on every request; there is no
// in-memory handoff between stages.
type CheckoutHandler struct {
	checkout *services.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkout *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// RegisterRoutes registers the checkout routes with the Fiber app. The
// router passed in is expected to sit behind the auth middleware.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Post("/", h.HandleBegin)
	checkoutRoutes.Get("/shipping", h.HandleShippingDefaults)
	checkoutRoutes.Post("/shipping", h.HandleSubmitShipping)
	checkoutRoutes.Post("/payment", h.HandleSubmitPayment)
	checkoutRoutes.Get("/review", h.HandleReview)
	checkoutRoutes.Post("/order", h.HandlePlaceOrder)

	router.Get("/orders", h.HandleOrders)
}

// HandleBegin guards entry into the checkout flow.
func (h *CheckoutHandler) HandleBegin(c *fiber.Ctx) error {
	if err := h.checkout.Begin(); err != nil {
		return h.blocked(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Checkout started",
		"redirect": "/checkout/shipping",
	})
}

// HandleShippingDefaults returns the pre-filled shipping form.
func (h *CheckoutHandler) HandleShippingDefaults(c *fiber.Ctx) error {
	defaults, err := h.checkout.ShippingDefaults()
	if err != nil {
		return h.blocked(c, err)
	}
	return c.JSON(defaults)
}

// HandleSubmitShipping validates and stages the shipping information.
func (h *CheckoutHandler) HandleSubmitShipping(c *fiber.Ctx) error {
	var info models.ShippingInfo
	if err := c.BodyParser(&info); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.checkout.SubmitShipping(info); err != nil {
		return h.blocked(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Shipping information saved",
		"redirect": "/checkout/payment",
	})
}

// PaymentRequest is the request body for the payment stage. The card number
// and CVV are validated and discarded; they never reach the store.
type PaymentRequest struct {
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// HandleSubmitPayment validates the card details and stages the reduced
// payment record.
func (h *CheckoutHandler) HandleSubmitPayment(c *fiber.Ctx) error {
	var req PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.checkout.SubmitPayment(req.CardNumber, req.Expiry, req.CVV); err != nil {
		return h.blocked(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Payment information saved",
		"redirect": "/checkout/review",
	})
}

// HandleReview returns the staged checkout bundle for confirmation.
func (h *CheckoutHandler) HandleReview(c *fiber.Ctx) error {
	review, err := h.checkout.BuildReview()
	if err != nil {
		return h.blocked(c, err)
	}
	return c.JSON(review)
}

// HandlePlaceOrder materializes the order, clears the staged state and sends
// the user home.
func (h *CheckoutHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	order, err := h.checkout.PlaceOrder()
	if err != nil {
		return h.blocked(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Order placed successfully! Thank you for shopping with Lume!",
		"orderNumber": order.OrderNumber,
		"total":       order.Totals.Total,
		"redirect":    "/",
	})
}

// HandleOrders returns the order history.
func (h *CheckoutHandler) HandleOrders(c *fiber.Ctx) error {
	orders, err := h.checkout.Orders()
	if err != nil {
		return internalError(c, "Could not load orders", err)
	}
	return c.JSON(orders)
}

// blocked maps a guard or validation failure to a blocked transition with a
// redirect hint back to the earliest stage that can repair it.
func (h *CheckoutHandler) blocked(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":  "Your cart is empty! Please add items before checking out.",
			"redirect": "/cart",
		})
	case errors.Is(err, services.ErrNotAuthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message":  "Please log in to your account to proceed with checkout.",
			"redirect": "/login",
		})
	case errors.Is(err, services.ErrIncompleteCheckout):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":  "Missing checkout information. Please complete all steps.",
			"redirect": "/checkout/shipping",
		})
	case errors.Is(err, services.ErrFieldsRequired),
		errors.Is(err, services.ErrInvalidPhone),
		errors.Is(err, services.ErrPaymentFields),
		errors.Is(err, services.ErrInvalidCardNumber),
		errors.Is(err, services.ErrInvalidExpiry),
		errors.Is(err, services.ErrInvalidCVV):
		return badRequest(c, err.Error())
	default:
		return internalError(c, "Checkout failed", err)
	}
}
