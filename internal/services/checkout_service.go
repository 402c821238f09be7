package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"lume/internal/models"
	"lume/internal/store"

	"github.com/google/uuid"
)

// Guard failures; each maps to a blocked transition and a redirect hint at
// the API surface.
var (
	ErrEmptyCart          = errors.New("your cart is empty")
	ErrInvalidPhone       = errors.New("please enter a valid phone number")
	ErrPaymentFields      = errors.New("please fill in all payment fields")
	ErrInvalidCardNumber  = errors.New("please enter a valid card number")
	ErrInvalidExpiry      = errors.New("please enter expiry date in MM/YY format")
	ErrInvalidCVV         = errors.New("please enter a valid CVV (3 or 4 digits)")
	ErrIncompleteCheckout = errors.New("missing checkout information, please complete all steps")
)

var (
	phonePattern  = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	cardPattern   = regexp.MustCompile(`^\d{13,19}$`)
	expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
)

const orderNumberPrefix = "LM"

// EventPublisher publishes domain events to the message broker. A nil
// publisher disables event publication.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// CheckoutService drives the linear checkout pipeline: shipping, payment,
// review, place order. Each stage is gated on entry and persists one staged
// record on exit; placing the order commits atomically and clears the staged
// state.
type CheckoutService struct {
	store  store.Store
	cart   *CartService
	auth   *AuthService
	events EventPublisher
}

// NewCheckoutService creates a new CheckoutService. events may be nil.
func NewCheckoutService(s store.Store, cart *CartService, auth *AuthService, events EventPublisher) *CheckoutService {
	return &CheckoutService{
		store:  s,
		cart:   cart,
		auth:   auth,
		events: events,
	}
}

// Begin guards entry into the checkout flow: the cart must be non-empty and a
// user must be logged in.
func (s *CheckoutService) Begin() error {
	cart, err := s.cart.Cart()
	if err != nil {
		return err
	}
	if len(cart) == 0 {
		return ErrEmptyCart
	}

	session, err := s.auth.CurrentUser()
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNotAuthenticated
	}
	return nil
}

// ShippingDefaults pre-fills the shipping form: name and email come from the
// session, the remaining fields from previously staged shipping info, if any.
func (s *CheckoutService) ShippingDefaults() (*models.ShippingInfo, error) {
	session, err := s.auth.CurrentUser()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotAuthenticated
	}

	info := models.ShippingInfo{
		FullName: session.Name,
		Email:    session.Email,
	}
	var staged models.ShippingInfo
	if ok, err := store.GetJSON(s.store, store.KeyShippingInfo, &staged); err != nil {
		return nil, err
	} else if ok {
		info.Phone = staged.Phone
		info.Address = staged.Address
		info.City = staged.City
		info.Zip = staged.Zip
		info.DeliveryDate = staged.DeliveryDate
	}
	return &info, nil
}

// SubmitShipping validates and stages the shipping information, overwriting
// any previously staged record.
func (s *CheckoutService) SubmitShipping(info models.ShippingInfo) error {
	if info.FullName == "" || info.Email == "" || info.Phone == "" ||
		info.Address == "" || info.City == "" || info.Zip == "" {
		return ErrFieldsRequired
	}
	if !phonePattern.MatchString(info.Phone) {
		return ErrInvalidPhone
	}
	return store.SetJSON(s.store, store.KeyShippingInfo, info)
}

// SubmitPayment validates the card details and stages only the reduced
// payment record: last four digits, expiry and derived card type. The full
// card number and CVV are discarded here and never persisted.
func (s *CheckoutService) SubmitPayment(cardNumber, expiry, cvv string) error {
	if cardNumber == "" || expiry == "" || cvv == "" {
		return ErrPaymentFields
	}

	clean := strings.ReplaceAll(cardNumber, " ", "")
	if !cardPattern.MatchString(clean) {
		return ErrInvalidCardNumber
	}
	if !expiryPattern.MatchString(expiry) {
		return ErrInvalidExpiry
	}
	if !cvvPattern.MatchString(cvv) {
		return ErrInvalidCVV
	}

	info := models.PaymentInfo{
		LastFourDigits: clean[len(clean)-4:],
		Expiry:         expiry,
		CardType:       DetectCardType(clean),
	}
	return store.SetJSON(s.store, store.KeyPaymentInfo, info)
}

// DetectCardType classifies a card number by its numeric prefix.
func DetectCardType(cardNumber string) string {
	switch {
	case strings.HasPrefix(cardNumber, "4"):
		return "Visa"
	case len(cardNumber) >= 2 && cardNumber[0] == '5' && cardNumber[1] >= '1' && cardNumber[1] <= '5':
		return "Mastercard"
	case strings.HasPrefix(cardNumber, "34") || strings.HasPrefix(cardNumber, "37"):
		return "American Express"
	case strings.HasPrefix(cardNumber, "6011") || strings.HasPrefix(cardNumber, "65"):
		return "Discover"
	default:
		return "Card"
	}
}

// Review is the staged checkout bundle shown before placing the order.
type Review struct {
	User     models.Session      `json:"user"`
	Shipping models.ShippingInfo `json:"shipping"`
	Payment  models.PaymentInfo  `json:"payment"`
	Items    []models.CartItem   `json:"items"`
	Totals   models.Totals       `json:"totals"`
}

// BuildReview gathers the staged shipping and payment records, the session
// and the cart for the review stage. If any piece is missing the flow cannot
// proceed and the caller must send the user back to the shipping stage.
func (s *CheckoutService) BuildReview() (*Review, error) {
	session, err := s.auth.CurrentUser()
	if err != nil {
		return nil, err
	}

	var shipping models.ShippingInfo
	hasShipping, err := store.GetJSON(s.store, store.KeyShippingInfo, &shipping)
	if err != nil {
		return nil, err
	}
	var payment models.PaymentInfo
	hasPayment, err := store.GetJSON(s.store, store.KeyPaymentInfo, &payment)
	if err != nil {
		return nil, err
	}
	if session == nil || !hasShipping || !hasPayment {
		return nil, ErrIncompleteCheckout
	}

	items, err := s.cart.Cart()
	if err != nil {
		return nil, err
	}
	return &Review{
		User:     *session,
		Shipping: shipping,
		Payment:  payment,
		Items:    items,
		Totals:   CalculateTotals(items, TaxExcluded),
	}, nil
}

// PlaceOrder materializes the order and commits it in a single transaction:
// the order is appended to the history and the cart, shipping and payment
// slots are cleared together. On success an order.created event is published
// when a broker is configured.
func (s *CheckoutService) PlaceOrder() (*models.Order, error) {
	review, err := s.BuildReview()
	if err != nil {
		return nil, err
	}
	if len(review.Items) == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now()
	order := models.Order{
		ID:          uuid.New().String(),
		OrderNumber: generateOrderNumber(now),
		User:        review.User,
		Shipping:    review.Shipping,
		Payment:     review.Payment,
		Items:       review.Items,
		Totals:      review.Totals,
		OrderDate:   now.Format(time.RFC3339),
	}

	err = s.store.Update(func(tx store.Tx) error {
		var history []models.Order
		if _, err := store.GetJSON(tx, store.KeyOrderHistory, &history); err != nil {
			return err
		}
		history = append(history, order)
		if err := store.SetJSON(tx, store.KeyOrderHistory, history); err != nil {
			return err
		}
		for _, key := range []string{store.KeyCart, store.KeyShippingInfo, store.KeyPaymentInfo} {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to commit order %s: %w", order.OrderNumber, err)
	}

	s.publishOrderCreated(order)
	return &order, nil
}

// Orders returns the append-only order history, oldest first.
func (s *CheckoutService) Orders() ([]models.Order, error) {
	var history []models.Order
	if _, err := store.GetJSON(s.store, store.KeyOrderHistory, &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = []models.Order{}
	}
	return history, nil
}

func (s *CheckoutService) publishOrderCreated(order models.Order) {
	if s.events == nil {
		log.Println("Event publisher is not configured. Skipping order event.")
		return
	}

	message := map[string]interface{}{
		"orderID":     order.ID,
		"orderNumber": order.OrderNumber,
		"userID":      order.User.ID,
		"total":       order.Totals.Total,
	}
	body, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal order event: %v", err)
		return
	}
	if err := s.events.Publish("order", "order.created", body); err != nil {
		log.Printf("Warning: Failed to publish order created event for order %s: %v", order.OrderNumber, err)
	}
}

// generateOrderNumber derives a display order number from the timestamp: a
// fixed prefix plus the low-order digits of the unix-milli clock. Not
// globally unique; display only.
func generateOrderNumber(now time.Time) string {
	millis := fmt.Sprintf("%d", now.UnixMilli())
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}
	return orderNumberPrefix + millis
}
