package services_test

import (
	"strings"
	"testing"

	"lume/internal/models"
	"lume/internal/services"
	"lume/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of services.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

type checkoutFixture struct {
	store    *store.MemoryStore
	cart     *services.CartService
	auth     *services.AuthService
	checkout *services.CheckoutService
	events   *MockEventPublisher
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	memStore := store.NewMemoryStore()
	cartService := services.NewCartService(memStore)
	authService := newAuthService(memStore)
	events := new(MockEventPublisher)
	return &checkoutFixture{
		store:    memStore,
		cart:     cartService,
		auth:     authService,
		checkout: services.NewCheckoutService(memStore, cartService, authService, events),
		events:   events,
	}
}

func (f *checkoutFixture) loginUser(t *testing.T) {
	t.Helper()
	registerTestUser(t, f.auth)
	_, _, err := f.auth.Login(testEmail, testPassword, false)
	assert.NoError(t, err)
}

func validShipping() models.ShippingInfo {
	return models.ShippingInfo{
		FullName: "Ada Lovelace",
		Email:    testEmail,
		Phone:    "+1 (555) 123-4567",
		Address:  "12 Analytical Way",
		City:     "London",
		Zip:      "E1 6AN",
	}
}

func TestCheckoutService_BeginGuards(t *testing.T) {
	f := newCheckoutFixture(t)

	// Empty cart blocks before the auth check.
	assert.ErrorIs(t, f.checkout.Begin(), services.ErrEmptyCart)

	assert.NoError(t, f.cart.Add(models.CartItem{ID: 101, Price: 299, Quantity: 1}))
	assert.ErrorIs(t, f.checkout.Begin(), services.ErrNotAuthenticated)

	f.loginUser(t)
	assert.NoError(t, f.checkout.Begin())
}

func TestCheckoutService_BeginLeavesNoShippingWritten(t *testing.T) {
	f := newCheckoutFixture(t)

	assert.ErrorIs(t, f.checkout.Begin(), services.ErrEmptyCart)

	_, ok, _ := f.store.Get(store.KeyShippingInfo)
	assert.False(t, ok)
}

func TestCheckoutService_SubmitShippingValidation(t *testing.T) {
	f := newCheckoutFixture(t)

	missingCity := validShipping()
	missingCity.City = ""
	assert.ErrorIs(t, f.checkout.SubmitShipping(missingCity), services.ErrFieldsRequired)

	badPhone := validShipping()
	badPhone.Phone = "call me maybe"
	assert.ErrorIs(t, f.checkout.SubmitShipping(badPhone), services.ErrInvalidPhone)

	assert.NoError(t, f.checkout.SubmitShipping(validShipping()))

	var staged models.ShippingInfo
	ok, err := store.GetJSON(f.store, store.KeyShippingInfo, &staged)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Ada Lovelace", staged.FullName)
}

func TestCheckoutService_SubmitShippingOverwrites(t *testing.T) {
	f := newCheckoutFixture(t)

	first := validShipping()
	assert.NoError(t, f.checkout.SubmitShipping(first))

	second := validShipping()
	second.City = "Paris"
	assert.NoError(t, f.checkout.SubmitShipping(second))

	var staged models.ShippingInfo
	_, err := store.GetJSON(f.store, store.KeyShippingInfo, &staged)
	assert.NoError(t, err)
	assert.Equal(t, "Paris", staged.City)
}

func TestCheckoutService_ShippingDefaults(t *testing.T) {
	f := newCheckoutFixture(t)
	f.loginUser(t)

	defaults, err := f.checkout.ShippingDefaults()
	assert.NoError(t, err)
	assert.Equal(t, "Ada", defaults.FullName)
	assert.Equal(t, testEmail, defaults.Email)
	assert.Empty(t, defaults.Phone)

	// Staged shipping fills the remaining fields on the next load.
	assert.NoError(t, f.checkout.SubmitShipping(validShipping()))
	defaults, err = f.checkout.ShippingDefaults()
	assert.NoError(t, err)
	assert.Equal(t, "+1 (555) 123-4567", defaults.Phone)
	assert.Equal(t, "London", defaults.City)
}

func TestCheckoutService_SubmitPaymentValidation(t *testing.T) {
	f := newCheckoutFixture(t)

	tests := []struct {
		name       string
		cardNumber string
		expiry     string
		cvv        string
		wantErr    error
	}{
		{"empty fields", "", "12/26", "123", services.ErrPaymentFields},
		{"card too short", "411111111111", "12/26", "123", services.ErrInvalidCardNumber},
		{"card with letters", "4111abcd11111111", "12/26", "123", services.ErrInvalidCardNumber},
		{"bad expiry", "4111111111111111", "122/6", "123", services.ErrInvalidExpiry},
		{"bad cvv", "4111111111111111", "12/26", "12", services.ErrInvalidCVV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, f.checkout.SubmitPayment(tt.cardNumber, tt.expiry, tt.cvv), tt.wantErr)
		})
	}
}

func TestCheckoutService_SubmitPaymentStoresReducedRecord(t *testing.T) {
	f := newCheckoutFixture(t)

	// Spaces in the card number are stripped before validation.
	assert.NoError(t, f.checkout.SubmitPayment("4111 1111 1111 1111", "12/26", "123"))

	var staged models.PaymentInfo
	ok, err := store.GetJSON(f.store, store.KeyPaymentInfo, &staged)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1111", staged.LastFourDigits)
	assert.Equal(t, "12/26", staged.Expiry)
	assert.Equal(t, "Visa", staged.CardType)

	// Neither the full card number nor the CVV ever reach the store.
	raw, _, _ := f.store.Get(store.KeyPaymentInfo)
	assert.NotContains(t, raw, "4111111111111111")
	assert.NotContains(t, raw, "123")
}

func TestDetectCardType(t *testing.T) {
	tests := []struct {
		cardNumber string
		want       string
	}{
		{"4111111111111111", "Visa"},
		{"5500000000000004", "Mastercard"},
		{"340000000000009", "American Express"},
		{"370000000000002", "American Express"},
		{"6011000000000004", "Discover"},
		{"6500000000000002", "Discover"},
		{"9999999999999", "Card"},
	}
	for _, tt := range tests {
		t.Run(tt.cardNumber, func(t *testing.T) {
			assert.Equal(t, tt.want, services.DetectCardType(tt.cardNumber))
		})
	}
}

func TestCheckoutService_ReviewRequiresAllStagedData(t *testing.T) {
	f := newCheckoutFixture(t)
	assert.NoError(t, f.cart.Add(models.CartItem{ID: 101, Price: 299, Quantity: 1}))

	// No session, no staged data.
	_, err := f.checkout.BuildReview()
	assert.ErrorIs(t, err, services.ErrIncompleteCheckout)

	f.loginUser(t)
	_, err = f.checkout.BuildReview()
	assert.ErrorIs(t, err, services.ErrIncompleteCheckout)

	assert.NoError(t, f.checkout.SubmitShipping(validShipping()))
	_, err = f.checkout.BuildReview()
	assert.ErrorIs(t, err, services.ErrIncompleteCheckout)

	assert.NoError(t, f.checkout.SubmitPayment("4111111111111111", "12/26", "123"))
	review, err := f.checkout.BuildReview()
	assert.NoError(t, err)
	assert.Len(t, review.Items, 1)
	// The review stage uses the tax-free totals formula.
	assert.Empty(t, review.Totals.Tax)
	assert.Equal(t, "349.00", review.Totals.Total) // 299 + 50 shipping
}

func TestCheckoutService_PlaceOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	f.loginUser(t)
	assert.NoError(t, f.cart.Add(models.CartItem{ID: 101, Name: "Arco Floor Lamp", Price: 299, Quantity: 2}))
	assert.NoError(t, f.checkout.SubmitShipping(validShipping()))
	assert.NoError(t, f.checkout.SubmitPayment("5500000000000004", "12/26", "123"))

	f.events.On("Publish", "order", "order.created", mock.Anything).Return(nil).Once()

	order, err := f.checkout.PlaceOrder()
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "LM"))
	assert.Len(t, order.OrderNumber, 10)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "Mastercard", order.Payment.CardType)
	assert.Equal(t, "598.00", order.Totals.Total) // 598 subtotal, over the free-shipping threshold

	f.events.AssertExpectations(t)
}

func TestCheckoutService_PlaceOrderClearsStagedState(t *testing.T) {
	f := newCheckoutFixture(t)
	f.loginUser(t)
	assert.NoError(t, f.cart.Add(models.CartItem{ID: 101, Price: 100, Quantity: 1}))
	assert.NoError(t, f.checkout.SubmitShipping(validShipping()))
	assert.NoError(t, f.checkout.SubmitPayment("4111111111111111", "12/26", "123"))
	f.events.On("Publish", "order", "order.created", mock.Anything).Return(nil).Once()

	_, err := f.checkout.PlaceOrder()
	assert.NoError(t, err)

	// Cart and both staged slots are gone.
	for _, key := range []string{store.KeyCart, store.KeyShippingInfo, store.KeyPaymentInfo} {
		_, ok, _ := f.store.Get(key)
		assert.False(t, ok, "slot %s should be cleared", key)
	}

	// Exactly one order landed in the history.
	orders, err := f.checkout.Orders()
	assert.NoError(t, err)
	assert.Len(t, orders, 1)

	// A second attempt is blocked: the staged state is gone.
	_, err = f.checkout.PlaceOrder()
	assert.ErrorIs(t, err, services.ErrIncompleteCheckout)
	orders, _ = f.checkout.Orders()
	assert.Len(t, orders, 1)
}

func TestCheckoutService_PlaceOrderWithoutPublisher(t *testing.T) {
	memStore := store.NewMemoryStore()
	cartService := services.NewCartService(memStore)
	authService := newAuthService(memStore)
	checkoutService := services.NewCheckoutService(memStore, cartService, authService, nil)

	registerTestUser(t, authService)
	_, _, err := authService.Login(testEmail, testPassword, false)
	assert.NoError(t, err)
	assert.NoError(t, cartService.Add(models.CartItem{ID: 101, Price: 100, Quantity: 1}))
	assert.NoError(t, checkoutService.SubmitShipping(validShipping()))
	assert.NoError(t, checkoutService.SubmitPayment("4111111111111111", "12/26", "123"))

	// No publisher configured; the order still commits.
	order, err := checkoutService.PlaceOrder()
	assert.NoError(t, err)
	assert.NotNil(t, order)
}

func TestCheckoutService_PublishFailureDoesNotFailOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	f.loginUser(t)
	assert.NoError(t, f.cart.Add(models.CartItem{ID: 101, Price: 100, Quantity: 1}))
	assert.NoError(t, f.checkout.SubmitShipping(validShipping()))
	assert.NoError(t, f.checkout.SubmitPayment("4111111111111111", "12/26", "123"))

	f.events.On("Publish", "order", "order.created", mock.Anything).
		Return(assert.AnError).Once()

	order, err := f.checkout.PlaceOrder()
	assert.NoError(t, err)
	assert.NotNil(t, order)
	f.events.AssertExpectations(t)
}
