package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashrajoria/storefront/cart"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/session"
)

type capturePlacer struct {
	order   models.Order
	orderID string
	err     error
	calls   int
}

func (p *capturePlacer) PlaceOrder(_ context.Context, order models.Order) (string, error) {
	p.calls++
	p.order = order
	return p.orderID, p.err
}

func authedSession(t *testing.T, user models.User) *session.Manager {
	t.Helper()
	ctx := context.Background()
	m := session.NewManager(ctx, session.NewMemStore(), nil)
	t.Cleanup(m.Close)

	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	require.NoError(t, m.Login(ctx, tok, user))
	return m
}

func anonSession(t *testing.T) *session.Manager {
	t.Helper()
	m := session.NewManager(context.Background(), session.NewMemStore(), nil)
	t.Cleanup(m.Close)
	return m
}

func validShippingInfo() models.ShippingInfo {
	return models.ShippingInfo{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Phone: "555-0101", Address: "12 Analytical Way", City: "London",
		State: "LDN", ZipCode: "SW1", Country: "United Kingdom",
	}
}

func validPaymentInfo() models.PaymentInfo {
	return models.PaymentInfo{
		CardNumber: "4242 4242 4242 4242",
		CardHolder: "Ada Lovelace",
		ExpiryDate: "12/30",
		CVV:        "123",
	}
}

func TestPrefillFromUser(t *testing.T) {
	m := authedSession(t, models.User{"name": "Ada Lovelace King", "email": "ada@example.com"})
	c := New(cart.NewLedger(nil), m, &capturePlacer{})

	s := c.Shipping()
	assert.Equal(t, "Ada", s.FirstName)
	assert.Equal(t, "Lovelace King", s.LastName)
	assert.Equal(t, "ada@example.com", s.Email)
	assert.Equal(t, "United States", s.Country)
}

func TestStepProgression(t *testing.T) {
	m := anonSession(t)
	c := New(cart.NewLedger(nil), m, &capturePlacer{})

	assert.Equal(t, StepShipping, c.Step())

	err := c.Next()
	require.Error(t, err, "incomplete shipping must block")
	assert.Equal(t, StepShipping, c.Step())

	c.SetShipping(validShippingInfo())
	require.NoError(t, c.Next())
	assert.Equal(t, StepPayment, c.Step())

	err = c.Next()
	require.Error(t, err, "incomplete payment must block")

	c.SetPayment(validPaymentInfo())
	require.NoError(t, c.Next())
	assert.Equal(t, StepReview, c.Step())

	require.NoError(t, c.Next())
	assert.Equal(t, StepReview, c.Step(), "review is the last step")

	c.Back()
	assert.Equal(t, StepPayment, c.Step())
	c.Back()
	c.Back()
	assert.Equal(t, StepShipping, c.Step(), "shipping is the first step")
}

func TestTotals(t *testing.T) {
	ledger := cart.NewLedger(nil)
	ledger.Add(models.CartItem{ProductID: 1, Name: "Lipstick", Price: 10})
	ledger.Add(models.CartItem{ProductID: 2, Name: "Serum", Price: 5})
	ledger.SetQuantity(2, 3)

	c := New(ledger, anonSession(t), &capturePlacer{})

	totals := c.Totals()
	assert.InDelta(t, 25.00, totals.Subtotal, 1e-9)
	assert.InDelta(t, 9.99, totals.Shipping, 1e-9)
	assert.InDelta(t, 2.00, totals.Tax, 1e-9)
	assert.InDelta(t, 36.99, totals.Total, 1e-9)
}

func TestPlaceOrder(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		ledger := cart.NewLedger(nil)
		ledger.Add(models.CartItem{ProductID: 1, Name: "Lipstick", Price: 10})
		c := New(ledger, anonSession(t), &capturePlacer{})
		c.SetShipping(validShippingInfo())
		c.SetPayment(validPaymentInfo())

		_, err := c.PlaceOrder(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log in")
	})

	t.Run("requires non-empty cart", func(t *testing.T) {
		m := authedSession(t, nil)
		c := New(cart.NewLedger(nil), m, &capturePlacer{})
		c.SetShipping(validShippingInfo())
		c.SetPayment(validPaymentInfo())

		_, err := c.PlaceOrder(context.Background())
		require.Error(t, err)
	})

	t.Run("reduces card data and clears cart", func(t *testing.T) {
		ledger := cart.NewLedger(nil)
		ledger.Add(models.CartItem{ProductID: 1, Name: "Lipstick", Price: 10})
		ledger.Add(models.CartItem{ProductID: 2, Name: "Serum", Price: 5})
		ledger.SetQuantity(2, 3)

		placer := &capturePlacer{orderID: "ord_77"}
		m := authedSession(t, nil)
		c := New(ledger, m, placer)
		c.SetShipping(validShippingInfo())
		c.SetPayment(validPaymentInfo())

		orderID, err := c.PlaceOrder(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ord_77", orderID)
		assert.Equal(t, 1, placer.calls)

		assert.Equal(t, "4242", placer.order.PaymentInfo.CardNumber, "only the last four digits are transmitted")
		assert.Empty(t, placer.order.PaymentInfo.CVV)
		assert.Equal(t, "Ada Lovelace", placer.order.PaymentInfo.CardHolder)

		require.Len(t, placer.order.Items, 2)
		assert.Equal(t, models.OrderItem{ProductID: 1, Quantity: 1, Price: 10}, placer.order.Items[0])
		assert.Equal(t, models.OrderItem{ProductID: 2, Quantity: 3, Price: 5}, placer.order.Items[1])
		assert.InDelta(t, 25.00, placer.order.Subtotal, 1e-9)
		assert.InDelta(t, 36.99, placer.order.Total, 1e-9)

		assert.Zero(t, ledger.Len(), "cart clears on successful order")
		assert.Equal(t, StepShipping, c.Step(), "flow resets after an order")
	})

	t.Run("failed order leaves cart intact", func(t *testing.T) {
		ledger := cart.NewLedger(nil)
		ledger.Add(models.CartItem{ProductID: 1, Name: "Lipstick", Price: 10})

		placer := &capturePlacer{err: assert.AnError}
		m := authedSession(t, nil)
		c := New(ledger, m, placer)
		c.SetShipping(validShippingInfo())
		c.SetPayment(validPaymentInfo())

		_, err := c.PlaceOrder(context.Background())
		require.Error(t, err)
		assert.Equal(t, 1, ledger.Len())
	})

	t.Run("blank order id falls back to a generated reference", func(t *testing.T) {
		ledger := cart.NewLedger(nil)
		ledger.Add(models.CartItem{ProductID: 1, Name: "Lipstick", Price: 10})

		m := authedSession(t, nil)
		c := New(ledger, m, &capturePlacer{})
		c.SetShipping(validShippingInfo())
		c.SetPayment(validPaymentInfo())

		orderID, err := c.PlaceOrder(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, orderID)
	})
}

func TestLastFour(t *testing.T) {
	assert.Equal(t, "3456", lastFour("1234 5678 9012 3456"))
	assert.Equal(t, "3456", lastFour("1234567890123456"))
	assert.Equal(t, "123", lastFour("123"))
}
