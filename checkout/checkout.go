// Package checkout walks the user through the three-step order flow:
// shipping, payment, review. Card data lives only in the in-flight state
// here; it is never persisted or logged, and only the last four digits of
// the card number leave the process.
package checkout

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/yashrajoria/storefront/apperrors"
	"github.com/yashrajoria/storefront/cart"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/session"
)

type Step int

const (
	StepShipping Step = iota + 1
	StepPayment
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

const (
	// FlatShippingRate is charged on every order.
	FlatShippingRate = 9.99
	// TaxRate is applied to the subtotal.
	TaxRate = 0.08
)

// Totals is the derived order pricing.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// OrderPlacer posts a finished order to the commerce API.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, order models.Order) (string, error)
}

// Checkout is the multi-step flow state for the current storefront session.
type Checkout struct {
	mu       sync.Mutex
	step     Step
	shipping models.ShippingInfo
	payment  models.PaymentInfo

	cart     *cart.Ledger
	sessions *session.Manager
	placer   OrderPlacer
}

// New starts a flow at the shipping step, prefilled from the logged-in user
// profile when one is available.
func New(ledger *cart.Ledger, sessions *session.Manager, placer OrderPlacer) *Checkout {
	c := &Checkout{
		step:     StepShipping,
		cart:     ledger,
		sessions: sessions,
		placer:   placer,
	}
	c.shipping.Country = "United States"

	if user, ok := sessions.CurrentUser(); ok {
		first, last, _ := strings.Cut(user.Name(), " ")
		c.shipping.FirstName = first
		c.shipping.LastName = last
		c.shipping.Email = user.Email()
	}
	return c
}

func (c *Checkout) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

func (c *Checkout) Shipping() models.ShippingInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shipping
}

// SetShipping overwrites the shipping form. An empty country falls back to
// the default.
func (c *Checkout) SetShipping(info models.ShippingInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if info.Country == "" {
		info.Country = "United States"
	}
	c.shipping = info
}

// SetPayment overwrites the payment form.
func (c *Checkout) SetPayment(info models.PaymentInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payment = info
}

// Next validates the current step and advances, capped at review.
func (c *Checkout) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.step {
	case StepShipping:
		if !validShipping(c.shipping) {
			return apperrors.New(http.StatusBadRequest, "Please fill in all required shipping information.", nil)
		}
	case StepPayment:
		if !validPayment(c.payment) {
			return apperrors.New(http.StatusBadRequest, "Please fill in all required payment information.", nil)
		}
	}

	if c.step < StepReview {
		c.step++
	}
	return nil
}

// Back steps backward, floored at shipping.
func (c *Checkout) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step > StepShipping {
		c.step--
	}
}

// Totals derives the order pricing from the current cart.
func (c *Checkout) Totals() Totals {
	subtotal := c.cart.Total()
	tax := subtotal * TaxRate
	return Totals{
		Subtotal: subtotal,
		Shipping: FlatShippingRate,
		Tax:      tax,
		Total:    subtotal + FlatShippingRate + tax,
	}
}

// PlaceOrder submits the order. The card number is reduced to its last four
// digits and the CVV is dropped before anything leaves the process. On
// success the cart is cleared and the flow resets.
func (c *Checkout) PlaceOrder(ctx context.Context) (string, error) {
	if !c.sessions.IsAuthenticated() {
		return "", apperrors.New(http.StatusUnauthorized, "Please log in to complete your order.", nil)
	}

	items := c.cart.Items()
	if len(items) == 0 {
		return "", apperrors.ErrEmptyCart
	}

	c.mu.Lock()
	shipping := c.shipping
	payment := c.payment
	c.mu.Unlock()

	if !validShipping(shipping) {
		return "", apperrors.New(http.StatusBadRequest, "Please fill in all required shipping information.", nil)
	}
	if !validPayment(payment) {
		return "", apperrors.New(http.StatusBadRequest, "Please fill in all required payment information.", nil)
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	payment.CardNumber = lastFour(payment.CardNumber)
	payment.CVV = ""

	totals := c.Totals()
	order := models.Order{
		Items:        orderItems,
		ShippingInfo: shipping,
		PaymentInfo:  payment,
		Subtotal:     totals.Subtotal,
		Shipping:     totals.Shipping,
		Tax:          totals.Tax,
		Total:        totals.Total,
	}

	orderID, err := c.placer.PlaceOrder(ctx, order)
	if err != nil {
		return "", err
	}
	if orderID == "" {
		orderID = uuid.NewString()
	}

	c.cart.Clear()
	c.mu.Lock()
	c.step = StepShipping
	c.payment = models.PaymentInfo{}
	c.mu.Unlock()

	return orderID, nil
}

func validShipping(s models.ShippingInfo) bool {
	required := []string{s.FirstName, s.LastName, s.Email, s.Phone, s.Address, s.City, s.State, s.ZipCode}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

func validPayment(p models.PaymentInfo) bool {
	return p.CardNumber != "" && p.CardHolder != "" && p.ExpiryDate != "" && p.CVV != ""
}

func lastFour(cardNumber string) string {
	digits := strings.ReplaceAll(cardNumber, " ", "")
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
