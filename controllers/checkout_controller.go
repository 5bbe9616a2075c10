package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashrajoria/storefront/cart"
	"github.com/yashrajoria/storefront/checkout"
	"github.com/yashrajoria/storefront/models"
)

type CheckoutController struct {
	flow   *checkout.Checkout
	ledger *cart.Ledger
	log    *zap.Logger
}

func NewCheckoutController(flow *checkout.Checkout, ledger *cart.Ledger, log *zap.Logger) *CheckoutController {
	return &CheckoutController{flow: flow, ledger: ledger, log: log}
}

// State returns the current step, shipping form, cart lines and totals.
// Payment data is never echoed back.
func (cc *CheckoutController) State(c *gin.Context) {
	step := cc.flow.Step()
	c.JSON(http.StatusOK, gin.H{
		"step":     int(step),
		"stepName": step.String(),
		"shipping": cc.flow.Shipping(),
		"items":    cc.ledger.Items(),
		"totals":   cc.flow.Totals(),
	})
}

// Shipping overwrites the shipping form.
func (cc *CheckoutController) Shipping(c *gin.Context) {
	var info models.ShippingInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	cc.flow.SetShipping(info)
	cc.State(c)
}

// paymentForm accepts the CVV on the way in; the model never serializes it
// back out.
type paymentForm struct {
	CardNumber string `json:"cardNumber"`
	CardHolder string `json:"cardHolder"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

// Payment overwrites the payment form.
func (cc *CheckoutController) Payment(c *gin.Context) {
	var form paymentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	cc.flow.SetPayment(models.PaymentInfo{
		CardNumber: form.CardNumber,
		CardHolder: form.CardHolder,
		ExpiryDate: form.ExpiryDate,
		CVV:        form.CVV,
	})
	cc.State(c)
}

// Next validates the current step and advances.
func (cc *CheckoutController) Next(c *gin.Context) {
	if err := cc.flow.Next(); err != nil {
		respondError(c, err)
		return
	}
	cc.State(c)
}

// Back steps backward.
func (cc *CheckoutController) Back(c *gin.Context) {
	cc.flow.Back()
	cc.State(c)
}

// PlaceOrder submits the order and reports the confirmed reference.
func (cc *CheckoutController) PlaceOrder(c *gin.Context) {
	orderID, err := cc.flow.PlaceOrder(c.Request.Context())
	if err != nil {
		cc.log.Warn("order placement failed", zap.Error(err))
		respondError(c, err)
		return
	}

	cc.log.Info("order placed", zap.String("order_id", orderID))
	c.JSON(http.StatusOK, gin.H{
		"orderId": orderID,
		"message": fmt.Sprintf("Your order #%s has been confirmed.", orderID),
	})
}

// Confirmation echoes the confirmation for a placed order.
func (cc *CheckoutController) Confirmation(c *gin.Context) {
	orderID := c.Param("order_id")
	c.JSON(http.StatusOK, gin.H{
		"orderId": orderID,
		"message": fmt.Sprintf("Your order #%s has been confirmed.", orderID),
	})
}
