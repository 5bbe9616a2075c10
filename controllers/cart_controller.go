package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashrajoria/storefront/cart"
	"github.com/yashrajoria/storefront/models"
)

type CartController struct {
	ledger *cart.Ledger
	log    *zap.Logger
}

func NewCartController(ledger *cart.Ledger, log *zap.Logger) *CartController {
	return &CartController{ledger: ledger, log: log}
}

// Get returns the cart lines and the derived total.
func (cc *CartController) Get(c *gin.Context) {
	items := cc.ledger.Items()
	if items == nil {
		items = []models.CartItem{}
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": cc.ledger.Total(),
	})
}

type addItemForm struct {
	ProductID int     `json:"productId" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"imageUrl"`
}

// Add puts a product in the cart; an already-present product has its
// quantity bumped instead.
func (cc *CartController) Add(c *gin.Context) {
	var form addItemForm
	if err := c.ShouldBindJSON(&form); err != nil {
		cc.log.Warn("cart add: invalid payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if form.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be non-negative"})
		return
	}

	cc.ledger.Add(models.CartItem{
		ProductID: form.ProductID,
		Name:      form.Name,
		Price:     form.Price,
		ImageURL:  form.ImageURL,
	})
	cc.Get(c)
}

// Remove deletes a line; removing an absent product is a no-op.
func (cc *CartController) Remove(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	cc.ledger.Remove(productID)
	cc.Get(c)
}

type quantityForm struct {
	ProductID int `json:"productId" binding:"required"`
	Quantity  int `json:"quantity" binding:"required"`
}

// UpdateQuantity overwrites a line's quantity. Quantities below 1 are
// rejected at this surface; the ledger itself does not clamp.
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	var form quantityForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if form.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be at least 1"})
		return
	}

	cc.ledger.SetQuantity(form.ProductID, form.Quantity)
	cc.Get(c)
}

// Clear empties the cart.
func (cc *CartController) Clear(c *gin.Context) {
	cc.ledger.Clear()
	cc.Get(c)
}
