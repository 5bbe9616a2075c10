package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashrajoria/storefront/cart"
	"github.com/yashrajoria/storefront/checkout"
	"github.com/yashrajoria/storefront/clients"
	"github.com/yashrajoria/storefront/controllers"
	"github.com/yashrajoria/storefront/middleware"
	"github.com/yashrajoria/storefront/session"
)

// Register wires the storefront surface onto the engine.
func Register(
	r *gin.Engine,
	sessions *session.Manager,
	ledger *cart.Ledger,
	client *clients.CommerceClient,
	flow *checkout.Checkout,
	log *zap.Logger,
) {
	if log == nil {
		log = zap.NewNop()
	}
	catalog := controllers.NewCatalogController(client, log)
	auth := controllers.NewAuthController(client, sessions, log)
	cartCtrl := controllers.NewCartController(ledger, log)
	checkoutCtrl := controllers.NewCheckoutController(flow, ledger, log)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public catalog
	r.GET("/", catalog.Home)
	r.GET("/products", catalog.Products)
	r.GET("/categories", catalog.Categories)

	// Session
	r.POST("/login", middleware.LoginRateLimit(), auth.Login)
	r.POST("/logout", auth.Logout)
	r.GET("/session", auth.Session)

	// Cart
	cartGroup := r.Group("/cart")
	{
		cartGroup.GET("", cartCtrl.Get)
		cartGroup.POST("/add", cartCtrl.Add)
		cartGroup.DELETE("/remove/:product_id", cartCtrl.Remove)
		cartGroup.PUT("/quantity", cartCtrl.UpdateQuantity)
		cartGroup.DELETE("/clear", cartCtrl.Clear)
	}

	// Checkout requires a live session
	checkoutGroup := r.Group("/checkout")
	checkoutGroup.Use(middleware.RequireAuth(sessions))
	{
		checkoutGroup.GET("", checkoutCtrl.State)
		checkoutGroup.POST("/shipping", checkoutCtrl.Shipping)
		checkoutGroup.POST("/payment", checkoutCtrl.Payment)
		checkoutGroup.POST("/next", checkoutCtrl.Next)
		checkoutGroup.POST("/back", checkoutCtrl.Back)
		checkoutGroup.POST("/place-order", checkoutCtrl.PlaceOrder)
	}

	r.GET("/order-confirmation/:order_id", middleware.RequireAuth(sessions), checkoutCtrl.Confirmation)
}
