package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashrajoria/storefront/clients"
	"github.com/yashrajoria/storefront/models"
)

// featuredCount is how many products the home surface shows.
const featuredCount = 4

type CatalogController struct {
	client *clients.CommerceClient
	log    *zap.Logger
}

func NewCatalogController(client *clients.CommerceClient, log *zap.Logger) *CatalogController {
	return &CatalogController{client: client, log: log}
}

// Home returns the featured slice of the catalog.
func (cc *CatalogController) Home(c *gin.Context) {
	products, err := cc.client.Products(c.Request.Context())
	if err != nil {
		cc.log.Warn("home: product fetch failed", zap.Error(err))
		respondError(c, err)
		return
	}

	if len(products) > featuredCount {
		products = products[:featuredCount]
	}
	c.JSON(http.StatusOK, gin.H{"featured": cc.resolveImages(products)})
}

// Products returns the full catalog.
func (cc *CatalogController) Products(c *gin.Context) {
	products, err := cc.client.Products(c.Request.Context())
	if err != nil {
		cc.log.Warn("products: fetch failed", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": cc.resolveImages(products)})
}

// Categories returns the category list.
func (cc *CatalogController) Categories(c *gin.Context) {
	categories, err := cc.client.Categories(c.Request.Context())
	if err != nil {
		cc.log.Warn("categories: fetch failed", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (cc *CatalogController) resolveImages(products []models.Product) []models.Product {
	for i := range products {
		products[i].ImageURL = cc.client.ImageURL(products[i].ImageURL)
	}
	return products
}
