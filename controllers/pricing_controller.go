package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/print-shop-api/middleware"
	"github.com/kendall-kelly/print-shop-api/services"
	"github.com/shopspring/decimal"
)

// UpdatePriceRequest represents the request body for changing one price
type UpdatePriceRequest struct {
	Price *decimal.Decimal `json:"price" binding:"required"`
}

// GetPricing handles GET /api/v1/pricing
func (ctl *Controller) GetPricing(c *gin.Context) {
	respond(c, http.StatusOK, ctl.shop.Prices())
}

// QuotePrice handles POST /api/v1/pricing/quote
func (ctl *Controller) QuotePrice(c *gin.Context) {
	var req services.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	quote, err := ctl.shop.Quote(req)
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, quote)
}

// UpdatePrice handles PUT /api/v1/pricing/:key
func (ctl *Controller) UpdatePrice(c *gin.Context) {
	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	entry, err := ctl.shop.SetPrice(middleware.GetSession(c), c.Param("key"), *req.Price)
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, entry)
}
