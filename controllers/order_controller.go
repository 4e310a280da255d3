package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/print-shop-api/middleware"
	"github.com/kendall-kelly/print-shop-api/services"
)

// ReviewOrderRequest represents the request body for reviewing an order
type ReviewOrderRequest struct {
	Accept *bool  `json:"accept" binding:"required"`
	Reason string `json:"reason"`
}

// UpdateStatusRequest represents the request body for advancing an order
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder handles POST /api/v1/orders - places an order as a customer or a guest.
// Resubmitting an identical order returns the stored one with 200 instead of 201.
func (ctl *Controller) CreateOrder(c *gin.Context) {
	var req services.SubmitOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	order, created, err := ctl.shop.Lifecycle.Submit(c.Request.Context(), middleware.GetSession(c), req)
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	respond(c, status, order)
}

// ListOrders handles GET /api/v1/orders - orders visible to the acting user.
// Admins may filter by status, customer_id and staff_id; everyone may filter by status.
func (ctl *Controller) ListOrders(c *gin.Context) {
	var filter services.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		invalidRequest(c, err)
		return
	}

	orders, err := ctl.shop.ListOrders(middleware.GetSession(c), filter)
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, orders)
}

// GetOrder handles GET /api/v1/orders/:id
func (ctl *Controller) GetOrder(c *gin.Context) {
	order, err := ctl.shop.GetOrder(middleware.GetSession(c), c.Param("id"))
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, order)
}

// GetOrderDocuments handles GET /api/v1/orders/:id/documents - download URLs keyed by reference
func (ctl *Controller) GetOrderDocuments(c *gin.Context) {
	urls, err := ctl.shop.DocumentURLs(c.Request.Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, urls)
}

// ReviewOrder handles PUT /api/v1/orders/:id/review - admin accepts or declines
func (ctl *Controller) ReviewOrder(c *gin.Context) {
	var req ReviewOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	order, err := ctl.shop.Lifecycle.Review(middleware.GetSession(c), c.Param("id"), *req.Accept, req.Reason)
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, order)
}

// UpdateOrderStatus handles PUT /api/v1/orders/:id/status - assigned staff advance progress
func (ctl *Controller) UpdateOrderStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	order, err := ctl.shop.Lifecycle.Advance(middleware.GetSession(c), c.Param("id"), req.Status)
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, order)
}
