package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/print-shop-api/middleware"
	"github.com/kendall-kelly/print-shop-api/services"
)

// ListPendingCustomers handles GET /api/v1/admin/customers/pending
func (ctl *Controller) ListPendingCustomers(c *gin.Context) {
	users, err := ctl.shop.PendingCustomers(middleware.GetSession(c))
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, users)
}

// ApproveCustomer handles PUT /api/v1/admin/customers/:id/approve
func (ctl *Controller) ApproveCustomer(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	user, err := ctl.shop.ApproveCustomer(middleware.GetSession(c), id)
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, user)
}

// DeclineCustomer handles DELETE /api/v1/admin/customers/:id - removes a pending registration
func (ctl *Controller) DeclineCustomer(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	user, err := ctl.shop.DeclineCustomer(middleware.GetSession(c), id)
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, user)
}

// CreateStaff handles POST /api/v1/admin/staff
func (ctl *Controller) CreateStaff(c *gin.Context) {
	var req services.StaffInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	staff, err := ctl.shop.CreateStaff(middleware.GetSession(c), req)
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusCreated, staff)
}

// GetStaffAssignment handles GET /api/v1/admin/staff/:id/assigned
func (ctl *Controller) GetStaffAssignment(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	respond(c, http.StatusOK, gin.H{
		"staff_id": id,
		"assigned": ctl.shop.IsStaffAssigned(id),
	})
}

// ListAssignedOrders handles GET /api/v1/admin/orders/assigned - accepted orders that have staff
func (ctl *Controller) ListAssignedOrders(c *gin.Context) {
	orders, err := ctl.shop.AcceptedAssignedOrders(middleware.GetSession(c))
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, orders)
}
