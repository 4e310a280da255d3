package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/print-shop-api/middleware"
)

// GetRevenue handles GET /api/v1/revenue - system-wide generated and possible revenue
func (ctl *Controller) GetRevenue(c *gin.Context) {
	summary, err := ctl.shop.RevenueSummary(middleware.GetSession(c))
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, summary)
}

// GetStaffRevenue handles GET /api/v1/revenue/staff/:id
func (ctl *Controller) GetStaffRevenue(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	summary, err := ctl.shop.StaffRevenue(middleware.GetSession(c), id)
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, summary)
}
