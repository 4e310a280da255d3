package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/print-shop-api/middleware"
	"github.com/kendall-kelly/print-shop-api/services"
)

// GetMyProfile handles GET /api/v1/users/me - gets current user's profile
func (ctl *Controller) GetMyProfile(c *gin.Context) {
	session := middleware.GetSession(c)
	if session.IsGuest() {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information", nil)
		return
	}

	respond(c, http.StatusOK, session.User)
}

// UpdateMyProfile handles PUT /api/v1/users/me - updates current user's profile
func (ctl *Controller) UpdateMyProfile(c *gin.Context) {
	var req services.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	user, err := ctl.shop.UpdateProfile(middleware.GetSession(c), req)
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, user)
}

// ChangeMyPassword handles PUT /api/v1/users/me/password
func (ctl *Controller) ChangeMyPassword(c *gin.Context) {
	var req services.PasswordChangeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	if err := ctl.shop.ChangePassword(middleware.GetSession(c), req); err != nil {
		ctl.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password updated",
	})
}

// GetMyNotifications handles GET /api/v1/notifications - order notifications of the acting customer
func (ctl *Controller) GetMyNotifications(c *gin.Context) {
	notifications, err := ctl.shop.CustomerNotifications(middleware.GetSession(c))
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, notifications)
}
