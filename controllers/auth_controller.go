package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/print-shop-api/services"
)

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/auth/login - exchanges credentials for a bearer token
func (ctl *Controller) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	result, err := ctl.shop.Login(req.Username, req.Password)
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, result)
}

// Register handles POST /api/v1/auth/register - customer self-registration.
// The account stays inactive until an admin approves it.
func (ctl *Controller) Register(c *gin.Context) {
	var req services.RegistrationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	user, err := ctl.shop.Register(req)
	if err != nil {
		ctl.handleError(c, err)
		return
	}

	respond(c, http.StatusCreated, user)
}
