package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/print-shop-api/logger"
	"github.com/kendall-kelly/print-shop-api/services"
	"github.com/kendall-kelly/print-shop-api/utils"
)

// Controller holds the gin handlers of the API
type Controller struct {
	shop *services.Shop
	log  *logger.Logger
}

// New creates the handlers for shop
func New(shop *services.Shop, log *logger.Logger) *Controller {
	return &Controller{shop: shop, log: log.WithComponent("controllers")}
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string, details interface{}) {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if details != nil {
		body["details"] = details
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   body,
	})
}

// invalidRequest reports a body or query that could not be bound
func invalidRequest(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
}

// handleError maps a service error onto a status code and error code
func (ctl *Controller) handleError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		duplicateErr  *services.DuplicateError
		notFoundErr   *services.NotFoundError
		stateErr      *services.StateError
		forbiddenErr  *services.ForbiddenError
		authErr       *services.AuthenticationError
		uploadErr     *utils.FileUploadError
	)

	switch {
	case errors.As(err, &validationErr):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Error(), validationErr.Field)
	case errors.As(err, &duplicateErr):
		respondError(c, http.StatusConflict, "DUPLICATE_USERNAME", duplicateErr.Error(), nil)
	case errors.As(err, &notFoundErr):
		code := "USER_NOT_FOUND"
		if notFoundErr.Resource == "order" {
			code = "ORDER_NOT_FOUND"
		}
		respondError(c, http.StatusNotFound, code, notFoundErr.Error(), nil)
	case errors.As(err, &stateErr):
		respondError(c, http.StatusConflict, stateErr.Code, stateErr.Message, nil)
	case errors.As(err, &forbiddenErr):
		respondError(c, http.StatusForbidden, "FORBIDDEN", forbiddenErr.Message, nil)
	case errors.As(err, &authErr):
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", authErr.Message, nil)
	case errors.As(err, &uploadErr):
		respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message, nil)
	default:
		ctl.log.Error("request failed", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
	}
}

// intParam reads a numeric path parameter, writing a 400 when it is not a number
func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", name+" must be a number", name)
		return 0, false
	}
	return n, true
}
