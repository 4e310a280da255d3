package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/print-shop-api/middleware"
	"github.com/kendall-kelly/print-shop-api/models"
)

// RegisterRoutes mounts every API route on v1
func (ctl *Controller) RegisterRoutes(v1 *gin.RouterGroup, auth *middleware.Authenticator) {
	optional := auth.OptionalToken()
	required := auth.EnsureValidToken()
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/login", ctl.Login)
		authRoutes.POST("/register", ctl.Register)
	}

	pricing := v1.Group("/pricing")
	{
		pricing.GET("", ctl.GetPricing)
		pricing.POST("/quote", ctl.QuotePrice)
		pricing.PUT("/:key", required, adminOnly, ctl.UpdatePrice)
	}

	documents := v1.Group("/documents")
	{
		documents.POST("", optional, ctl.UploadDocument)
		documents.GET("/:ref", required, ctl.GetDocument)
	}

	v1.POST("/orders", optional, ctl.CreateOrder)
	orders := v1.Group("/orders", required)
	{
		orders.GET("", ctl.ListOrders)
		orders.GET("/:id", ctl.GetOrder)
		orders.GET("/:id/documents", ctl.GetOrderDocuments)
		orders.PUT("/:id/review", adminOnly, ctl.ReviewOrder)
		orders.PUT("/:id/status", middleware.RequireRole(models.RoleStaff), ctl.UpdateOrderStatus)
	}

	revenue := v1.Group("/revenue", required)
	{
		revenue.GET("", adminOnly, ctl.GetRevenue)
		revenue.GET("/staff/:id", middleware.RequireRole(models.RoleAdmin, models.RoleStaff), ctl.GetStaffRevenue)
	}

	users := v1.Group("/users", required)
	{
		users.GET("/me", ctl.GetMyProfile)
		users.PUT("/me", ctl.UpdateMyProfile)
		users.PUT("/me/password", ctl.ChangeMyPassword)
	}

	v1.GET("/notifications", required, middleware.RequireRole(models.RoleCustomer), ctl.GetMyNotifications)

	admin := v1.Group("/admin", required, adminOnly)
	{
		admin.GET("/customers/pending", ctl.ListPendingCustomers)
		admin.PUT("/customers/:id/approve", ctl.ApproveCustomer)
		admin.DELETE("/customers/:id", ctl.DeclineCustomer)
		admin.POST("/staff", ctl.CreateStaff)
		admin.GET("/staff/:id/assigned", ctl.GetStaffAssignment)
		admin.GET("/orders/assigned", ctl.ListAssignedOrders)
	}
}
