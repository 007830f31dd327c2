package handler

import (
	"github.com/dafibh/spendwise/spendwise-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes
type Handlers struct {
	Auth        *AuthHandler
	Profile     *ProfileHandler
	Transaction *TransactionHandler
	Category    *CategoryHandler
	Receipt     *ReceiptHandler
	Dashboard   *DashboardHandler
	WebSocket   *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, authLimiter *middleware.RateLimiter, h Handlers) {
	api := e.Group("/api/v1")
	authenticated := authMiddleware.Authenticate()

	// Auth routes; credential endpoints are public but rate limited per client
	auth := api.Group("/auth", middleware.RateLimitMiddleware(authLimiter))
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/forgot-password", h.Auth.ForgotPassword)
	auth.POST("/reset-password", h.Auth.ResetPassword)
	auth.GET("/me", h.Auth.Me, authenticated)
	auth.POST("/logout", h.Auth.Logout, authenticated)

	users := api.Group("/users", authenticated)
	users.GET("/me", h.Profile.GetProfile)
	users.PUT("/me", h.Profile.UpdateProfile)

	transactions := api.Group("/transactions", authenticated)
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.GET("/categories", h.Category.GetCategories)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)
	transactions.POST("/:id/receipt", h.Receipt.UploadReceipt)
	transactions.GET("/:id/receipt", h.Receipt.GetReceipt)
	transactions.DELETE("/:id/receipt", h.Receipt.DeleteReceipt)

	dashboard := api.Group("/dashboard", authenticated)
	dashboard.GET("/summary", h.Dashboard.GetSummary)
	dashboard.GET("/trend", h.Dashboard.GetTrend)
	dashboard.GET("/breakdown", h.Dashboard.GetBreakdown)

	// The socket authenticates with a query token instead of the Authorization header
	e.GET("/ws", h.WebSocket.HandleWS)
}
