package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/soldi-app/soldi-backend/internal/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	expenseHandler *ExpenseHandler,
	invoiceHandler *InvoiceHandler,
	forecastHandler *ForecastHandler,
	settingsHandler *SettingsHandler,
	receiptHandler *ReceiptHandler,
	wsHandler *WebSocketHandler,
) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Expense routes (protected)
	expenses := api.Group("/expenses")
	expenses.Use(authMiddleware.Authenticate())
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)
	expenses.PATCH("/:id/toggle-paid", expenseHandler.TogglePaid)
	expenses.POST("/:id/receipt", receiptHandler.UploadReceipt)
	expenses.GET("/:id/receipt", receiptHandler.GetReceipt)
	expenses.DELETE("/:id/receipt", receiptHandler.DeleteReceipt)

	// Invoice routes (protected)
	invoices := api.Group("/invoices")
	invoices.Use(authMiddleware.Authenticate())
	invoices.POST("", invoiceHandler.CreateInvoice)
	invoices.GET("", invoiceHandler.GetInvoices)
	invoices.GET("/:id", invoiceHandler.GetInvoice)
	invoices.PUT("/:id", invoiceHandler.UpdateInvoice)
	invoices.DELETE("/:id", invoiceHandler.DeleteInvoice)
	invoices.POST("/:id/payments", invoiceHandler.RecordPayment)

	// Forecast routes (protected)
	forecast := api.Group("/forecast")
	forecast.Use(authMiddleware.Authenticate())
	forecast.GET("", forecastHandler.GetForecast)
	forecast.GET("/snapshot", forecastHandler.GetSnapshot)
	forecast.GET("/history", forecastHandler.GetHistory)

	// Pension routes (protected)
	pension := api.Group("/pension")
	pension.Use(authMiddleware.Authenticate())
	pension.GET("/projection", forecastHandler.GetPensionProjection)
	pension.GET("/required-contribution", forecastHandler.GetRequiredContribution)

	// Settings routes (protected)
	settings := api.Group("/settings")
	settings.Use(authMiddleware.Authenticate())
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("", settingsHandler.UpdateSettings)

	// WebSocket endpoint (token validated via query parameter)
	e.GET("/ws", wsHandler.HandleWS)

	// API documentation
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi3.json", ServeOpenAPI3Spec)
}
