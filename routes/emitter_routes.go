package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/seedtalent/agency_backend/controllers"
	"github.com/seedtalent/agency_backend/middleware"
	"github.com/seedtalent/agency_backend/services"
	"github.com/seedtalent/agency_backend/websocket"
)

// RegisterEmitterRoutes sets up the emitter roster, commission report and chat
// routes shared by recruiters and admins
func RegisterEmitterRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub, assistant *services.ChatAssistant) {
	emitterController := controllers.NewEmitterController(db, hub)
	invoiceController := controllers.NewInvoiceController(db)
	chatController := controllers.NewChatController(db, assistant)

	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	// Emitter roster
	r.POST("/emitters", emitterController.CreateEmitter)
	r.GET("/emitters", emitterController.GetEmitters)
	r.GET("/emitters/stats", emitterController.GetStats)
	r.GET("/emitters/:id", emitterController.GetEmitter)
	r.PUT("/emitters/:id", emitterController.UpdateEmitter)
	r.PUT("/emitters/:id/status", emitterController.UpdateStatus)
	r.GET("/emitters/:id/history", emitterController.GetHoursHistory)

	// Hour edits are admin only; every edit is audited
	r.PUT("/emitters/:id/hours", emitterController.UpdateHours, middleware.RequireAdmin())

	// Commission report for the printable invoice
	r.GET("/commissions/report", invoiceController.GetCommissionReport)
	r.GET("/commissions/report/qr", invoiceController.GetReportQR)

	// Chat assistant
	r.POST("/chat", chatController.Chat)
}
