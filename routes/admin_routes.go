package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/seedtalent/agency_backend/controllers"
	"github.com/seedtalent/agency_backend/middleware"
)

// RegisterAdminRoutes sets up recruiter management, commission configuration
// and payout settlement
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client) {
	adminController := controllers.NewAdminController(db)

	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	// The commission configuration is readable by everyone signed in; the
	// invoice page needs it
	r.GET("/commission-config", adminController.GetCommissionConfig)

	admin := r.Group("/admin", middleware.RequireAdmin())

	admin.GET("/recruiters", adminController.GetRecruiters)
	admin.POST("/recruiters", adminController.CreateRecruiter)
	admin.PUT("/recruiters/:id/toggle-access", adminController.ToggleRecruiterAccess)

	admin.PUT("/commission-config", adminController.UpdateCommissionConfig)

	admin.POST("/payouts", adminController.CreatePayout)
	admin.GET("/payouts", adminController.GetPayouts)
	admin.PUT("/payouts/:id/paid", adminController.MarkPayoutPaid)
}
