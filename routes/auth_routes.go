package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/seedtalent/agency_backend/controllers"
	"github.com/seedtalent/agency_backend/middleware"
)

// RegisterAuthRoutes sets up authentication and own-profile routes
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client, authController *controllers.AuthController, userController *controllers.UserController) {
	// Public authentication routes
	e.POST("/api/auth/login", authController.Login)
	e.POST("/api/auth/google", authController.GoogleLogin)
	e.POST("/api/auth/forgot-password", authController.ForgotPassword)
	e.POST("/api/auth/reset-password", authController.ResetPassword)
	e.GET("/api/auth/validate-token", authController.ValidateSession)

	// Authenticated routes
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	r.POST("/auth/logout", authController.Logout)
	r.GET("/users/profile", userController.GetProfile)
	r.PUT("/users/profile", userController.UpdateProfile)
	r.POST("/users/change-password", userController.ChangePassword)
	r.POST("/users/profile-photo", userController.UploadProfilePhoto)
}
