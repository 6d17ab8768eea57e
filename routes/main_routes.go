package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/seedtalent/agency_backend/controllers"
	"github.com/seedtalent/agency_backend/models"
	"github.com/seedtalent/agency_backend/services"
	"github.com/seedtalent/agency_backend/utils"
	"github.com/seedtalent/agency_backend/websocket"
)

// SetupRoutes configures all API routes by calling individual route
// registration functions
func SetupRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub, assistant *services.ChatAssistant) {
	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)

	RegisterAuthRoutes(e, db, authController, userController)
	RegisterEmitterRoutes(e, db, hub, assistant)
	RegisterAdminRoutes(e, db)

	// Dashboard live updates. The browser WebSocket API cannot set an
	// Authorization header, so the token arrives as a query parameter.
	e.GET("/api/ws", func(c echo.Context) error {
		tokenString := c.QueryParam("token")
		result, err := utils.ValidateToken(tokenString, db)
		if err != nil || !result.Valid {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid or expired token",
			})
		}

		user := result.User
		return websocket.HandleWebSocket(c, hub, user.ID, user.UserType == "admin")
	})
}
