package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/seedtalent/agency_backend/config"
	"github.com/seedtalent/agency_backend/middleware"
	"github.com/seedtalent/agency_backend/routes"
	"github.com/seedtalent/agency_backend/services"
	"github.com/seedtalent/agency_backend/utils"
	"github.com/seedtalent/agency_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Initialize Firebase for recruiter push notifications
	config.InitFirebase()

	// Connect to Redis (OTP storage and config cache)
	config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()

	// Create WebSocket hub for dashboard live updates
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Gemini-backed chat assistant. Without an API key every question gets
	// the fallback answer, the rest of the API is unaffected.
	var generator services.ContentGenerator
	if g, err := services.NewGeminiGenerator(context.Background()); err != nil {
		log.Printf("Warning: chat assistant disabled: %v", err)
	} else {
		generator = g
	}
	assistant := services.NewChatAssistant(generator)

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowedDomains: []string{"*"},
		AllowInlineJS:  false,
		AllowEval:      false,
	}))

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Agency Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Register all route groups
	routes.SetupRoutes(e, client, wsHub, assistant)

	// Drop expired tokens from the logout blacklist
	go middleware.CleanupBlacklist()

	// Ensure uploads directory exists and serve it
	if err := utils.InitializeStorage(); err != nil {
		log.Printf("Warning: failed to initialize upload storage: %v", err)
	}
	e.Static("/uploads", "uploads")

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
