package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/config"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/database"
	customMiddleware "github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/middleware"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/routes"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	// Initialize Echo
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(customMiddleware.MetricsMiddleware)

	// Connect to MongoDB
	if err := database.ConnectDB(); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Setup routes
	routes.SetupRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Start the server
	port := config.GetEnv("PORT", "3000")
	e.Logger.Fatal(e.Start(":" + port))
}
