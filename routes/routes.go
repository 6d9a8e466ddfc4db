package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/handlers"
	customMiddleware "github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/middleware"
)

func SetupRoutes(e *echo.Echo) {
	// Public storefront routes
	e.POST("/register", handlers.RegisterUser)
	e.POST("/login", handlers.LoginUser)

	e.GET("/products", handlers.GetProducts)
	e.GET("/products/:id", handlers.GetProduct)
	e.GET("/products/:id/reviews", handlers.GetProductReviews)
	e.GET("/categories", handlers.GetCategories)
	e.GET("/subcategories", handlers.GetSubcategories)

	// Guest checkout and order tracking
	e.POST("/orders", handlers.CreateOrder)
	e.GET("/orders/track/:number", handlers.GetOrderByNumber)

	// Signed-in customer routes
	api := e.Group("/api")
	api.Use(customMiddleware.AuthMiddleware)

	api.GET("/users/me", handlers.GetUserProfile)
	api.PUT("/users/me", handlers.UpdateUserProfile)

	api.GET("/cart", handlers.GetCart)
	api.POST("/cart", handlers.AddToCart)
	api.PUT("/cart/quantity", handlers.UpdateCartItemQuantity)
	api.DELETE("/cart/:productId", handlers.RemoveFromCart)

	api.POST("/orders", handlers.CreateOrder)
	api.GET("/orders", handlers.GetMyOrders)

	api.POST("/reviews", handlers.CreateReview)
	api.PUT("/reviews/:id", handlers.UpdateReview)
	api.DELETE("/reviews/:id", handlers.DeleteReview)
	api.POST("/reviews/:id/vote", handlers.VoteReview)

	// Back-office routes
	admin := e.Group("/api/admin")
	admin.Use(customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)

	admin.POST("/products", handlers.CreateProduct)
	admin.PUT("/products/:id", handlers.UpdateProduct)
	admin.DELETE("/products/:id", handlers.DeleteProduct)

	admin.POST("/categories", handlers.CreateCategory)
	admin.PUT("/categories/:id", handlers.UpdateCategory)
	admin.DELETE("/categories/:id", handlers.DeleteCategory)

	admin.POST("/subcategories", handlers.CreateSubcategory)
	admin.PUT("/subcategories/:id", handlers.UpdateSubcategory)
	admin.DELETE("/subcategories/:id", handlers.DeleteSubcategory)

	admin.GET("/reviews/pending", handlers.ListPendingReviews)
	admin.PUT("/reviews/:id/status", handlers.ModerateReview)
	admin.DELETE("/reviews/:id", handlers.DeleteReview)

	admin.GET("/orders", handlers.ListOrders)
	admin.PUT("/orders/:id/status", handlers.UpdateOrderStatus)

	admin.GET("/users", handlers.ListUsers)
	admin.PUT("/users/:id/role", handlers.UpdateUserRole)
	admin.DELETE("/users/:id", handlers.DeleteUser)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
}
