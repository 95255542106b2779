package handlers

import (
	"campus_exchange/config"
	"campus_exchange/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RegisterRoutes wires every route onto the app. Shared by main and the
// handler tests.
func RegisterRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	authHandler := NewAuthHandler(db, cfg)
	userHandler := NewUserHandler(db)
	productHandler := NewProductHandler(db)
	orderHandler := NewOrderHandler(db)

	protected := middleware.Protected(db, cfg.JWTSecret)

	users := app.Group("/users")
	users.Post("/register", authHandler.Register)
	users.Post("/login", authHandler.Login)
	users.Get("/me", protected, userHandler.Me)
	users.Patch("/me", protected, userHandler.UpdateMe)

	products := app.Group("/products")
	products.Post("/", protected, productHandler.CreateProduct)
	products.Get("/", productHandler.GetAllProducts)
	// Literal segment must be registered before the :id wildcard.
	products.Get("/seller", protected, productHandler.GetSellerProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Patch("/:id", protected, productHandler.UpdateProduct)
	products.Delete("/:id", protected, productHandler.DeleteProduct)

	orders := app.Group("/orders", protected)
	orders.Post("/", orderHandler.PlaceOrder)
	orders.Get("/buyer", orderHandler.GetBuyerOrders)
	orders.Get("/seller", orderHandler.GetSellerOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Patch("/:id", orderHandler.UpdateOrder)
	orders.Delete("/:id", orderHandler.CancelOrder)
}
