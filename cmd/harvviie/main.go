package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/samukelok/harvviie-backend/internal/config"
	"github.com/samukelok/harvviie-backend/internal/http/handlers"
	applog "github.com/samukelok/harvviie-backend/internal/log"
	"github.com/samukelok/harvviie-backend/internal/repos"
)

func main() {
	cfg := config.Load()
	applog.SetFile(cfg.LogFile)

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	deps := handlers.NewDeps(db, cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Something went wrong"
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
				msg = fe.Message
			} else {
				applog.Error(c, "server.error", err, nil)
			}
			return c.Status(code).JSON(fiber.Map{"success": false, "message": msg, "data": nil})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))
	app.Use(handlers.Authenticate(deps.Auth))

	api := app.Group("/api")

	// Auth
	loginLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false, "message": "Too many attempts, try again later", "data": nil,
			})
		},
	})
	api.Post("/register", deps.AuthHandler.Register)
	api.Post("/login", loginLimiter, deps.AuthHandler.Login)
	api.Post("/logout", handlers.RequireAuth(deps.Auth), deps.AuthHandler.Logout)
	api.Get("/me", handlers.RequireAuth(deps.Auth), deps.AuthHandler.Me)
	api.Put("/me", handlers.RequireAuth(deps.Auth), deps.AuthHandler.UpdateProfile)

	// Public catalog and content
	stockLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|stock"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.stock.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false, "message": "Rate limit exceeded, retry soon", "data": nil,
			})
		},
	})
	api.Get("/products", deps.ProductHandler.Index)
	api.Get("/products/:id/stock", stockLimiter, deps.ProductHandler.Stock)
	api.Get("/products/:id", deps.ProductHandler.Show)
	api.Get("/collections", deps.CollectionHandler.Index)
	api.Get("/collections/:id", deps.CollectionHandler.Show)
	api.Get("/banners", deps.BannerHandler.Index)
	api.Get("/about", deps.AboutHandler.Show)

	contactLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.contact.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false, "message": "Too many messages, slow down", "data": nil,
			})
		},
	})
	api.Post("/contact", contactLimiter, deps.MessageHandler.Store)

	// Cart and checkout work for guests and account holders alike.
	api.Get("/cart", deps.CartHandler.Show)
	api.Post("/cart/items", deps.CartHandler.AddItem)
	api.Put("/cart/items/:itemID", deps.CartHandler.UpdateItem)
	api.Delete("/cart/items/:itemID", deps.CartHandler.RemoveItem)
	api.Delete("/cart/clear", deps.CartHandler.Clear)
	api.Post("/checkout", deps.OrderHandler.Checkout)

	// Customer order history
	api.Get("/my/orders", handlers.RequireAuth(deps.Auth), deps.OrderHandler.MyOrders)
	api.Get("/orders/:id", handlers.RequireAuth(deps.Auth), deps.OrderHandler.Show)

	// Back office
	admin := api.Group("/admin", handlers.RequireAuth(deps.Auth), handlers.StaffOnly())
	admin.Get("/dashboard", deps.DashboardHandler.Show)

	admin.Post("/products", deps.ProductHandler.Store)
	admin.Put("/products/:id", deps.ProductHandler.Update)
	admin.Delete("/products/:id", deps.ProductHandler.Destroy)
	admin.Post("/products/:id/restore", deps.ProductHandler.Restore)

	admin.Post("/collections", deps.CollectionHandler.Store)
	admin.Put("/collections/:id", deps.CollectionHandler.Update)
	admin.Delete("/collections/:id", deps.CollectionHandler.Destroy)
	admin.Post("/collections/:id/products", deps.CollectionHandler.AssignProducts)
	admin.Delete("/collections/:id/products/:productID", deps.CollectionHandler.RemoveProduct)

	admin.Get("/orders", deps.OrderHandler.Index)
	admin.Post("/orders", deps.OrderHandler.Store)
	admin.Put("/orders/:id/status", deps.OrderHandler.UpdateStatus)
	admin.Delete("/orders/:id", deps.OrderHandler.Destroy)

	admin.Get("/banners", deps.BannerHandler.AdminIndex)
	admin.Post("/banners", deps.BannerHandler.Store)
	admin.Put("/banners/:id", deps.BannerHandler.Update)
	admin.Delete("/banners/:id", deps.BannerHandler.Destroy)

	admin.Put("/about", deps.AboutHandler.Update)

	admin.Get("/messages", deps.MessageHandler.Index)
	admin.Get("/messages/:id", deps.MessageHandler.Show)
	admin.Put("/messages/:id/status", deps.MessageHandler.UpdateStatus)
	admin.Delete("/messages/:id", deps.MessageHandler.Destroy)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false, "message": "Route not found", "data": nil,
		})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
