package main

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/mmondo-adventures/tours_be/internal/config"
	"github.com/mmondo-adventures/tours_be/internal/db"
	"github.com/mmondo-adventures/tours_be/internal/handlers"
	"github.com/mmondo-adventures/tours_be/internal/middleware"
	"github.com/mmondo-adventures/tours_be/internal/models"
	"github.com/mmondo-adventures/tours_be/internal/realtime"
	"github.com/mmondo-adventures/tours_be/internal/services/stripe"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	rdb := realtime.NewRedis()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Redis not reachable:", err)
	}

	hub := realtime.NewHub()
	go hub.Run()
	notifier := realtime.NewNotifier(rdb)

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Tour{},
		&models.TourImage{},
		&models.Booking{},
		&models.Message{},
		&models.Country{},
		&models.CountryImage{},
	); err != nil {
		log.Fatal(err)
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Static("/uploads", "./uploads")

	authH := &handlers.AuthHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}
	googleH := &handlers.GoogleOAuthHandler{
		DB:              gdb,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}

	tourH := handlers.NewTourHandler(gdb)
	bookingH := handlers.NewBookingHandler(gdb)
	paymentH := handlers.NewPaymentHandler(gdb,
		stripe.NewStripeService(cfg.StripeSecretKey), cfg.BaseURL, cfg.FrontendBaseURL)
	cultureH := handlers.NewCultureHandler(gdb)
	usersH := handlers.NewUsersHandler(gdb)
	adminH := handlers.NewAdminHandler(gdb)
	messageH := handlers.NewMessageHandler(gdb, hub, notifier)

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)
	api.Get("/tours", tourH.ListPublic)
	api.Get("/tours/:id", tourH.GetDetail)
	api.Get("/cultures", cultureH.ListCountries)
	api.Get("/cultures/:slug", cultureH.GetCountry)
	api.Get("/payments/confirm", paymentH.ConfirmPayment)

	// protected (JWT from cookie)
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
	)

	protected.Get("/me", usersH.Me)
	protected.Get("/users/available", usersH.Available)

	protected.Post("/bookings", bookingH.Create)
	protected.Get("/bookings", bookingH.ListMine)
	protected.Post("/bookings/:id/cancel", bookingH.Cancel)
	protected.Post("/bookings/:id/delete", bookingH.Delete)

	protected.Post("/payments/checkout-session", paymentH.CreateCheckoutSession)

	messages := protected.Group("/messages")
	messages.Post("/", messageH.Send)
	messages.Get("/", messageH.ListMine)
	messages.Get("/conversations", messageH.Conversations)
	messages.Get("/conversation/:otherUserId", messageH.ConversationWith)
	messages.Put("/conversation/:otherUserId/read", messageH.MarkConversationRead)
	messages.Put("/:id/read", messageH.MarkRead)
	messages.Put("/:id/archive", messageH.Archive)
	messages.Get("/unread/count", messageH.UnreadCount)
	messages.Delete("/:id", messageH.Delete)

	// back office
	staff := protected.Group("/admin", middleware.RequireRoles(models.RoleAdmin, models.RoleSuperadmin))
	staff.Get("/bookings", adminH.ListBookings)
	staff.Post("/tours", tourH.Create)
	staff.Put("/tours/:id", tourH.Update)
	staff.Post("/tours/:id/deactivate", tourH.Deactivate)
	staff.Post("/tours/:id/images", tourH.AddImage)
	staff.Post("/cultures", cultureH.UpsertCountry)
	staff.Post("/cultures/:id/images", cultureH.AddCountryImage)
	staff.Delete("/cultures/:id", cultureH.DeleteCountry)

	super := protected.Group("/superadmin", middleware.RequireRoles(models.RoleSuperadmin))
	super.Get("/dashboard", adminH.Dashboard)
	super.Post("/admins", adminH.CreateAdmin)

	// WebSocket endpoint (auth via query param, no JWT middleware)
	app.Get("/ws/messages", websocket.New(messageH.WebSocketHandler))

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = cfg.AppPort
	}
	log.Fatal(app.Listen(":" + port))
}
