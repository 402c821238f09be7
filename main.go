package main

import (
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"

	"lume/internal/catalog"
	"lume/internal/handlers"
	"lume/internal/middleware"
	"lume/internal/services"
	"lume/internal/store"
	"lume/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("CATALOG_PATH", "resources/data/products.json")
	viper.SetDefault("STORE_DRIVER", "memory")
	viper.SetDefault("DATABASE_DSN", "lume.db")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("SESSION_TTL", "24h")
	viper.SetDefault("REMEMBER_TTL", "720h")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables order events
	viper.AutomaticEnv()

	// --- Persistent store ---
	var st store.Store
	switch driver := viper.GetString("STORE_DRIVER"); driver {
	case "memory":
		st = store.NewMemoryStore()
	default:
		gormStore, err := store.Open(driver, viper.GetString("DATABASE_DSN"))
		if err != nil {
			log.Fatalf("Failed to open store: %v", err)
		}
		st = gormStore
	}

	// --- Catalog ---
	// A missing or unreadable catalog is logged inside NewService and the
	// storefront degrades to an empty product list.
	catalogService := catalog.NewService(catalog.NewFileProvider(viper.GetString("CATALOG_PATH")))

	// --- RabbitMQ (optional) ---
	var events services.EventPublisher
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient

		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			consumerErr := mqClient.ConsumeOrderEvents(func(msg amqp.Delivery) error {
				log.Printf("Received order event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			})
			if consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Services ---
	cartService := services.NewCartService(st)
	authService := services.NewAuthService(
		st,
		viper.GetString("JWT_SECRET"),
		viper.GetDuration("SESSION_TTL"),
		viper.GetDuration("REMEMBER_TTL"),
	)
	checkoutService := services.NewCheckoutService(st, cartService, authService, events)
	wishlistService := services.NewWishlistService(st)

	// --- Handlers ---
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	productHandler := handlers.NewProductHandler(catalogService, rng)
	cartHandler := handlers.NewCartHandler(cartService, catalogService)
	authHandler := handlers.NewAuthHandler(authService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService, catalogService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	authHandler.RegisterRoutes(apiV1)
	wishlistHandler.RegisterRoutes(apiV1)

	// Checkout and profile sit behind the auth gate; anonymous requests get
	// a login redirect hint, never a silent pass-through.
	protected := apiV1.Group("", middleware.AuthRequired(authService))
	checkoutHandler.RegisterRoutes(protected)
	protected.Get("/profile", authHandler.HandleProfile)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP server ---
	appPort := viper.GetString("APP_PORT")
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
