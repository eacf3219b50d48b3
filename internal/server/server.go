package server

import (
	"log"

	"interview-rag-be/internal/bootstrap"
	"interview-rag-be/internal/config"
	"interview-rag-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const adminRole = "admin"

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	// Initialize Fiber App
	app := fiber.New(fiber.Config{
		BodyLimit:    20 * 1024 * 1024, // 20MB, PDFs
		ErrorHandler: serverutils.NewErrorHandler(container.Logger),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.App.CorsAllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Routes
	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group("/api")

	c.HealthController.RegisterRoutes(api)
	c.ChatbotController.RegisterRoutes(api)

	var admin []fiber.Handler
	if cfg.App.JwtSecret != "" {
		admin = append(admin, serverutils.JwtMiddleware(cfg.App.JwtSecret), serverutils.RequireRole(adminRole))
	} else {
		log.Println("[WARN] JWT_SECRET is empty, admin routes are unauthenticated")
	}
	c.IngestionController.RegisterRoutes(api, admin...)
	c.BookingController.RegisterRoutes(api, admin...)
}
