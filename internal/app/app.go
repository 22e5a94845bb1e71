// Package app assembles the HTTP application from its services.
package app

import (
	"errors"
	"time"

	"restoran/internal/handlers"
	"restoran/internal/middleware"
	"restoran/internal/otp"
	"restoran/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Deps are the services the HTTP layer is built on.
type Deps struct {
	Auth      *services.AuthService
	Menu      *services.MenuService
	Orders    *services.OrderService
	Payments  *services.PaymentService
	EmailOTP  *otp.Service
	MobileOTP *otp.Service
	Logger    *zap.SugaredLogger
	// BrokerConnected is reported by /health.
	BrokerConnected bool
	// RequestLog enables fiber's access log.
	RequestLog bool
}

// New builds the fiber app with every route registered.
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "restoran",
		BodyLimit:    8 * 1024 * 1024,
		ErrorHandler: errorHandler(d.Logger),
	})

	app.Use(recover.New())
	if d.RequestLog {
		app.Use(logger.New())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"rabbitmq": d.BrokerConnected,
			"payments": d.Payments.Enabled(),
		})
	})

	authRequired := middleware.AuthRequired(d.Auth, d.Logger)
	guards := handlers.Guards{
		Optional: middleware.OptionalAuth(d.Auth),
		User:     authRequired,
		Admin:    []fiber.Handler{authRequired, middleware.AdminRequired()},
	}
	validate := handlers.NewValidator()

	api := app.Group("/api")
	handlers.NewAuthHandler(d.Auth, validate, d.Logger).RegisterRoutes(api, guards)
	handlers.NewOTPHandler(d.EmailOTP, d.MobileOTP, d.Auth, validate, d.Logger).RegisterRoutes(api)
	handlers.NewMenuHandler(d.Menu, validate, d.Logger).RegisterRoutes(api, guards)
	handlers.NewCartHandler(d.Menu, validate, d.Logger).RegisterRoutes(api)
	handlers.NewOrderHandler(d.Orders, validate, d.Logger).RegisterRoutes(api, guards)
	handlers.NewPaymentHandler(d.Payments, d.Logger).RegisterRoutes(api)

	return app
}

// errorHandler renders unhandled errors in the same JSON shape as the handlers.
func errorHandler(log *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Errorw("unhandled error", "error", err, "path", c.Path())
		}
		return c.Status(code).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
}
