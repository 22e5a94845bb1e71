package handlers

import (
	"restoran/internal/middleware"
	"restoran/internal/models"
	"restoran/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	logger      *zap.SugaredLogger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, validate *validator.Validate, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validate,
		logger:      logger,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Get("/me", guards.User, h.HandleMe)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.authService.RegisterUser(c.UserContext(), req)
	if err != nil {
		return fail(c, h.logger, err, "Registration failed")
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		return fail(c, h.logger, err, "Could not issue token")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
		"token":   token,
	})
}

// HandleLogin authenticates with email+password or mobile+name and returns a JWT.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	user, token, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return fail(c, h.logger, err, "Login failed")
	}
	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// HandleMe returns the authenticated user.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.authService.GetUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return fail(c, h.logger, err, "Could not retrieve user")
	}
	return c.JSON(user)
}
