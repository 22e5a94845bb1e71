package handlers

import (
	"restoran/internal/cart"
	"restoran/internal/models"
	"restoran/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CartHandler prices carts against the current catalog. Carts themselves live on the client.
type CartHandler struct {
	menu     *services.MenuService
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(menu *services.MenuService, validate *validator.Validate, logger *zap.SugaredLogger) *CartHandler {
	return &CartHandler{menu: menu, validate: validate, logger: logger}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/cart/quote", h.HandleQuote)
}

// HandleQuote returns the subtotal, warnings and an order draft for the submitted lines.
func (h *CartHandler) HandleQuote(c *fiber.Ctx) error {
	var req models.QuoteRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	ids := make([]uint, 0, len(req.Lines))
	for _, line := range req.Lines {
		ids = append(ids, line.MenuItemID)
	}
	catalog, err := h.menu.GetMenuItems(c.UserContext(), ids)
	if err != nil {
		return fail(c, h.logger, err, "Could not price cart")
	}
	return c.JSON(cart.BuildQuote(req, catalog))
}
