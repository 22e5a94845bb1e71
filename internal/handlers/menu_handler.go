package handlers

import (
	"restoran/internal/models"
	"restoran/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MenuHandler handles HTTP requests for the menu catalog.
type MenuHandler struct {
	service  *services.MenuService
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(service *services.MenuService, validate *validator.Validate, logger *zap.SugaredLogger) *MenuHandler {
	return &MenuHandler{
		service:  service,
		validate: validate,
		logger:   logger,
	}
}

// RegisterRoutes registers the menu routes. Every mutation is admin only.
func (h *MenuHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	menuRoutes := router.Group("/menu")
	menuRoutes.Get("/", h.HandleGetMenu)
	menuRoutes.Get("/:id", h.HandleGetMenuItem)

	menuRoutes.Post("/", chain(guards.Admin, h.HandleCreateMenuItem)...)
	menuRoutes.Put("/:id", chain(guards.Admin, h.HandleUpdateMenuItem)...)
	menuRoutes.Delete("/:id", chain(guards.Admin, h.HandleDeleteMenuItem)...)
	menuRoutes.Post("/:id/availability", chain(guards.Admin, h.HandleSetAvailability)...)
	menuRoutes.Post("/:id/image", chain(guards.Admin, h.HandleUploadImage)...)
}

// HandleGetMenu lists the menu. ?category= filters by category, ?available=true hides
// unavailable items.
func (h *MenuHandler) HandleGetMenu(c *fiber.Ctx) error {
	filter := models.MenuFilter{
		Category:      c.Query("category"),
		AvailableOnly: c.QueryBool("available", false),
	}
	items, err := h.service.GetMenu(c.UserContext(), filter)
	if err != nil {
		return fail(c, h.logger, err, "Could not retrieve menu")
	}
	return c.JSON(items)
}

func (h *MenuHandler) HandleGetMenuItem(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	item, err := h.service.GetMenuItem(c.UserContext(), id)
	if err != nil {
		return fail(c, h.logger, err, "Could not retrieve menu item")
	}
	return c.JSON(item)
}

func (h *MenuHandler) HandleCreateMenuItem(c *fiber.Ctx) error {
	var req models.MenuItemRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	item, err := h.service.CreateMenuItem(c.UserContext(), req)
	if err != nil {
		return fail(c, h.logger, err, "Could not create menu item")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *MenuHandler) HandleUpdateMenuItem(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req models.MenuItemRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	item, err := h.service.UpdateMenuItem(c.UserContext(), id, req)
	if err != nil {
		return fail(c, h.logger, err, "Could not update menu item")
	}
	return c.JSON(item)
}

func (h *MenuHandler) HandleDeleteMenuItem(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.service.DeleteMenuItem(c.UserContext(), id); err != nil {
		return fail(c, h.logger, err, "Could not delete menu item")
	}
	return c.JSON(fiber.Map{"message": "Menu item deleted successfully"})
}

// HandleSetAvailability overwrites an item's availability flag.
func (h *MenuHandler) HandleSetAvailability(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req models.AvailabilityRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	item, err := h.service.SetAvailability(c.UserContext(), id, *req.IsAvailable)
	if err != nil {
		return fail(c, h.logger, err, "Could not update availability")
	}
	return c.JSON(item)
}

// HandleUploadImage accepts a multipart "image" file and stores it as the item's picture.
func (h *MenuHandler) HandleUploadImage(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Multipart field 'image' is required",
			"error":   err.Error(),
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return fail(c, h.logger, err, "Could not read uploaded image")
	}
	defer file.Close()

	item, err := h.service.UploadImage(c.UserContext(), id, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		return fail(c, h.logger, err, "Could not upload image")
	}
	return c.JSON(item)
}
