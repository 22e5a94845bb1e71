package handlers

import (
	"bytes"
	"fmt"
	"time"

	"restoran/internal/middleware"
	"restoran/internal/models"
	"restoran/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, validate *validator.Validate, logger *zap.SugaredLogger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validate,
		logger:   logger,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", guards.Optional, h.HandleCreateOrder)
	orderRoutes.Get("/", chain(guards.Admin, h.HandleGetOrders)...)
	// Registered before /:id so "export" is not read as an id.
	orderRoutes.Get("/export/csv", chain(guards.Admin, h.HandleExportCSV)...)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/:id/status", chain(guards.Admin, h.HandleUpdateOrderStatus)...)
	orderRoutes.Post("/:id/payment-status", chain(guards.Admin, h.HandleUpdatePaymentStatus)...)

	router.Get("/my/orders", guards.User, h.HandleGetMyOrders)
}

// HandleGetOrders retrieves all orders, newest first. Kitchen and admin screens poll it.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders(c.UserContext())
	if err != nil {
		return fail(c, h.logger, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetMyOrders lists the orders placed by the authenticated user.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetUserOrders(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return fail(c, h.logger, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	order, err := h.service.GetOrderByID(c.UserContext(), id)
	if err != nil {
		return fail(c, h.logger, err, fmt.Sprintf("Order with ID %d not found", id))
	}
	return c.JSON(order)
}

// HandleCreateOrder creates a new order from a cart snapshot. Guests may order; a valid
// token links the order to its user.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req models.CreateOrderRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	createdOrder, err := h.service.CreateOrder(c.UserContext(), req, middleware.UserID(c))
	if err != nil {
		return fail(c, h.logger, err, "Could not create order")
	}
	return c.Status(fiber.StatusCreated).JSON(createdOrder)
}

// HandleUpdateOrderStatus updates the fulfillment status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req models.UpdateStatusRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return fail(c, h.logger, err, "Could not update order status")
	}
	return c.JSON(order)
}

// HandleUpdatePaymentStatus overwrites the payment status of an order.
func (h *OrderHandler) HandleUpdatePaymentStatus(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req models.UpdatePaymentStatusRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	order, err := h.service.UpdatePaymentStatus(c.UserContext(), id, req.Status, req.PaymentMethod)
	if err != nil {
		return fail(c, h.logger, err, "Could not update payment status")
	}
	return c.JSON(order)
}

// HandleExportCSV downloads every order as a CSV attachment.
func (h *OrderHandler) HandleExportCSV(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.ExportOrdersCSV(c.UserContext(), &buf); err != nil {
		return fail(c, h.logger, err, "Could not export orders")
	}
	c.Attachment(fmt.Sprintf("orders-%s.csv", time.Now().Format("2006-01-02")))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}
