package handlers

import (
	"restoran/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PaymentHandler handles online payment checkout and gateway callbacks.
type PaymentHandler struct {
	service *services.PaymentService
	logger  *zap.SugaredLogger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService, logger *zap.SugaredLogger) *PaymentHandler {
	return &PaymentHandler{service: service, logger: logger}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/orders/:id/payment", h.HandleStartPayment)
	router.Post("/payments/midtrans/notification", h.HandleNotification)
}

// HandleStartPayment opens a hosted checkout for an unpaid order.
func (h *PaymentHandler) HandleStartPayment(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	session, err := h.service.StartOnlinePayment(c.UserContext(), id)
	if err != nil {
		return fail(c, h.logger, err, "Could not start payment")
	}
	return c.JSON(session)
}

// notification holds the fields of a midtrans HTTP notification we rely on. The status
// itself is re-read from the gateway.
type notification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
}

// HandleNotification receives the gateway's payment callback.
func (h *PaymentHandler) HandleNotification(c *fiber.Ctx) error {
	var body notification
	if err := c.BodyParser(&body); err != nil || body.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid notification body",
		})
	}

	order, err := h.service.HandleNotification(c.UserContext(), body.OrderID)
	if err != nil {
		return fail(c, h.logger, err, "Could not apply payment notification")
	}
	h.logger.Infow("payment notification received", "reference", body.OrderID,
		"reported_status", body.TransactionStatus, "payment_status", order.PaymentStatus)
	return c.JSON(fiber.Map{"message": "ok"})
}
