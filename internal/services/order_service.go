package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"restoran/internal/models"
	"restoran/internal/repositories"

	"go.uber.org/zap"
)

var (
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrUnknownMenuItem      = errors.New("order references an unknown menu item")
)

// Targets accepted by UpdateOrderStatus. An order cannot be moved back to pending.
var statusTargets = map[models.OrderStatus]bool{
	models.OrderStatusInProgress: true,
	models.OrderStatusCompleted:  true,
	models.OrderStatusCancelled:  true,
}

var paymentStatuses = map[models.PaymentStatus]bool{
	models.PaymentStatusPending: true,
	models.PaymentStatusPaid:    true,
	models.PaymentStatusFailed:  true,
}

var paymentMethods = map[models.PaymentMethod]bool{
	models.PaymentMethodCash: true,
	models.PaymentMethodUPI:  true,
}

// OrderOptions tunes order creation.
type OrderOptions struct {
	// RecomputeTotal prices orders from the catalog instead of trusting the submitted total.
	RecomputeTotal bool
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	menuRepo  repositories.MenuRepository
	publisher EventPublisher
	opts      OrderOptions
	logger    *zap.SugaredLogger
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, menuRepo repositories.MenuRepository, publisher EventPublisher, opts OrderOptions, logger *zap.SugaredLogger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		menuRepo:  menuRepo,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
	}
}

// GetAllOrders retrieves all orders, newest first.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.GetAll(ctx)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(ctx context.Context, id uint) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// GetUserOrders retrieves the orders placed by a user, newest first.
func (s *OrderService) GetUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(ctx, userID)
}

// CreateOrder persists a checkout. The request shape is validated by the caller; item
// availability and table numbers are not checked. userID is empty for guests.
func (s *OrderService) CreateOrder(ctx context.Context, req models.CreateOrderRequest, userID string) (*models.Order, error) {
	if req.PaymentStatus != "" && !paymentStatuses[req.PaymentStatus] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPaymentStatus, req.PaymentStatus)
	}
	if req.PaymentMethod != "" && !paymentMethods[req.PaymentMethod] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, req.PaymentMethod)
	}

	total := req.Total
	priced, err := s.priceItems(ctx, req.Items)
	switch {
	case err == nil:
		if !sameAmount(priced, req.Total) {
			s.logger.Warnw("submitted order total differs from catalog prices",
				"submitted", req.Total, "catalog", priced, "recompute", s.opts.RecomputeTotal)
		}
		if s.opts.RecomputeTotal {
			total = priced
		}
	case s.opts.RecomputeTotal:
		return nil, err
	default:
		s.logger.Warnw("could not price order against catalog", "error", err)
	}

	order := &models.Order{
		UserEmail:           NormalizeEmail(req.UserEmail),
		MobileNumber:        strings.TrimSpace(req.MobileNumber),
		CustomerName:        req.CustomerName,
		TableNumber:         req.TableNumber,
		Items:               req.Items,
		Status:              models.OrderStatusPending,
		PaymentStatus:       models.PaymentStatusPending,
		PaymentMethod:       req.PaymentMethod,
		CookingInstructions: req.CookingInstructions,
		Total:               total,
	}
	if req.PaymentStatus != "" {
		order.PaymentStatus = req.PaymentStatus
	}
	if userID != "" {
		order.UserID = &userID
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Infow("order created", "order_id", order.ID, "table", order.TableNumber, "total", order.Total)
	publish(s.publisher, s.logger, EventOrderCreated, orderEvent(order))
	return order, nil
}

// UpdateOrderStatus moves an order to in_progress, completed or cancelled.
// No transition graph is enforced beyond the allowed targets.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	if !statusTargets[status] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("order status updated", "order_id", id, "status", status)
	publish(s.publisher, s.logger, EventOrderStatusUpdated, orderEvent(order))
	return order, nil
}

// UpdatePaymentStatus overwrites the payment status unconditionally. A non-empty
// method replaces the recorded payment method.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id uint, status models.PaymentStatus, method models.PaymentMethod) (*models.Order, error) {
	if !paymentStatuses[status] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPaymentStatus, status)
	}
	if method != "" && !paymentMethods[method] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, method)
	}

	order, err := s.orderRepo.UpdatePayment(ctx, id, status, method)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("order payment status updated", "order_id", id, "payment_status", status)
	publish(s.publisher, s.logger, EventOrderPaymentUpdated, orderEvent(order))
	return order, nil
}

// priceItems sums catalog price × quantity over items.
func (s *OrderService) priceItems(ctx context.Context, items []models.OrderItem) (float64, error) {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.MenuItemID)
	}
	catalog, err := s.menuRepo.GetByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, item := range items {
		menuItem, ok := catalog[item.MenuItemID]
		if !ok {
			return 0, fmt.Errorf("%w: %d", ErrUnknownMenuItem, item.MenuItemID)
		}
		total += menuItem.Price * float64(item.Quantity)
	}
	return math.Round(total*100) / 100, nil
}

func sameAmount(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func orderEvent(order *models.Order) map[string]interface{} {
	return map[string]interface{}{
		"orderId":       order.ID,
		"tableNumber":   order.TableNumber,
		"status":        order.Status,
		"paymentStatus": order.PaymentStatus,
		"items":         order.Items,
		"total":         order.Total,
	}
}
