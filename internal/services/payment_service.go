package services

import (
	"context"
	"errors"
	"fmt"

	"restoran/internal/models"
	"restoran/internal/payment"

	"go.uber.org/zap"
)

var (
	ErrPaymentsDisabled = errors.New("online payments are not configured")
	ErrAlreadyPaid      = errors.New("order is already paid")
	ErrInvalidReference = errors.New("invalid payment reference")
	ErrOrderNotPayable  = errors.New("cancelled orders cannot be paid")
)

// PaymentGateway starts hosted checkouts and reports their settlement state.
type PaymentGateway interface {
	CreateSession(order *models.Order) (*payment.Session, error)
	Status(reference string) (models.PaymentStatus, error)
}

// PaymentService connects orders to the online payment gateway.
type PaymentService struct {
	orders  *OrderService
	gateway PaymentGateway
	logger  *zap.SugaredLogger
}

// NewPaymentService creates a PaymentService. A nil gateway disables online payments.
func NewPaymentService(orders *OrderService, gateway PaymentGateway, logger *zap.SugaredLogger) *PaymentService {
	return &PaymentService{orders: orders, gateway: gateway, logger: logger}
}

// Enabled reports whether a gateway is configured.
func (s *PaymentService) Enabled() bool {
	return s.gateway != nil
}

// StartOnlinePayment opens a checkout session for an unpaid order and records upi as its method.
func (s *PaymentService) StartOnlinePayment(ctx context.Context, orderID uint) (*payment.Session, error) {
	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, ErrAlreadyPaid
	}
	if order.Status == models.OrderStatusCancelled {
		return nil, ErrOrderNotPayable
	}

	session, err := s.gateway.CreateSession(order)
	if err != nil {
		s.logger.Errorw("failed to create payment session", "order_id", orderID, "error", err)
		return nil, err
	}

	if _, err := s.orders.UpdatePaymentStatus(ctx, orderID, models.PaymentStatusPending, models.PaymentMethodUPI); err != nil {
		return nil, err
	}

	s.logger.Infow("payment session created", "order_id", orderID, "reference", session.Reference)
	return session, nil
}

// HandleNotification re-reads the transaction from the gateway and applies its status.
// The notification body is never trusted on its own.
func (s *PaymentService) HandleNotification(ctx context.Context, reference string) (*models.Order, error) {
	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}

	orderID, err := payment.ParseReference(reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}

	status, err := s.gateway.Status(reference)
	if err != nil {
		s.logger.Errorw("failed to check payment status", "reference", reference, "error", err)
		return nil, err
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// Each checkout attempt has its own reference, so a late expiry for an
	// abandoned attempt must not undo a settled one.
	if order.PaymentStatus == models.PaymentStatusPaid && status != models.PaymentStatusPaid {
		s.logger.Warnw("ignoring payment notification for paid order",
			"order_id", orderID, "reference", reference, "payment_status", status)
		return order, nil
	}

	order, err = s.orders.UpdatePaymentStatus(ctx, orderID, status, models.PaymentMethodUPI)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("payment notification applied", "order_id", orderID, "payment_status", status)
	return order, nil
}
