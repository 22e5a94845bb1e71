package services_test

import (
	"context"
	"errors"
	"testing"

	"restoran/internal/models"
	"restoran/internal/payment"
	"restoran/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPaymentService(orders *MockOrderRepository, gateway services.PaymentGateway) *services.PaymentService {
	orderService := newOrderService(orders, new(MockMenuRepository), nil, false)
	return services.NewPaymentService(orderService, gateway, zap.NewNop().Sugar())
}

func TestPaymentService_Disabled(t *testing.T) {
	svc := newPaymentService(new(MockOrderRepository), nil)
	assert.False(t, svc.Enabled())

	_, err := svc.StartOnlinePayment(context.Background(), 1)
	assert.ErrorIs(t, err, services.ErrPaymentsDisabled)
	_, err = svc.HandleNotification(context.Background(), "order-1-1700000000")
	assert.ErrorIs(t, err, services.ErrPaymentsDisabled)
}

func TestPaymentService_StartOnlinePayment(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	gateway := new(MockGateway)
	svc := newPaymentService(orders, gateway)

	order := &models.Order{ID: 5, Total: 250, Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusPending}
	session := &payment.Session{Reference: "order-5-1700000000", Token: "tok", RedirectURL: "https://pay.example.com/tok"}

	orders.On("GetByID", ctx, uint(5)).Return(order, nil).Once()
	gateway.On("CreateSession", order).Return(session, nil).Once()
	orders.On("UpdatePayment", ctx, uint(5), models.PaymentStatusPending, models.PaymentMethodUPI).Return(order, nil).Once()

	got, err := svc.StartOnlinePayment(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, session, got)
	orders.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestPaymentService_StartOnlinePaymentRejects(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	gateway := new(MockGateway)
	svc := newPaymentService(orders, gateway)

	orders.On("GetByID", ctx, uint(1)).Return(&models.Order{ID: 1, PaymentStatus: models.PaymentStatusPaid}, nil).Once()
	_, err := svc.StartOnlinePayment(ctx, 1)
	assert.ErrorIs(t, err, services.ErrAlreadyPaid)

	orders.On("GetByID", ctx, uint(2)).Return(&models.Order{ID: 2, Status: models.OrderStatusCancelled, PaymentStatus: models.PaymentStatusPending}, nil).Once()
	_, err = svc.StartOnlinePayment(ctx, 2)
	assert.ErrorIs(t, err, services.ErrOrderNotPayable)

	pending := &models.Order{ID: 3, PaymentStatus: models.PaymentStatusPending}
	orders.On("GetByID", ctx, uint(3)).Return(pending, nil).Once()
	gateway.On("CreateSession", pending).Return(nil, errors.New("gateway down")).Once()
	_, err = svc.StartOnlinePayment(ctx, 3)
	assert.EqualError(t, err, "gateway down")
	orders.AssertNotCalled(t, "UpdatePayment", ctx, uint(3), models.PaymentStatusPending, models.PaymentMethodUPI)
}

func TestPaymentService_HandleNotification(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	gateway := new(MockGateway)
	svc := newPaymentService(orders, gateway)

	gateway.On("Status", "order-12-1700000000").Return(models.PaymentStatusPaid, nil).Once()
	orders.On("GetByID", ctx, uint(12)).Return(&models.Order{ID: 12, PaymentStatus: models.PaymentStatusPending}, nil).Once()
	orders.On("UpdatePayment", ctx, uint(12), models.PaymentStatusPaid, models.PaymentMethodUPI).
		Return(&models.Order{ID: 12, PaymentStatus: models.PaymentStatusPaid}, nil).Once()

	order, err := svc.HandleNotification(ctx, "order-12-1700000000")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)

	_, err = svc.HandleNotification(ctx, "bogus")
	assert.ErrorIs(t, err, services.ErrInvalidReference)

	gateway.On("Status", "order-13-1700000000").Return(models.PaymentStatus(""), errors.New("unreachable")).Once()
	_, err = svc.HandleNotification(ctx, "order-13-1700000000")
	assert.Error(t, err)
	orders.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestPaymentService_HandleNotificationKeepsSettledPayment(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	gateway := new(MockGateway)
	svc := newPaymentService(orders, gateway)

	paid := &models.Order{ID: 1, PaymentStatus: models.PaymentStatusPaid, PaymentMethod: models.PaymentMethodUPI}
	gateway.On("Status", "order-1-1700000000").Return(models.PaymentStatusFailed, nil).Once()
	gateway.On("Status", "order-1-1700000300").Return(models.PaymentStatusPending, nil).Once()
	orders.On("GetByID", ctx, uint(1)).Return(paid, nil).Twice()

	order, err := svc.HandleNotification(ctx, "order-1-1700000000")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)

	order, err = svc.HandleNotification(ctx, "order-1-1700000300")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)

	orders.AssertNotCalled(t, "UpdatePayment", ctx, uint(1), models.PaymentStatusFailed, models.PaymentMethodUPI)
	orders.AssertNotCalled(t, "UpdatePayment", ctx, uint(1), models.PaymentStatusPending, models.PaymentMethodUPI)
	orders.AssertExpectations(t)
	gateway.AssertExpectations(t)
}
