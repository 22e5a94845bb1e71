package repositories

import (
	"context"

	"restoran/internal/models"
)

// OrderRepository defines the interface for order data access.
// Orders are never deleted.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error)
	UpdatePayment(ctx context.Context, id uint, status models.PaymentStatus, method models.PaymentMethod) (*models.Order, error)
}
