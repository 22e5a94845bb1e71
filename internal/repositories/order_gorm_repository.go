package repositories

import (
	"context"
	"errors"
	"fmt"

	"restoran/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll returns every order, newest first.
func (r *GORMOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).Order("created_at desc, id desc").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

// GetByID returns an order by its ID.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	return &order, nil
}

// GetByUserID returns a user's orders, newest first.
func (r *GORMOrderRepository) GetByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// Create persists a new order.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// UpdateStatus overwrites the fulfillment status and returns the updated order.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	return r.update(ctx, id, map[string]interface{}{"status": status})
}

// UpdatePayment overwrites the payment status, and the method when one is given.
func (r *GORMOrderRepository) UpdatePayment(ctx context.Context, id uint, status models.PaymentStatus, method models.PaymentMethod) (*models.Order, error) {
	fields := map[string]interface{}{"payment_status": status}
	if method != "" {
		fields["payment_method"] = method
	}
	return r.update(ctx, id, fields)
}

func (r *GORMOrderRepository) update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Order, error) {
	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(order).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("failed to update order %d: %w", id, err)
	}
	return r.GetByID(ctx, id)
}
