package repositories

import (
	"context"

	"restoran/internal/models"
)

// MenuRepository defines the interface for menu item data access.
type MenuRepository interface {
	GetAll(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error)
	GetByID(ctx context.Context, id uint) (*models.MenuItem, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]models.MenuItem, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, item *models.MenuItem) error
	Update(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, id uint) error
	SetAvailability(ctx context.Context, id uint, available bool) (*models.MenuItem, error)
	SetImageURL(ctx context.Context, id uint, url string) (*models.MenuItem, error)
}
