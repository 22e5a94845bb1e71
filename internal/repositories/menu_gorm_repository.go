package repositories

import (
	"context"
	"errors"
	"fmt"

	"restoran/internal/models"

	"gorm.io/gorm"
)

// GORMMenuRepository is a GORM implementation of MenuRepository.
type GORMMenuRepository struct {
	db *gorm.DB
}

// NewGORMMenuRepository creates a new instance of GORMMenuRepository.
func NewGORMMenuRepository(db *gorm.DB) *GORMMenuRepository {
	return &GORMMenuRepository{
		db: db,
	}
}

// GetAll retrieves menu items ordered by category and name.
func (r *GORMMenuRepository) GetAll(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error) {
	query := r.db.WithContext(ctx).Model(&models.MenuItem{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}

	var items []models.MenuItem
	if err := query.Order("category asc, name asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}
	return items, nil
}

// GetByID retrieves a single menu item.
func (r *GORMMenuRepository) GetByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("menu item %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get menu item %d: %w", id, err)
	}
	return &item, nil
}

// GetByIDs returns the existing items among ids, keyed by ID. Missing ids are omitted.
func (r *GORMMenuRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]models.MenuItem, error) {
	result := make(map[uint]models.MenuItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var items []models.MenuItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}
	for _, item := range items {
		result[item.ID] = item
	}
	return result, nil
}

// Count returns the number of menu items.
func (r *GORMMenuRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count menu items: %w", err)
	}
	return count, nil
}

// Create creates a new menu item.
func (r *GORMMenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}

// Update replaces every column of an existing menu item.
func (r *GORMMenuRepository) Update(ctx context.Context, item *models.MenuItem) error {
	// Save inserts when the row is missing, so check first.
	if _, err := r.GetByID(ctx, item.ID); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to update menu item %d: %w", item.ID, err)
	}
	return nil
}

// Delete removes a menu item.
func (r *GORMMenuRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.MenuItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete menu item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("menu item %d: %w", id, ErrNotFound)
	}
	return nil
}

// SetAvailability overwrites the availability flag and returns the updated item.
func (r *GORMMenuRepository) SetAvailability(ctx context.Context, id uint, available bool) (*models.MenuItem, error) {
	return r.updateColumn(ctx, id, "is_available", available)
}

// SetImageURL stores the location of the item's image and returns the updated item.
func (r *GORMMenuRepository) SetImageURL(ctx context.Context, id uint, url string) (*models.MenuItem, error) {
	return r.updateColumn(ctx, id, "image_url", url)
}

func (r *GORMMenuRepository) updateColumn(ctx context.Context, id uint, column string, value interface{}) (*models.MenuItem, error) {
	item, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(item).Update(column, value).Error; err != nil {
		return nil, fmt.Errorf("failed to update %s of menu item %d: %w", column, id, err)
	}
	return r.GetByID(ctx, id)
}
