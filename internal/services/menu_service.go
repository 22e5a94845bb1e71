package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"restoran/internal/models"
	"restoran/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrImageStorageDisabled = errors.New("image storage is not configured")
	ErrUnsupportedImageType = errors.New("unsupported image type")
)

// ImageStore persists uploaded images. *storage.S3Uploader satisfies it.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// MenuService handles business logic related to the menu catalog.
type MenuService struct {
	repo      repositories.MenuRepository
	images    ImageStore
	publisher EventPublisher
	logger    *zap.SugaredLogger
}

// NewMenuService creates a new MenuService. images and publisher may be nil.
func NewMenuService(repo repositories.MenuRepository, images ImageStore, publisher EventPublisher, logger *zap.SugaredLogger) *MenuService {
	return &MenuService{
		repo:      repo,
		images:    images,
		publisher: publisher,
		logger:    logger,
	}
}

// GetMenu lists menu items matching filter.
func (s *MenuService) GetMenu(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error) {
	return s.repo.GetAll(ctx, filter)
}

// GetMenuItem returns a single item.
func (s *MenuService) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	return s.repo.GetByID(ctx, id)
}

// GetMenuItems returns the items with the given ids keyed by id. Missing ids are absent.
func (s *MenuService) GetMenuItems(ctx context.Context, ids []uint) (map[uint]models.MenuItem, error) {
	return s.repo.GetByIDs(ctx, ids)
}

// CreateMenuItem adds an item. Items are available unless the request says otherwise.
func (s *MenuService) CreateMenuItem(ctx context.Context, req models.MenuItemRequest) (*models.MenuItem, error) {
	item := &models.MenuItem{IsAvailable: true}
	applyMenuRequest(item, req)
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Infow("menu item created", "menu_item_id", item.ID, "name", item.Name)
	return item, nil
}

// UpdateMenuItem replaces the editable fields of an item.
func (s *MenuService) UpdateMenuItem(ctx context.Context, id uint, req models.MenuItemRequest) (*models.MenuItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyMenuRequest(item, req)
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Infow("menu item updated", "menu_item_id", item.ID)
	return item, nil
}

// DeleteMenuItem removes an item. Orders keep referencing its id.
func (s *MenuService) DeleteMenuItem(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Infow("menu item deleted", "menu_item_id", id)
	return nil
}

// SetAvailability overwrites the availability flag. Carts holding the item are unaffected.
func (s *MenuService) SetAvailability(ctx context.Context, id uint, available bool) (*models.MenuItem, error) {
	item, err := s.repo.SetAvailability(ctx, id, available)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("menu item availability changed", "menu_item_id", id, "available", available)
	publish(s.publisher, s.logger, EventMenuAvailability, map[string]interface{}{
		"menuItemId":  item.ID,
		"name":        item.Name,
		"isAvailable": item.IsAvailable,
	})
	return item, nil
}

// UploadImage stores an image for the item and records its URL.
func (s *MenuService) UploadImage(ctx context.Context, id uint, filename, contentType string, body io.Reader) (*models.MenuItem, error) {
	if s.images == nil {
		return nil, ErrImageStorageDisabled
	}
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImageType, contentType)
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	key := fmt.Sprintf("menu/%d/%s-%s%s", id, uuid.NewString(), sanitizeKey(base), ext)
	url, err := s.images.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, err
	}
	return s.repo.SetImageURL(ctx, id, url)
}

func applyMenuRequest(item *models.MenuItem, req models.MenuItemRequest) {
	item.Name = req.Name
	item.Description = req.Description
	item.Price = req.Price
	item.Category = req.Category
	item.Subcategory = req.Subcategory
	if req.ImageURL != "" {
		item.ImageURL = req.ImageURL
	}
	item.IsVegetarian = req.IsVegetarian
	item.IsBestSeller = req.IsBestSeller
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	item.Customizations = req.Customizations
	if item.Customizations == nil {
		item.Customizations = []models.Customization{}
	}
}

func sanitizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "image"
	}
	return b.String()
}
