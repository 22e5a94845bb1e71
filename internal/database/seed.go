package database

import (
	"context"
	"errors"
	"fmt"
	"os"

	"restoran/internal/models"
	"restoran/internal/repositories"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type menuSeedItem struct {
	Name           string                 `yaml:"name"`
	Description    string                 `yaml:"description"`
	Price          float64                `yaml:"price"`
	Category       string                 `yaml:"category"`
	Subcategory    string                 `yaml:"subcategory"`
	ImageURL       string                 `yaml:"imageUrl"`
	IsVegetarian   bool                   `yaml:"isVegetarian"`
	IsBestSeller   bool                   `yaml:"isBestSeller"`
	IsAvailable    *bool                  `yaml:"isAvailable"`
	Customizations []models.Customization `yaml:"customizations"`
}

type menuSeedFile struct {
	Items []menuSeedItem `yaml:"items"`
}

// ParseMenuSeed decodes a YAML menu document.
func ParseMenuSeed(data []byte) ([]models.MenuItem, error) {
	var file menuSeedFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse menu seed: %w", err)
	}

	items := make([]models.MenuItem, 0, len(file.Items))
	for i, seed := range file.Items {
		if seed.Name == "" || seed.Price <= 0 {
			return nil, fmt.Errorf("menu seed item %d: name and a positive price are required", i)
		}
		for _, c := range seed.Customizations {
			if c.MaxChoices < 1 {
				return nil, fmt.Errorf("menu seed item %q: customization %q needs maxChoices >= 1", seed.Name, c.Name)
			}
		}
		available := true
		if seed.IsAvailable != nil {
			available = *seed.IsAvailable
		}
		items = append(items, models.MenuItem{
			Name:           seed.Name,
			Description:    seed.Description,
			Price:          seed.Price,
			Category:       seed.Category,
			Subcategory:    seed.Subcategory,
			ImageURL:       seed.ImageURL,
			IsVegetarian:   seed.IsVegetarian,
			IsBestSeller:   seed.IsBestSeller,
			IsAvailable:    available,
			Customizations: seed.Customizations,
		})
	}
	return items, nil
}

// SeedMenu loads the menu from a YAML file when the catalog is empty.
// A missing file is not an error.
func SeedMenu(ctx context.Context, repo repositories.MenuRepository, path string, logger *zap.SugaredLogger) (int, error) {
	if path == "" {
		return 0, nil
	}
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Debugw("menu already populated, skipping seed", "items", count)
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warnw("menu seed file not found", "path", path)
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read menu seed %s: %w", path, err)
	}

	items, err := ParseMenuSeed(data)
	if err != nil {
		return 0, err
	}
	for i := range items {
		if err := repo.Create(ctx, &items[i]); err != nil {
			return i, err
		}
	}
	logger.Infow("menu seeded", "path", path, "items", len(items))
	return len(items), nil
}
