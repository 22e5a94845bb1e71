package models

import (
	"time"

	"gorm.io/datatypes"
)

// Customization is a named choice group offered on a menu item, e.g. "Spice Level".
type Customization struct {
	Name       string   `json:"name" yaml:"name" validate:"required,max=50"`
	Choices    []string `json:"choices" yaml:"choices" validate:"required,min=1,unique,dive,required"`
	MaxChoices int      `json:"maxChoices" yaml:"maxChoices" validate:"gte=1"`
}

// MenuItem is a dish or drink on the menu.
type MenuItem struct {
	ID             uint                               `json:"id" gorm:"primaryKey"`
	Name           string                             `json:"name" gorm:"type:varchar(100);not null"`
	Description    string                             `json:"description" gorm:"type:text"`
	Price          float64                            `json:"price" gorm:"type:decimal(10,2);not null"`
	Category       string                             `json:"category" gorm:"type:varchar(50);index"`
	Subcategory    string                             `json:"subcategory" gorm:"type:varchar(50)"`
	ImageURL       string                             `json:"imageUrl" gorm:"type:varchar(500)"`
	IsVegetarian   bool                               `json:"isVegetarian"`
	IsBestSeller   bool                               `json:"isBestSeller"`
	IsAvailable    bool                               `json:"isAvailable" gorm:"index"`
	Customizations datatypes.JSONSlice[Customization] `json:"customizations"`
	CreatedAt      time.Time                          `json:"createdAt"`
	UpdatedAt      time.Time                          `json:"updatedAt"`
}

// MenuFilter narrows a menu listing.
type MenuFilter struct {
	Category      string
	AvailableOnly bool
}
