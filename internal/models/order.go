package models

import (
	"time"

	"gorm.io/datatypes"
)

// OrderStatus tracks kitchen fulfillment.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus tracks settlement, independent of fulfillment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// PaymentMethod is how the customer settles the bill.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodUPI  PaymentMethod = "upi"
)

// OrderItem is one line of an order. Customizations map an option name to the chosen choices.
type OrderItem struct {
	MenuItemID     uint                `json:"menuItemId" validate:"required"`
	Quantity       int                 `json:"quantity" validate:"required,min=1"`
	Customizations map[string][]string `json:"customizations,omitempty"`
}

// Order is created once from a cart snapshot at checkout.
type Order struct {
	ID                  uint                           `json:"id" gorm:"primaryKey"`
	UserID              *string                        `json:"userId,omitempty" gorm:"type:varchar(36);index"`
	UserEmail           string                         `json:"userEmail" gorm:"type:varchar(255)"`
	MobileNumber        string                         `json:"mobileNumber" gorm:"type:varchar(20)"`
	CustomerName        string                         `json:"customerName" gorm:"type:varchar(100)"`
	TableNumber         int                            `json:"tableNumber"`
	Items               datatypes.JSONSlice[OrderItem] `json:"items"`
	Status              OrderStatus                    `json:"status" gorm:"type:varchar(20);not null;index"`
	PaymentStatus       PaymentStatus                  `json:"paymentStatus" gorm:"type:varchar(20);not null"`
	PaymentMethod       PaymentMethod                  `json:"paymentMethod,omitempty" gorm:"type:varchar(10)"`
	CookingInstructions string                         `json:"cookingInstructions,omitempty" gorm:"type:text"`
	Total               float64                        `json:"total" gorm:"type:decimal(10,2)"`
	CreatedAt           time.Time                      `json:"createdAt" gorm:"index"`
	UpdatedAt           time.Time                      `json:"updatedAt"`
}
