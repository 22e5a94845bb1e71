package models

// CreateOrderRequest is the checkout payload submitted from a cart snapshot.
// Total is computed by the client.
type CreateOrderRequest struct {
	UserEmail           string        `json:"userEmail" validate:"omitempty,email"`
	MobileNumber        string        `json:"mobileNumber" validate:"required_without=UserEmail,max=20"`
	CustomerName        string        `json:"customerName" validate:"required,max=100"`
	TableNumber         int           `json:"tableNumber" validate:"required,gte=1"`
	Items               []OrderItem   `json:"items" validate:"required,min=1,dive"`
	PaymentStatus       PaymentStatus `json:"paymentStatus" validate:"omitempty,oneof=pending paid failed"`
	PaymentMethod       PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=cash upi"`
	CookingInstructions string        `json:"cookingInstructions" validate:"max=500"`
	Total               float64       `json:"total" validate:"required,gt=0"`
}

// UpdateStatusRequest changes an order's fulfillment status.
type UpdateStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required"`
}

// UpdatePaymentStatusRequest overwrites an order's payment status.
type UpdatePaymentStatusRequest struct {
	Status        PaymentStatus `json:"status" validate:"required"`
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=cash upi"`
}

// MenuItemRequest creates or replaces a menu item.
type MenuItemRequest struct {
	Name           string          `json:"name" validate:"required,min=2,max=100"`
	Description    string          `json:"description" validate:"max=1000"`
	Price          float64         `json:"price" validate:"required,gt=0"`
	Category       string          `json:"category" validate:"required,max=50"`
	Subcategory    string          `json:"subcategory" validate:"max=50"`
	ImageURL       string          `json:"imageUrl" validate:"omitempty,url"`
	IsVegetarian   bool            `json:"isVegetarian"`
	IsBestSeller   bool            `json:"isBestSeller"`
	IsAvailable    *bool           `json:"isAvailable"`
	Customizations []Customization `json:"customizations" validate:"dive"`
}

// AvailabilityRequest toggles whether a menu item can be ordered.
type AvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" validate:"required"`
}

// RegisterRequest signs up a password user.
type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	FullName     string `json:"fullName" validate:"required,max=100"`
	MobileNumber string `json:"mobileNumber" validate:"omitempty,max=20"`
}

// LoginRequest accepts either email+password or mobile+name.
type LoginRequest struct {
	Email        string `json:"email" validate:"omitempty,email"`
	Password     string `json:"password" validate:"required_with=Email"`
	MobileNumber string `json:"mobileNumber" validate:"required_without=Email,max=20"`
	FullName     string `json:"fullName" validate:"required_with=MobileNumber,max=100"`
}

// EmailOTPRequest asks for a code to be emailed.
type EmailOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// MobileOTPRequest asks for a code to be sent by SMS.
type MobileOTPRequest struct {
	MobileNumber string `json:"mobileNumber" validate:"required,numeric,min=8,max=15"`
}

// VerifyEmailOTPRequest submits an emailed code.
type VerifyEmailOTPRequest struct {
	Email    string `json:"email" validate:"required,email"`
	OTP      string `json:"otp" validate:"required,numeric"`
	FullName string `json:"fullName" validate:"max=100"`
}

// VerifyMobileOTPRequest submits a code received by SMS.
type VerifyMobileOTPRequest struct {
	MobileNumber string `json:"mobileNumber" validate:"required,numeric,min=8,max=15"`
	OTP          string `json:"otp" validate:"required,numeric"`
	FullName     string `json:"fullName" validate:"max=100"`
}

// QuoteLine is one requested cart line for a price quote.
type QuoteLine struct {
	MenuItemID     uint                `json:"menuItemId" validate:"required"`
	Quantity       int                 `json:"quantity" validate:"required,min=1"`
	Customizations map[string][]string `json:"customizations"`
}

// QuoteRequest asks the server to price a cart against the current catalog.
type QuoteRequest struct {
	TableNumber         int         `json:"tableNumber" validate:"gte=0"`
	CookingInstructions string      `json:"cookingInstructions" validate:"max=500"`
	Lines               []QuoteLine `json:"lines" validate:"required,min=1,dive"`
}
