package models

import "time"

// User represents a customer, kitchen staff member or administrator.
type User struct {
	ID           string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        *string `json:"email,omitempty" gorm:"uniqueIndex;type:varchar(255)"`
	MobileNumber *string `json:"mobileNumber,omitempty" gorm:"uniqueIndex;type:varchar(20)"`
	FullName     string  `json:"fullName" gorm:"type:varchar(100)"`
	// Password is a bcrypt hash, empty for OTP-only customers.
	Password  string    `json:"-" gorm:"type:varchar(255)"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EmailAddress returns the user's email or an empty string.
func (u *User) EmailAddress() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// Mobile returns the user's mobile number or an empty string.
func (u *User) Mobile() string {
	if u.MobileNumber == nil {
		return ""
	}
	return *u.MobileNumber
}

// HasPassword reports whether the user can sign in with a password.
func (u *User) HasPassword() bool {
	return u.Password != ""
}
