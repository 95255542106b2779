package models

import (
	"time"

	"gorm.io/gorm"
)

// User types. A "both" account can buy and sell.
const (
	UserTypeBuyer  = "buyer"
	UserTypeSeller = "seller"
	UserTypeBoth   = "both"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Login
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"unique;not null;size:100" json:"email"`
	Password string `gorm:"not null" json:"-"`

	// Role
	UserType string `gorm:"size:20;not null" json:"userType"` // buyer, seller, both

	// Profile
	ProfileImage  string `json:"profileImage"`
	College       string `gorm:"size:100" json:"college"`
	ContactNumber string `gorm:"size:20" json:"contactNumber"`

	// System Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidUserType reports whether s is one of the accepted account types.
func ValidUserType(s string) bool {
	return s == UserTypeBuyer || s == UserTypeSeller || s == UserTypeBoth
}

// CanSell reports whether the user may list products.
func (u *User) CanSell() bool {
	return u.UserType == UserTypeSeller || u.UserType == UserTypeBoth
}

// CanBuy reports whether the user may place orders.
func (u *User) CanBuy() bool {
	return u.UserType == UserTypeBuyer || u.UserType == UserTypeBoth
}

// Public returns the profile fields safe to return to clients.
func (u *User) Public() map[string]interface{} {
	return map[string]interface{}{
		"id":            u.ID,
		"name":          u.Name,
		"email":         u.Email,
		"userType":      u.UserType,
		"profileImage":  u.ProfileImage,
		"college":       u.College,
		"contactNumber": u.ContactNumber,
	}
}
