package models

import (
	"time"

	"gorm.io/gorm"
)

// Product categories.
const (
	CategoryTextbooks    = "textbooks"
	CategoryStationery   = "stationery"
	CategoryElectronics  = "electronics"
	CategoryLabEquipment = "lab_equipment"
	CategoryNotes        = "notes"
	CategoryOther        = "other"
)

// Product conditions.
const (
	ConditionNew     = "new"
	ConditionLikeNew = "like_new"
	ConditionGood    = "good"
	ConditionFair    = "fair"
	ConditionPoor    = "poor"
)

// Product statuses. Only the order workflow moves a product out of
// "available"; sellers cannot set status through a product update.
const (
	ProductAvailable = "available"
	ProductReserved  = "reserved"
	ProductSold      = "sold"
)

type Product struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	SellerID    uint     `gorm:"index;not null" json:"seller_id"`
	Title       string   `gorm:"size:255;not null" json:"title"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Price       float64  `gorm:"not null" json:"price"`
	Category    string   `gorm:"size:50;index" json:"category"`  // textbooks, stationery, ...
	Condition   string   `gorm:"size:20" json:"condition"`       // new, like_new, good, fair, poor
	Images      []string `gorm:"serializer:json" json:"images"`
	Location    string   `gorm:"size:255" json:"location"`
	Status      string   `gorm:"default:'available';size:20;index" json:"status"` // available, reserved, sold
	Views       int      `gorm:"default:0" json:"views"`

	CreatedAt time.Time      `json:"listed"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Seller User `gorm:"foreignKey:SellerID" json:"seller"`
}

func ValidCategory(s string) bool {
	switch s {
	case CategoryTextbooks, CategoryStationery, CategoryElectronics,
		CategoryLabEquipment, CategoryNotes, CategoryOther:
		return true
	}
	return false
}

func ValidCondition(s string) bool {
	switch s {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

func ValidProductStatus(s string) bool {
	return s == ProductAvailable || s == ProductReserved || s == ProductSold
}
