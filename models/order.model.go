package models

import (
	"time"
)

// Order statuses. pending is the only non-terminal state.
const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

type Order struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BuyerID   uint `gorm:"index;not null" json:"buyer_id"`
	SellerID  uint `gorm:"index;not null" json:"seller_id"`
	ProductID uint `gorm:"index;not null" json:"product_id"`

	// Price is captured when the order is placed and never tracks later
	// listing price changes.
	Price  float64 `gorm:"not null" json:"price"`
	Status string  `gorm:"default:'pending';size:20" json:"status"` // pending, completed, cancelled

	MeetupLocation string     `gorm:"size:255" json:"meetupLocation"`
	MeetupTime     *time.Time `json:"meetupTime"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Buyer   User    `gorm:"foreignKey:BuyerID" json:"buyer"`
	Seller  User    `gorm:"foreignKey:SellerID" json:"seller"`
	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}

func ValidOrderStatus(s string) bool {
	return s == OrderPending || s == OrderCompleted || s == OrderCancelled
}
