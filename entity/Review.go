package entity

import (
	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	Rating  int      `gorm:"not null" json:"rating"`
	Comment string   `json:"comment"`
	Images  []string `gorm:"serializer:json" json:"images"`

	// one review per order
	OrderID   uint    `gorm:"uniqueIndex;not null" json:"orderId"`
	Order     Order   `json:"-"`
	ProductID uint    `gorm:"index" json:"productId"`
	Product   Product `json:"-"`
	UserID    uint    `gorm:"index" json:"userId"`
	User      User    `json:"-"`
}
