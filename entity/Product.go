package entity

import (
	"gorm.io/gorm"
)

// Product is a bookable wedding service (photography package, venue decoration, ...).
type Product struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	IsActive    bool   `gorm:"not null" json:"isActive"`

	CategoryID uint     `json:"categoryId"`
	Category   Category `json:"-"`
}
