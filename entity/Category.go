package entity

import (
	"gorm.io/gorm"
)

type Category struct {
	gorm.Model
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsActive    bool   `gorm:"not null" json:"isActive"`

	Products []Product `json:"-"`
}
