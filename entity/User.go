package entity

import (
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	UserActive    = "active"
	UserSuspended = "suspended"

	AccountLogin  = "login"
	AccountGoogle = "loginGoogle"
)

type User struct {
	gorm.Model
	Fullname string `json:"fullname"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `json:"-"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Avatar   string `json:"avatar"`
	Role     string `gorm:"not null;default:user" json:"role"`
	Status   string `gorm:"not null;default:active" json:"status"`
	Type     string `gorm:"not null;default:login" json:"type"`

	// cached counters, maintained when orders complete and reviews pay out
	TotalSpent int64 `json:"totalSpent"`
	Points     int   `json:"points"`
	OrderCount int   `json:"orderCount"`

	Orders         []Order         `json:"-"`
	Reviews        []Review        `json:"-"`
	UserPromotions []UserPromotion `json:"-"`
}
