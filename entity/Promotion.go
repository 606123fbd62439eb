package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	PromotionFromAdmin  = "admin"
	PromotionFromReview = "review"
)

// Promotion is a percentage coupon. A nil UserID makes it usable by every customer.
type Promotion struct {
	gorm.Model
	Code        string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Description string    `json:"description"`
	Discount    int       `json:"discount"`
	ExpiryDate  time.Time `json:"expiryDate"`
	Quantity    int       `json:"quantity"`
	IsActive    bool      `gorm:"not null" json:"isActive"`
	Source      string    `gorm:"not null;default:admin" json:"source"`

	UserID *uint `gorm:"index" json:"userId,omitempty"`
	User   *User `json:"-"`

	UserPromotions []UserPromotion `json:"-"`
}

// Expired reports whether the promotion is past its expiry date at t.
func (p *Promotion) Expired(t time.Time) bool {
	return !p.ExpiryDate.IsZero() && t.After(p.ExpiryDate)
}
