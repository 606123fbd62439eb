package entity

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	Status        string `gorm:"not null;default:pending;index" json:"orderStatus"`
	PaymentStatus string `gorm:"not null;default:pending" json:"paymentStatus"`

	Subtotal      int64  `json:"subtotal"`
	Discount      int64  `json:"discount"`
	FinalTotal    int64  `json:"finalTotal"`
	DepositAmount int64  `json:"depositAmount"`
	PromotionCode string `json:"promotionCode,omitempty"`
	Note          string `json:"note"`

	CompletedAt *time.Time `gorm:"index" json:"completedAt,omitempty"`

	UserID uint `json:"userId"`
	User   User `json:"-"`

	Items []OrderItem `json:"items,omitempty"`
}
