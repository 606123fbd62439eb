package entity

import (
	"gorm.io/gorm"
)

// UserPromotion records that a customer saved (and possibly used) a promotion.
type UserPromotion struct {
	gorm.Model
	PromotionID uint      `json:"promotionId" gorm:"index:uniq_user_promo,unique"`
	Promotion   Promotion `json:"promotion" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	UserID uint `json:"userId" gorm:"index:uniq_user_promo,unique"`
	User   User `json:"-"`

	IsUsed bool `json:"isUsed"`
}

func (UserPromotion) TableName() string { return "user_promotions" }
