package services

import (
	"errors"

	"weddingshop/entity"
	"weddingshop/repository"

	"gorm.io/gorm"
)

type UserPromotionService struct {
	DB   *gorm.DB
	Repo *repository.PromotionRepository
}

func NewUserPromotionService(db *gorm.DB) *UserPromotionService {
	return &UserPromotionService{DB: db, Repo: repository.NewPromotionRepository(db)}
}

// SavePromotion stores a global promotion in the user's wallet. The unique (user, promotion)
// index turns a double save into ErrAlreadySaved.
func (s *UserPromotionService) SavePromotion(userID, promoID uint) error {
	p, err := s.Repo.FindByID(promoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPromotionNotFound
		}
		return err
	}
	if p.UserID != nil && *p.UserID != userID {
		return ErrPromotionNotFound
	}

	up := entity.UserPromotion{UserID: userID, PromotionID: promoID}
	if err := s.Repo.SaveForUser(s.DB, &up); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadySaved
		}
		return err
	}
	return nil
}

type UserCoupon struct {
	entity.Promotion
	IsUsed bool `json:"isUsed"`
}

// List returns the coupons issued to the user plus the promotions they saved, newest first.
func (s *UserPromotionService) List(userID uint) ([]UserCoupon, error) {
	promos, err := s.Repo.FindForUser(userID)
	if err != nil {
		return nil, err
	}
	var used []uint
	if err := s.DB.Model(&entity.UserPromotion{}).
		Where("user_id = ? AND is_used = ?", userID, true).
		Pluck("promotion_id", &used).Error; err != nil {
		return nil, err
	}
	usedSet := make(map[uint]bool, len(used))
	for _, id := range used {
		usedSet[id] = true
	}

	out := make([]UserCoupon, 0, len(promos))
	for _, p := range promos {
		out = append(out, UserCoupon{Promotion: p, IsUsed: usedSet[p.ID]})
	}
	return out, nil
}
