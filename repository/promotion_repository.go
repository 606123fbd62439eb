package repository

import (
	"time"

	"weddingshop/entity"

	"gorm.io/gorm"
)

type PromotionRepository struct {
	DB *gorm.DB
}

func NewPromotionRepository(db *gorm.DB) *PromotionRepository {
	return &PromotionRepository{DB: db}
}

func (r *PromotionRepository) Create(db *gorm.DB, p *entity.Promotion) error {
	return db.Create(p).Error
}

func (r *PromotionRepository) FindByID(id uint) (*entity.Promotion, error) {
	var p entity.Promotion
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PromotionRepository) FindByCode(db *gorm.DB, code string) (*entity.Promotion, error) {
	var p entity.Promotion
	if err := db.Where("code = ?", code).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PromotionRepository) FindAll(page, limit int) ([]entity.Promotion, int64, error) {
	var total int64
	if err := r.DB.Model(&entity.Promotion{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []entity.Promotion
	err := r.DB.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&rows).Error
	return rows, total, err
}

// FindActiveGlobal lists unscoped promotions that can still be used at t.
func (r *PromotionRepository) FindActiveGlobal(t time.Time) ([]entity.Promotion, error) {
	var rows []entity.Promotion
	err := r.DB.
		Where("user_id IS NULL AND is_active = ? AND quantity > 0 AND expiry_date >= ?", true, t).
		Order("expiry_date ASC").
		Find(&rows).Error
	return rows, err
}

// FindForUser lists promotions scoped to the user plus global ones the user saved.
func (r *PromotionRepository) FindForUser(userID uint) ([]entity.Promotion, error) {
	var rows []entity.Promotion
	err := r.DB.
		Where("user_id = ? OR id IN (?)", userID,
			r.DB.Model(&entity.UserPromotion{}).Select("promotion_id").Where("user_id = ?", userID)).
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *PromotionRepository) Update(p *entity.Promotion) error {
	return r.DB.Save(p).Error
}

// Delete hard-deletes the promotion together with its user links.
func (r *PromotionRepository) Delete(id uint) (int64, error) {
	var affected int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("promotion_id = ?", id).Delete(&entity.UserPromotion{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Delete(&entity.Promotion{}, id)
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

// DecrementQuantity consumes one unit; zero rows affected means the promotion ran out.
func (r *PromotionRepository) DecrementQuantity(tx *gorm.DB, id uint) (int64, error) {
	res := tx.Model(&entity.Promotion{}).
		Where("id = ? AND quantity > 0", id).
		UpdateColumn("quantity", gorm.Expr("quantity - 1"))
	return res.RowsAffected, res.Error
}

// IncrementQuantity gives back one unit, e.g. when the order that consumed it is cancelled.
func (r *PromotionRepository) IncrementQuantity(tx *gorm.DB, id uint) error {
	return tx.Model(&entity.Promotion{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + 1")).Error
}

// ---------------- User promotions ----------------

func (r *PromotionRepository) SaveForUser(db *gorm.DB, up *entity.UserPromotion) error {
	return db.Create(up).Error
}

func (r *PromotionRepository) FindUserPromotion(db *gorm.DB, userID, promoID uint) (*entity.UserPromotion, error) {
	var up entity.UserPromotion
	if err := db.Where("user_id = ? AND promotion_id = ?", userID, promoID).First(&up).Error; err != nil {
		return nil, err
	}
	return &up, nil
}

func (r *PromotionRepository) MarkUsed(db *gorm.DB, up *entity.UserPromotion) error {
	up.IsUsed = true
	return db.Save(up).Error
}

func (r *PromotionRepository) MarkUnused(db *gorm.DB, userID, promoID uint) error {
	return db.Model(&entity.UserPromotion{}).
		Where("user_id = ? AND promotion_id = ?", userID, promoID).
		Update("is_used", false).Error
}
