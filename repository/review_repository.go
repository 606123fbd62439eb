package repository

import (
	"weddingshop/entity"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

func (r *ReviewRepository) Create(tx *gorm.DB, rev *entity.Review) error {
	return tx.Create(rev).Error
}

// FindByOrder returns gorm.ErrRecordNotFound when the order has no review.
func (r *ReviewRepository) FindByOrder(db *gorm.DB, orderID uint) (*entity.Review, error) {
	var rev entity.Review
	if err := db.Where("order_id = ?", orderID).First(&rev).Error; err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *ReviewRepository) CountByUser(db *gorm.DB, userID uint) (int64, error) {
	var cnt int64
	err := db.Model(&entity.Review{}).Where("user_id = ?", userID).Count(&cnt).Error
	return cnt, err
}

type ReviewWithAuthor struct {
	entity.Review
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar"`
}

func (r *ReviewRepository) ListForProduct(productID uint, limit, offset int) ([]ReviewWithAuthor, error) {
	var reviews []entity.Review
	if err := r.DB.Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	out := make([]ReviewWithAuthor, 0, len(reviews))
	for _, rev := range reviews {
		out = append(out, ReviewWithAuthor{Review: rev, AuthorName: rev.User.Fullname, AuthorAvatar: rev.User.Avatar})
	}
	return out, nil
}

type RatingAggregate struct {
	AvgRating float64 `json:"avgRating"`
	Total     int64   `json:"total"`
}

func (r *ReviewRepository) AggregateForProduct(productID uint) (RatingAggregate, error) {
	var a RatingAggregate
	err := r.DB.Model(&entity.Review{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS total").
		Scan(&a).Error
	return a, err
}

func (r *ReviewRepository) ListForUser(userID uint, limit, offset int) ([]entity.Review, error) {
	var reviews []entity.Review
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&reviews).Error
	return reviews, err
}
