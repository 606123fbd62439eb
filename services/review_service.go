package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"weddingshop/configs"
	"weddingshop/entity"
	"weddingshop/events"
	"weddingshop/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const couponPrefix = "REVIEW-"

// ReviewService creates reviews and pays out the reward in the same transaction.
type ReviewService struct {
	DB         *gorm.DB
	Reviews    *repository.ReviewRepository
	Orders     *repository.OrderRepository
	Users      *repository.UserRepository
	Promotions *repository.PromotionRepository

	Reward    configs.RewardConfig
	MaxImages int
	Events    events.Publisher
	Now       func() time.Time
}

func NewReviewService(db *gorm.DB, cfg *configs.Config, pub events.Publisher) *ReviewService {
	if pub == nil {
		pub = events.Noop{}
	}
	return &ReviewService{
		DB:         db,
		Reviews:    repository.NewReviewRepository(db),
		Orders:     repository.NewOrderRepository(db),
		Users:      repository.NewUserRepository(db),
		Promotions: repository.NewPromotionRepository(db),
		Reward:     cfg.Reward,
		MaxImages:  cfg.MaxReviewImages,
		Events:     pub,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

type SubmitReviewInput struct {
	UserID    uint
	OrderID   uint
	ProductID uint
	Rating    int
	Comment   string
	Images    []string
}

// SubmitResult is the created review plus whatever it earned.
type SubmitResult struct {
	Review *entity.Review    `json:"review"`
	Points int               `json:"points,omitempty"`
	Coupon *entity.Promotion `json:"coupon,omitempty"`
}

// Validate checks the fields that need no database access. Controllers call it before storing
// uploaded files.
func (s *ReviewService) Validate(rating, imageCount int) error {
	if rating < 1 || rating > 5 {
		return invalid("rating", "must be an integer between 1 and 5")
	}
	if imageCount > s.MaxImages {
		return invalid("images", "too many images")
	}
	return nil
}

func (s *ReviewService) Submit(ctx context.Context, in SubmitReviewInput) (*SubmitResult, error) {
	if err := s.Validate(in.Rating, len(in.Images)); err != nil {
		return nil, err
	}
	if in.OrderID == 0 {
		return nil, invalid("orderId", "is required")
	}
	if in.ProductID == 0 {
		return nil, invalid("productId", "is required")
	}

	out := &SubmitResult{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.Orders.GetOrderForUser(tx, in.UserID, in.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status != entity.OrderCompleted {
			return ErrOrderNotCompleted
		}
		ok, err := s.Orders.HasProduct(tx, order.ID, in.ProductID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrProductNotInOrder
		}

		if _, err := s.Reviews.FindByOrder(tx, order.ID); err == nil {
			return ErrReviewExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		previous, err := s.Reviews.CountByUser(tx, in.UserID)
		if err != nil {
			return err
		}

		images := in.Images
		if images == nil {
			images = []string{}
		}
		review := &entity.Review{
			Rating:    in.Rating,
			Comment:   strings.TrimSpace(in.Comment),
			Images:    images,
			OrderID:   order.ID,
			ProductID: in.ProductID,
			UserID:    in.UserID,
		}
		if err := s.Reviews.Create(tx, review); err != nil {
			// the unique index on order_id catches a concurrent submit
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrReviewExists
			}
			return err
		}
		out.Review = review

		if s.Reward.Points > 0 {
			if err := s.Users.AddPoints(tx, in.UserID, s.Reward.Points); err != nil {
				return err
			}
			out.Points = s.Reward.Points
		}

		if s.couponEligible(in.Rating, previous) {
			coupon, err := s.issueCoupon(tx, in.UserID)
			if err != nil {
				return err
			}
			out.Coupon = coupon
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, in.UserID, out)
	return out, nil
}

// couponEligible: coupons go to the customer's first review only, and only for a good rating.
func (s *ReviewService) couponEligible(rating int, previousReviews int64) bool {
	return s.Reward.CouponEnabled && rating >= s.Reward.CouponMinRating && previousReviews == 0
}

func (s *ReviewService) issueCoupon(tx *gorm.DB, userID uint) (*entity.Promotion, error) {
	uid := userID
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	coupon := &entity.Promotion{
		Code:        couponPrefix + strings.ToUpper(raw[:8]),
		Description: "Thank you for your review",
		Discount:    s.Reward.CouponDiscount,
		ExpiryDate:  s.Now().AddDate(0, 0, s.Reward.CouponValidDays),
		Quantity:    1,
		IsActive:    true,
		Source:      entity.PromotionFromReview,
		UserID:      &uid,
	}
	if err := s.Promotions.Create(tx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *ReviewService) publish(ctx context.Context, userID uint, res *SubmitResult) {
	at := s.Now()
	if err := s.Events.Publish(ctx, events.TopicReviews, events.Event{
		Type: events.ReviewCreated, UserID: userID, Payload: res.Review, At: at,
	}); err != nil {
		zap.L().Warn("publish review event failed", zap.Uint("reviewId", res.Review.ID), zap.Error(err))
	}
	if res.Points == 0 && res.Coupon == nil {
		return
	}
	if err := s.Events.Publish(ctx, events.TopicReviews, events.Event{
		Type:    events.ReviewRewarded,
		UserID:  userID,
		Payload: map[string]any{"points": res.Points, "coupon": res.Coupon},
		At:      at,
	}); err != nil {
		zap.L().Warn("publish reward event failed", zap.Uint("userId", userID), zap.Error(err))
	}
}

// FindByOrder returns the caller's review for an order, or nil when there is none yet.
func (s *ReviewService) FindByOrder(userID, orderID uint) (*entity.Review, error) {
	if _, err := s.Orders.GetOrderForUser(s.DB, userID, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	rev, err := s.Reviews.FindByOrder(s.DB, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return rev, err
}

type ProductReviews struct {
	Reviews []repository.ReviewWithAuthor `json:"reviews"`
	repository.RatingAggregate
}

func (s *ReviewService) ListForProduct(productID uint, limit, offset int) (*ProductReviews, error) {
	limit, offset = clampWindow(limit, offset)
	list, err := s.Reviews.ListForProduct(productID, limit, offset)
	if err != nil {
		return nil, err
	}
	agg, err := s.Reviews.AggregateForProduct(productID)
	if err != nil {
		return nil, err
	}
	return &ProductReviews{Reviews: list, RatingAggregate: agg}, nil
}

func (s *ReviewService) ListForUser(userID uint, limit, offset int) ([]entity.Review, error) {
	limit, offset = clampWindow(limit, offset)
	return s.Reviews.ListForUser(userID, limit, offset)
}

func clampWindow(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
