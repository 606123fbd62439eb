package services

import (
	"errors"
	"strings"
	"time"

	"weddingshop/entity"
	"weddingshop/repository"

	"gorm.io/gorm"
)

type PromotionService struct {
	Repo *repository.PromotionRepository
	Now  func() time.Time
}

func NewPromotionService(db *gorm.DB) *PromotionService {
	return &PromotionService{
		Repo: repository.NewPromotionRepository(db),
		Now:  func() time.Time { return time.Now().UTC() },
	}
}

type PromotionInput struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Discount    int    `json:"discount"`
	ExpiryDate  string `json:"expiryDate"` // RFC 3339 or YYYY-MM-DD
	Quantity    int    `json:"quantity"`
	IsActive    *bool  `json:"isActive"`
	UserID      *uint  `json:"userId"`
}

func parseExpiry(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, invalid("expiryDate", "must be a valid date")
	}
	// a bare date stays valid through the end of that day
	return t.Add(24*time.Hour - time.Second), nil
}

func (in PromotionInput) apply(p *entity.Promotion) error {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	switch {
	case code == "":
		return invalid("code", "is required")
	case in.Discount < 1 || in.Discount > 100:
		return invalid("discount", "must be between 1 and 100")
	case in.Quantity < 1:
		return invalid("quantity", "must be greater than 0")
	}
	expiry, err := parseExpiry(in.ExpiryDate)
	if err != nil {
		return err
	}
	p.Code = code
	p.Description = strings.TrimSpace(in.Description)
	p.Discount = in.Discount
	p.ExpiryDate = expiry
	p.Quantity = in.Quantity
	p.UserID = in.UserID
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return nil
}

func (s *PromotionService) CreatePromotion(in PromotionInput) (*entity.Promotion, error) {
	p := &entity.Promotion{IsActive: true, Source: entity.PromotionFromAdmin}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(s.Repo.DB, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPromotionCodeTaken
		}
		return nil, err
	}
	return p, nil
}

func (s *PromotionService) GetAllPromotions(page, limit int) ([]entity.Promotion, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Repo.FindAll(page, limit)
}

// ListActive is the public list: global, active, in stock and not expired.
func (s *PromotionService) ListActive() ([]entity.Promotion, error) {
	return s.Repo.FindActiveGlobal(s.Now())
}

func (s *PromotionService) GetPromotion(id uint) (*entity.Promotion, error) {
	p, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPromotionNotFound
	}
	return p, err
}

func (s *PromotionService) UpdatePromotion(id uint, in PromotionInput) (*entity.Promotion, error) {
	p, err := s.GetPromotion(id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPromotionCodeTaken
		}
		return nil, err
	}
	return p, nil
}

func (s *PromotionService) DeletePromotion(id uint) error {
	n, err := s.Repo.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPromotionNotFound
	}
	return nil
}
