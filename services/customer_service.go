package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"weddingshop/cache"
	"weddingshop/entity"
	"weddingshop/repository"

	"gorm.io/gorm"
)

// CustomerService is the admin side of user accounts with role user.
type CustomerService struct {
	Users *repository.UserRepository
	Cache cache.Store
	Now   func() time.Time
}

func NewCustomerService(repo *repository.UserRepository) *CustomerService {
	return &CustomerService{Users: repo, Now: func() time.Time { return time.Now().UTC() }}
}

type CustomerPage struct {
	Customers  []entity.User `json:"customers"`
	Pagination Pagination    `json:"pagination"`
}

func (s *CustomerService) List(q repository.CustomerQuery) (*CustomerPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 10
	}
	users, total, err := s.Users.ListCustomers(q)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []entity.User{}
	}
	return &CustomerPage{
		Customers: users,
		Pagination: Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: int((total + int64(q.Limit) - 1) / int64(q.Limit)),
		},
	}, nil
}

func (s *CustomerService) Stats() (*repository.CustomerStats, error) {
	return s.Users.CustomerStats(monthStart(s.Now()))
}

func (s *CustomerService) Get(id uint) (*entity.User, error) {
	user, err := s.Users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	if user.Role != entity.RoleUser {
		return nil, ErrCustomerNotFound
	}
	return user, nil
}

type CustomerUpdate struct {
	Fullname *string `json:"fullname"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Avatar   *string `json:"avatar"`
	Points   *int    `json:"points"`
}

func (s *CustomerService) Update(id uint, in CustomerUpdate) (*entity.User, error) {
	current, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Fullname != nil {
		name := strings.TrimSpace(*in.Fullname)
		if name == "" {
			return nil, invalid("fullname", "is required")
		}
		updates["fullname"] = name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if !validEmail(email) {
			return nil, invalid("email", "is invalid")
		}
		if email != current.Email {
			n, err := s.Users.CountByEmail(email)
			if err != nil {
				return nil, err
			}
			if n > 0 {
				return nil, ErrEmailTaken
			}
		}
		updates["email"] = email
	}
	if in.Phone != nil {
		updates["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		updates["address"] = strings.TrimSpace(*in.Address)
	}
	if in.Avatar != nil {
		updates["avatar"] = strings.TrimSpace(*in.Avatar)
	}
	if in.Points != nil {
		if *in.Points < 0 {
			return nil, invalid("points", "must not be negative")
		}
		updates["points"] = *in.Points
	}

	if len(updates) > 0 {
		if _, err := s.Users.Update(id, updates); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrEmailTaken
			}
			return nil, err
		}
	}
	return s.Get(id)
}

func (s *CustomerService) SetStatus(id uint, status string) (*entity.User, error) {
	if status != entity.UserActive && status != entity.UserSuspended {
		return nil, invalid("status", "must be active or suspended")
	}
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	if _, err := s.Users.Update(id, map[string]any{"status": status}); err != nil {
		return nil, err
	}
	InvalidateStatistics(context.Background(), s.Cache)
	return s.Get(id)
}

// Delete soft-deletes the customer.
func (s *CustomerService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if _, err := s.Users.Delete(id); err != nil {
		return err
	}
	InvalidateStatistics(context.Background(), s.Cache)
	return nil
}
