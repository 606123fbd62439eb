package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"weddingshop/cache"
	"weddingshop/entity"
	"weddingshop/repository"
	"weddingshop/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 6

// AuthService handles register, login and the caller's own profile.
type AuthService struct {
	userRepo  *repository.UserRepository
	jwtSecret string
	jwtTTL    time.Duration

	// Cache, when set, loses its statistics entries on every new account.
	Cache cache.Store
}

func NewAuthService(repo *repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo:  repo,
		jwtSecret: secret,
		jwtTTL:    ttl,
	}
}

type RegisterInput struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil && strings.Contains(email, "@")
}

// Register creates a customer account. A taken email returns ErrEmailTaken.
func (s *AuthService) Register(in RegisterInput) (*entity.User, error) {
	email := normalizeEmail(in.Email)
	fullname := strings.TrimSpace(in.Fullname)
	switch {
	case fullname == "":
		return nil, invalid("fullname", "is required")
	case !validEmail(email):
		return nil, invalid("email", "is invalid")
	case len(in.Password) < minPasswordLen:
		return nil, invalid("password", "must be at least 6 characters")
	}

	count, err := s.userRepo.CountByEmail(email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Fullname: fullname,
		Email:    email,
		Password: string(hashed),
		Phone:    strings.TrimSpace(in.Phone),
		Role:     entity.RoleUser,
		Status:   entity.UserActive,
		Type:     entity.AccountLogin,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	InvalidateStatistics(context.Background(), s.Cache)
	return user, nil
}

// Login checks the credentials and issues a JWT. Suspended accounts are refused.
func (s *AuthService) Login(email, password string) (string, *entity.User, error) {
	user, err := s.userRepo.FindByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if user.Status == entity.UserSuspended {
		return "", nil, ErrAccountSuspended
	}

	token, err := utils.GenerateToken(user.ID, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) GetProfile(userID uint) (*entity.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	return user, err
}

type ProfileInput struct {
	Fullname *string `json:"fullname"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Avatar   *string `json:"avatar"`
}

func (s *AuthService) UpdateProfile(userID uint, in ProfileInput) (*entity.User, error) {
	updates := map[string]any{}
	if in.Fullname != nil {
		name := strings.TrimSpace(*in.Fullname)
		if name == "" {
			return nil, invalid("fullname", "is required")
		}
		updates["fullname"] = name
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
	if len(updates) > 0 {
		if _, err := s.userRepo.Update(userID, updates); err != nil {
			return nil, err
		}
	}
	return s.GetProfile(userID)
}

func (s *AuthService) ChangePassword(userID uint, current, next string) error {
	if len(next) < minPasswordLen {
		return invalid("newPassword", "must be at least 6 characters")
	}
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return ErrWrongPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.userRepo.Update(userID, map[string]any{"password": string(hashed)})
	return err
}
