package configs

import (
	"strings"

	"weddingshop/entity"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the first admin account from ADMIN_EMAIL / ADMIN_PASSWORD.
func SeedAdmin(d *gorm.DB, cfg *Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		zap.L().Warn("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	if err := d.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		zap.L().Info("admin already exists", zap.String("email", email))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := entity.User{
		Email:    email,
		Password: string(hash),
		Fullname: "Administrator",
		Role:     entity.RoleAdmin,
		Status:   entity.UserActive,
		Type:     entity.AccountLogin,
	}
	return d.Create(&admin).Error
}

// SeedCatalog inserts a starter set of categories when the table is empty.
func SeedCatalog(d *gorm.DB) error {
	var count int64
	if err := d.Model(&entity.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, name := range []string{"Photography", "Venue Decoration", "Bridal Makeup", "Catering"} {
		if err := d.FirstOrCreate(&entity.Category{}, entity.Category{Name: name, IsActive: true}).Error; err != nil {
			return err
		}
	}
	zap.L().Info("catalog seeded")
	return nil
}
