package configs

import (
	"fmt"
	"time"

	"weddingshop/entity"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

// OpenDB opens a connection for the given driver ("sqlite" or "postgres").
func OpenDB(driver, source string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "sqlite":
		dialector = sqlite.Open(source)
	case "postgres":
		dialector = postgres.Open(source)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
}

func ConnectionDB(cfg *Config) error {
	database, err := OpenDB(cfg.DBDriver, cfg.DBSource)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	db = database
	return nil
}

// SetupDatabase migrates the schema on the given connection.
func SetupDatabase(d *gorm.DB) error {
	return d.AutoMigrate(
		&entity.User{},
		&entity.Category{}, &entity.Product{},
		&entity.Order{}, &entity.OrderItem{},
		&entity.Review{},
		&entity.Promotion{}, &entity.UserPromotion{},
	)
}
