package repository

import (
	"strings"
	"time"

	"weddingshop/entity"

	"gorm.io/gorm"
)

// UserRepository talks to the users table only.
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByEmail(email string) (*entity.User, error) {
	var user entity.User
	if err := r.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) CountByEmail(email string) (int64, error) {
	var count int64
	if err := r.DB.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepository) Create(user *entity.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) Update(userID uint, updates map[string]any) (int64, error) {
	res := r.DB.Model(&entity.User{}).Where("id = ?", userID).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *UserRepository) FindByID(id uint) (*entity.User, error) {
	var user entity.User
	if err := r.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Delete(id uint) (int64, error) {
	res := r.DB.Delete(&entity.User{}, id)
	return res.RowsAffected, res.Error
}

func (r *UserRepository) AddPoints(tx *gorm.DB, userID uint, points int) error {
	return tx.Model(&entity.User{}).Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", points)).Error
}

// AddCompletedOrder bumps the spending counters when one of the user's orders completes.
func (r *UserRepository) AddCompletedOrder(tx *gorm.DB, userID uint, amount int64) error {
	return tx.Model(&entity.User{}).Where("id = ?", userID).
		UpdateColumns(map[string]any{
			"total_spent": gorm.Expr("total_spent + ?", amount),
			"order_count": gorm.Expr("order_count + ?", 1),
		}).Error
}

// ---------------- Customers (admin) ----------------

type CustomerQuery struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

var customerSortColumns = map[string]string{
	"createdAt":  "created_at",
	"fullname":   "fullname",
	"email":      "email",
	"totalSpent": "total_spent",
	"points":     "points",
	"orderCount": "order_count",
}

// SortColumn maps an API sort key to its column; unknown keys fall back to created_at.
func SortColumn(key string) string {
	if col, ok := customerSortColumns[key]; ok {
		return col
	}
	return "created_at"
}

func (r *UserRepository) ListCustomers(q CustomerQuery) ([]entity.User, int64, error) {
	db := r.DB.Model(&entity.User{}).Where("role = ?", entity.RoleUser)
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		db = db.Where("LOWER(fullname) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dir := "DESC"
	if strings.EqualFold(q.SortOrder, "asc") {
		dir = "ASC"
	}
	var users []entity.User
	err := db.Order(SortColumn(q.SortBy) + " " + dir).Order("id " + dir).
		Limit(q.Limit).Offset((q.Page - 1) * q.Limit).
		Find(&users).Error
	return users, total, err
}

type CustomerStats struct {
	Total        int64 `json:"total"`
	Active       int64 `json:"active"`
	Suspended    int64 `json:"suspended"`
	NewThisMonth int64 `json:"newThisMonth"`
}

func (r *UserRepository) CustomerStats(monthStart time.Time) (*CustomerStats, error) {
	var out CustomerStats
	base := func() *gorm.DB { return r.DB.Model(&entity.User{}).Where("role = ?", entity.RoleUser) }
	if err := base().Count(&out.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", entity.UserActive).Count(&out.Active).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", entity.UserSuspended).Count(&out.Suspended).Error; err != nil {
		return nil, err
	}
	if err := base().Where("created_at >= ?", monthStart).Count(&out.NewThisMonth).Error; err != nil {
		return nil, err
	}
	return &out, nil
}
