package services

import (
	"strings"
	"testing"
	"time"

	"weddingshop/configs"
	"weddingshop/entity"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := configs.OpenDB("sqlite", "file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, configs.SetupDatabase(db))
	return db
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func mustCustomer(t *testing.T, db *gorm.DB, name, email string, created time.Time) *entity.User {
	t.Helper()
	u := &entity.User{
		Fullname: name, Email: email, Password: "x",
		Role: entity.RoleUser, Status: entity.UserActive, Type: entity.AccountLogin,
	}
	u.CreatedAt = created
	require.NoError(t, db.Create(u).Error)
	return u
}

func mustProduct(t *testing.T, db *gorm.DB, name string, price int64) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: name, Price: price, IsActive: true}
	require.NoError(t, db.Create(p).Error)
	return p
}

// mustOrder inserts an order with one line per product, quantity qty each.
func mustOrder(t *testing.T, db *gorm.DB, u *entity.User, status, payment string, created time.Time, completed *time.Time, qty int, products ...*entity.Product) *entity.Order {
	t.Helper()
	o := &entity.Order{Status: status, PaymentStatus: payment, UserID: u.ID, CompletedAt: completed}
	o.CreatedAt = created
	for _, p := range products {
		o.Items = append(o.Items, entity.OrderItem{ProductID: p.ID, Quantity: qty, Price: p.Price})
		o.Subtotal += p.Price * int64(qty)
	}
	o.FinalTotal = o.Subtotal
	require.NoError(t, db.Create(o).Error)
	return o
}

func ptr[T any](v T) *T { return &v }
