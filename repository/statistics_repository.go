package repository

import (
	"time"

	"weddingshop/entity"

	"gorm.io/gorm"
)

// StatisticsRepository runs the read-only aggregates behind the admin dashboard. Every window is
// half-open: [start, end).
type StatisticsRepository struct {
	DB *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) *StatisticsRepository {
	return &StatisticsRepository{DB: db}
}

type RevenueRow struct {
	ID            uint      `json:"id"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	FinalTotal    int64     `json:"finalTotal"`
	CompletedAt   time.Time `json:"completedAt"`
	ItemCount     int64     `json:"itemCount"`
}

func (r *StatisticsRepository) completed(start, end time.Time) *gorm.DB {
	return r.DB.Table("orders AS o").
		Where("o.deleted_at IS NULL AND o.status = ?", entity.OrderCompleted).
		Where("o.completed_at >= ? AND o.completed_at < ?", start, end)
}

func (r *StatisticsRepository) RevenueOrders(start, end time.Time, page, limit int) ([]RevenueRow, int64, error) {
	var total int64
	if err := r.completed(start, end).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []RevenueRow
	err := r.completed(start, end).
		Select("o.id, u.fullname AS customer_name, u.email AS customer_email, o.final_total, o.completed_at, " +
			"(SELECT COALESCE(SUM(oi.quantity), 0) FROM order_items oi WHERE oi.order_id = o.id AND oi.deleted_at IS NULL) AS item_count").
		Joins("LEFT JOIN users u ON u.id = o.user_id").
		Order("o.completed_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Scan(&rows).Error
	return rows, total, err
}

type RevenueTotals struct {
	Revenue int64
	Orders  int64
}

func (r *StatisticsRepository) CompletedTotals(start, end time.Time) (RevenueTotals, error) {
	var t RevenueTotals
	err := r.completed(start, end).
		Select("COALESCE(SUM(o.final_total), 0) AS revenue, COUNT(*) AS orders").
		Scan(&t).Error
	return t, err
}

type PaymentBucket struct {
	PaymentStatus string
	TotalAmount   int64
	Count         int64
}

// PaymentBuckets groups non-cancelled orders created in the window by payment status.
func (r *StatisticsRepository) PaymentBuckets(start, end time.Time) ([]PaymentBucket, error) {
	var rows []PaymentBucket
	err := r.DB.Model(&entity.Order{}).
		Select("payment_status, COALESCE(SUM(final_total), 0) AS total_amount, COUNT(*) AS count").
		Where("status <> ?", entity.OrderCancelled).
		Where("created_at >= ? AND created_at < ?", start, end).
		Group("payment_status").
		Scan(&rows).Error
	return rows, err
}

type ProductRevenue struct {
	ProductID uint   `json:"productId"`
	Name      string `json:"name"`
	Revenue   int64  `json:"revenue"`
	UnitsSold int64  `json:"unitsSold"`
}

func (r *StatisticsRepository) TopProducts(start, end time.Time, limit int) ([]ProductRevenue, error) {
	var rows []ProductRevenue
	err := r.DB.Table("order_items AS oi").
		Select("oi.product_id, COALESCE(p.name, '') AS name, "+
			"COALESCE(SUM(oi.price * oi.quantity), 0) AS revenue, COALESCE(SUM(oi.quantity), 0) AS units_sold").
		Joins("JOIN orders o ON o.id = oi.order_id AND o.deleted_at IS NULL").
		Joins("LEFT JOIN products p ON p.id = oi.product_id").
		Where("oi.deleted_at IS NULL AND o.status = ?", entity.OrderCompleted).
		Where("o.completed_at >= ? AND o.completed_at < ?", start, end).
		Group("oi.product_id, p.name").
		Order("revenue DESC, oi.product_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

type CompletedPoint struct {
	CompletedAt time.Time
	FinalTotal  int64
}

// CompletedPoints returns raw (completedAt, finalTotal) pairs; month bucketing is left to the
// caller so it works the same on every driver.
func (r *StatisticsRepository) CompletedPoints(start, end time.Time) ([]CompletedPoint, error) {
	var rows []CompletedPoint
	err := r.completed(start, end).
		Select("o.completed_at, o.final_total").
		Order("o.completed_at ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *StatisticsRepository) CountCustomers() (int64, error) {
	var n int64
	err := r.DB.Model(&entity.User{}).Where("role = ?", entity.RoleUser).Count(&n).Error
	return n, err
}

func (r *StatisticsRepository) CountCustomersCreated(start, end time.Time) (int64, error) {
	var n int64
	err := r.DB.Model(&entity.User{}).
		Where("role = ? AND created_at >= ? AND created_at < ?", entity.RoleUser, start, end).
		Count(&n).Error
	return n, err
}

// PendingAmount is what customers still owe on live orders: the full total when nothing was paid,
// the remainder after a deposit.
func (r *StatisticsRepository) PendingAmount() (int64, error) {
	var out struct{ Amount int64 }
	err := r.DB.Model(&entity.Order{}).
		Select("COALESCE(SUM(CASE "+
			"WHEN payment_status = ? THEN final_total "+
			"WHEN payment_status = ? THEN final_total - deposit_amount "+
			"ELSE 0 END), 0) AS amount", entity.PaymentPending, entity.PaymentDeposit).
		Where("status <> ?", entity.OrderCancelled).
		Scan(&out).Error
	return out.Amount, err
}
