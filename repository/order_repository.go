package repository

import (
	"time"

	"weddingshop/entity"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) GetOrder(db *gorm.DB, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := db.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrderForUser loads an order owned by userID together with its items and their products.
func (r *OrderRepository) GetOrderForUser(db *gorm.DB, userID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := db.Preload("Items.Product").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

type OrderSummary struct {
	ID            uint       `json:"id"`
	Status        string     `json:"orderStatus"`
	PaymentStatus string     `json:"paymentStatus"`
	FinalTotal    int64      `json:"finalTotal"`
	CreatedAt     time.Time  `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	Reviewed      bool       `json:"reviewed"`
}

func (r *OrderRepository) ListOrdersForUser(userID uint, status string, limit int) ([]OrderSummary, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := r.DB.Table("orders AS o").
		Select("o.id, o.status, o.payment_status, o.final_total, o.created_at, o.completed_at, " +
			"EXISTS (SELECT 1 FROM reviews rv WHERE rv.order_id = o.id AND rv.deleted_at IS NULL) AS reviewed").
		Where("o.user_id = ? AND o.deleted_at IS NULL", userID)
	if status != "" {
		q = q.Where("o.status = ?", status)
	}
	var out []OrderSummary
	err := q.Order("o.id DESC").Limit(limit).Scan(&out).Error
	return out, err
}

type AdminOrderSummary struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"userId"`
	CustomerName  string    `json:"customerName"`
	Status        string    `json:"orderStatus"`
	PaymentStatus string    `json:"paymentStatus"`
	FinalTotal    int64     `json:"finalTotal"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (r *OrderRepository) ListOrders(status string, page, limit int) ([]AdminOrderSummary, int64, error) {
	base := func() *gorm.DB {
		q := r.DB.Table("orders AS o").Where("o.deleted_at IS NULL")
		if status != "" {
			q = q.Where("o.status = ?", status)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []AdminOrderSummary
	err := base().
		Select("o.id, o.user_id, u.fullname AS customer_name, o.status, o.payment_status, o.final_total, o.created_at").
		Joins("LEFT JOIN users u ON u.id = o.user_id").
		Order("o.id DESC").Limit(limit).Offset((page - 1) * limit).
		Scan(&rows).Error
	return rows, total, err
}

// UpdateStatusGuard moves an order from one status to another; zero rows affected means the
// order was not in status from.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from, to string, extra map[string]any) (int64, error) {
	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *OrderRepository) UpdatePayment(orderID uint, status string, deposit *int64) (int64, error) {
	updates := map[string]any{"payment_status": status}
	if deposit != nil {
		updates["deposit_amount"] = *deposit
	}
	res := r.DB.Model(&entity.Order{}).
		Where("id = ? AND status <> ?", orderID, entity.OrderCancelled).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// ---------------- Order Items ----------------

func (r *OrderRepository) CreateOrderItems(tx *gorm.DB, items []entity.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

func (r *OrderRepository) HasProduct(db *gorm.DB, orderID, productID uint) (bool, error) {
	var cnt int64
	if err := db.Model(&entity.OrderItem{}).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}
