package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"weddingshop/cache"
	"weddingshop/entity"
	"weddingshop/events"
	"weddingshop/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderService struct {
	DB         *gorm.DB
	Repo       *repository.OrderRepository
	Products   *repository.ProductRepository
	Promotions *repository.PromotionRepository
	Users      *repository.UserRepository

	Events events.Publisher
	Cache  cache.Store // statistics cache, invalidated on every order change
	Now    func() time.Time
}

func NewOrderService(db *gorm.DB, pub events.Publisher, store cache.Store) *OrderService {
	if pub == nil {
		pub = events.Noop{}
	}
	return &OrderService{
		DB:         db,
		Repo:       repository.NewOrderRepository(db),
		Products:   repository.NewProductRepository(db),
		Promotions: repository.NewPromotionRepository(db),
		Users:      repository.NewUserRepository(db),
		Events:     pub,
		Cache:      store,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

// ----- DTOs from Controller -----
type OrderItemIn struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type CreateOrderReq struct {
	Items         []OrderItemIn `json:"items"`
	PromotionCode string        `json:"promotionCode"`
	Note          string        `json:"note"`
}

// ----- Create -----
func (s *OrderService) Create(ctx context.Context, userID uint, req *CreateOrderReq) (*entity.Order, error) {
	if len(req.Items) == 0 {
		return nil, invalid("items", "is required")
	}
	ids := make([]uint, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return nil, invalid("quantity", "must be at least 1")
		}
		ids = append(ids, it.ProductID)
	}

	products, err := s.Products.FindActiveByIDs(ids)
	if err != nil {
		return nil, err
	}

	var subtotal int64
	items := make([]entity.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}
		subtotal += p.Price * int64(it.Quantity)
		items = append(items, entity.OrderItem{ProductID: p.ID, Quantity: it.Quantity, Price: p.Price})
	}

	order := &entity.Order{
		Status:        entity.OrderPending,
		PaymentStatus: entity.PaymentPending,
		Subtotal:      subtotal,
		FinalTotal:    subtotal,
		Note:          strings.TrimSpace(req.Note),
		UserID:        userID,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if code := strings.TrimSpace(req.PromotionCode); code != "" {
			promo, err := s.redeem(tx, userID, code)
			if err != nil {
				return err
			}
			order.PromotionCode = promo.Code
			order.Discount = subtotal * int64(promo.Discount) / 100
			order.FinalTotal = subtotal - order.Discount
		}

		if err := s.Repo.CreateOrder(tx, order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := s.Repo.CreateOrderItems(tx, items); err != nil {
			return err
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.changed(ctx, order, "")
	return order, nil
}

// redeem validates a promotion for the user and consumes it, inside tx.
func (s *OrderService) redeem(tx *gorm.DB, userID uint, code string) (*entity.Promotion, error) {
	promo, err := s.Promotions.FindByCode(tx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromotionNotFound
		}
		return nil, err
	}
	if promo.UserID != nil && *promo.UserID != userID {
		return nil, ErrPromotionNotFound
	}
	if promo.Expired(s.Now()) {
		return nil, ErrPromotionExpired
	}
	if !promo.IsActive || promo.Quantity <= 0 {
		return nil, ErrPromotionUnavailable
	}

	up, err := s.Promotions.FindUserPromotion(tx, userID, promo.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.Promotions.SaveForUser(tx, &entity.UserPromotion{
			UserID: userID, PromotionID: promo.ID, IsUsed: true,
		}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrPromotionUsed
			}
			return nil, err
		}
	case err != nil:
		return nil, err
	case up.IsUsed:
		return nil, ErrPromotionUsed
	default:
		if err := s.Promotions.MarkUsed(tx, up); err != nil {
			return nil, err
		}
	}

	affected, err := s.Promotions.DecrementQuantity(tx, promo.ID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrPromotionUnavailable
	}
	return promo, nil
}

// restore undoes redeem for a cancelled order. A promotion deleted since then is skipped.
func (s *OrderService) restore(tx *gorm.DB, userID uint, code string) error {
	promo, err := s.Promotions.FindByCode(tx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.Promotions.IncrementQuantity(tx, promo.ID); err != nil {
		return err
	}
	return s.Promotions.MarkUnused(tx, userID, promo.ID)
}

// ----- List & Detail -----
func (s *OrderService) ListForUser(userID uint, status string) ([]repository.OrderSummary, error) {
	if status != "" && !entity.IsOrderStatus(status) {
		return nil, invalid("status", "is not a valid order status")
	}
	rows, err := s.Repo.ListOrdersForUser(userID, status, 0)
	if rows == nil {
		rows = []repository.OrderSummary{}
	}
	return rows, err
}

func (s *OrderService) DetailForUser(userID, orderID uint) (*entity.Order, error) {
	o, err := s.Repo.GetOrderForUser(s.DB, userID, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

type AdminOrderPage struct {
	Orders     []repository.AdminOrderSummary `json:"orders"`
	Pagination Pagination                     `json:"pagination"`
}

func (s *OrderService) ListAll(status string, page, limit int) (*AdminOrderPage, error) {
	if status != "" && !entity.IsOrderStatus(status) {
		return nil, invalid("status", "is not a valid order status")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	rows, total, err := s.Repo.ListOrders(status, page, limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.AdminOrderSummary{}
	}
	return &AdminOrderPage{
		Orders: rows,
		Pagination: Pagination{
			Page: page, Limit: limit, Total: total,
			TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		},
	}, nil
}

// ----- Transitions -----

// Cancel lets the owner cancel an order that has not started processing.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uint) (*entity.Order, error) {
	o, err := s.DetailForUser(userID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != entity.OrderPending && o.Status != entity.OrderConfirmed {
		return nil, ErrInvalidTransition
	}
	return s.transition(ctx, o, entity.OrderCancelled)
}

// UpdateStatus is the admin transition along pending → confirmed → processing → completed, with
// cancellation allowed before completion.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, to string) (*entity.Order, error) {
	if !entity.IsOrderStatus(to) {
		return nil, invalid("status", "is not a valid order status")
	}
	o, err := s.Repo.GetOrder(s.DB, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !entity.CanTransition(o.Status, to) {
		return nil, ErrInvalidTransition
	}
	return s.transition(ctx, o, to)
}

func (s *OrderService) transition(ctx context.Context, o *entity.Order, to string) (*entity.Order, error) {
	from := o.Status
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		extra := map[string]any{}
		var completedAt time.Time
		if to == entity.OrderCompleted {
			completedAt = s.Now()
			extra["completed_at"] = completedAt
		}

		affected, err := s.Repo.UpdateStatusGuard(tx, o.ID, from, to, extra)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInvalidTransition
		}

		if to == entity.OrderCompleted {
			if err := s.Users.AddCompletedOrder(tx, o.UserID, o.FinalTotal); err != nil {
				return err
			}
			o.CompletedAt = &completedAt
		}
		if to == entity.OrderCancelled && o.PromotionCode != "" {
			if err := s.restore(tx, o.UserID, o.PromotionCode); err != nil {
				return err
			}
		}
		o.Status = to
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.changed(ctx, o, from)
	return o, nil
}

type PaymentUpdate struct {
	PaymentStatus string `json:"paymentStatus"`
	DepositAmount *int64 `json:"depositAmount"`
}

func (s *OrderService) UpdatePayment(ctx context.Context, orderID uint, in PaymentUpdate) (*entity.Order, error) {
	if !entity.IsPaymentStatus(in.PaymentStatus) {
		return nil, invalid("paymentStatus", "must be pending, deposit or paid")
	}
	o, err := s.Repo.GetOrder(s.DB, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if in.DepositAmount != nil && (*in.DepositAmount < 0 || *in.DepositAmount > o.FinalTotal) {
		return nil, invalid("depositAmount", "must be between 0 and the order total")
	}

	affected, err := s.Repo.UpdatePayment(o.ID, in.PaymentStatus, in.DepositAmount)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInvalidTransition
	}
	o.PaymentStatus = in.PaymentStatus
	if in.DepositAmount != nil {
		o.DepositAmount = *in.DepositAmount
	}

	InvalidateStatistics(ctx, s.Cache)
	return o, nil
}

// changed runs after a committed order change: statistics are stale and the owner is told.
func (s *OrderService) changed(ctx context.Context, o *entity.Order, from string) {
	InvalidateStatistics(ctx, s.Cache)

	err := s.Events.Publish(ctx, events.TopicOrders, events.Event{
		Type:   events.OrderStatusChanged,
		UserID: o.UserID,
		Payload: map[string]any{
			"orderId": o.ID,
			"from":    from,
			"to":      o.Status,
		},
		At: s.Now(),
	})
	if err != nil {
		zap.L().Warn("publish order event failed", zap.Uint("orderId", o.ID), zap.Error(err))
	}
}
