package services

import (
	"context"
	"testing"
	"time"

	"weddingshop/cache"
	"weddingshop/entity"
	"weddingshop/events"

	"github.com/stretchr/testify/require"
)

func TestCreateOrderPricesFromCatalog(t *testing.T) {
	db := newTestDB(t)
	rec := &events.Recorder{}
	svc := NewOrderService(db, rec, nil)
	u := mustCustomer(t, db, "An", "an@example.com", day("2026-03-01 09:00"))
	photo := mustProduct(t, db, "Photography", 1000)
	cake := mustProduct(t, db, "Cake", 250)

	o, err := svc.Create(context.Background(), u.ID, &CreateOrderReq{
		Items: []OrderItemIn{{ProductID: photo.ID, Quantity: 2}, {ProductID: cake.ID, Quantity: 1}},
		Note:  " morning shoot ",
	})
	require.NoError(t, err)
	require.EqualValues(t, 2250, o.Subtotal)
	require.EqualValues(t, 2250, o.FinalTotal)
	require.Equal(t, entity.OrderPending, o.Status)
	require.Equal(t, "morning shoot", o.Note)
	require.Len(t, o.Items, 2)

	require.Len(t, rec.Events, 1)
	require.Equal(t, events.OrderStatusChanged, rec.Events[0].Type)
}

func TestCreateOrderRejectsBadItems(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, nil, nil)
	u := mustCustomer(t, db, "An", "an@example.com", day("2026-03-01 09:00"))
	hidden := &entity.Product{Name: "Retired", Price: 10, IsActive: false}
	require.NoError(t, db.Create(hidden).Error)

	_, err := svc.Create(context.Background(), u.ID, &CreateOrderReq{})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), u.ID, &CreateOrderReq{Items: []OrderItemIn{{ProductID: hidden.ID, Quantity: 0}}})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), u.ID, &CreateOrderReq{Items: []OrderItemIn{{ProductID: hidden.ID, Quantity: 1}}})
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateOrderRedeemsPromotionOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, nil, nil)
	svc.Now = fixedClock(day("2026-03-15 12:00"))
	u := mustCustomer(t, db, "An", "an@example.com", day("2026-03-01 09:00"))
	photo := mustProduct(t, db, "Photography", 1000)
	promo := &entity.Promotion{Code: "SPRING10", Discount: 10, ExpiryDate: day("2026-04-01 00:00"), Quantity: 5, IsActive: true, Source: entity.PromotionFromAdmin}
	require.NoError(t, db.Create(promo).Error)

	req := &CreateOrderReq{Items: []OrderItemIn{{ProductID: photo.ID, Quantity: 1}}, PromotionCode: "SPRING10"}
	o, err := svc.Create(context.Background(), u.ID, req)
	require.NoError(t, err)
	require.EqualValues(t, 100, o.Discount)
	require.EqualValues(t, 900, o.FinalTotal)
	require.Equal(t, "SPRING10", o.PromotionCode)

	var reloaded entity.Promotion
	require.NoError(t, db.First(&reloaded, promo.ID).Error)
	require.Equal(t, 4, reloaded.Quantity)

	_, err = svc.Create(context.Background(), u.ID, req)
	require.ErrorIs(t, err, ErrPromotionUsed)

	var orders int64
	require.NoError(t, db.Model(&entity.Order{}).Count(&orders).Error)
	require.EqualValues(t, 1, orders)
}

func TestCancelOrderReturnsPromotion(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, nil, nil)
	svc.Now = fixedClock(day("2026-03-15 12:00"))
	ctx := context.Background()
	u := mustCustomer(t, db, "An", "an@example.com", day("2026-03-01 09:00"))
	photo := mustProduct(t, db, "Photography", 1000)
	coupon := &entity.Promotion{Code: "REVIEW-ABCD1234", Discount: 10, ExpiryDate: day("2026-04-01 00:00"), Quantity: 1, IsActive: true, UserID: &u.ID, Source: entity.PromotionFromReview}
	require.NoError(t, db.Create(coupon).Error)

	req := &CreateOrderReq{Items: []OrderItemIn{{ProductID: photo.ID, Quantity: 1}}, PromotionCode: coupon.Code}
	o, err := svc.Create(ctx, u.ID, req)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, u.ID, o.ID)
	require.NoError(t, err)

	var reloaded entity.Promotion
	require.NoError(t, db.First(&reloaded, coupon.ID).Error)
	require.Equal(t, 1, reloaded.Quantity)
	var up entity.UserPromotion
	require.NoError(t, db.Where("user_id = ? AND promotion_id = ?", u.ID, coupon.ID).First(&up).Error)
	require.False(t, up.IsUsed)

	again, err := svc.Create(ctx, u.ID, req)
	require.NoError(t, err)
	require.EqualValues(t, 900, again.FinalTotal)
}

func TestCreateOrderPromotionChecks(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, nil, nil)
	svc.Now = fixedClock(day("2026-03-15 12:00"))
	u := mustCustomer(t, db, "An", "an@example.com", day("2026-03-01 09:00"))
	other := mustCustomer(t, db, "Binh", "binh@example.com", day("2026-03-01 09:00"))
	photo := mustProduct(t, db, "Photography", 1000)

	promos := []*entity.Promotion{
		{Code: "OLD", Discount: 10, ExpiryDate: day("2026-03-01 00:00"), Quantity: 5, IsActive: true},
		{Code: "EMPTY", Discount: 10, ExpiryDate: day("2026-04-01 00:00"), Quantity: 0, IsActive: true},
		{Code: "OFF", Discount: 10, ExpiryDate: day("2026-04-01 00:00"), Quantity: 5, IsActive: false},
		{Code: "MINE", Discount: 10, ExpiryDate: day("2026-04-01 00:00"), Quantity: 1, IsActive: true, UserID: &other.ID},
	}
	for _, p := range promos {
		p.Source = entity.PromotionFromAdmin
		require.NoError(t, db.Create(p).Error)
	}

	cases := map[string]error{
		"NOPE":  ErrPromotionNotFound,
		"OLD":   ErrPromotionExpired,
		"EMPTY": ErrPromotionUnavailable,
		"OFF":   ErrPromotionUnavailable,
		"MINE":  ErrPromotionNotFound,
	}
	for code, want := range cases {
		_, err := svc.Create(context.Background(), u.ID, &CreateOrderReq{
			Items:         []OrderItemIn{{ProductID: photo.ID, Quantity: 1}},
			PromotionCode: code,
		})
		require.ErrorIs(t, err, want, code)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	store := cache.NewMemoryStore()
	svc := NewOrderService(db, nil, store)
	svc.Now = fixedClock(day("2026-03-15 12:00"))
	ctx := context.Background()
	u := mustCustomer(t, db, "An", "an@example.com", day("2026-03-01 09:00"))
	photo := mustProduct(t, db, "Photography", 1000)
	o := mustOrder(t, db, u, entity.OrderPending, entity.PaymentPending, day("2026-03-10 10:00"), nil, 2, photo)

	require.NoError(t, store.Set(ctx, statsKeyPrefix+"summary:2026-03", Summary{PendingAmount: 1}, time.Hour))

	_, err := svc.UpdateStatus(ctx, o.ID, entity.OrderCompleted)
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, o.ID, "shipped")
	require.ErrorIs(t, err, ErrValidation)

	for _, to := range []string{entity.OrderConfirmed, entity.OrderProcessing, entity.OrderCompleted} {
		got, err := svc.UpdateStatus(ctx, o.ID, to)
		require.NoError(t, err)
		require.Equal(t, to, got.Status)
	}

	var done entity.Order
	require.NoError(t, db.First(&done, o.ID).Error)
	require.NotNil(t, done.CompletedAt)
	require.Equal(t, day("2026-03-15 12:00"), done.CompletedAt.UTC())

	var cust entity.User
	require.NoError(t, db.First(&cust, u.ID).Error)
	require.EqualValues(t, 2000, cust.TotalSpent)
	require.Equal(t, 1, cust.OrderCount)

	_, err = svc.UpdateStatus(ctx, o.ID, entity.OrderCancelled)
	require.ErrorIs(t, err, ErrInvalidTransition)

	var s Summary
	found, err := store.Get(ctx, statsKeyPrefix+"summary:2026-03", &s)
	require.NoError(t, err)
	require.False(t, found)
}

func TestCancelOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, nil, nil)
	ctx := context.Background()
	u := mustCustomer(t, db, "An", "an@example.com", day("2026-03-01 09:00"))
	other := mustCustomer(t, db, "Binh", "binh@example.com", day("2026-03-01 09:00"))
	photo := mustProduct(t, db, "Photography", 1000)
	open := mustOrder(t, db, u, entity.OrderConfirmed, entity.PaymentPending, day("2026-03-10 10:00"), nil, 1, photo)
	busy := mustOrder(t, db, u, entity.OrderProcessing, entity.PaymentDeposit, day("2026-03-10 10:00"), nil, 1, photo)

	_, err := svc.Cancel(ctx, other.ID, open.ID)
	require.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.Cancel(ctx, u.ID, busy.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	got, err := svc.Cancel(ctx, u.ID, open.ID)
	require.NoError(t, err)
	require.Equal(t, entity.OrderCancelled, got.Status)
}

func TestUpdatePayment(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, nil, nil)
	ctx := context.Background()
	u := mustCustomer(t, db, "An", "an@example.com", day("2026-03-01 09:00"))
	photo := mustProduct(t, db, "Photography", 1000)
	o := mustOrder(t, db, u, entity.OrderConfirmed, entity.PaymentPending, day("2026-03-10 10:00"), nil, 1, photo)
	gone := mustOrder(t, db, u, entity.OrderCancelled, entity.PaymentPending, day("2026-03-10 10:00"), nil, 1, photo)

	_, err := svc.UpdatePayment(ctx, o.ID, PaymentUpdate{PaymentStatus: "refunded"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdatePayment(ctx, o.ID, PaymentUpdate{PaymentStatus: entity.PaymentDeposit, DepositAmount: ptr[int64](5000)})
	require.ErrorIs(t, err, ErrValidation)

	got, err := svc.UpdatePayment(ctx, o.ID, PaymentUpdate{PaymentStatus: entity.PaymentDeposit, DepositAmount: ptr[int64](300)})
	require.NoError(t, err)
	require.Equal(t, entity.PaymentDeposit, got.PaymentStatus)
	require.EqualValues(t, 300, got.DepositAmount)

	_, err = svc.UpdatePayment(ctx, gone.ID, PaymentUpdate{PaymentStatus: entity.PaymentPaid})
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdatePayment(ctx, 9999, PaymentUpdate{PaymentStatus: entity.PaymentPaid})
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListAllPaginates(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, nil, nil)
	u := mustCustomer(t, db, "An", "an@example.com", day("2026-03-01 09:00"))
	photo := mustProduct(t, db, "Photography", 1000)
	for i := 0; i < 3; i++ {
		mustOrder(t, db, u, entity.OrderPending, entity.PaymentPending, day("2026-03-10 10:00"), nil, 1, photo)
	}
	mustOrder(t, db, u, entity.OrderCancelled, entity.PaymentPending, day("2026-03-10 10:00"), nil, 1, photo)

	page, err := svc.ListAll(entity.OrderPending, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	require.Equal(t, Pagination{Page: 2, Limit: 2, Total: 3, TotalPages: 2}, page.Pagination)

	_, err = svc.ListAll("lost", 1, 10)
	require.ErrorIs(t, err, ErrValidation)

	mine, err := svc.ListForUser(u.ID, "")
	require.NoError(t, err)
	require.Len(t, mine, 4)
}
