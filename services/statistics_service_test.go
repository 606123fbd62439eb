package services

import (
	"context"
	"testing"
	"time"

	"weddingshop/cache"
	"weddingshop/entity"
	"weddingshop/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedStatistics builds the shop state seen on 2026-03-15:
//
//	completed  2026-03-05  3 x photography (1000)  paid
//	completed  2026-02-20  1 x makeup (500)        paid
//	pending    2026-03-10  2 x photography          payment pending
//	confirmed  2026-03-11  4 x photography          deposit 1000
//	cancelled  2026-03-12  9 x makeup               never counted
func seedStatistics(t *testing.T) (*gorm.DB, *StatisticsService) {
	t.Helper()
	db := newTestDB(t)

	a := mustCustomer(t, db, "An", "an@example.com", day("2026-03-02 09:00"))
	mustCustomer(t, db, "Binh", "binh@example.com", day("2026-02-10 09:00"))
	mustCustomer(t, db, "Chi", "chi@example.com", day("2025-12-01 09:00"))
	admin := &entity.User{Email: "admin@example.com", Role: entity.RoleAdmin, Status: entity.UserActive, Type: entity.AccountLogin}
	admin.CreatedAt = day("2026-03-01 08:00")
	require.NoError(t, db.Create(admin).Error)

	photo := mustProduct(t, db, "Photography", 1000)
	makeup := mustProduct(t, db, "Makeup", 500)

	mustOrder(t, db, a, entity.OrderCompleted, entity.PaymentPaid, day("2026-03-01 10:00"), ptr(day("2026-03-05 10:00")), 3, photo)
	mustOrder(t, db, a, entity.OrderCompleted, entity.PaymentPaid, day("2026-02-15 10:00"), ptr(day("2026-02-20 10:00")), 1, makeup)
	mustOrder(t, db, a, entity.OrderPending, entity.PaymentPending, day("2026-03-10 10:00"), nil, 2, photo)
	dep := mustOrder(t, db, a, entity.OrderConfirmed, entity.PaymentDeposit, day("2026-03-11 10:00"), nil, 4, photo)
	require.NoError(t, db.Model(dep).Update("deposit_amount", 1000).Error)
	mustOrder(t, db, a, entity.OrderCancelled, entity.PaymentPending, day("2026-03-12 10:00"), nil, 9, makeup)

	svc := NewStatisticsService(repository.NewStatisticsRepository(db), nil, time.Minute)
	svc.Now = fixedClock(day("2026-03-15 12:00"))
	return db, svc
}

func TestRevenueSalesDefaultsToCurrentMonth(t *testing.T) {
	_, svc := seedStatistics(t)

	out, err := svc.RevenueSales(context.Background(), StatisticsFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 3000, out.TotalRevenue)
	require.Len(t, out.Orders, 1)
	require.Equal(t, "An", out.Orders[0].CustomerName)
	require.EqualValues(t, 3, out.Orders[0].ItemCount)
	require.Equal(t, Pagination{Page: 1, Limit: 10, Total: 1, TotalPages: 1}, out.Pagination)
}

func TestRevenueSalesInclusiveEndDate(t *testing.T) {
	_, svc := seedStatistics(t)

	out, err := svc.RevenueSales(context.Background(), StatisticsFilter{StartDate: "2026-02-01", EndDate: "2026-03-05", Limit: 1})
	require.NoError(t, err)
	require.EqualValues(t, 3500, out.TotalRevenue)
	require.Len(t, out.Orders, 1)
	require.Equal(t, 2, out.Pagination.TotalPages)

	out, err = svc.RevenueSales(context.Background(), StatisticsFilter{StartDate: "2026-02-01", EndDate: "2026-03-04"})
	require.NoError(t, err)
	require.EqualValues(t, 500, out.TotalRevenue)
}

func TestStatisticsSingleBoundUsesItsMonth(t *testing.T) {
	_, svc := seedStatistics(t)
	ctx := context.Background()

	out, err := svc.RevenueSales(ctx, StatisticsFilter{EndDate: "2026-02-25"})
	require.NoError(t, err)
	require.EqualValues(t, 500, out.TotalRevenue)
	require.Len(t, out.Orders, 1)

	flow, err := svc.CashFlow(ctx, StatisticsFilter{StartDate: "2026-04-02"})
	require.NoError(t, err)
	require.Zero(t, flow.GrandTotal)

	// a later start inside the default month keeps the default end
	out, err = svc.RevenueSales(ctx, StatisticsFilter{StartDate: "2026-03-05"})
	require.NoError(t, err)
	require.EqualValues(t, 3000, out.TotalRevenue)
}

func TestStatisticsRejectsBadDates(t *testing.T) {
	_, svc := seedStatistics(t)
	ctx := context.Background()

	_, err := svc.RevenueSales(ctx, StatisticsFilter{StartDate: "15/03/2026"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CashFlow(ctx, StatisticsFilter{StartDate: "2026-03-10", EndDate: "2026-03-01"})
	require.ErrorIs(t, err, ErrValidation)

	var fe *FieldError
	_, err = svc.MonthlyRevenue(ctx, StatisticsFilter{EndDate: "2026-13-01"})
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "endDate", fe.Field)
}

func TestCashFlowBuckets(t *testing.T) {
	_, svc := seedStatistics(t)

	out, err := svc.CashFlow(context.Background(), StatisticsFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 9000, out.GrandTotal)
	require.Equal(t, CashFlowBucket{TotalAmount: 2000, Count: 1, Percentage: 22.22}, out.Pending)
	require.Equal(t, CashFlowBucket{TotalAmount: 4000, Count: 1, Percentage: 44.44}, out.Deposit)
	require.Equal(t, CashFlowBucket{TotalAmount: 3000, Count: 1, Percentage: 33.33}, out.FullPayment)

	sum := out.Pending.Percentage + out.Deposit.Percentage + out.FullPayment.Percentage
	require.InDelta(t, 100, sum, 0.05)
}

func TestCashFlowEmptyWindow(t *testing.T) {
	_, svc := seedStatistics(t)

	out, err := svc.CashFlow(context.Background(), StatisticsFilter{StartDate: "2025-01-01", EndDate: "2025-01-31"})
	require.NoError(t, err)
	require.Equal(t, CashFlow{}, *out)
}

func TestTopProducts(t *testing.T) {
	_, svc := seedStatistics(t)

	out, err := svc.TopProducts(context.Background(), StatisticsFilter{StartDate: "2026-02-01", EndDate: "2026-03-31"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "Photography", out[0].Name)
	require.EqualValues(t, 3000, out[0].Revenue)
	require.EqualValues(t, 3, out[0].UnitsSold)
	require.EqualValues(t, 1000, out[0].AvgPrice)
	require.Equal(t, "Makeup", out[1].Name)

	out, err = svc.TopProducts(context.Background(), StatisticsFilter{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestNewCustomersAndSummary(t *testing.T) {
	_, svc := seedStatistics(t)
	ctx := context.Background()

	nc, err := svc.NewCustomers(ctx)
	require.NoError(t, err)
	require.Equal(t, NewCustomers{Total: 3, ThisMonth: 1, LastMonth: 1, GrowthRate: 0}, *nc)

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, Summary{
		ThisMonthRevenue:      3000,
		ThisMonthOrders:       1,
		PendingAmount:         2000 + (4000 - 1000),
		NewCustomersThisMonth: 1,
	}, *sum)
}

func TestMonthlyRevenueZeroFilled(t *testing.T) {
	_, svc := seedStatistics(t)

	out, err := svc.MonthlyRevenue(context.Background(), StatisticsFilter{})
	require.NoError(t, err)
	require.Len(t, out, 12)
	require.Equal(t, MonthlyRevenue{Month: "2025-04"}, out[0])
	require.Equal(t, MonthlyRevenue{Month: "2026-02", Revenue: 500, Orders: 1}, out[10])
	require.Equal(t, MonthlyRevenue{Month: "2026-03", Revenue: 3000, Orders: 1}, out[11])

	out, err = svc.MonthlyRevenue(context.Background(), StatisticsFilter{StartDate: "2026-01-10", EndDate: "2026-02-28"})
	require.NoError(t, err)
	require.Equal(t, []MonthlyRevenue{
		{Month: "2026-01"},
		{Month: "2026-02", Revenue: 500, Orders: 1},
	}, out)
}

func TestStatisticsCacheInvalidatedOnOrderChange(t *testing.T) {
	db, svc := seedStatistics(t)
	store := cache.NewMemoryStore()
	svc.Cache = store
	ctx := context.Background()

	first, err := svc.Summary(ctx)
	require.NoError(t, err)

	orders := NewOrderService(db, nil, store)
	orders.Now = svc.Now
	var pending entity.Order
	require.NoError(t, db.Where("status = ?", entity.OrderPending).First(&pending).Error)
	_, err = orders.UpdateStatus(ctx, pending.ID, entity.OrderCancelled)
	require.NoError(t, err)

	second, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, first.PendingAmount-2000, second.PendingAmount)
}

func TestStatisticsCacheInvalidatedOnCustomerChange(t *testing.T) {
	db, svc := seedStatistics(t)
	store := cache.NewMemoryStore()
	svc.Cache = store
	ctx := context.Background()

	first, err := svc.NewCustomers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, first.Total)

	users := repository.NewUserRepository(db)
	auth := NewAuthService(users, "secret", time.Hour)
	auth.Cache = store
	u, err := auth.Register(RegisterInput{Fullname: "Dung", Email: "dung@example.com", Password: "secret1"})
	require.NoError(t, err)

	afterRegister, err := svc.NewCustomers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 4, afterRegister.Total)

	key := statsKeyPrefix + "new-customers:2026-03"
	var hit NewCustomers
	found, err := store.Get(ctx, key, &hit)
	require.NoError(t, err)
	require.True(t, found)

	customers := NewCustomerService(users)
	customers.Cache = store
	_, err = customers.SetStatus(u.ID, entity.UserSuspended)
	require.NoError(t, err)
	found, err = store.Get(ctx, key, &hit)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, customers.Delete(u.ID))
	afterDelete, err := svc.NewCustomers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, afterDelete.Total)
}

func TestStatisticsCacheServesRepeatReads(t *testing.T) {
	db, svc := seedStatistics(t)
	svc.Cache = cache.NewMemoryStore()
	ctx := context.Background()

	first, err := svc.NewCustomers(ctx)
	require.NoError(t, err)

	mustCustomer(t, db, "Dung", "dung@example.com", day("2026-03-14 09:00"))
	cachedRes, err := svc.NewCustomers(ctx)
	require.NoError(t, err)
	require.Equal(t, first, cachedRes)

	svc.Invalidate(ctx)
	fresh, err := svc.NewCustomers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, fresh.ThisMonth)
	require.Equal(t, 100.0, fresh.GrowthRate)
}

func TestGrowthRate(t *testing.T) {
	require.Equal(t, 0.0, growthRate(0, 0))
	require.Equal(t, 100.0, growthRate(7, 0))
	require.Equal(t, 50.0, growthRate(150, 100))
	require.Equal(t, -66.67, growthRate(1, 3))
}

func TestPercentOf(t *testing.T) {
	require.Equal(t, 0.0, percentOf(5, 0))
	require.Equal(t, 33.33, percentOf(1, 3))
	require.Equal(t, 66.67, percentOf(2, 3))
}
