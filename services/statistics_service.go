package services

import (
	"context"
	"fmt"
	"time"

	"weddingshop/cache"
	"weddingshop/entity"
	"weddingshop/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	dateLayout      = "2006-01-02"
	monthLayout     = "2006-01"
	statsKeyPrefix  = "stats:"
	defaultTopLimit = 5
	monthlyWindow   = 12
)

// StatisticsFilter carries the query of every statistics endpoint. Dates are YYYY-MM-DD and
// inclusive on both ends.
type StatisticsFilter struct {
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

type StatisticsService struct {
	Repo     *repository.StatisticsRepository
	Cache    cache.Store
	CacheTTL time.Duration
	Now      func() time.Time
}

func NewStatisticsService(repo *repository.StatisticsRepository, store cache.Store, ttl time.Duration) *StatisticsService {
	return &StatisticsService{
		Repo:     repo,
		Cache:    store,
		CacheTTL: ttl,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// ===== response shapes =====

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type RevenueSales struct {
	Orders       []repository.RevenueRow `json:"orders"`
	TotalRevenue int64                   `json:"totalRevenue"`
	Pagination   Pagination              `json:"pagination"`
}

type CashFlowBucket struct {
	TotalAmount int64   `json:"totalAmount"`
	Count       int64   `json:"count"`
	Percentage  float64 `json:"percentage"`
}

type CashFlow struct {
	Pending     CashFlowBucket `json:"pending"`
	Deposit     CashFlowBucket `json:"deposit"`
	FullPayment CashFlowBucket `json:"fullPayment"`
	GrandTotal  int64          `json:"grandTotal"`
}

type TopProduct struct {
	ProductID uint   `json:"productId"`
	Name      string `json:"name"`
	Revenue   int64  `json:"revenue"`
	UnitsSold int64  `json:"unitsSold"`
	AvgPrice  int64  `json:"avgPrice"`
}

type NewCustomers struct {
	Total      int64   `json:"total"`
	ThisMonth  int64   `json:"thisMonth"`
	LastMonth  int64   `json:"lastMonth"`
	GrowthRate float64 `json:"growthRate"`
}

type Summary struct {
	ThisMonthRevenue      int64 `json:"thisMonthRevenue"`
	ThisMonthOrders       int64 `json:"thisMonthOrders"`
	PendingAmount         int64 `json:"pendingAmount"`
	NewCustomersThisMonth int64 `json:"newCustomersThisMonth"`
}

type MonthlyRevenue struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
	Orders  int64  `json:"orders"`
}

// ===== windows =====

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, invalid(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

// window resolves the filter into a half-open [start, end) range. A missing bound falls back to
// the matching bound of the default range, or to the given bound's month when the default would
// leave the range empty.
func (s *StatisticsService) window(f StatisticsFilter, defStart, defEnd time.Time) (time.Time, time.Time, error) {
	start, end := defStart, defEnd
	if f.StartDate != "" {
		t, err := parseDate("startDate", f.StartDate)
		if err != nil {
			return start, end, err
		}
		start = t
	}
	if f.EndDate != "" {
		t, err := parseDate("endDate", f.EndDate)
		if err != nil {
			return start, end, err
		}
		end = t.AddDate(0, 0, 1)
	}
	if !end.After(start) {
		switch {
		case f.StartDate != "" && f.EndDate != "":
			return start, end, invalid("endDate", "must not be before startDate")
		case f.EndDate != "":
			// only endDate: the window covers endDate's month up to it
			start = monthStart(end.AddDate(0, 0, -1))
		default:
			end = monthStart(start).AddDate(0, 1, 0)
		}
	}
	return start, end, nil
}

func (s *StatisticsService) currentMonth() (time.Time, time.Time) {
	start := monthStart(s.Now())
	return start, start.AddDate(0, 1, 0)
}

// ===== cache =====

func cached[T any](ctx context.Context, s *StatisticsService, key string, load func() (T, error)) (T, error) {
	key = statsKeyPrefix + key
	if s.Cache != nil {
		var hit T
		found, err := s.Cache.Get(ctx, key, &hit)
		if err != nil {
			zap.L().Warn("statistics cache read failed", zap.String("key", key), zap.Error(err))
		} else if found {
			return hit, nil
		}
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, v, s.CacheTTL); err != nil {
			zap.L().Warn("statistics cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}

// Invalidate drops every cached statistics result.
func (s *StatisticsService) Invalidate(ctx context.Context) {
	InvalidateStatistics(ctx, s.Cache)
}

func InvalidateStatistics(ctx context.Context, store cache.Store) {
	if store == nil {
		return
	}
	if err := store.DeletePrefix(ctx, statsKeyPrefix); err != nil {
		zap.L().Warn("statistics cache invalidation failed", zap.Error(err))
	}
}

// ===== endpoints =====

func (s *StatisticsService) RevenueSales(ctx context.Context, f StatisticsFilter) (*RevenueSales, error) {
	defStart, defEnd := s.currentMonth()
	start, end, err := s.window(f, defStart, defEnd)
	if err != nil {
		return nil, err
	}
	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	key := fmt.Sprintf("revenue-sales:%s:%s:%d:%d", start.Format(dateLayout), end.Format(dateLayout), page, limit)
	return cached(ctx, s, key, func() (*RevenueSales, error) {
		rows, total, err := s.Repo.RevenueOrders(start, end, page, limit)
		if err != nil {
			return nil, err
		}
		totals, err := s.Repo.CompletedTotals(start, end)
		if err != nil {
			return nil, err
		}
		if rows == nil {
			rows = []repository.RevenueRow{}
		}
		return &RevenueSales{
			Orders:       rows,
			TotalRevenue: totals.Revenue,
			Pagination: Pagination{
				Page:       page,
				Limit:      limit,
				Total:      total,
				TotalPages: int((total + int64(limit) - 1) / int64(limit)),
			},
		}, nil
	})
}

// percentOf returns part/whole as a percentage rounded to two decimals, 0 when whole is 0.
func percentOf(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(whole)).
		Round(2).
		InexactFloat64()
}

func (s *StatisticsService) CashFlow(ctx context.Context, f StatisticsFilter) (*CashFlow, error) {
	defStart, defEnd := s.currentMonth()
	start, end, err := s.window(f, defStart, defEnd)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("cash-flow:%s:%s", start.Format(dateLayout), end.Format(dateLayout))
	return cached(ctx, s, key, func() (*CashFlow, error) {
		buckets, err := s.Repo.PaymentBuckets(start, end)
		if err != nil {
			return nil, err
		}
		out := &CashFlow{}
		for _, b := range buckets {
			var dst *CashFlowBucket
			switch b.PaymentStatus {
			case entity.PaymentPending:
				dst = &out.Pending
			case entity.PaymentDeposit:
				dst = &out.Deposit
			case entity.PaymentPaid:
				dst = &out.FullPayment
			default:
				continue
			}
			dst.TotalAmount += b.TotalAmount
			dst.Count += b.Count
			out.GrandTotal += b.TotalAmount
		}
		for _, b := range []*CashFlowBucket{&out.Pending, &out.Deposit, &out.FullPayment} {
			b.Percentage = percentOf(b.TotalAmount, out.GrandTotal)
		}
		return out, nil
	})
}

func (s *StatisticsService) TopProducts(ctx context.Context, f StatisticsFilter) ([]TopProduct, error) {
	defStart, defEnd := s.currentMonth()
	start, end, err := s.window(f, defStart, defEnd)
	if err != nil {
		return nil, err
	}
	limit := f.Limit
	if limit < 1 || limit > 50 {
		limit = defaultTopLimit
	}

	key := fmt.Sprintf("top-products:%s:%s:%d", start.Format(dateLayout), end.Format(dateLayout), limit)
	return cached(ctx, s, key, func() ([]TopProduct, error) {
		rows, err := s.Repo.TopProducts(start, end, limit)
		if err != nil {
			return nil, err
		}
		out := make([]TopProduct, 0, len(rows))
		for _, r := range rows {
			var avg int64
			if r.UnitsSold > 0 {
				avg = decimal.NewFromInt(r.Revenue).Div(decimal.NewFromInt(r.UnitsSold)).Round(0).IntPart()
			}
			out = append(out, TopProduct{
				ProductID: r.ProductID,
				Name:      r.Name,
				Revenue:   r.Revenue,
				UnitsSold: r.UnitsSold,
				AvgPrice:  avg,
			})
		}
		return out, nil
	})
}

// growthRate is the month-over-month change in percent; 100 when growing from zero.
func growthRate(this, last int64) float64 {
	if last == 0 {
		if this > 0 {
			return 100
		}
		return 0
	}
	return decimal.NewFromInt(this - last).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(last)).
		Round(2).
		InexactFloat64()
}

func (s *StatisticsService) NewCustomers(ctx context.Context) (*NewCustomers, error) {
	thisStart, nextStart := s.currentMonth()
	lastStart := thisStart.AddDate(0, -1, 0)

	return cached(ctx, s, "new-customers:"+thisStart.Format(monthLayout), func() (*NewCustomers, error) {
		total, err := s.Repo.CountCustomers()
		if err != nil {
			return nil, err
		}
		this, err := s.Repo.CountCustomersCreated(thisStart, nextStart)
		if err != nil {
			return nil, err
		}
		last, err := s.Repo.CountCustomersCreated(lastStart, thisStart)
		if err != nil {
			return nil, err
		}
		return &NewCustomers{
			Total:      total,
			ThisMonth:  this,
			LastMonth:  last,
			GrowthRate: growthRate(this, last),
		}, nil
	})
}

func (s *StatisticsService) Summary(ctx context.Context) (*Summary, error) {
	thisStart, nextStart := s.currentMonth()

	return cached(ctx, s, "summary:"+thisStart.Format(monthLayout), func() (*Summary, error) {
		totals, err := s.Repo.CompletedTotals(thisStart, nextStart)
		if err != nil {
			return nil, err
		}
		pending, err := s.Repo.PendingAmount()
		if err != nil {
			return nil, err
		}
		newCustomers, err := s.Repo.CountCustomersCreated(thisStart, nextStart)
		if err != nil {
			return nil, err
		}
		return &Summary{
			ThisMonthRevenue:      totals.Revenue,
			ThisMonthOrders:       totals.Orders,
			PendingAmount:         pending,
			NewCustomersThisMonth: newCustomers,
		}, nil
	})
}

// MonthlyRevenue returns one zero-filled point per month, oldest first. Without a filter it
// covers the trailing twelve months including the current one.
func (s *StatisticsService) MonthlyRevenue(ctx context.Context, f StatisticsFilter) ([]MonthlyRevenue, error) {
	thisStart, nextStart := s.currentMonth()
	start, end, err := s.window(f, thisStart.AddDate(0, -(monthlyWindow-1), 0), nextStart)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("monthly-revenue:%s:%s", start.Format(dateLayout), end.Format(dateLayout))
	return cached(ctx, s, key, func() ([]MonthlyRevenue, error) {
		points, err := s.Repo.CompletedPoints(start, end)
		if err != nil {
			return nil, err
		}

		out := []MonthlyRevenue{}
		index := map[string]int{}
		last := end.Add(-time.Nanosecond)
		for m := monthStart(start); !m.After(last); m = m.AddDate(0, 1, 0) {
			index[m.Format(monthLayout)] = len(out)
			out = append(out, MonthlyRevenue{Month: m.Format(monthLayout)})
		}
		for _, p := range points {
			i, ok := index[p.CompletedAt.UTC().Format(monthLayout)]
			if !ok {
				continue
			}
			out[i].Revenue += p.FinalTotal
			out[i].Orders++
		}
		return out, nil
	})
}
