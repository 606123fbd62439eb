package state

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"sync"

	"weddingshop/pkg/apiclient"
	"weddingshop/pkg/format"
	"weddingshop/pkg/normalize"

	"golang.org/x/sync/errgroup"
)

const (
	MetricRevenueSales   = "revenue-sales"
	MetricCashFlow       = "cash-flow"
	MetricTopProducts    = "top-products"
	MetricNewCustomers   = "new-customers"
	MetricSummary        = "summary"
	MetricMonthlyRevenue = "monthly-revenue"
)

const statisticsPath = "/admin/statistics/"

// Filter is the dashboard query; empty fields are left to the server defaults.
type Filter struct {
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, inclusive
	Page      int
	Limit     int // revenue-sales page size
	TopLimit  int // top-products ranking length
}

func (f Filter) values() url.Values {
	q := url.Values{}
	if f.StartDate != "" {
		q.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("endDate", f.EndDate)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// Slot is one independently loaded statistic.
type Slot[T any] struct {
	Data    T
	Loading bool
	Err     error
}

type StatisticsSnapshot struct {
	RevenueSales   Slot[normalize.RevenueSales]
	CashFlow       Slot[normalize.CashFlow]
	TopProducts    Slot[[]normalize.TopProduct]
	NewCustomers   Slot[normalize.NewCustomers]
	Summary        Slot[normalize.Summary]
	MonthlyRevenue Slot[[]normalize.MonthlyPoint]
	Filter         Filter
}

// Statistics is the admin dashboard state. A failed fetch only touches its own slot.
type Statistics struct {
	api    *apiclient.Client
	notify Notifier

	mu  sync.Mutex
	gen uint64
	s   StatisticsSnapshot
}

func NewStatistics(api *apiclient.Client, n Notifier) *Statistics {
	st := &Statistics{api: api, notify: notifierOr(n)}
	st.s.RevenueSales.Data = normalize.RevenueSalesFrom(nil)
	st.s.TopProducts.Data = []normalize.TopProduct{}
	st.s.MonthlyRevenue.Data = []normalize.MonthlyPoint{}
	return st
}

// fetch loads one endpoint into the slot picked by pick. On failure the slot keeps its previous
// data and records the error.
func fetch[T any](ctx context.Context, s *Statistics, metric string, q url.Values, pick func(*StatisticsSnapshot) *Slot[T], norm func(any) T) (T, error) {
	s.mu.Lock()
	pick(&s.s).Loading = true
	gen := s.gen
	s.mu.Unlock()

	var raw any
	err := s.api.Get(ctx, statisticsPath+metric, q, &raw)
	var v T
	if err == nil {
		v = norm(raw)
	}

	s.mu.Lock()
	if gen == s.gen {
		slot := pick(&s.s)
		slot.Loading = false
		if err != nil {
			slot.Err = err
		} else {
			slot.Data = v
			slot.Err = nil
		}
	}
	s.mu.Unlock()
	return v, err
}

func (s *Statistics) FetchRevenueSales(ctx context.Context, f Filter) (normalize.RevenueSales, error) {
	return fetch(ctx, s, MetricRevenueSales, f.values(),
		func(x *StatisticsSnapshot) *Slot[normalize.RevenueSales] { return &x.RevenueSales },
		normalize.RevenueSalesFrom)
}

func (s *Statistics) FetchCashFlow(ctx context.Context, f Filter) (normalize.CashFlow, error) {
	return fetch(ctx, s, MetricCashFlow, dateValues(f),
		func(x *StatisticsSnapshot) *Slot[normalize.CashFlow] { return &x.CashFlow },
		normalize.CashFlowFrom)
}

func (s *Statistics) FetchTopProducts(ctx context.Context, f Filter) ([]normalize.TopProduct, error) {
	q := dateValues(f)
	if f.TopLimit > 0 {
		q.Set("limit", strconv.Itoa(f.TopLimit))
	}
	return fetch(ctx, s, MetricTopProducts, q,
		func(x *StatisticsSnapshot) *Slot[[]normalize.TopProduct] { return &x.TopProducts },
		normalize.TopProductsFrom)
}

func (s *Statistics) FetchNewCustomers(ctx context.Context) (normalize.NewCustomers, error) {
	return fetch(ctx, s, MetricNewCustomers, nil,
		func(x *StatisticsSnapshot) *Slot[normalize.NewCustomers] { return &x.NewCustomers },
		normalize.NewCustomersFrom)
}

func (s *Statistics) FetchSummary(ctx context.Context) (normalize.Summary, error) {
	return fetch(ctx, s, MetricSummary, nil,
		func(x *StatisticsSnapshot) *Slot[normalize.Summary] { return &x.Summary },
		normalize.SummaryFrom)
}

func (s *Statistics) FetchMonthlyRevenue(ctx context.Context, f Filter) ([]normalize.MonthlyPoint, error) {
	return fetch(ctx, s, MetricMonthlyRevenue, dateValues(f),
		func(x *StatisticsSnapshot) *Slot[[]normalize.MonthlyPoint] { return &x.MonthlyRevenue },
		normalize.MonthlyRevenueFrom)
}

// FetchMonthlyRevenueChart is FetchMonthlyRevenue reshaped for a chart.
func (s *Statistics) FetchMonthlyRevenueChart(ctx context.Context, f Filter) (format.Chart[normalize.MonthlyPoint], error) {
	points, err := s.FetchMonthlyRevenue(ctx, f)
	if err != nil {
		return format.MonthlyRevenueChart(nil), err
	}
	return format.MonthlyRevenueChart(points), nil
}

func dateValues(f Filter) url.Values {
	return Filter{StartDate: f.StartDate, EndDate: f.EndDate}.values()
}

// settle runs every task concurrently and waits for all of them; failures never cancel the
// others. It returns the failed tasks by name and notifies each one.
func (s *Statistics) settle(tasks map[string]func() error) map[string]error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs = map[string]error{}
	)
	for name, task := range tasks {
		g.Go(func() error {
			if err := task(); err != nil {
				mu.Lock()
				errs[name] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, name := range sortedKeys(errs) {
		s.notify.Error(name + ": " + message(errs[name]))
	}
	return errs
}

// ApplyFilter reloads the four date-filtered statistics with f.
func (s *Statistics) ApplyFilter(ctx context.Context, f Filter) map[string]error {
	s.mu.Lock()
	s.s.Filter = f
	s.mu.Unlock()

	return s.settle(map[string]func() error{
		MetricRevenueSales:   func() error { _, err := s.FetchRevenueSales(ctx, f); return err },
		MetricCashFlow:       func() error { _, err := s.FetchCashFlow(ctx, f); return err },
		MetricTopProducts:    func() error { _, err := s.FetchTopProducts(ctx, f); return err },
		MetricMonthlyRevenue: func() error { _, err := s.FetchMonthlyRevenue(ctx, f); return err },
	})
}

// FetchAll loads all six statistics with the current filter.
func (s *Statistics) FetchAll(ctx context.Context) map[string]error {
	s.mu.Lock()
	f := s.s.Filter
	s.mu.Unlock()

	return s.settle(map[string]func() error{
		MetricRevenueSales:   func() error { _, err := s.FetchRevenueSales(ctx, f); return err },
		MetricCashFlow:       func() error { _, err := s.FetchCashFlow(ctx, f); return err },
		MetricTopProducts:    func() error { _, err := s.FetchTopProducts(ctx, f); return err },
		MetricNewCustomers:   func() error { _, err := s.FetchNewCustomers(ctx); return err },
		MetricSummary:        func() error { _, err := s.FetchSummary(ctx); return err },
		MetricMonthlyRevenue: func() error { _, err := s.FetchMonthlyRevenue(ctx, f); return err },
	})
}

// Release drops results of requests still in flight and clears loading flags.
func (s *Statistics) Release() {
	s.mu.Lock()
	s.gen++
	s.s.RevenueSales.Loading = false
	s.s.CashFlow.Loading = false
	s.s.TopProducts.Loading = false
	s.s.NewCustomers.Loading = false
	s.s.Summary.Loading = false
	s.s.MonthlyRevenue.Loading = false
	s.mu.Unlock()
}

func (s *Statistics) Snapshot() StatisticsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.s
}

// MonthlyChart reshapes the loaded monthly series.
func (s *Statistics) MonthlyChart() format.Chart[normalize.MonthlyPoint] {
	return format.MonthlyRevenueChart(s.Snapshot().MonthlyRevenue.Data)
}

func sortedKeys(m map[string]error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
