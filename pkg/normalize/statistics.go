package normalize

import (
	"fmt"
	"math"
	"sort"
)

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// PaginationFrom reads {page,limit,total,totalPages} from m.pagination, falling back to the same
// keys on m itself. Page defaults to 1, limit to defLimit, totalPages to ceil(total/limit).
func PaginationFrom(m map[string]any, defLimit int) Pagination {
	src := obj(m["pagination"])
	if src == nil {
		src = obj(m["meta"])
	}
	if src == nil {
		src = m
	}
	p := Pagination{
		Page:       int(integer(src, "page", "currentPage")),
		Limit:      int(integer(src, "limit", "pageSize", "perPage")),
		Total:      integer(src, "total", "totalItems", "count"),
		TotalPages: int(integer(src, "totalPages", "pages")),
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defLimit
	}
	if p.TotalPages == 0 && p.Total > 0 && p.Limit > 0 {
		p.TotalPages = int((p.Total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return p
}

// ===== revenue-sales =====

type RevenueOrder struct {
	ID            string `json:"id"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	FinalTotal    int64  `json:"finalTotal"`
	CompletedAt   string `json:"completedAt"`
	ItemCount     int64  `json:"itemCount"`
}

type RevenueSales struct {
	Orders       []RevenueOrder `json:"orders"`
	TotalRevenue int64          `json:"totalRevenue"`
	Pagination   Pagination     `json:"pagination"`
}

// RevenueSales fallbacks: rows from orders ?? items ?? rows (or a bare array); totalRevenue ??
// revenue ?? sum of rows; customerName ?? customer.fullname ?? user.fullname; finalTotal ??
// total ?? amount; itemCount ?? quantity ?? len(items).
func RevenueSalesFrom(v any) RevenueSales {
	v = unwrapData(v)
	m := obj(v)
	rows := list(v, "orders", "items", "rows")

	out := RevenueSales{Orders: make([]RevenueOrder, 0, len(rows))}
	var sum int64
	for _, r := range rows {
		o := obj(r)
		if o == nil {
			continue
		}
		row := RevenueOrder{
			ID:            str(o, "id", "_id", "ID", "orderId"),
			CustomerName:  str(o, "customerName"),
			CustomerEmail: str(o, "customerEmail"),
			FinalTotal:    integer(o, "finalTotal", "total", "amount"),
			CompletedAt:   str(o, "completedAt", "updatedAt", "createdAt"),
			ItemCount:     integer(o, "itemCount", "quantity"),
		}
		if row.CustomerName == "" {
			row.CustomerName = nested(o, "customer", "fullname", "name")
		}
		if row.CustomerName == "" {
			row.CustomerName = nested(o, "user", "fullname", "name")
		}
		if row.CustomerEmail == "" {
			row.CustomerEmail = nested(o, "customer", "email")
		}
		if row.CustomerEmail == "" {
			row.CustomerEmail = nested(o, "user", "email")
		}
		if row.ItemCount == 0 {
			row.ItemCount = int64(len(list(o["items"])))
		}
		sum += row.FinalTotal
		out.Orders = append(out.Orders, row)
	}

	if _, ok := first(m, "totalRevenue", "revenue"); ok {
		out.TotalRevenue = integer(m, "totalRevenue", "revenue")
	} else {
		out.TotalRevenue = sum
	}
	out.Pagination = PaginationFrom(m, 10)
	if out.Pagination.Total == 0 && len(out.Orders) > 0 && m["pagination"] == nil {
		out.Pagination.Total = int64(len(out.Orders))
		out.Pagination.TotalPages = int((out.Pagination.Total + int64(out.Pagination.Limit) - 1) / int64(out.Pagination.Limit))
	}
	return out
}

// ===== cash-flow =====

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

func bucketFrom(v any) (CashFlowBucket, bool) {
	m := obj(v)
	if m == nil {
		if f, ok := toFloat(v); ok {
			return CashFlowBucket{TotalAmount: int64(math.Round(f))}, false
		}
		return CashFlowBucket{}, false
	}
	_, hasPct := first(m, "percentage", "percent")
	return CashFlowBucket{
		TotalAmount: integer(m, "totalAmount", "amount", "total"),
		Count:       integer(m, "count", "orders", "orderCount"),
		Percentage:  round2(num(m, "percentage", "percent")),
	}, hasPct
}

// CashFlowFrom buckets: pending; deposit ?? depositConfirmed ?? deposited; fullPayment ?? paid ??
// fullyPaid. grandTotal ?? total ?? sum of buckets. Missing percentages are derived from the
// amounts.
func CashFlowFrom(v any) CashFlow {
	m := obj(unwrapData(v))
	var out CashFlow
	var pcts [3]bool

	raw, _ := first(m, "pending")
	out.Pending, pcts[0] = bucketFrom(raw)
	raw, _ = first(m, "deposit", "depositConfirmed", "deposited")
	out.Deposit, pcts[1] = bucketFrom(raw)
	raw, _ = first(m, "fullPayment", "paid", "fullyPaid")
	out.FullPayment, pcts[2] = bucketFrom(raw)

	if _, ok := first(m, "grandTotal", "total"); ok {
		out.GrandTotal = integer(m, "grandTotal", "total")
	} else {
		out.GrandTotal = out.Pending.TotalAmount + out.Deposit.TotalAmount + out.FullPayment.TotalAmount
	}

	buckets := []*CashFlowBucket{&out.Pending, &out.Deposit, &out.FullPayment}
	for i, b := range buckets {
		if !pcts[i] && out.GrandTotal > 0 {
			b.Percentage = round2(float64(b.TotalAmount) * 100 / float64(out.GrandTotal))
		}
	}
	return out
}

// ===== top-products =====

type TopProduct struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Revenue   int64  `json:"revenue"`
	UnitsSold int64  `json:"unitsSold"`
	AvgPrice  int64  `json:"avgPrice"`
}

// TopProductsFrom fallbacks: list from a bare array ?? products ?? items; productId ?? _id ?? id;
// name ?? productName ?? product.name; revenue ?? amount ?? total; unitsSold ?? quantity ?? sold
// ?? count; avgPrice ?? averagePrice ?? revenue/unitsSold.
func TopProductsFrom(v any) []TopProduct {
	rows := list(unwrapData(v), "products", "items", "topProducts")
	out := make([]TopProduct, 0, len(rows))
	for _, r := range rows {
		o := obj(r)
		if o == nil {
			continue
		}
		p := TopProduct{
			ProductID: str(o, "productId", "_id", "id"),
			Name:      str(o, "name", "productName"),
			Revenue:   integer(o, "revenue", "amount", "total"),
			UnitsSold: integer(o, "unitsSold", "quantity", "sold", "count"),
			AvgPrice:  integer(o, "avgPrice", "averagePrice"),
		}
		if p.Name == "" {
			p.Name = nested(o, "product", "name")
		}
		if p.AvgPrice == 0 && p.UnitsSold > 0 {
			p.AvgPrice = int64(math.Round(float64(p.Revenue) / float64(p.UnitsSold)))
		}
		out = append(out, p)
	}
	return out
}

// ===== new-customers =====

type NewCustomers struct {
	Total      int64   `json:"total"`
	ThisMonth  int64   `json:"thisMonth"`
	LastMonth  int64   `json:"lastMonth"`
	GrowthRate float64 `json:"growthRate"`
}

// NewCustomersFrom fallbacks: total ?? totalCustomers; thisMonth ?? currentMonth ?? newThisMonth;
// lastMonth ?? previousMonth; growthRate ?? growth.
func NewCustomersFrom(v any) NewCustomers {
	m := obj(unwrapData(v))
	return NewCustomers{
		Total:      integer(m, "total", "totalCustomers"),
		ThisMonth:  integer(m, "thisMonth", "currentMonth", "newThisMonth"),
		LastMonth:  integer(m, "lastMonth", "previousMonth"),
		GrowthRate: round2(num(m, "growthRate", "growth")),
	}
}

// ===== summary =====

type Summary struct {
	ThisMonthRevenue      int64 `json:"thisMonthRevenue"`
	ThisMonthOrders       int64 `json:"thisMonthOrders"`
	PendingAmount         int64 `json:"pendingAmount"`
	NewCustomersThisMonth int64 `json:"newCustomersThisMonth"`
}

// SummaryFrom fallbacks: thisMonthRevenue ?? revenue ?? monthlyRevenue; thisMonthOrders ?? orders
// ?? orderCount; pendingAmount ?? pending; newCustomersThisMonth ?? newCustomers.
func SummaryFrom(v any) Summary {
	m := obj(unwrapData(v))
	return Summary{
		ThisMonthRevenue:      integer(m, "thisMonthRevenue", "revenue", "monthlyRevenue"),
		ThisMonthOrders:       integer(m, "thisMonthOrders", "orders", "orderCount"),
		PendingAmount:         integer(m, "pendingAmount", "pending"),
		NewCustomersThisMonth: integer(m, "newCustomersThisMonth", "newCustomers"),
	}
}

// ===== monthly-revenue =====

type MonthlyPoint struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
	Orders  int64  `json:"orders"`
}

func monthKey(o map[string]any) string {
	for _, k := range []string{"month", "_id", "label", "period"} {
		switch v := o[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any:
			y, mo := integer(v, "year"), integer(v, "month")
			if y > 0 && mo > 0 {
				return fmt.Sprintf("%04d-%02d", y, mo)
			}
		}
	}
	y, mo := integer(o, "year"), integer(o, "month")
	if y > 0 && mo > 0 {
		return fmt.Sprintf("%04d-%02d", y, mo)
	}
	return ""
}

// MonthlyRevenueFrom fallbacks: list from a bare array ?? months ?? series ?? items; month ?? _id
// ?? label ?? period ({year,month} objects become YYYY-MM); revenue ?? amount ?? total; orders ??
// count ?? orderCount. Points are sorted ascending by month.
func MonthlyRevenueFrom(v any) []MonthlyPoint {
	rows := list(unwrapData(v), "months", "series", "items", "monthlyRevenue")
	out := make([]MonthlyPoint, 0, len(rows))
	for _, r := range rows {
		o := obj(r)
		if o == nil {
			continue
		}
		out = append(out, MonthlyPoint{
			Month:   monthKey(o),
			Revenue: integer(o, "revenue", "amount", "total"),
			Orders:  integer(o, "orders", "count", "orderCount"),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
