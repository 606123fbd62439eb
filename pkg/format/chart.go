package format

import (
	"weddingshop/pkg/normalize"
)

type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// Chart is the chart-ready reshaping of a series; RawData keeps the points it was built from.
type Chart[T any] struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
	RawData  []T       `json:"rawData"`
}

// MonthlyRevenueChart builds the revenue and order-count datasets. An empty series gives a chart
// with empty (non-nil) slices.
func MonthlyRevenueChart(points []normalize.MonthlyPoint) Chart[normalize.MonthlyPoint] {
	c := Chart[normalize.MonthlyPoint]{
		Labels:   []string{},
		Datasets: []Dataset{},
		RawData:  []normalize.MonthlyPoint{},
	}
	if len(points) == 0 {
		return c
	}

	revenue := Dataset{Label: "Revenue", Data: make([]float64, 0, len(points))}
	orders := Dataset{Label: "Orders", Data: make([]float64, 0, len(points))}
	for _, p := range points {
		c.Labels = append(c.Labels, MonthLabel(p.Month))
		revenue.Data = append(revenue.Data, float64(p.Revenue))
		orders.Data = append(orders.Data, float64(p.Orders))
	}
	c.Datasets = append(c.Datasets, revenue, orders)
	c.RawData = append(c.RawData, points...)
	return c
}

type Slice struct {
	Label      string  `json:"label"`
	Amount     int64   `json:"amount"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
	Display    string  `json:"display"`
}

// CashFlowPie lists the three payment buckets in a fixed order.
func CashFlowPie(cf normalize.CashFlow) []Slice {
	slice := func(label string, b normalize.CashFlowBucket) Slice {
		return Slice{
			Label:      label,
			Amount:     b.TotalAmount,
			Count:      b.Count,
			Percentage: b.Percentage,
			Display:    Currency(b.TotalAmount) + " (" + Percent(b.Percentage) + ")",
		}
	}
	return []Slice{
		slice("Pending", cf.Pending),
		slice("Deposit", cf.Deposit),
		slice("Full payment", cf.FullPayment),
	}
}
