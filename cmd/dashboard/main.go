// Command dashboard is a console view of the admin statistics. It signs in with the client SDK,
// applies a date filter and logs the normalized results.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"weddingshop/pkg/apiclient"
	"weddingshop/pkg/format"
	"weddingshop/pkg/state"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	v := viper.New()
	v.SetEnvPrefix("DASHBOARD")
	v.AutomaticEnv()
	home, _ := os.UserHomeDir()
	v.SetDefault("API_URL", "http://localhost:8000")
	v.SetDefault("SESSION_FILE", filepath.Join(home, ".wedding", "session.json"))
	v.SetDefault("TIMEOUT", "30s")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, v.GetDuration("TIMEOUT"))
	defer cancel()

	client := apiclient.New(v.GetString("API_URL"),
		apiclient.NewFileSession(v.GetString("SESSION_FILE")),
		apiclient.WithLogger(logger),
	)

	if email := v.GetString("EMAIL"); email != "" {
		if _, err := client.Login(ctx, email, v.GetString("PASSWORD")); err != nil {
			logger.Fatal("login failed", zap.Error(err))
		}
		logger.Info("signed in", zap.String("email", email))
	}

	stats := state.NewStatistics(client, state.LogNotifier{Logger: logger})
	filter := state.Filter{StartDate: v.GetString("START_DATE"), EndDate: v.GetString("END_DATE")}
	start := time.Now()
	stats.ApplyFilter(ctx, filter)
	stats.FetchNewCustomers(ctx)
	stats.FetchSummary(ctx)
	snap := stats.Snapshot()
	logger.Info("statistics loaded", zap.Duration("took", time.Since(start)))

	if s := snap.Summary; s.Err == nil {
		logger.Info("summary",
			zap.String("thisMonthRevenue", format.Currency(s.Data.ThisMonthRevenue)),
			zap.Int64("thisMonthOrders", s.Data.ThisMonthOrders),
			zap.String("pendingAmount", format.Currency(s.Data.PendingAmount)),
			zap.Int64("newCustomersThisMonth", s.Data.NewCustomersThisMonth),
		)
	}
	if nc := snap.NewCustomers; nc.Err == nil {
		logger.Info("new customers",
			zap.Int64("total", nc.Data.Total),
			zap.Int64("thisMonth", nc.Data.ThisMonth),
			zap.String("growth", format.Percent(nc.Data.GrowthRate)),
		)
	}
	if rs := snap.RevenueSales; rs.Err == nil {
		logger.Info("revenue",
			zap.String("total", format.Currency(rs.Data.TotalRevenue)),
			zap.Int64("orders", rs.Data.Pagination.Total),
		)
	}
	if cf := snap.CashFlow; cf.Err == nil {
		for _, sl := range format.CashFlowPie(cf.Data) {
			logger.Info("cash flow", zap.String("bucket", sl.Label), zap.String("amount", sl.Display))
		}
	}
	if tp := snap.TopProducts; tp.Err == nil {
		for i, p := range tp.Data {
			logger.Info("top product",
				zap.Int("rank", i+1),
				zap.String("name", p.Name),
				zap.String("revenue", format.Currency(p.Revenue)),
				zap.Int64("unitsSold", p.UnitsSold),
			)
		}
	}
	chart := stats.MonthlyChart()
	for i, label := range chart.Labels {
		logger.Info("month", zap.String("month", label), zap.String("revenue", format.Currency(chart.RawData[i].Revenue)))
	}
}
