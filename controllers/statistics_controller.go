package controllers

import (
	"weddingshop/pkg/resp"
	"weddingshop/services"
	"weddingshop/utils"

	"github.com/gin-gonic/gin"
)

// StatisticsController serves /admin/statistics/*. Every endpoint accepts startDate and endDate
// (YYYY-MM-DD, inclusive); revenue-sales also takes page and limit.
type StatisticsController struct {
	Stats *services.StatisticsService
}

func NewStatisticsController(s *services.StatisticsService) *StatisticsController {
	return &StatisticsController{Stats: s}
}

func statsFilter(c *gin.Context) services.StatisticsFilter {
	return services.StatisticsFilter{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Page:      utils.QueryInt(c, "page", 1),
		Limit:     utils.QueryInt(c, "limit", 0),
	}
}

func reply[T any](c *gin.Context, v T, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, v)
}

// GET /admin/statistics/revenue-sales
func (sc *StatisticsController) RevenueSales(c *gin.Context) {
	out, err := sc.Stats.RevenueSales(c.Request.Context(), statsFilter(c))
	reply(c, out, err)
}

// GET /admin/statistics/cash-flow
func (sc *StatisticsController) CashFlow(c *gin.Context) {
	out, err := sc.Stats.CashFlow(c.Request.Context(), statsFilter(c))
	reply(c, out, err)
}

// GET /admin/statistics/top-products
func (sc *StatisticsController) TopProducts(c *gin.Context) {
	out, err := sc.Stats.TopProducts(c.Request.Context(), statsFilter(c))
	reply(c, out, err)
}

// GET /admin/statistics/new-customers
func (sc *StatisticsController) NewCustomers(c *gin.Context) {
	out, err := sc.Stats.NewCustomers(c.Request.Context())
	reply(c, out, err)
}

// GET /admin/statistics/summary
func (sc *StatisticsController) Summary(c *gin.Context) {
	out, err := sc.Stats.Summary(c.Request.Context())
	reply(c, out, err)
}

// GET /admin/statistics/monthly-revenue
func (sc *StatisticsController) MonthlyRevenue(c *gin.Context) {
	out, err := sc.Stats.MonthlyRevenue(c.Request.Context(), statsFilter(c))
	reply(c, out, err)
}
