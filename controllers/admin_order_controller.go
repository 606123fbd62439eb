package controllers

import (
	"weddingshop/pkg/resp"
	"weddingshop/services"
	"weddingshop/utils"

	"github.com/gin-gonic/gin"
)

type AdminOrderController struct {
	Orders *services.OrderService
}

func NewAdminOrderController(s *services.OrderService) *AdminOrderController {
	return &AdminOrderController{Orders: s}
}

// GET /admin/orders?status=&page=&limit=
func (ac *AdminOrderController) List(c *gin.Context) {
	out, err := ac.Orders.ListAll(c.Query("status"), utils.QueryInt(c, "page", 1), utils.QueryInt(c, "limit", 20))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, out)
}

// PATCH /admin/orders/:id/status {"status":"confirmed"}
func (ac *AdminOrderController) UpdateStatus(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid order id")
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := ac.Orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"order": order})
}

// PATCH /admin/orders/:id/payment {"paymentStatus":"deposit","depositAmount":500000}
func (ac *AdminOrderController) UpdatePayment(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid order id")
		return
	}
	var req services.PaymentUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := ac.Orders.UpdatePayment(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"order": order})
}
