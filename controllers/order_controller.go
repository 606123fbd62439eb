package controllers

import (
	"weddingshop/pkg/resp"
	"weddingshop/services"
	"weddingshop/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(s *services.OrderService) *OrderController {
	return &OrderController{Orders: s}
}

// POST /orders
func (oc *OrderController) Create(c *gin.Context) {
	var req services.CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := oc.Orders.Create(c.Request.Context(), utils.CurrentUserID(c), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.Created(c, gin.H{"order": order})
}

// GET /orders?status=
func (oc *OrderController) ListMine(c *gin.Context) {
	rows, err := oc.Orders.ListForUser(utils.CurrentUserID(c), c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"orders": rows})
}

// GET /orders/:id
func (oc *OrderController) Detail(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid order id")
		return
	}
	order, err := oc.Orders.DetailForUser(utils.CurrentUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"order": order})
}

// PUT /orders/:id/cancel
func (oc *OrderController) Cancel(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid order id")
		return
	}
	order, err := oc.Orders.Cancel(c.Request.Context(), utils.CurrentUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"order": order})
}
