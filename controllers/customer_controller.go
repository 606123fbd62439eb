package controllers

import (
	"weddingshop/pkg/resp"
	"weddingshop/repository"
	"weddingshop/services"
	"weddingshop/utils"

	"github.com/gin-gonic/gin"
)

type CustomerController struct {
	Customers *services.CustomerService
}

func NewCustomerController(s *services.CustomerService) *CustomerController {
	return &CustomerController{Customers: s}
}

// GET /admin/customers?page=&limit=&search=&sortBy=&sortOrder=
func (cc *CustomerController) List(c *gin.Context) {
	out, err := cc.Customers.List(repository.CustomerQuery{
		Page:      utils.QueryInt(c, "page", 1),
		Limit:     utils.QueryInt(c, "limit", 10),
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /admin/customers/stats
func (cc *CustomerController) Stats(c *gin.Context) {
	out, err := cc.Customers.Stats()
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, out)
}

func (cc *CustomerController) customerID(c *gin.Context) (uint, bool) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid customer id")
	}
	return id, ok
}

// GET /admin/customers/:id
func (cc *CustomerController) Get(c *gin.Context) {
	id, ok := cc.customerID(c)
	if !ok {
		return
	}
	user, err := cc.Customers.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"customer": user})
}

// PUT /admin/customers/:id
func (cc *CustomerController) Update(c *gin.Context) {
	id, ok := cc.customerID(c)
	if !ok {
		return
	}
	var req services.CustomerUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	user, err := cc.Customers.Update(id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"customer": user})
}

// PATCH /admin/customers/:id/status {"status":"active|suspended"}
func (cc *CustomerController) SetStatus(c *gin.Context) {
	id, ok := cc.customerID(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	user, err := cc.Customers.SetStatus(id, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"customer": user})
}

// DELETE /admin/customers/:id
func (cc *CustomerController) Delete(c *gin.Context) {
	id, ok := cc.customerID(c)
	if !ok {
		return
	}
	if err := cc.Customers.Delete(id); err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}
