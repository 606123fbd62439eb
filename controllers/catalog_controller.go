package controllers

import (
	"weddingshop/pkg/resp"
	"weddingshop/repository"
	"weddingshop/services"
	"weddingshop/utils"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	Catalog *services.CatalogService
}

func NewCatalogController(s *services.CatalogService) *CatalogController {
	return &CatalogController{Catalog: s}
}

// ---------- public ----------

// GET /categories
func (cc *CatalogController) ActiveCategories(c *gin.Context) {
	rows, err := cc.Catalog.ListCategories(true)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"categories": rows})
}

// GET /products?categoryId=&search=
func (cc *CatalogController) ActiveProducts(c *gin.Context) {
	rows, err := cc.Catalog.ListProducts(repository.ProductFilter{
		CategoryID: uint(max(utils.QueryInt(c, "categoryId", 0), 0)),
		Search:     c.Query("search"),
		OnlyActive: true,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"products": rows})
}

// GET /products/:id
func (cc *CatalogController) Product(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid product id")
		return
	}
	p, err := cc.Catalog.GetProduct(id)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"product": p})
}

// ---------- admin: categories ----------

func (cc *CatalogController) AllCategories(c *gin.Context) {
	rows, err := cc.Catalog.ListCategories(false)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"categories": rows})
}

func (cc *CatalogController) CreateCategory(c *gin.Context) {
	var req services.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	cat, err := cc.Catalog.CreateCategory(req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.Created(c, gin.H{"category": cat})
}

func (cc *CatalogController) UpdateCategory(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid category id")
		return
	}
	var req services.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	cat, err := cc.Catalog.UpdateCategory(id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"category": cat})
}

func (cc *CatalogController) DeleteCategory(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid category id")
		return
	}
	if err := cc.Catalog.DeleteCategory(id); err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}

// ---------- admin: products ----------

func (cc *CatalogController) AllProducts(c *gin.Context) {
	rows, err := cc.Catalog.ListProducts(repository.ProductFilter{
		CategoryID: uint(max(utils.QueryInt(c, "categoryId", 0), 0)),
		Search:     c.Query("search"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"products": rows})
}

func (cc *CatalogController) CreateProduct(c *gin.Context) {
	var req services.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	p, err := cc.Catalog.CreateProduct(req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.Created(c, gin.H{"product": p})
}

func (cc *CatalogController) UpdateProduct(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid product id")
		return
	}
	var req services.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	p, err := cc.Catalog.UpdateProduct(id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"product": p})
}

func (cc *CatalogController) DeleteProduct(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid product id")
		return
	}
	if err := cc.Catalog.DeleteProduct(id); err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}
