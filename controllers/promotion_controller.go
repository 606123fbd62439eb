package controllers

import (
	"weddingshop/pkg/resp"
	"weddingshop/services"
	"weddingshop/utils"

	"github.com/gin-gonic/gin"
)

type PromotionController struct {
	Promotions *services.PromotionService
}

func NewPromotionController(s *services.PromotionService) *PromotionController {
	return &PromotionController{Promotions: s}
}

// GET /promotions
func (pc *PromotionController) Active(c *gin.Context) {
	rows, err := pc.Promotions.ListActive()
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"promotions": rows})
}

// GET /admin/promotions?page=&limit=
func (pc *PromotionController) List(c *gin.Context) {
	page, limit := utils.QueryInt(c, "page", 1), utils.QueryInt(c, "limit", 20)
	rows, total, err := pc.Promotions.GetAllPromotions(page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"promotions": rows, "total": total})
}

// POST /admin/promotions
func (pc *PromotionController) Create(c *gin.Context) {
	var req services.PromotionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	p, err := pc.Promotions.CreatePromotion(req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.Created(c, gin.H{"promotion": p})
}

// PUT /admin/promotions/:id
func (pc *PromotionController) Update(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid promotion id")
		return
	}
	var req services.PromotionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	p, err := pc.Promotions.UpdatePromotion(id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"promotion": p})
}

// DELETE /admin/promotions/:id
func (pc *PromotionController) Delete(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid promotion id")
		return
	}
	if err := pc.Promotions.DeletePromotion(id); err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}
