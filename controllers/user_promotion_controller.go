package controllers

import (
	"weddingshop/pkg/resp"
	"weddingshop/services"
	"weddingshop/utils"

	"github.com/gin-gonic/gin"
)

type UserPromotionController struct {
	userPromotionService *services.UserPromotionService
}

func NewUserPromotionController(s *services.UserPromotionService) *UserPromotionController {
	return &UserPromotionController{userPromotionService: s}
}

// ---------- POST /user/promotions/:id ----------
func (ctrl *UserPromotionController) SavePromotion(c *gin.Context) {
	promoID, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid promotion id")
		return
	}
	if err := ctrl.userPromotionService.SavePromotion(utils.CurrentUserID(c), promoID); err != nil {
		writeError(c, err)
		return
	}
	resp.Created(c, gin.H{"message": "promotion saved"})
}

// ---------- GET /user/promotions ----------
func (ctrl *UserPromotionController) List(c *gin.Context) {
	rows, err := ctrl.userPromotionService.List(utils.CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"promotions": rows})
}
