package controllers

import (
	"weddingshop/pkg/resp"
	"weddingshop/services"
	"weddingshop/utils"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(s *services.AuthService) *AuthController { return &AuthController{Auth: s} }

// POST /account/register
func (a *AuthController) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	user, err := a.Auth.Register(req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.Created(c, gin.H{"user": user})
}

// POST /account/login
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	token, user, err := a.Auth.Login(req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"token": token, "user": user})
}

// POST /account/logout; tokens are stateless, the client drops its copy.
func (a *AuthController) Logout(c *gin.Context) {
	resp.OK(c, gin.H{"message": "logged out"})
}

// GET /user/profile
func (a *AuthController) Profile(c *gin.Context) {
	user, err := a.Auth.GetProfile(utils.CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"user": user})
}

// PUT /user/profile
func (a *AuthController) UpdateProfile(c *gin.Context) {
	var req services.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	user, err := a.Auth.UpdateProfile(utils.CurrentUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"user": user})
}

// POST /user/change-password
func (a *AuthController) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := a.Auth.ChangePassword(utils.CurrentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "password changed"})
}
