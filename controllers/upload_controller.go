package controllers

import (
	"weddingshop/pkg/resp"
	"weddingshop/utils"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	Root string
}

func NewUploadController(root string) *UploadController { return &UploadController{Root: root} }

// POST /upload/image (multipart field "image")
func (u *UploadController) Image(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		resp.BadRequest(c, "image file is required")
		return
	}
	url, err := utils.SaveImage(fh, u.Root, "images")
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.Created(c, gin.H{"url": url})
}
