package controllers

import (
	"mime/multipart"
	"strconv"
	"strings"

	"weddingshop/middlewares"
	"weddingshop/pkg/resp"
	"weddingshop/services"
	"weddingshop/utils"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	Reviews   *services.ReviewService
	UploadDir string
}

func NewReviewController(s *services.ReviewService, uploadDir string) *ReviewController {
	return &ReviewController{Reviews: s, UploadDir: uploadDir}
}

// ===== utils =====

func formUint(c *gin.Context, name string) uint {
	n, err := strconv.ParseUint(strings.TrimSpace(c.PostForm(name)), 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}

// reviewFiles accepts both "images" and "images[]" as the multipart field name.
func reviewFiles(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	files := append([]*multipart.FileHeader{}, form.File["images"]...)
	return append(files, form.File["images[]"]...)
}

// ===== Handlers =====

// POST /reviews/submit (multipart: productId, orderId, rating, comment, images[])
func (rc *ReviewController) Submit(c *gin.Context) {
	rating, err := strconv.Atoi(strings.TrimSpace(c.PostForm("rating")))
	if err != nil {
		resp.BadRequest(c, "rating: must be an integer between 1 and 5")
		return
	}
	files := reviewFiles(c)
	// reject before anything touches the disk
	if err := rc.Reviews.Validate(rating, len(files)); err != nil {
		writeError(c, err)
		return
	}

	images := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := utils.SaveImage(fh, rc.UploadDir, "reviews")
		if err != nil {
			utils.RemoveImages(rc.UploadDir, images)
			resp.BadRequest(c, err.Error())
			return
		}
		images = append(images, url)
	}

	res, err := rc.Reviews.Submit(c.Request.Context(), services.SubmitReviewInput{
		UserID:    utils.CurrentUserID(c),
		OrderID:   formUint(c, "orderId"),
		ProductID: formUint(c, "productId"),
		Rating:    rating,
		Comment:   c.PostForm("comment"),
		Images:    images,
	})
	if err != nil {
		// nothing was stored, so the files have no owner
		utils.RemoveImages(rc.UploadDir, images)
		writeError(c, err)
		return
	}

	middlewares.RecordReview(res.Points, res.Coupon != nil)
	resp.Created(c, res)
}

// GET /reviews/order/:orderId
func (rc *ReviewController) ByOrder(c *gin.Context) {
	orderID, ok := utils.ParamID(c, "orderId")
	if !ok {
		resp.BadRequest(c, "invalid order id")
		return
	}
	rev, err := rc.Reviews.FindByOrder(utils.CurrentUserID(c), orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"review": rev})
}

// GET /products/:id/reviews?limit=&offset=
func (rc *ReviewController) ForProduct(c *gin.Context) {
	productID, ok := utils.ParamID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid product id")
		return
	}
	out, err := rc.Reviews.ListForProduct(productID, utils.QueryInt(c, "limit", 20), utils.QueryInt(c, "offset", 0))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /profile/reviews
func (rc *ReviewController) Mine(c *gin.Context) {
	list, err := rc.Reviews.ListForUser(utils.CurrentUserID(c), utils.QueryInt(c, "limit", 20), utils.QueryInt(c, "offset", 0))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"reviews": list})
}
