package resp

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorCode is the code every failure body carries, so clients can branch on one contract.
const ErrorCode = "error"

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}

func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"ok": false, "code": ErrorCode, "message": msg})
}

func BadRequest(c *gin.Context, msg string)    { Fail(c, http.StatusBadRequest, msg) }
func Unauthorized(c *gin.Context, msg string)  { Fail(c, http.StatusUnauthorized, msg) }
func Forbidden(c *gin.Context, msg string)     { Fail(c, http.StatusForbidden, msg) }
func NotFound(c *gin.Context, msg string)      { Fail(c, http.StatusNotFound, msg) }
func Conflict(c *gin.Context, msg string)      { Fail(c, http.StatusConflict, msg) }
func Unprocessable(c *gin.Context, msg string) { Fail(c, http.StatusUnprocessableEntity, msg) }

func ServerError(c *gin.Context, err error) {
	zap.L().Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	Fail(c, http.StatusInternalServerError, err.Error())
}
