package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"weddingshop/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func authRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/p", AuthMiddleware("s3cret", roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": utils.CurrentUserID(c), "role": utils.CurrentRole(c)})
	})
	r.GET("/ws", WSAuthMiddleware("s3cret"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func call(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	userTok, err := utils.GenerateToken(7, "user", "s3cret", time.Hour)
	require.NoError(t, err)
	adminTok, err := utils.GenerateToken(1, "admin", "s3cret", time.Hour)
	require.NoError(t, err)
	foreign, err := utils.GenerateToken(7, "admin", "other", time.Hour)
	require.NoError(t, err)
	expired, err := utils.GenerateToken(7, "user", "s3cret", -time.Minute)
	require.NoError(t, err)

	open := authRouter()
	require.Equal(t, http.StatusUnauthorized, call(open, "/p", "").Code)
	require.Equal(t, http.StatusUnauthorized, call(open, "/p", "Token "+userTok).Code)
	require.Equal(t, http.StatusUnauthorized, call(open, "/p", "Bearer "+foreign).Code)
	require.Equal(t, http.StatusUnauthorized, call(open, "/p", "Bearer "+expired).Code)

	w := call(open, "/p", "Bearer "+userTok)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"userId":7,"role":"user"}`, w.Body.String())

	admin := authRouter("admin")
	w = call(admin, "/p", "Bearer "+userTok)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.JSONEq(t, `{"ok":false,"code":"error","message":"forbidden"}`, w.Body.String())
	require.Equal(t, http.StatusOK, call(admin, "/p", "Bearer "+adminTok).Code)
}

func TestWSAuthAcceptsQueryToken(t *testing.T) {
	tok, err := utils.GenerateToken(7, "user", "s3cret", time.Hour)
	require.NoError(t, err)
	r := authRouter()

	require.Equal(t, http.StatusNoContent, call(r, "/ws?token="+tok, "").Code)
	require.Equal(t, http.StatusNoContent, call(r, "/ws", "Bearer "+tok).Code)
	require.Equal(t, http.StatusUnauthorized, call(r, "/ws", "").Code)
	require.Equal(t, http.StatusUnauthorized, call(r, "/ws?token=garbage", "").Code)
}
