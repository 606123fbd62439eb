package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"weddingshop/cache"
	"weddingshop/configs"
	"weddingshop/entity"
	"weddingshop/events"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	OK      bool            `json:"ok"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
	events *events.Recorder
	upload string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := configs.OpenDB("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, configs.SetupDatabase(db))

	cfg := configs.Defaults()
	cfg.JWTSecret = "test-secret"
	cfg.UploadDir = t.TempDir()
	cfg.AdminEmail = "admin@wedding.test"
	cfg.AdminPassword = "admin-pass"
	require.NoError(t, configs.SeedAdmin(db, cfg))

	rec := &events.Recorder{}
	r := gin.New()
	RegisterRoutes(r, Deps{DB: db, Config: cfg, Cache: cache.NewMemoryStore(), Events: rec})
	return &testServer{t: t, db: db, engine: r, events: rec, upload: cfg.UploadDir}
}

func (s *testServer) do(req *http.Request, token string) (int, envelope) {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (s *testServer) json(method, path, token string, body any) (int, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, token)
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	status, env := s.json(http.MethodPost, "/account/login", "", gin.H{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, status, env.Message)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &out))
	return out.Token
}

func reviewForm(t *testing.T, fields map[string]string, images int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for i := 0; i < images; i++ {
		fw, err := mw.CreateFormFile("images", fmt.Sprintf("photo%d.png", i))
		require.NoError(t, err)
		_, err = fw.Write([]byte("\x89PNG\r\n\x1a\nfake"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestReviewRewardFlow(t *testing.T) {
	s := newTestServer(t)

	status, env := s.json(http.MethodPost, "/account/register", "", gin.H{
		"fullname": "Hoa", "email": "hoa@wedding.test", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	userToken := s.login("hoa@wedding.test", "secret1")
	adminToken := s.login("admin@wedding.test", "admin-pass")

	product := &entity.Product{Name: "Photography", Price: 2_000_000, IsActive: true}
	require.NoError(t, s.db.Create(product).Error)

	status, env = s.json(http.MethodPost, "/orders", userToken, gin.H{
		"items": []gin.H{{"productId": product.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var created struct {
		Order struct {
			ID uint `json:"id"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	orderID := created.Order.ID

	fields := map[string]string{
		"orderId":   fmt.Sprint(orderID),
		"productId": fmt.Sprint(product.ID),
		"rating":    "5",
		"comment":   "Beautiful album",
	}

	// not completed yet
	body, ct := reviewForm(t, fields, 1)
	req := httptest.NewRequest(http.MethodPost, "/reviews/submit", body)
	req.Header.Set("Content-Type", ct)
	status, env = s.do(req, userToken)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.False(t, env.OK)
	require.Equal(t, "error", env.Code)

	for _, to := range []string{"confirmed", "processing", "completed"} {
		status, env = s.json(http.MethodPatch, fmt.Sprintf("/admin/orders/%d/status", orderID), adminToken, gin.H{"status": to})
		require.Equal(t, http.StatusOK, status, env.Message)
	}

	// three images is over the limit
	body, ct = reviewForm(t, fields, 3)
	req = httptest.NewRequest(http.MethodPost, "/reviews/submit", body)
	req.Header.Set("Content-Type", ct)
	status, _ = s.do(req, userToken)
	require.Equal(t, http.StatusBadRequest, status)

	body, ct = reviewForm(t, fields, 2)
	req = httptest.NewRequest(http.MethodPost, "/reviews/submit", body)
	req.Header.Set("Content-Type", ct)
	status, env = s.do(req, userToken)
	require.Equal(t, http.StatusCreated, status, env.Message)
	var result struct {
		Review struct {
			Rating int      `json:"rating"`
			Images []string `json:"images"`
		} `json:"review"`
		Points int `json:"points"`
		Coupon *struct {
			Code string `json:"code"`
		} `json:"coupon"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Equal(t, 5, result.Review.Rating)
	require.Len(t, result.Review.Images, 2)
	require.True(t, strings.HasPrefix(result.Review.Images[0], "/uploads/reviews/"))
	require.Equal(t, 10, result.Points)
	require.NotNil(t, result.Coupon)
	require.True(t, strings.HasPrefix(result.Coupon.Code, "REVIEW-"))

	body, ct = reviewForm(t, fields, 0)
	req = httptest.NewRequest(http.MethodPost, "/reviews/submit", body)
	req.Header.Set("Content-Type", ct)
	status, env = s.do(req, userToken)
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "error", env.Code)

	status, env = s.json(http.MethodGet, fmt.Sprintf("/reviews/order/%d", orderID), userToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(env.Data), "Beautiful album")

	status, env = s.json(http.MethodGet, "/user/profile", userToken, nil)
	require.Equal(t, http.StatusOK, status)
	var profile struct {
		User struct {
			Points     int   `json:"points"`
			TotalSpent int64 `json:"totalSpent"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	require.Equal(t, 10, profile.User.Points)
	require.EqualValues(t, 2_000_000, profile.User.TotalSpent)

	status, env = s.json(http.MethodGet, "/user/promotions", userToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(env.Data), result.Coupon.Code)
}

func TestAdminStatisticsAndCustomers(t *testing.T) {
	s := newTestServer(t)

	status, env := s.json(http.MethodPost, "/account/register", "", gin.H{
		"fullname": "Hoa", "email": "hoa@wedding.test", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	userToken := s.login("hoa@wedding.test", "secret1")
	adminToken := s.login("admin@wedding.test", "admin-pass")

	status, _ = s.json(http.MethodGet, "/admin/statistics/summary", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	status, _ = s.json(http.MethodGet, "/admin/statistics/summary", userToken, nil)
	require.Equal(t, http.StatusForbidden, status)

	for _, path := range []string{
		"/admin/statistics/revenue-sales",
		"/admin/statistics/cash-flow",
		"/admin/statistics/top-products",
		"/admin/statistics/new-customers",
		"/admin/statistics/summary",
		"/admin/statistics/monthly-revenue",
	} {
		status, env = s.json(http.MethodGet, path, adminToken, nil)
		require.Equal(t, http.StatusOK, status, path)
		require.True(t, env.OK, path)
	}

	status, env = s.json(http.MethodGet, "/admin/statistics/cash-flow?startDate=2026-13-40", adminToken, nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, env.Message, "startDate")

	status, env = s.json(http.MethodGet, "/admin/customers?search=hoa", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	var page struct {
		Customers []struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
		} `json:"customers"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Equal(t, 1, page.Pagination.Total)
	id := page.Customers[0].ID

	status, _ = s.json(http.MethodPatch, fmt.Sprintf("/admin/customers/%d/status", id), adminToken, gin.H{"status": "suspended"})
	require.Equal(t, http.StatusOK, status)

	status, env = s.json(http.MethodPost, "/account/login", "", gin.H{"email": "hoa@wedding.test", "password": "secret1"})
	require.Equal(t, http.StatusForbidden, status)
	require.False(t, env.OK)

	status, _ = s.json(http.MethodDelete, fmt.Sprintf("/admin/customers/%d", id), adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = s.json(http.MethodGet, fmt.Sprintf("/admin/customers/%d", id), adminToken, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	status, env := s.json(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.OK)

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "# TYPE")
}

func (s *testServer) reviewFilesOnDisk() int {
	s.t.Helper()
	entries, err := os.ReadDir(filepath.Join(s.upload, "reviews"))
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(s.t, err)
	return len(entries)
}

func TestRejectedReviewLeavesNoFiles(t *testing.T) {
	s := newTestServer(t)

	status, env := s.json(http.MethodPost, "/account/register", "", gin.H{
		"fullname": "Mai", "email": "mai@wedding.test", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	userToken := s.login("mai@wedding.test", "secret1")
	adminToken := s.login("admin@wedding.test", "admin-pass")

	product := &entity.Product{Name: "Flowers", Price: 500_000, IsActive: true}
	require.NoError(t, s.db.Create(product).Error)
	status, env = s.json(http.MethodPost, "/orders", userToken, gin.H{
		"items": []gin.H{{"productId": product.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var created struct {
		Order struct {
			ID uint `json:"id"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	fields := map[string]string{
		"orderId":   fmt.Sprint(created.Order.ID),
		"productId": fmt.Sprint(product.ID),
		"rating":    "5",
	}
	submit := func() int {
		body, ct := reviewForm(t, fields, 2)
		req := httptest.NewRequest(http.MethodPost, "/reviews/submit", body)
		req.Header.Set("Content-Type", ct)
		status, _ := s.do(req, userToken)
		return status
	}

	// order still pending
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusUnprocessableEntity, submit())
	}
	require.Zero(t, s.reviewFilesOnDisk())

	// unknown product on the order
	fields["productId"] = "9999"
	for _, to := range []string{"confirmed", "processing", "completed"} {
		status, env = s.json(http.MethodPatch, fmt.Sprintf("/admin/orders/%d/status", created.Order.ID), adminToken, gin.H{"status": to})
		require.Equal(t, http.StatusOK, status, env.Message)
	}
	require.NotEqual(t, http.StatusCreated, submit())
	require.Zero(t, s.reviewFilesOnDisk())

	fields["productId"] = fmt.Sprint(product.ID)
	require.Equal(t, http.StatusCreated, submit())
	require.Equal(t, 2, s.reviewFilesOnDisk())

	// resubmission conflicts and keeps only the accepted review's files
	require.Equal(t, http.StatusConflict, submit())
	require.Equal(t, 2, s.reviewFilesOnDisk())
}
