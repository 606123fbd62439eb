package routes

import (
	"net/http"

	"weddingshop/cache"
	"weddingshop/configs"
	"weddingshop/controllers"
	"weddingshop/entity"
	"weddingshop/events"
	"weddingshop/middlewares"
	"weddingshop/repository"
	"weddingshop/services"
	"weddingshop/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs. Cache and Hub may be nil.
type Deps struct {
	DB     *gorm.DB
	Config *configs.Config
	Cache  cache.Store
	Events events.Publisher
	Hub    *ws.NotificationHub
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	db := d.DB
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/metrics", middlewares.PrometheusHandler())
	r.Static("/uploads", cfg.UploadDir)

	// Services
	authSvc := services.NewAuthService(repository.NewUserRepository(db), cfg.JWTSecret, cfg.JWTTTL)
	authSvc.Cache = d.Cache
	reviewSvc := services.NewReviewService(db, cfg, d.Events)
	statsSvc := services.NewStatisticsService(repository.NewStatisticsRepository(db), d.Cache, cfg.StatsCacheTTL)
	customerSvc := services.NewCustomerService(repository.NewUserRepository(db))
	customerSvc.Cache = d.Cache
	orderSvc := services.NewOrderService(db, d.Events, d.Cache)
	catalogSvc := services.NewCatalogService(db)
	promoSvc := services.NewPromotionService(db)
	userPromoSvc := services.NewUserPromotionService(db)

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc)
	uploadCtrl := controllers.NewUploadController(cfg.UploadDir)
	reviewCtrl := controllers.NewReviewController(reviewSvc, cfg.UploadDir)
	statsCtrl := controllers.NewStatisticsController(statsSvc)
	customerCtrl := controllers.NewCustomerController(customerSvc)
	orderCtrl := controllers.NewOrderController(orderSvc)
	adminOrderCtrl := controllers.NewAdminOrderController(orderSvc)
	catalogCtrl := controllers.NewCatalogController(catalogSvc)
	promoCtrl := controllers.NewPromotionController(promoSvc)
	userPromoCtrl := controllers.NewUserPromotionController(userPromoSvc)

	userAuth := middlewares.AuthMiddleware(cfg.JWTSecret)
	adminAuth := middlewares.AuthMiddleware(cfg.JWTSecret, entity.RoleAdmin)

	// Account (public)
	a := r.Group("/account")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
		a.POST("/logout", authCtrl.Logout)
	}

	// Catalog (public)
	r.GET("/categories", catalogCtrl.ActiveCategories)
	r.GET("/products", catalogCtrl.ActiveProducts)
	r.GET("/products/:id", catalogCtrl.Product)
	r.GET("/products/:id/reviews", reviewCtrl.ForProduct)
	r.GET("/promotions", promoCtrl.Active)

	// User
	u := r.Group("/user", userAuth)
	{
		u.GET("/profile", authCtrl.Profile)
		u.PUT("/profile", authCtrl.UpdateProfile)
		u.POST("/change-password", authCtrl.ChangePassword)
		u.GET("/promotions", userPromoCtrl.List)
		u.POST("/promotions/:id", userPromoCtrl.SavePromotion)
	}
	r.POST("/upload/image", userAuth, uploadCtrl.Image)
	r.GET("/profile/reviews", userAuth, reviewCtrl.Mine)

	orders := r.Group("/orders", userAuth)
	{
		orders.POST("", orderCtrl.Create)
		orders.GET("", orderCtrl.ListMine)
		orders.GET("/:id", orderCtrl.Detail)
		orders.PUT("/:id/cancel", orderCtrl.Cancel)
	}

	reviews := r.Group("/reviews", userAuth)
	{
		reviews.POST("/submit", reviewCtrl.Submit)
		reviews.GET("/order/:orderId", reviewCtrl.ByOrder)
	}

	// Admin
	admin := r.Group("/admin", adminAuth)
	{
		st := admin.Group("/statistics")
		st.GET("/revenue-sales", statsCtrl.RevenueSales)
		st.GET("/cash-flow", statsCtrl.CashFlow)
		st.GET("/top-products", statsCtrl.TopProducts)
		st.GET("/new-customers", statsCtrl.NewCustomers)
		st.GET("/summary", statsCtrl.Summary)
		st.GET("/monthly-revenue", statsCtrl.MonthlyRevenue)

		cu := admin.Group("/customers")
		cu.GET("", customerCtrl.List)
		cu.GET("/stats", customerCtrl.Stats)
		cu.GET("/:id", customerCtrl.Get)
		cu.PUT("/:id", customerCtrl.Update)
		cu.DELETE("/:id", customerCtrl.Delete)
		cu.PATCH("/:id/status", customerCtrl.SetStatus)

		admin.GET("/orders", adminOrderCtrl.List)
		admin.PATCH("/orders/:id/status", adminOrderCtrl.UpdateStatus)
		admin.PATCH("/orders/:id/payment", adminOrderCtrl.UpdatePayment)

		admin.GET("/categories", catalogCtrl.AllCategories)
		admin.POST("/categories", catalogCtrl.CreateCategory)
		admin.PUT("/categories/:id", catalogCtrl.UpdateCategory)
		admin.DELETE("/categories/:id", catalogCtrl.DeleteCategory)

		admin.GET("/products", catalogCtrl.AllProducts)
		admin.POST("/products", catalogCtrl.CreateProduct)
		admin.PUT("/products/:id", catalogCtrl.UpdateProduct)
		admin.DELETE("/products/:id", catalogCtrl.DeleteProduct)

		admin.GET("/promotions", promoCtrl.List)
		admin.POST("/promotions", promoCtrl.Create)
		admin.PUT("/promotions/:id", promoCtrl.Update)
		admin.DELETE("/promotions/:id", promoCtrl.Delete)
	}

	// Realtime
	if d.Hub != nil {
		r.GET("/ws/notifications", middlewares.WSAuthMiddleware(cfg.JWTSecret), d.Hub.HandleWebSocket)
	}
}
