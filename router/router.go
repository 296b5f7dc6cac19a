package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bitemebuddy/admin-dashboard/config"
	"github.com/bitemebuddy/admin-dashboard/controllers"
	"github.com/bitemebuddy/admin-dashboard/database"
	"github.com/bitemebuddy/admin-dashboard/hub"
	"github.com/bitemebuddy/admin-dashboard/middlewares"
	"github.com/bitemebuddy/admin-dashboard/models"
	"github.com/bitemebuddy/admin-dashboard/services"
)

// Deps is everything the HTTP layer is built from.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Hub    *hub.Hub
	Media  services.MediaStore
}

func SetupRouter(d Deps) *gin.Engine {
	cfg := d.Config
	r := gin.New()
	r.Use(gin.Recovery())
	if len(cfg.Server.TrustedProxy) > 0 {
		r.SetTrustedProxies(cfg.Server.TrustedProxy)
	}

	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders(cfg.Session.CookieSecure))
	r.Use(middlewares.CORSMiddlewares(cfg.Server.CORSOrigins))
	if cfg.Server.RateLimitRPM > 0 {
		r.Use(middlewares.NewRateLimiter(cfg.Server.RateLimitRPM).RateLimit())
	}

	var live services.Broadcaster
	if d.Hub != nil {
		live = d.Hub
	}
	var policy services.TransitionPolicy = services.AllowAll{}
	if cfg.App.StrictOrderTransitions {
		policy = services.DefaultStrictTransitions()
	}

	orders := services.NewOrderService(d.DB, live, policy)
	reports := services.NewReportService(d.DB)
	catalog := services.NewCatalogService(d.DB, d.Media, live)

	cookie := cfg.Session.CookieName
	adminCtrl := controllers.NewAdminController(d.DB, cookie, cfg.Session.CookieSecure)
	orderCtrl := controllers.NewOrderController(d.DB, orders)
	userCtrl := controllers.NewUserController(d.DB, live)
	serviceCtrl := controllers.NewCatalogController(catalog, models.ItemService, cfg.App.MaxUploadMB)
	menuCtrl := controllers.NewCatalogController(catalog, models.ItemMenu, cfg.App.MaxUploadMB)
	addressCtrl := controllers.NewAddressController(d.DB)
	paymentCtrl := controllers.NewPaymentController(d.DB)
	reviewCtrl := controllers.NewReviewController(d.DB, live)
	notificationCtrl := controllers.NewNotificationController(d.DB)
	dashboardCtrl := controllers.NewDashboardController(reports, services.NewExporter(config.AppName))
	systemCtrl := controllers.NewSystemController(database.NewMaintenance(d.DB), d.Media, config.AppName, cfg.App.NotificationRetentionDays)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})
	r.GET("/health", systemCtrl.Health)

	login := r.Group("/admin")
	login.POST("/login", middlewares.NewStrictRateLimiter(cfg.Server.LoginAttempts).RateLimit(), adminCtrl.Login)
	login.POST("/logout", adminCtrl.Logout)

	if d.Hub != nil {
		liveCtrl := controllers.NewLiveController(d.Hub, cfg.Server.CORSOrigins)
		r.GET("/ws/dashboard", middlewares.WebSocketAuthMiddleware(cookie), liveCtrl.Connect)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	dash := r.Group("/dashboard")
	dash.Use(middlewares.AdminSession(cookie), middlewares.RequireWrite())
	{
		dash.GET("", dashboardCtrl.Overview)

		dash.GET("/orders", orderCtrl.ListOrders)
		dash.GET("/orders/:id", orderCtrl.GetOrder)
		dash.POST("/orders/:id/update-status", orderCtrl.UpdateStatus)

		dash.GET("/users", userCtrl.ListUsers)
		dash.GET("/users/:id", userCtrl.GetUser)
		dash.POST("/users/:id/toggle-active", userCtrl.ToggleActive)

		for path, cc := range map[string]*controllers.CatalogController{"/services": serviceCtrl, "/menu": menuCtrl} {
			g := dash.Group(path)
			g.GET("", cc.List)
			g.GET("/categories", cc.Categories)
			g.GET("/:id", cc.Get)
			g.POST("/add", cc.Create)
			g.POST("/:id/edit", cc.Update)
			g.POST("/:id/delete", cc.Delete)
			g.POST("/:id/toggle-status", cc.ToggleStatus)
		}

		dash.GET("/addresses", addressCtrl.ListAddresses)
		dash.GET("/payments", paymentCtrl.ListPayments)
		dash.GET("/reviews", reviewCtrl.ListReviews)
		dash.POST("/reviews/:id/toggle-approval", reviewCtrl.ToggleApproval)
		dash.GET("/notifications", notificationCtrl.ListNotifications)

		dash.GET("/media", systemCtrl.ListMedia)

		system := dash.Group("/system")
		system.GET("/health", systemCtrl.SystemHealth)
		system.GET("/integrity", systemCtrl.Integrity)
		ops := system.Group("", middlewares.RequireRole(models.RoleSuperAdmin, models.RoleAdmin))
		ops.POST("/optimize", systemCtrl.Optimize)
		ops.POST("/cleanup", systemCtrl.Cleanup)
	}

	// Read-only accounts may still edit their own profile.
	profile := r.Group("/dashboard/profile", middlewares.AdminSession(cookie))
	profile.GET("", adminCtrl.GetProfile)
	profile.POST("", adminCtrl.UpdateProfile)

	api := r.Group("/api/dashboard")
	api.Use(middlewares.AdminSession(cookie))
	{
		api.GET("/stats", dashboardCtrl.Stats)
		api.GET("/chart/revenue", dashboardCtrl.RevenueChart)
		api.GET("/chart/revenue.png", dashboardCtrl.RevenueChartPNG)
		api.GET("/report.pdf", dashboardCtrl.ReportPDF)
	}

	return r
}
