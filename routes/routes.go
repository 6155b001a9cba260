package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/zawaditap/zawaditap-backend/config"
	_ "github.com/zawaditap/zawaditap-backend/docs"
	"github.com/zawaditap/zawaditap-backend/internal/admin"
	"github.com/zawaditap/zawaditap-backend/internal/auditlog"
	"github.com/zawaditap/zawaditap-backend/internal/auth"
	"github.com/zawaditap/zawaditap-backend/internal/event"
	"github.com/zawaditap/zawaditap-backend/internal/gift"
	"github.com/zawaditap/zawaditap-backend/internal/notification"
	"github.com/zawaditap/zawaditap-backend/internal/organization"
	"github.com/zawaditap/zawaditap-backend/internal/participation"
	"github.com/zawaditap/zawaditap-backend/internal/reports"
	"github.com/zawaditap/zawaditap-backend/internal/user"
	"github.com/zawaditap/zawaditap-backend/middleware"
)

// Services bundles the wired service layer so main can hand pieces (like the
// notification service) to background workers.
type Services struct {
	Notifications *notification.Service
}

// Setup wires repositories, services and handlers onto a gin engine.
func Setup(cfg *config.Config, db *gorm.DB) (*gin.Engine, *Services) {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
	}))
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.RateLimiter())

	// Repositories
	auditRepo := auditlog.NewRepository(db)
	orgRepo := organization.NewRepository(db)
	userRepo := user.NewRepository(db)
	eventRepo := event.NewRepository(db)
	participationRepo := participation.NewRepository(db)
	giftRepo := gift.NewRepository(db)
	adminRepo := admin.NewRepository(db)

	// Services
	auditSvc := auditlog.NewService(auditRepo)
	orgSvc := organization.NewService(orgRepo, auditSvc)
	userSvc := user.NewService(userRepo, auditSvc)
	notifySvc := notification.NewService(userSvc)
	eventSvc := event.NewService(eventRepo, auditSvc, cfg.RequiredTileCount)
	participationSvc := participation.NewService(db, participationRepo, eventSvc, auditSvc, notifySvc)
	giftSvc := gift.NewService(db, giftRepo, eventSvc, auditSvc, notifySvc)
	authSvc := auth.NewService(cfg, userSvc, orgSvc, auditSvc)
	adminSvc := admin.NewService(adminRepo)
	reportsSvc := reports.NewService(eventSvc, participationRepo, giftRepo)

	// Handlers
	auditHandler := auditlog.NewHandler(auditSvc)
	orgHandler := organization.NewHandler(orgSvc)
	userHandler := user.NewHandler(userSvc)
	eventHandler := event.NewHandler(eventSvc)
	participationHandler := participation.NewHandler(participationSvc)
	giftHandler := gift.NewHandler(giftSvc)
	authHandler := auth.NewHandler(authSvc)
	adminHandler := admin.NewHandler(adminSvc)
	reportsHandler := reports.NewHandler(reportsSvc)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static("/uploads", config.UploadPath)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	// Public auth endpoints
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/otp/request", authHandler.RequestOTP)
		authGroup.POST("/otp/verify", authHandler.VerifyOTP)
		authGroup.POST("/org/register", authHandler.RegisterOrganization)
		authGroup.POST("/org/login", authHandler.LoginOrganization)
		authGroup.POST("/org/mfa", authHandler.VerifyMFA)
		authGroup.POST("/org/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/org/reset-password", authHandler.ResetPassword)
		authGroup.GET("/verify-email", authHandler.VerifyEmail)
		authGroup.POST("/admin/login", authHandler.LoginAdmin)
	}

	// Public event browsing
	api.GET("/events", eventHandler.ListEvents)
	api.GET("/events/:id", eventHandler.GetEvent)
	api.GET("/organizations/:id", orgHandler.GetOrganization)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg))

	// User endpoints
	users := authed.Group("", middleware.RBACMiddleware(middleware.RoleUser))
	{
		users.GET("/users/me", userHandler.GetProfile)
		users.PUT("/users/me", userHandler.UpdateProfile)
		users.POST("/users/me/fcm-token", userHandler.RegisterFCMToken)

		users.POST("/event-participation/:eventId/start", participationHandler.Start)
		users.POST("/event-participation/:eventId/accept-terms", participationHandler.AcceptTerms)
		users.POST("/event-participation/:eventId/interact-tiles", participationHandler.InteractTiles)
		users.POST("/event-participation/:eventId/complete", participationHandler.Complete)
		users.GET("/event-participation/:eventId/status", participationHandler.GetStatus)
		users.GET("/event-participation/history", participationHandler.ListHistory)

		users.POST("/gifts/:id/claim", giftHandler.Claim)
		users.GET("/gifts/:id/qr", giftHandler.GetVoucherQR)
		users.GET("/gifts/mine", giftHandler.ListMyGifts)
	}

	// Organization endpoints
	orgs := authed.Group("", middleware.RBACMiddleware(middleware.RoleOrganization))
	{
		orgs.PUT("/organizations/:id", orgHandler.UpdateOrganization)
		orgs.POST("/organizations/:id/logo", orgHandler.UploadLogo)
		orgs.GET("/organizations/me/events", eventHandler.ListMyEvents)

		orgs.POST("/events", eventHandler.CreateEvent)
		orgs.PUT("/events/:id", eventHandler.UpdateEvent)
		orgs.PATCH("/events/:id/status", eventHandler.UpdateStatus)
		orgs.GET("/events/:id/stats", eventHandler.GetEventStats)

		orgs.GET("/gifts/stats", giftHandler.GetOrganizationGiftStats)
		orgs.POST("/gifts/event/:eventId", giftHandler.CreateGift)
		orgs.GET("/gifts/event/:eventId", giftHandler.ListEventGifts)
		orgs.GET("/gifts/event/:eventId/stats", giftHandler.GetEventGiftStats)
		orgs.POST("/gifts/upload/:eventId", giftHandler.BulkIngest)
		orgs.POST("/gifts/:id/redeem", giftHandler.Redeem)

		orgs.GET("/reports/events/:eventId", reportsHandler.ExportEventReport)
	}

	// Dashboards: admins see everything, organizations only their own
	dashboards := authed.Group("", middleware.RBACMiddleware(middleware.RoleAdmin, middleware.RoleOrganization))
	{
		dashboards.GET("/admin/organizations/:id/dashboard", adminHandler.GetOrganizationDashboard)
	}

	// Admin portal
	admins := authed.Group("", middleware.RBACMiddleware(middleware.RoleAdmin))
	{
		admins.GET("/admin/overview", adminHandler.GetSystemOverview)
		admins.GET("/admin/events/:id/analytics", adminHandler.GetEventAnalytics)
		admins.GET("/admin/users/:id/analytics", adminHandler.GetUserAnalytics)
		admins.GET("/admin/search", adminHandler.Search)
		admins.GET("/admin/users", userHandler.ListUsers)
		admins.GET("/admin/audit-logs", auditHandler.GetAuditLogs)
		admins.GET("/organizations", orgHandler.ListOrganizations)
	}

	return r, &Services{Notifications: notifySvc}
}
