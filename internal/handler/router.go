package handler

import (
	"time"

	"storage-server/internal/config"
	"storage-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter(r *gin.Engine) {
	cfg := config.Get()

	// 全局中间件
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(gin.Recovery())

	// 安全响应头
	if cfg.Security.EnableSecurityHeaders {
		r.Use(middleware.SecurityHeadersMiddleware())
	}

	// 速率限制器
	limiter := middleware.NewRateLimiter(100, time.Minute)    // 普通接口：每分钟100次
	authLimiter := middleware.NewRateLimiter(10, time.Minute) // 认证接口：每分钟10次

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API 路由组
	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(limiter))

	// API 健康检查（供 Docker/K8s 使用）
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "storage-server"})
	})

	// 初始化 Handler
	authHandler := NewAuthHandler()
	userHandler := NewUserHandler()
	orgHandler := NewOrganizationHandler()
	fileHandler := NewFileHandler()
	folderHandler := NewFolderHandler()
	invitationHandler := NewInvitationHandler()
	reminderHandler := NewReminderHandler()
	notificationHandler := NewNotificationHandler()
	auditHandler := NewAuditHandler()
	exportHandler := NewExportHandler()

	// ==================== 公开接口 ====================
	// 认证（更严格的速率限制）
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware(authLimiter))
	{
		auth.POST("/register", authHandler.Register) // 凭邀请码注册
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	// ==================== 认证接口 ====================
	authorized := api.Group("")
	authorized.Use(middleware.AuthMiddleware())
	{
		// 当前用户
		authorized.GET("/profile", authHandler.GetProfile)
		authorized.PUT("/profile/password", authHandler.ChangePassword)
		authorized.POST("/logout", authHandler.Logout)

		// 用户管理
		users := authorized.Group("/users")
		{
			users.GET("", middleware.RequireAdmin(), userHandler.List)
			users.POST("", middleware.RequireAdmin(), userHandler.Create)
			users.GET("/:id", middleware.RequireSelfOrAdmin("id"), userHandler.Get)
			users.PUT("/:id", middleware.RequireSelfOrAdmin("id"), userHandler.Update)
			users.PUT("/:id/role", middleware.RequireAdmin(), userHandler.UpdateRole)
			users.DELETE("/:id", middleware.RequireAdmin(), userHandler.Delete)
		}

		// 组织管理
		orgs := authorized.Group("/organizations")
		{
			orgs.POST("", middleware.RequirePlatformOwner(), orgHandler.Create)
			orgs.GET("", middleware.RequirePlatformOwner(), orgHandler.List)
			orgs.GET("/:id", middleware.OrganizationAccess("id"), orgHandler.Get)
			orgs.PUT("/:id", middleware.OrganizationAccess("id"), middleware.RequireAdmin(), orgHandler.Update)
			orgs.DELETE("/:id", middleware.RequirePlatformOwner(), middleware.OrganizationAccess("id"), orgHandler.Delete)
		}

		// 文件管理
		files := authorized.Group("/files")
		{
			files.POST("", fileHandler.Upload)
			files.GET("", fileHandler.List)
			files.GET("/:id", middleware.FileAccess("id"), fileHandler.Get)
			files.GET("/:id/download", middleware.FileAccess("id"), fileHandler.Download)
			files.PUT("/:id", middleware.FileAccess("id"), fileHandler.Update)
			files.DELETE("/:id", fileHandler.Delete)
		}

		// 文件夹管理
		folders := authorized.Group("/folders")
		{
			folders.POST("", folderHandler.Create)
			folders.GET("", folderHandler.List)
			folders.PUT("/:id", folderHandler.Update)
			folders.DELETE("/:id", folderHandler.Delete)
		}

		// 邀请管理（管理员）
		invitations := authorized.Group("/invitations")
		invitations.Use(middleware.RequireAdmin())
		{
			invitations.POST("", invitationHandler.Create)
			invitations.GET("", invitationHandler.List)
			invitations.POST("/:id/cancel", invitationHandler.Cancel)
		}

		// 提醒管理
		reminders := authorized.Group("/reminders")
		{
			reminders.POST("", reminderHandler.Create)
			reminders.GET("", reminderHandler.List)
			reminders.GET("/:id", reminderHandler.Get)
			reminders.PUT("/:id", reminderHandler.Update)
			reminders.POST("/:id/complete", reminderHandler.Complete)
			reminders.POST("/:id/dismiss", reminderHandler.Dismiss)
			reminders.DELETE("/:id", reminderHandler.Delete)
		}

		// 通知
		notifications := authorized.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
		}

		// ==================== 管理接口 ====================
		admin := authorized.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/audit-logs", auditHandler.List)
			admin.GET("/audit-logs/stats", auditHandler.Stats)
			admin.GET("/export/audit-logs", exportHandler.ExportAuditLogs)
		}
	}
}
