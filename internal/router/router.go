package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/IBA-HOK/user-attendance-record/internal/config"
	"github.com/IBA-HOK/user-attendance-record/internal/handler"
	"github.com/IBA-HOK/user-attendance-record/internal/middleware"
	"github.com/IBA-HOK/user-attendance-record/internal/model"
	"github.com/IBA-HOK/user-attendance-record/internal/response"
	"github.com/IBA-HOK/user-attendance-record/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Student  *handler.StudentHandler
	Master   *handler.MasterHandler
	Schedule *handler.ScheduleHandler
	EntryLog *handler.EntryLogHandler
	Roster   *handler.RosterHandler
	Device   *handler.DeviceHandler
	Admin    *handler.AdminHandler
	Backup   *handler.BackupHandler
	Live     *handler.LiveHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Device-Key"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the login route (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Device Group (Kiosk API Key) ───────────────────────────────
	device := router.Group("/api/device")
	device.Use(middleware.RequireDeviceKey(cfg.DeviceAPIKey))
	{
		device.POST("/checkin", handlers.Device.Checkin)
	}

	// ─── 3. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws")
	ws.Use(middleware.RequireAuth(authService), middleware.RequirePermission(model.PermissionViewSchedules))
	{
		ws.GET("/live", handlers.Live.Stream)
	}

	// ─── 4. Staff API Group (JWT + RBAC) ───────────────────────────────
	api := router.Group("/api")
	api.Use(middleware.RequireAuth(authService))
	{
		// Student management
		api.GET("/users",
			middleware.RequirePermission(model.PermissionViewUsers),
			handlers.Student.List,
		)
		api.GET("/users/:id",
			middleware.RequirePermission(model.PermissionViewUsers),
			handlers.Student.Get,
		)
		api.POST("/users",
			middleware.RequirePermission(model.PermissionManageUsers),
			handlers.Student.Create,
		)
		api.PUT("/users/:id",
			middleware.RequirePermission(model.PermissionManageUsers),
			handlers.Student.Update,
		)
		api.DELETE("/users/:id",
			middleware.RequirePermission(model.PermissionManageUsers),
			handlers.Student.Delete,
		)

		// PC masters
		pcs := api.Group("/pcs")
		{
			pcs.GET("", middleware.RequirePermission(model.PermissionViewMasters), handlers.Master.ListPCs)
			pcs.GET("/:id", middleware.RequirePermission(model.PermissionViewMasters), handlers.Master.GetPC)
			pcs.POST("", middleware.RequirePermission(model.PermissionManageMasters), handlers.Master.CreatePC)
			pcs.PUT("/:id", middleware.RequirePermission(model.PermissionManageMasters), handlers.Master.UpdatePC)
			pcs.DELETE("/:id", middleware.RequirePermission(model.PermissionManageMasters), handlers.Master.DeletePC)
		}

		// Class slot masters
		slots := api.Group("/class-slots")
		{
			slots.GET("", middleware.RequirePermission(model.PermissionViewMasters), handlers.Master.ListClassSlots)
			slots.GET("/:id", middleware.RequirePermission(model.PermissionViewMasters), handlers.Master.GetClassSlot)
			slots.POST("", middleware.RequirePermission(model.PermissionManageMasters), handlers.Master.CreateClassSlot)
			slots.PUT("/:id", middleware.RequirePermission(model.PermissionManageMasters), handlers.Master.UpdateClassSlot)
			slots.DELETE("/:id", middleware.RequirePermission(model.PermissionManageMasters), handlers.Master.DeleteClassSlot)
		}

		// Schedules
		schedules := api.Group("/schedules")
		{
			schedules.GET("", middleware.RequirePermission(model.PermissionViewSchedules), handlers.Schedule.List)
			schedules.GET("/:id", middleware.RequirePermission(model.PermissionViewSchedules), handlers.Schedule.Get)
			schedules.POST("", middleware.RequirePermission(model.PermissionManageSchedules), handlers.Schedule.Create)
			schedules.POST("/bulk", middleware.RequirePermission(model.PermissionManageSchedules), handlers.Schedule.BulkGenerate)
			schedules.POST("/makeup", middleware.RequirePermission(model.PermissionManageSchedules), handlers.Schedule.CreateMakeup)
			schedules.POST("/bulk-absent", middleware.RequirePermission(model.PermissionManageSchedules), handlers.Schedule.BulkAbsent)
			schedules.PUT("/:id", middleware.RequirePermission(model.PermissionManageSchedules), handlers.Schedule.Update)
			schedules.PATCH("/:id/status", middleware.RequirePermission(model.PermissionManageSchedules), handlers.Schedule.UpdateStatus)
			schedules.DELETE("/:id", middleware.RequirePermission(model.PermissionManageSchedules), handlers.Schedule.Delete)
		}

		// Entry logs
		logs := api.Group("/entry_logs")
		{
			logs.GET("", middleware.RequirePermission(model.PermissionViewSchedules), handlers.EntryLog.List)
			logs.POST("", middleware.RequirePermission(model.PermissionManageSchedules), handlers.EntryLog.Create)
			logs.DELETE("/today", middleware.RequirePermission(model.PermissionManageSchedules), handlers.EntryLog.DeleteToday)
		}

		// Roster views
		api.GET("/daily-roster",
			middleware.RequirePermission(model.PermissionViewSchedules),
			handlers.Roster.DailyRoster,
		)
		api.GET("/live/current-class",
			middleware.RequirePermission(model.PermissionViewSchedules),
			handlers.Roster.CurrentClass,
		)
		api.GET("/unaccounted",
			middleware.RequirePermission(model.PermissionViewSchedules),
			handlers.Roster.Unaccounted,
		)

		// Staff account and role management
		admins := api.Group("/admins", middleware.RequirePermission(model.PermissionManageAdmins))
		{
			admins.GET("", handlers.Admin.ListAdmins)
			admins.POST("", handlers.Admin.CreateAdmin)
			admins.PUT("/:id", handlers.Admin.UpdateAdmin)
			admins.DELETE("/:id", handlers.Admin.DeleteAdmin)
		}
		roles := api.Group("/roles", middleware.RequirePermission(model.PermissionManageAdmins))
		{
			roles.GET("", handlers.Admin.ListRoles)
			roles.POST("", handlers.Admin.CreateRole)
			roles.PUT("/:id", handlers.Admin.UpdateRole)
			roles.DELETE("/:id", handlers.Admin.DeleteRole)
		}

		// Backup
		api.GET("/export",
			middleware.RequirePermission(model.PermissionPerformBackup),
			handlers.Backup.Export,
		)
		api.GET("/export/roster",
			middleware.RequireAnyPermission(model.PermissionPerformBackup, model.PermissionViewSchedules),
			handlers.Backup.ExportRoster,
		)
		api.POST("/import",
			middleware.RequirePermission(model.PermissionPerformBackup),
			handlers.Backup.Import,
		)
	}

	return router
}
