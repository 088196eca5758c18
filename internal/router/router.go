package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/handler"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/middleware"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/policy"
)

type Deps struct {
	DB                 *gorm.DB
	JWTSecret          string
	AuthHandler        *handler.AuthHandler
	UserHandler        *handler.UserHandler
	CaseHandler        *handler.CaseHandler
	VictimHandler      *handler.VictimHandler
	PerpetratorHandler *handler.PerpetratorHandler
	DashboardHandler   *handler.DashboardHandler
}

func Setup(r *gin.Engine, deps Deps) {
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api/v1")

	// Public routes (no auth)
	auth := api.Group("/auth")
	{
		auth.POST("/login", deps.AuthHandler.Login)
	}

	// Authenticated routes
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(deps.JWTSecret, deps.DB))
	{
		// Auth
		authed.GET("/auth/me", deps.AuthHandler.GetMe)

		// Admin routes
		admin := authed.Group("/admin")
		admin.Use(middleware.RequirePermission(policy.CanManageUsers))
		{
			admin.GET("/users", deps.UserHandler.ListUsers)
			admin.POST("/users", deps.UserHandler.CreateUser)
			admin.PUT("/users/:id/role", deps.UserHandler.UpdateUserRole)
			admin.PUT("/users/:id/status", deps.UserHandler.UpdateUserStatus)
		}

		// Cases
		cases := authed.Group("/cases")
		{
			cases.POST("", middleware.RequirePermission(policy.CanRegisterCases), deps.CaseHandler.Create)
			cases.GET("", deps.CaseHandler.List)
			cases.GET("/:id", deps.CaseHandler.GetDetail)
			cases.PUT("/:id", middleware.RequirePermission(policy.CanManageCases), deps.CaseHandler.Update)
			cases.DELETE("/:id", middleware.RequirePermission(policy.CanManageCases), deps.CaseHandler.Delete)

			cases.POST("/:id/notes", middleware.RequirePermission(policy.CanRegisterCases), deps.CaseHandler.AddNote)
			cases.GET("/:id/history", deps.CaseHandler.ListHistory)
			cases.POST("/:id/evidence", middleware.RequirePermission(policy.CanRegisterCases), deps.CaseHandler.AddEvidence)

			// Perpetrator links under cases
			cases.POST("/:id/perpetrators/:perp_id", middleware.RequirePermission(policy.CanManageCases), deps.PerpetratorHandler.LinkToCase)
			cases.DELETE("/:id/perpetrators/:perp_id", middleware.RequirePermission(policy.CanManageCases), deps.PerpetratorHandler.UnlinkFromCase)
		}

		// Victims
		victims := authed.Group("/victims")
		{
			victims.POST("", middleware.RequirePermission(policy.CanRegisterCases), deps.VictimHandler.Create)
			victims.GET("", deps.VictimHandler.List)
			victims.GET("/:id", deps.VictimHandler.GetDetail)
			victims.PUT("/:id", middleware.RequirePermission(policy.CanRegisterCases), deps.VictimHandler.Update)
			victims.DELETE("/:id", middleware.RequirePermission(policy.CanManageCases), deps.VictimHandler.Delete)
		}

		// Perpetrators
		perps := authed.Group("/perpetrators")
		{
			perps.POST("", middleware.RequirePermission(policy.CanRegisterCases), deps.PerpetratorHandler.Create)
			perps.GET("/search", middleware.RequirePermission(policy.CanSearchPerpetrators), deps.PerpetratorHandler.Search)
			perps.GET("/:id", middleware.RequirePermission(policy.CanSearchPerpetrators), deps.PerpetratorHandler.GetDetail)
			perps.PUT("/:id", middleware.RequirePermission(policy.CanManageCases), deps.PerpetratorHandler.Update)
		}

		// Dashboard
		dashboard := authed.Group("/dashboard")
		dashboard.Use(middleware.RequirePermission(policy.CanViewDashboard))
		{
			dashboard.GET("/stats", deps.DashboardHandler.Stats)
			dashboard.GET("/yearly", deps.DashboardHandler.Yearly)
			dashboard.GET("/monthly", deps.DashboardHandler.Monthly)
			dashboard.GET("/abuse-types", deps.DashboardHandler.AbuseTypes)
		}
	}
}
