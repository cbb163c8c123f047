package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-tracker/internal/identity"
	"github.com/yukikurage/team-task-tracker/internal/middleware"
	"github.com/yukikurage/team-task-tracker/internal/repository"
	"github.com/yukikurage/team-task-tracker/internal/services"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	TaskRepo  repository.TaskRepository
	OrgRepo   repository.OrganizationRepository
	Directory identity.Directory

	AuthService         *services.AuthService
	OrganizationService *services.OrganizationService
	TaskService         *services.TaskService
	TeamService         *services.TeamService
	ReportService       *services.ReportService
	BillingService      *services.BillingService
	AccessService       *services.AccessService
	LogService          *services.LogService
}

// RegisterRoutes mounts the health check and every /api route on r.
func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	authHandler := NewAuthHandler(deps.AuthService)
	orgHandler := NewOrganizationHandler(deps.OrganizationService)
	taskHandler := NewTaskHandler(deps.TaskService)
	teamHandler := NewTeamHandler(deps.TeamService, deps.ReportService)
	billingHandler := NewBillingHandler(deps.BillingService, deps.AccessService)
	logHandler := NewLogHandler(deps.LogService)

	orgAccess := middleware.RequireOrganizationAccess(deps.OrgRepo, deps.Directory)
	orgAdmin := middleware.RequireOrganizationAdmin()
	subscribed := middleware.RequireActiveSubscription(deps.AccessService)
	taskAccess := middleware.RequireTaskAccess(deps.TaskRepo, deps.Directory)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Team Task Tracker API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Organization routes (protected)
		orgs := api.Group("/organizations")
		orgs.Use(middleware.RequireAuth())
		{
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.POST("/join", orgHandler.JoinOrganization)
			orgs.GET("/:id", orgAccess, orgHandler.GetOrganization)
			orgs.GET("/:id/members", orgAccess, orgHandler.ListMembers)
			orgs.GET("/:id/role", orgAccess, orgHandler.GetRole)
			orgs.POST("/:id/regenerate-code", orgAccess, orgAdmin, orgHandler.RegenerateInviteCode)
			orgs.DELETE("/:id/members/:user_id", orgAccess, orgAdmin, orgHandler.RemoveMember)

			// Team management requires an active subscription
			orgs.GET("/:id/overview", orgAccess, orgAdmin, subscribed, teamHandler.Overview)
			orgs.POST("/:id/report", orgAccess, orgAdmin, subscribed, teamHandler.DownloadReport)
			orgs.GET("/:id/report/summary", orgAccess, orgAdmin, subscribed, teamHandler.Summary)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskAccess, taskHandler.GetTask)
			tasks.PATCH("/:id/status", taskAccess, middleware.RequireTaskEditor(), taskHandler.UpdateStatus)
			tasks.PUT("/:id/completion", taskAccess, middleware.RequireTaskEditor(), taskHandler.UpdateCompletion)
			tasks.DELETE("/:id", taskAccess, orgAdmin, taskHandler.DeleteTask)
		}

		// Billing routes; the webhook authenticates by signature
		api.POST("/billing/webhook", billingHandler.Webhook)
		billing := api.Group("/billing")
		billing.Use(middleware.RequireAuth())
		{
			billing.GET("/access", billingHandler.CheckAccess)
			billing.POST("/checkout", billingHandler.CreateCheckoutSession)
			billing.POST("/portal", billingHandler.CreatePortalSession)
		}

		// Work log routes (protected)
		logs := api.Group("/logs")
		logs.Use(middleware.RequireAuth())
		{
			logs.GET("", logHandler.ListEntries)
			logs.POST("", logHandler.CreateEntry)
		}
	}
}
