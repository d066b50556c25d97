package routes

import (
	"member-portal-api/controllers"
	"member-portal-api/middleware"
	"member-portal-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/register", controllers.Register)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Member Portal API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Member registrations
			registrations := protected.Group("/registrations")
			{
				registrations.GET("", controllers.GetMyRegistrations)
				registrations.GET("/:id", controllers.GetRegistration)
				registrations.POST("", controllers.CreateRegistration)
				registrations.PUT("/:id", controllers.UpdateRegistration)
				registrations.DELETE("/:id", controllers.DeleteRegistration)

				registrations.POST("/:id/submit", controllers.SubmitRegistration)
				registrations.POST("/:id/resubmit", controllers.ResubmitRegistration)
				registrations.POST("/:id/cancel", controllers.CancelRegistration)
			}

			// Performance records
			performance := protected.Group("/performance")
			{
				performance.GET("", controllers.GetMyPerformanceRecords)
				performance.GET("/:id", controllers.GetPerformanceRecord)
				performance.POST("", controllers.CreatePerformanceRecord)
				performance.PUT("/:id", controllers.UpdatePerformanceRecord)
				performance.DELETE("/:id", controllers.DeletePerformanceRecord)

				performance.POST("/:id/submit", controllers.SubmitPerformanceRecord)
				performance.POST("/:id/resubmit", controllers.ResubmitPerformanceRecord)
				performance.POST("/:id/cancel", controllers.CancelPerformanceRecord)
			}

			// Projects and applications
			projects := protected.Group("/projects")
			{
				projects.GET("", controllers.GetProjects)
				projects.GET("/:id", controllers.GetProject)
				projects.POST("/:id/apply", controllers.ApplyToProject)
			}
			applications := protected.Group("/applications")
			{
				applications.GET("", controllers.GetMyApplications)
				applications.PUT("/:id", controllers.UpdateApplication)
				applications.POST("/:id/resubmit", controllers.ResubmitApplication)
				applications.POST("/:id/cancel", controllers.CancelApplication)
			}

			// Consultation threads
			threads := protected.Group("/threads")
			{
				threads.GET("", controllers.GetMyThreads)
				threads.GET("/:id", controllers.GetThread)
				threads.POST("", controllers.CreateThread)
				threads.POST("/:id/messages", controllers.PostThreadMessage)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Documents
			documents := protected.Group("/documents")
			{
				documents.POST("", controllers.UploadDocument)
				documents.GET("", controllers.GetDocuments)
				documents.GET("/download/:id", controllers.DownloadDocument)
				documents.DELETE("/:id", controllers.DeleteDocument)
			}

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				members := admin.Group("/members")
				{
					members.GET("", controllers.GetAdminMembers)
					members.GET("/export", controllers.ExportMembers)
					members.GET("/:id", controllers.GetAdminMember)
					members.PATCH("/:id/status", controllers.UpdateMemberStatus)
				}

				performanceAdmin := admin.Group("/performance")
				{
					performanceAdmin.GET("", controllers.GetAdminPerformanceRecords)
					performanceAdmin.GET("/export", controllers.ExportPerformance)
					performanceAdmin.GET("/:id", controllers.GetAdminPerformanceRecord)
					performanceAdmin.POST("/:id/approve", controllers.ApprovePerformanceRecord)
					performanceAdmin.POST("/:id/reject", controllers.RejectPerformanceRecord)
					performanceAdmin.POST("/:id/request-revision", controllers.RequestPerformanceRevision)
				}

				projectsAdmin := admin.Group("/projects")
				{
					projectsAdmin.GET("", controllers.GetAdminProjects)
					projectsAdmin.POST("", controllers.CreateProject)
					projectsAdmin.PUT("/:id", controllers.UpdateProject)
					projectsAdmin.DELETE("/:id", controllers.DeleteProject)
				}

				applicationsAdmin := admin.Group("/applications")
				{
					applicationsAdmin.GET("", controllers.GetAdminApplications)
					applicationsAdmin.GET("/:id", controllers.GetAdminApplication)
					applicationsAdmin.POST("/:id/approve", controllers.ApproveApplication)
					applicationsAdmin.POST("/:id/reject", controllers.RejectApplication)
					applicationsAdmin.POST("/:id/request-revision", controllers.RequestApplicationRevision)
				}

				threadsAdmin := admin.Group("/threads")
				{
					threadsAdmin.GET("", controllers.GetAdminThreads)
					threadsAdmin.GET("/:id", controllers.GetAdminThread)
					threadsAdmin.PATCH("/:id", controllers.UpdateThreadStatus)
				}

				admin.GET("/dashboard/stats", controllers.GetDashboardStats)
			}
		}
	}
}
