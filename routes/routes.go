package routes

import (
	"editorial-platform-api/controllers"
	"editorial-platform-api/middleware"
	"editorial-platform-api/services"

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
			public.POST("/refresh", controllers.RefreshToken)
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/reset-password", controllers.ResetPassword)

			// Published content (public site)
			public.GET("/publications", controllers.GetPublishedSubmissions)
			public.GET("/publications/:slug", controllers.GetPublicationBySlug)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Editorial Platform API is running",
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

			// Submissions
			submissions := protected.Group("/submissions")
			{
				submissions.GET("", controllers.GetSubmissions)
				submissions.GET("/:id", controllers.GetSubmission)
				submissions.POST("", controllers.CreateSubmission)
				submissions.PUT("/:id", controllers.UpdateSubmission)
				submissions.DELETE("/:id", controllers.DeleteSubmission)

				// Author workflow
				submissions.POST("/:id/submit", controllers.SubmitSubmission)

				// Editorial workflow (reviewers, editors, admins)
				review := submissions.Group("")
				review.Use(middleware.RequireRole(services.RoleReviewer, services.RoleEditor, services.RoleAdmin))
				{
					review.POST("/:id/claim", controllers.ClaimSubmission)
					review.POST("/:id/release", controllers.ReleaseSubmission)
					review.POST("/:id/shortlist", controllers.ShortlistSubmission)
					review.POST("/:id/request-changes", controllers.RequestChanges)
					review.POST("/:id/approve", controllers.ApproveSubmission)
					review.POST("/:id/reject", controllers.RejectSubmission)
				}

				// Publishing is editor/admin only
				publish := submissions.Group("")
				publish.Use(middleware.RequireRole(services.RoleEditor, services.RoleAdmin))
				{
					publish.POST("/:id/publish", controllers.PublishSubmission)
					publish.POST("/:id/archive", controllers.ArchiveSubmission)
				}
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Dashboard
			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/stats", controllers.GetDashboardStats)
			}

			// Admin
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(services.RoleAdmin))
			{
				admin.POST("/submissions/bulk-reassign", controllers.BulkReassignSubmissions)
				admin.GET("/submissions/purge-eligible", controllers.GetPurgeEligibleSubmissions)
			}
		}
	}
}
