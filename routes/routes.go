package routes

import (
	"expenditure-approval-api/controllers"
	"expenditure-approval-api/middleware"
	"expenditure-approval-api/models"

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
			public.POST("/signup", controllers.Signup)
			public.POST("/login", controllers.Login)

			// Password reset (OTP)
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/verify-otp", controllers.VerifyOTP)
			public.POST("/reset-password", controllers.ResetPassword)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Expenditure Approval API is running",
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

			// Expenditure requests
			requests := protected.Group("/requests")
			{
				requests.GET("", controllers.GetRequests)
				requests.POST("", middleware.RequireRole(models.RoleRequester), controllers.CreateRequest)
				requests.GET("/:id", controllers.GetRequest)

				// Workflow actions (role checks live in the approval engine)
				requests.POST("/:id/approve", controllers.ApproveRequest)

				// Attachments
				requests.POST("/:id/attachments", controllers.UploadAttachment)
				requests.GET("/:id/attachments", controllers.GetAttachments)
			}
			protected.GET("/attachments/:file_id", controllers.DownloadAttachment)

			// Approval queue and in-progress views
			protected.GET("/approvals", controllers.GetPendingApprovals)
			protected.GET("/in-progress", controllers.GetInProgressRequests)

			// Dashboard
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)
		}
	}

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Route not found"})
	})
}
