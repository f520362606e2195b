package routes

import (
	"time"

	"github.com/fit-quest/api-go/controllers"
	"github.com/fit-quest/api-go/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, limiter middleware.AttemptLimiter) {
	// Initialize controllers
	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	activityController := controllers.NewActivityController(db)
	dashboardController := controllers.NewDashboardController(db)
	challengeController := controllers.NewChallengeController(db)
	classController := controllers.NewClassController(db)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", middleware.RateLimit(limiter, "register", time.Hour, 5), authController.Register)
		public.POST("/login", middleware.RateLimit(limiter, "login", 15*time.Minute, 10), authController.Login)
		public.POST("/auth/google", middleware.RateLimit(limiter, "login", 15*time.Minute, 10), authController.GoogleLogin)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/logout", authController.Logout)
		protected.POST("/refresh-token", authController.RefreshToken)
		protected.GET("/profile", userController.GetProfile)
		protected.PUT("/profile", userController.UpdateProfile)
		protected.GET("/dashboard", dashboardController.GetDashboard)

		SetupActivityRoutes(protected, activityController)
		SetupChallengeRoutes(protected, challengeController)
		SetupClassRoutes(protected, classController)
	}
}
