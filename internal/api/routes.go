package api

import (
	"athleteiq/coaching-api/internal/domain"
	"athleteiq/coaching-api/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authService service.AuthService,
	athleteService service.AthleteService,
	coachService service.CoachService,
	adminService service.AdminService,
	analyticsService service.AnalyticsService,
	reportService service.ReportService,
) {
	authHandler := NewAuthHandler(authService)
	athleteHandler := NewAthleteHandler(athleteService, analyticsService, reportService)
	coachHandler := NewCoachHandler(coachService)
	adminHandler := NewAdminHandler(adminService)

	authMiddleware := AuthMiddleware(authService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "Route not found")
	})

	apiV1 := router.Group("/api/v1")

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)

		authGroup.GET("/me", authMiddleware, authHandler.Me)
		authGroup.PUT("/profile", authMiddleware, authHandler.UpdateProfile)
		authGroup.PUT("/change-password", authMiddleware, authHandler.ChangePassword)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)

	// --- Athlete Routes ---
	athleteGroup := protected.Group("/athlete")
	athleteGroup.Use(RoleMiddleware(domain.RoleAthlete))
	{
		athleteGroup.GET("/plans", athleteHandler.GetActivePlans)

		athleteGroup.POST("/workouts", athleteHandler.LogWorkout)
		athleteGroup.GET("/workouts", athleteHandler.GetWorkouts)
		athleteGroup.PUT("/workouts/:id", athleteHandler.UpdateWorkout)

		athleteGroup.POST("/performance", athleteHandler.RecordPerformance)
		athleteGroup.GET("/performance", athleteHandler.GetPerformance)

		athleteGroup.POST("/feedback", athleteHandler.SubmitFeedback)
		athleteGroup.GET("/feedback", athleteHandler.GetFeedback)

		athleteGroup.POST("/injuries", athleteHandler.ReportInjury)
		athleteGroup.GET("/injuries", athleteHandler.GetInjuries)

		athleteGroup.GET("/analytics", athleteHandler.GetAnalytics)
		athleteGroup.GET("/report", athleteHandler.GetReport)
	}

	// --- Coach Routes ---
	coachGroup := protected.Group("/coach")
	coachGroup.Use(RoleMiddleware(domain.RoleCoach))
	{
		coachGroup.POST("/plans", coachHandler.CreatePlan)
		coachGroup.GET("/plans", coachHandler.GetPlans)
		coachGroup.PUT("/plans/:id", coachHandler.UpdatePlan)
		coachGroup.DELETE("/plans/:id", coachHandler.DeletePlan)
		coachGroup.POST("/plans/:id/remind", coachHandler.SendReminder)

		coachGroup.GET("/athletes", coachHandler.GetAthletes)
		coachGroup.GET("/athletes/:id/workouts", coachHandler.GetAthleteWorkouts)
		coachGroup.GET("/athletes/:id/performance", coachHandler.GetAthletePerformance)
		coachGroup.GET("/athletes/:id/injuries", coachHandler.GetAthleteInjuries)

		coachGroup.GET("/feedback", coachHandler.GetFeedback)
		coachGroup.PUT("/feedback/:id/respond", coachHandler.RespondFeedback)
	}

	// --- Admin Routes ---
	adminGroup := protected.Group("/admin")
	adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
	{
		adminGroup.GET("/stats", adminHandler.GetStats)
		adminGroup.GET("/users", adminHandler.GetUsers)
		adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
		adminGroup.PUT("/users/:id/status", adminHandler.SetUserStatus)
		adminGroup.PUT("/users/:id/role", adminHandler.SetUserRole)
	}
}
