package api

import (
	"net/http"

	"alcyxob/fitcoach/internal/metrics"
	"alcyxob/fitcoach/internal/service"

	"github.com/gin-gonic/gin"
)

// Services are the handlers' dependencies.
type Services struct {
	Auth       service.AuthService
	Plans      service.PlanService
	Generation service.GenerationService
	Activity   service.ActivityService
	Progress   service.ProgressService
	Onboarding service.OnboardingService
	Context    service.ContextService
}

// RouteOptions carries the HTTP-level collaborators of SetupRoutes.
type RouteOptions struct {
	Metrics        *metrics.Manager
	MetricsHandler http.Handler // Served on GET /metrics when set
	// GenerateLimiter throttles POST /plans/generate per user. Nil disables limiting.
	GenerateLimiter *RateLimiter
}

func SetupRoutes(router *gin.Engine, svc Services, opts RouteOptions) {
	authHandler := NewAuthHandler(svc.Auth)
	planHandler := NewPlanHandler(svc.Plans, svc.Generation)
	activityHandler := NewActivityHandler(svc.Activity)
	progressHandler := NewProgressHandler(svc.Progress)
	onboardingHandler := NewOnboardingHandler(svc.Onboarding)
	contextHandler := NewContextHandler(svc.Context)

	router.Use(RequestLoggingMiddleware())
	if opts.Metrics != nil {
		router.Use(MetricsMiddleware(opts.Metrics))
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if opts.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(svc.Auth))
	{
		protected.GET("/me", authHandler.Me)

		// --- Plan Routes ---
		planGroup := protected.Group("/plans")
		{
			planGroup.GET("/active", planHandler.GetActivePlan)
			planGroup.GET("/previous", planHandler.GetPreviousPlans)

			generate := []gin.HandlerFunc{planHandler.GeneratePlan}
			if opts.GenerateLimiter != nil {
				generate = append([]gin.HandlerFunc{RateLimitMiddleware(opts.GenerateLimiter)}, generate...)
			}
			planGroup.POST("/generate", generate...)
			planGroup.GET("/generations/:generationId", planHandler.GetGeneration)

			planGroup.POST("/:planId/start", planHandler.Transition(svc.Plans.Start))
			planGroup.POST("/:planId/pause", planHandler.Transition(svc.Plans.Pause))
			planGroup.POST("/:planId/resume", planHandler.Transition(svc.Plans.Resume))
			planGroup.POST("/:planId/cancel", planHandler.Transition(svc.Plans.Cancel))
			planGroup.POST("/:planId/restart", planHandler.Transition(svc.Plans.Restart))
			planGroup.POST("/:planId/reinstate", planHandler.Transition(svc.Plans.Reinstate))
			planGroup.PATCH("/:planId/name", planHandler.Rename)
			planGroup.PATCH("/:planId/dates", planHandler.UpdateDates)
			planGroup.DELETE("/:planId", planHandler.DeletePlan)
		}

		// --- Workout Routes ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.PATCH("/:workoutId/status", activityHandler.SetWorkoutStatus)
			workoutGroup.PATCH("/:workoutId/booking", activityHandler.SetBooking)
		}

		protected.POST("/tracking", activityHandler.LogTracking)
		protected.GET("/tracking", activityHandler.ListTracking)

		// --- Progress Routes ---
		progressGroup := protected.Group("/progress")
		{
			progressGroup.GET("", progressHandler.GetProgressData)
			progressGroup.POST("", progressHandler.RecordProgress)
			progressGroup.GET("/latest", progressHandler.GetLatestProgress)
			progressGroup.GET("/live", progressHandler.GetLiveProgress)
			progressGroup.POST("/snapshot", progressHandler.SnapshotProgress)
		}

		protected.GET("/onboarding", onboardingHandler.Get)
		protected.PUT("/onboarding", onboardingHandler.Upsert)

		protected.GET("/context", contextHandler.BuildUserContext)
		protected.GET("/context/:kind", contextHandler.GetContextForInteraction)
	}
}
