package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/fitcoach/internal/api"
	"alcyxob/fitcoach/internal/cache"
	"alcyxob/fitcoach/internal/config"
	"alcyxob/fitcoach/internal/generator"
	"alcyxob/fitcoach/internal/logging"
	"alcyxob/fitcoach/internal/metrics"
	"alcyxob/fitcoach/internal/repository/mongo"
	"alcyxob/fitcoach/internal/service"
	"alcyxob/fitcoach/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// @title Fitness Coach API
// @version 1.0
// @description Workout plan lifecycle, activity tracking and progress analytics.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.FileName,
		LogToStdout:   cfg.Log.ToStdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Info("starting fitcoach server...")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI, cfg.Database.ConnectTimeout)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Info("disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.WithError(err).Error("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.WithField("database", cfg.Database.Name).Info("database connection established")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
			log.WithError(err).Error("index creation incomplete")
			return
		}
		log.Info("index creation completed")
	}()

	// --- Context cache ---
	var contextCache cache.ContextCache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				log.WithError(err).Error("failed to close redis client")
			}
		}()
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			// Cache misses are tolerated, so an unreachable Redis only degrades latency
			log.WithError(err).Warn("redis ping failed")
		}
		cancel()
		contextCache = cache.NewRedisContextCache(rdb, cfg.Redis.TTL)
		log.WithField("addr", cfg.Redis.Addr).Info("context cache enabled")
	}

	// --- Snapshot storage ---
	var snapshots storage.ObjectStorage = storage.Noop{}
	if cfg.S3.BucketName != "" {
		s3Ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		snapshots, err = storage.NewS3Storage(s3Ctx, cfg.S3)
		cancel()
		if err != nil {
			log.Fatalf("failed to initialize S3 storage: %v", err)
		}
		log.WithField("bucket", cfg.S3.BucketName).Info("snapshot archive enabled")
	}

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager(cfg.Metrics.Namespace, cfg.Metrics.Subsystem, reg)

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	scheduleRepo := mongo.NewMongoScheduleRepository(appDB)
	batchRepo := mongo.NewMongoPlanBatchRepository(dbClient, appDB)
	generationRepo := mongo.NewMongoGenerationRepository(appDB)
	trackingRepo := mongo.NewMongoTrackingRepository(appDB)
	progressRepo := mongo.NewMongoProgressRepository(appDB)
	onboardingRepo := mongo.NewMongoOnboardingRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	contextService := service.NewContextService(
		onboardingRepo, trackingRepo, planRepo, workoutRepo, scheduleRepo,
		contextCache, metricsManager, cfg.Context.RecentLimit, cfg.Context.UpcomingLimit,
	)
	planService := service.NewPlanService(planRepo, workoutRepo, scheduleRepo, generationRepo, snapshots, contextCache, metricsManager)
	generationService := service.NewGenerationService(
		generationRepo, planRepo, workoutRepo, scheduleRepo, batchRepo,
		contextService, generator.NewHTTPClient(cfg.Generator), snapshots, contextCache, metricsManager,
	)
	activityService := service.NewActivityService(trackingRepo, workoutRepo, contextCache, metricsManager)
	progressService := service.NewProgressService(progressRepo, trackingRepo, onboardingRepo, planRepo, workoutRepo, scheduleRepo)
	onboardingService := service.NewOnboardingService(onboardingRepo, contextCache)

	// --- Initialize Gin Engine ---
	if cfg.Server.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	opts := api.RouteOptions{
		Metrics:        metricsManager,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}
	if cfg.Generator.RateLimit > 0 {
		limiter := api.NewRateLimiter(cfg.Generator.RateLimit, cfg.Generator.RateBurst, 10*time.Minute)
		defer limiter.Stop()
		opts.GenerateLimiter = limiter
	}

	api.SetupRoutes(router, api.Services{
		Auth:       authService,
		Plans:      planService,
		Generation: generationService,
		Activity:   activityService,
		Progress:   progressService,
		Onboarding: onboardingService,
		Context:    contextService,
	}, opts)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout, // Covers a full generator round trip
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("address", cfg.Server.Address).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	log.Info("server exiting")
}
