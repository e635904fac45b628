package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/kolehiyo/admissions-api/api/swagger"
	"github.com/kolehiyo/admissions-api/internal/dto"
	"github.com/kolehiyo/admissions-api/internal/handler"
	"github.com/kolehiyo/admissions-api/internal/repository"
	"github.com/kolehiyo/admissions-api/internal/service"
	"github.com/kolehiyo/admissions-api/pkg/cache"
	"github.com/kolehiyo/admissions-api/pkg/config"
	"github.com/kolehiyo/admissions-api/pkg/database"
	"github.com/kolehiyo/admissions-api/pkg/jobs"
	"github.com/kolehiyo/admissions-api/pkg/logger"
	corsmiddleware "github.com/kolehiyo/admissions-api/pkg/middleware/cors"
	reqidmiddleware "github.com/kolehiyo/admissions-api/pkg/middleware/requestid"
)

// @title Admissions Course Assignment API
// @version 0.1.0
// @description Program resolution and batch course assignment engine
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var redisClient *redis.Client
	if cfg.Engine.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			// The report cache is an optimisation; runs still work without it.
			logr.Sugar().Warnw("redis unavailable, report cache disabled", "error", err)
			redisClient = nil
		}
	}

	programRepo := repository.NewProgramRepository(db)
	yearRepo := repository.NewAcademicYearRepository(db)
	curriculumRepo := repository.NewCurriculumRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	applicantRepo := repository.NewApplicantRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()

	metricsSvc := service.NewMetricsService()
	reportCache := service.NewReportCacheService(cacheRepo, cfg.Engine.ReportCacheTTL, logr, cfg.Engine.CacheEnabled && redisClient != nil)
	curriculumSvc := service.NewCurriculumService(curriculumRepo, courseRepo, logr)
	reconcileSvc := service.NewReconcileService(applicantRepo, studentRepo, enrollmentRepo, logr)
	assignmentSvc := service.NewAssignmentService(
		db,
		programRepo,
		yearRepo,
		enrollmentRepo,
		assignmentRepo,
		curriculumSvc,
		reconcileSvc,
		metricsSvc,
		reportCache,
		validate,
		logr,
		cfg.Engine.InsertChunkSize,
	)
	resolutionSvc := service.NewResolutionService(enrollmentRepo, programRepo, logr)
	programSvc := service.NewProgramService(programRepo)

	var queue *jobs.Queue
	if cfg.Engine.AsyncEnabled {
		queue = jobs.NewQueue("assignment_runs", func(ctx context.Context, job jobs.Job) error {
			req, ok := job.Payload.(dto.RunAssignmentsRequest)
			if !ok {
				logr.Error("unexpected job payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
				return nil
			}
			_, runErr := assignmentSvc.Run(ctx, req)
			return runErr
		}, jobs.QueueConfig{
			Workers:    cfg.Engine.QueueWorkers,
			BufferSize: cfg.Engine.QueueBuffer,
			Logger:     logr,
		})
		queue.Start(context.Background())
		defer queue.Stop()
	}

	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc, reportCache, queue, logr)
	resolutionHandler := handler.NewResolutionHandler(resolutionSvc)
	programHandler := handler.NewProgramHandler(programSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(metricsSvc.GinMiddleware())
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if pingErr := db.PingContext(c.Request.Context()); pingErr != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": pingErr.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/programs", programHandler.List)
		api.GET("/enrollments/:id/resolution", resolutionHandler.Preview)
		api.POST("/assignment-runs", assignmentHandler.Run)
		api.GET("/assignment-runs/latest", assignmentHandler.Latest)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
