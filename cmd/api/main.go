package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/learnroot/learnroot-api/api/swagger"
	"github.com/learnroot/learnroot-api/internal/handler"
	"github.com/learnroot/learnroot-api/internal/middleware"
	"github.com/learnroot/learnroot-api/internal/repository"
	"github.com/learnroot/learnroot-api/internal/service"
	"github.com/learnroot/learnroot-api/pkg/cache"
	"github.com/learnroot/learnroot-api/pkg/config"
	"github.com/learnroot/learnroot-api/pkg/database"
	"github.com/learnroot/learnroot-api/pkg/logger"
	corsmiddleware "github.com/learnroot/learnroot-api/pkg/middleware/cors"
	reqidmiddleware "github.com/learnroot/learnroot-api/pkg/middleware/requestid"
)

// @title Learnroot API
// @version 1.0.0
// @description School administration API: users, teachers, students, classes, subjects, grades, timetable, events, and announcements
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelInit()
	if err := database.Initialize(initCtx, db); err != nil {
		logr.Fatal("failed to initialize schema", zap.Error(err))
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	eventRepo := repository.NewEventRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	var cacheRepo *repository.CacheRepository
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	})
	metricsService := service.NewMetricsService()

	registry := &handler.Registry{
		Auth:          handler.NewAuthHandler(authService),
		Teachers:      handler.NewTeacherHandler(service.NewTeacherService(teacherRepo, userRepo, validate, logr)),
		Subjects:      handler.NewSubjectHandler(service.NewSubjectService(subjectRepo, validate, logr)),
		Grades:        handler.NewGradeHandler(service.NewGradeService(gradeRepo, subjectRepo, validate, logr)),
		Classes:       handler.NewClassHandler(service.NewClassService(classRepo, teacherRepo, validate, logr)),
		Students:      handler.NewStudentHandler(service.NewStudentService(studentRepo, classRepo, validate, logr)),
		Timetable:     handler.NewTimetableHandler(service.NewTimetableService(timetableRepo, classRepo, subjectRepo, teacherRepo, validate, logr)),
		Events:        handler.NewEventHandler(service.NewEventService(eventRepo, validate, logr)),
		Announcements: handler.NewAnnouncementHandler(service.NewAnnouncementService(announcementRepo, validate, logr)),
		Dashboard:     handler.NewDashboardHandler(newDashboardService(dashboardRepo, cacheRepo, cfg, metricsService, logr)),
		Reports:       handler.NewReportHandler(service.NewReportService(studentRepo, teacherRepo, logr)),
		Settings:      handler.NewSettingHandler(service.NewSettingService(settingRepo, validate, logr)),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	registry.Register(r, cfg.APIPrefix, authService)

	r.GET("/metrics", gin.WrapH(metricsService.Handler()))
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("forced shutdown", zap.Error(err))
	}
}

// A nil *CacheRepository must stay a nil interface inside the service.
func newDashboardService(repo *repository.DashboardRepository, cacheRepo *repository.CacheRepository, cfg *config.Config, metricsService *service.MetricsService, logr *zap.Logger) *service.DashboardService {
	if cacheRepo == nil {
		return service.NewDashboardService(repo, nil, metricsService, cfg.Dashboard.CacheTTL, logr)
	}
	return service.NewDashboardService(repo, cacheRepo, metricsService, cfg.Dashboard.CacheTTL, logr)
}
