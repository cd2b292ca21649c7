package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teacourse_backend/internal/config"
	"teacourse_backend/internal/controller"
	"teacourse_backend/internal/repository"
	"teacourse_backend/internal/service"
	"teacourse_backend/pkg/database"
	"teacourse_backend/pkg/logger"
	"teacourse_backend/pkg/monitoring"
	"teacourse_backend/pkg/security"
	"teacourse_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	tracerShutdown func(context.Context) error
}

type repositories struct {
	group *repository.GroupRepository
	photo *repository.PhotoRepository
	chat  *repository.ChatRepository
}

type services struct {
	storage    *service.StorageService
	photo      *service.PhotoService
	identity   *service.IdentityService
	submission *service.SubmissionService
	group      *service.GroupService
	export     *service.ExportService
}

type controllers struct {
	submission *controller.SubmissionController
	group      *controller.GroupController
	export     *controller.ExportController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		group: repository.NewGroupRepository(db),
		photo: repository.NewPhotoRepository(db),
		chat:  repository.NewChatRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}
	s.storage = service.NewStorageService(cfg)
	s.photo = service.NewPhotoService(s.storage)
	s.identity = service.NewIdentityService(repos.group)
	s.submission = service.NewSubmissionService(db, s.identity, repos.group, repos.photo, repos.chat, s.photo)
	s.group = service.NewGroupService(repos.group, s.photo, rdb)
	s.export = service.NewExportService(repos.group, s.photo)
	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		submission: controller.NewSubmissionController(s.submission, s.group),
		group:      controller.NewGroupController(s.group),
		export:     controller.NewExportController(s.export),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("teacourse-server", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerShutdown = tp.Shutdown
	}

	app.registerRoutes(router, controllers, cfg)

	// 本地存储时由服务进程直接伺服照片文件
	if cfg.Storage.Type == "local" {
		router.Static("/static/photos", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
