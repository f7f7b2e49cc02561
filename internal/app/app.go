package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"exam_marking_backend/internal/config"
	"exam_marking_backend/internal/controller"
	"exam_marking_backend/internal/repository"
	"exam_marking_backend/internal/service"
	"exam_marking_backend/pkg/database"
	"exam_marking_backend/pkg/logger"
	"exam_marking_backend/pkg/monitoring"
	"exam_marking_backend/pkg/security"
	"exam_marking_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user          *repository.UserRepository
	module        *repository.ModuleRepository
	assignment    *repository.AssignmentRepository
	submission    *repository.SubmissionRepository
	markingScheme *repository.MarkingSchemeRepository
	gradingResult *repository.GradingResultRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	storage    *service.StorageService
	inference  *service.InferenceService
	extraction *service.ExtractionService
	module     *service.ModuleService
	assignment *service.AssignmentService
	submission *service.SubmissionService
	scheme     *service.SchemeService
	grading    *service.GradingService
	dashboard  *service.DashboardService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	module     *controller.ModuleController
	assignment *controller.AssignmentController
	submission *controller.SubmissionController
	scheme     *controller.SchemeController
	grading    *controller.GradingController
	dashboard  *controller.DashboardController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置热更新回调入口
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		module:        repository.NewModuleRepository(db),
		assignment:    repository.NewAssignmentRepository(db),
		submission:    repository.NewSubmissionRepository(db),
		markingScheme: repository.NewMarkingSchemeRepository(db),
		gradingResult: repository.NewGradingResultRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.inference = service.NewInferenceService(cfg.Inference)
	s.extraction = service.NewExtractionService(s.storage, logger.Log)

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.module = service.NewModuleService(repos.module)
	s.assignment = service.NewAssignmentService(repos.assignment, repos.module)
	s.submission = service.NewSubmissionService(repos.submission, repos.assignment, s.storage, logger.Log)
	s.scheme = service.NewSchemeService(repos.markingScheme, repos.assignment, s.inference, logger.Log)
	s.grading = service.NewGradingService(
		s.scheme,
		s.extraction,
		repos.submission,
		repos.assignment,
		repos.gradingResult,
		s.inference,
		rdb,
		cfg.Grading,
		logger.Log,
	)
	s.dashboard = service.NewDashboardService(repos.module, repos.assignment, repos.submission)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user),
		module:     controller.NewModuleController(s.module),
		assignment: controller.NewAssignmentController(s.assignment),
		submission: controller.NewSubmissionController(s.submission),
		scheme:     controller.NewSchemeController(s.scheme),
		grading:    controller.NewGradingController(s.grading),
		dashboard:  controller.NewDashboardController(s.dashboard),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis 只承担评分分布式锁，连不上时降级运行
		logger.Log.Warn("Redis unavailable, grading locks disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("exam-marking", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
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

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
