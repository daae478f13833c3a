package app

import (
	"campus_erp_backend/internal/config"
	"campus_erp_backend/internal/controller"
	"campus_erp_backend/internal/repository"
	"campus_erp_backend/internal/service"
	"campus_erp_backend/pkg/configwatcher"
	"campus_erp_backend/pkg/database"
	"campus_erp_backend/pkg/logger"
	"campus_erp_backend/pkg/monitoring"
	"campus_erp_backend/pkg/security"
	"campus_erp_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	user       *repository.UserRepository
	department *repository.DepartmentRepository
	subject    *repository.SubjectRepository
	student    *repository.StudentRepository
	blueprint  *repository.BlueprintRepository
	mark       *repository.MarkRepository
}

type services struct {
	auth      *service.AuthService
	academic  *service.AcademicService
	blueprint *service.BlueprintService
	mark      *service.MarkService
	grid      *service.GridService
	storage   *service.StorageService
	transfer  *service.TransferService
}

type controllers struct {
	auth      *controller.AuthController
	academic  *controller.AcademicController
	blueprint *controller.BlueprintController
	mark      *controller.MarkController
	grid      *controller.GridController
	transfer  *controller.TransferController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	rosterTTL := time.Duration(cfg.Roster.CacheTTLSeconds) * time.Second
	return &repositories{
		user:       repository.NewUserRepository(db),
		department: repository.NewDepartmentRepository(db),
		subject:    repository.NewSubjectRepository(db),
		student:    repository.NewStudentRepository(db, rdb, rosterTTL),
		blueprint:  repository.NewBlueprintRepository(db),
		mark:       repository.NewMarkRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.academic = service.NewAcademicService(repos.department, repos.subject, repos.student)
	s.blueprint = service.NewBlueprintService(repos.blueprint, repos.subject)
	s.mark = service.NewMarkService(repos.mark, repos.student)
	s.grid = service.NewGridService(repos.blueprint, repos.subject, repos.student, repos.mark)
	s.transfer = service.NewTransferService(repos.blueprint, repos.subject, repos.student, repos.mark, s.grid, s.storage)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		academic:  controller.NewAcademicController(s.academic),
		blueprint: controller.NewBlueprintController(s.blueprint),
		mark:      controller.NewMarkController(s.mark),
		grid:      controller.NewGridController(s.grid),
		transfer:  controller.NewTransferController(s.transfer),
		health:    controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, cfg.ForceMigrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// redis 只是 roster 缓存，连不上时降级为直查数据库
		logger.Log.Warn("Redis unavailable, roster cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb, cfg)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("campus-erp", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, os.ModePerm)
		}
	}

	app.RegisterConfigCallback(func(updated *config.Config) {
		app.Config = updated
	})
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(updated interface{}) {
		newCfg, ok := updated.(*config.Config)
		if !ok {
			return
		}
		logger.Log.Info("Config reloaded")
		for _, cb := range app.configCallbacks {
			cb(newCfg)
		}
	})

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
