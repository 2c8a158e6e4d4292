package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"growth_journal_backend/internal/config"
	"growth_journal_backend/internal/controller"
	"growth_journal_backend/internal/repository"
	"growth_journal_backend/internal/service"
	"growth_journal_backend/pkg/configwatcher"
	"growth_journal_backend/pkg/database"
	"growth_journal_backend/pkg/logger"
	"growth_journal_backend/pkg/monitoring"
	"growth_journal_backend/pkg/security"
	"growth_journal_backend/pkg/tracing"

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
}

type repositories struct {
	user          *repository.UserRepository
	record        *repository.DailyRecordRepository
	checkin       *repository.CheckinRepository
	focusSession  *repository.FocusSessionRepository
	pointsHistory *repository.PointsHistoryRepository
	aiInsight     *repository.AIInsightRepository
	goal          *repository.GoalRepository
}

type services struct {
	gamification *service.GamificationService
	ledger       *service.PointsHistoryService
	checkin      *service.CheckinService
	record       *service.DailyRecordService
	focus        *service.FocusService
	goal         *service.GoalService
	ai           *service.AIService
	insight      *service.InsightService
	report       *service.ReportService
	storage      *service.StorageService
	user         *service.UserService
	auth         *service.AuthService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	record       *controller.RecordController
	checkin      *controller.CheckinController
	focus        *controller.FocusController
	goal         *controller.GoalController
	gamification *controller.GamificationController
	ai           *controller.AIController
	report       *controller.ReportController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		record:        repository.NewDailyRecordRepository(db),
		checkin:       repository.NewCheckinRepository(db),
		focusSession:  repository.NewFocusSessionRepository(db),
		pointsHistory: repository.NewPointsHistoryRepository(db),
		aiInsight:     repository.NewAIInsightRepository(db),
		goal:          repository.NewGoalRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	gamification := service.NewGamificationService(repos.user, repos.record, repos.checkin, cfg.Gamification.StreakLookbackDays)
	ledger := service.NewPointsHistoryService(repos.pointsHistory)
	checkin := service.NewCheckinService(repos.checkin, gamification, ledger)
	ai := service.NewAIService(cfg.AI)

	storage, err := service.NewStorageService(&cfg.Storage)
	if err != nil {
		logger.Log.Fatal("初始化存储服务失败", zap.Error(err))
	}

	return &services{
		gamification: gamification,
		ledger:       ledger,
		checkin:      checkin,
		record:       service.NewDailyRecordService(repos.record, gamification, ledger),
		focus:        service.NewFocusService(repos.focusSession, ledger),
		goal:         service.NewGoalService(repos.goal),
		ai:           ai,
		insight:      service.NewInsightService(ai, repos.aiInsight, repos.record),
		report:       service.NewReportService(repos.record, repos.checkin, repos.goal, ai, gamification, rdb),
		storage:      storage,
		user:         service.NewUserService(repos.user, storage, rdb),
		auth:         service.NewAuthService(repos.user, checkin, gamification, cfg),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		record:       controller.NewRecordController(s.record),
		checkin:      controller.NewCheckinController(s.checkin),
		focus:        controller.NewFocusController(s.focus),
		goal:         controller.NewGoalController(s.goal),
		gamification: controller.NewGamificationController(s.gamification, s.ledger),
		ai:           controller.NewAIController(s.insight, s.report),
		report:       controller.NewReportController(s.report),
		health:       controller.NewHealthController(db),
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
		// redis只承载展示缓存，连不上时降级运行
		logger.Log.Warn("Redis unavailable, display caches disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("growth-journal", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, services, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// 配置热加载：目前只对日志级别等重启成本低的项生效，
	// 端口、数据库连接等仍需重启
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		updated, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		logger.Log.Info("配置文件已热加载",
			zap.String("mode", updated.Server.Mode),
			zap.Int("streakLookbackDays", updated.Gamification.StreakLookbackDays))
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
