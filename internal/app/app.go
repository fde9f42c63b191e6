package app

import (
	"context"
	"ecolearn_backend/internal/config"
	"ecolearn_backend/internal/controller"
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/internal/service"
	"ecolearn_backend/pkg/configwatcher"
	"ecolearn_backend/pkg/database"
	"ecolearn_backend/pkg/logger"
	"ecolearn_backend/pkg/monitoring"
	"ecolearn_backend/pkg/security"
	"ecolearn_backend/pkg/tracing"
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
	user        *repository.UserRepository
	course      *repository.CourseRepository
	quiz        *repository.QuizRepository
	enrollment  *repository.EnrollmentRepository
	progress    *repository.ProgressRepository
	achievement *repository.AchievementRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	course      *service.CourseService
	learning    *service.LearningService
	quiz        *service.QuizService
	progression *service.ProgressionService
	achievement *service.AchievementService
	leaderboard *service.LeaderboardService
	dashboard   *service.DashboardService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	course       *controller.CourseController
	learning     *controller.LearningController
	quiz         *controller.QuizController
	gamification *controller.GamificationController
	dashboard    *controller.DashboardController
	content      *controller.ContentController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		quiz:        repository.NewQuizRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		progress:    repository.NewProgressRepository(db),
		achievement: repository.NewAchievementRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.enrollment, repos.achievement, repos.progress)
	s.progression = service.NewProgressionService(repos.user, repos.progress, repos.course, repos.enrollment)
	s.achievement = service.NewAchievementService(repos.achievement, repos.enrollment, repos.user)
	s.leaderboard = service.NewLeaderboardService(repos.user, repos.achievement, rdb)
	s.course = service.NewCourseService(repos.course, repos.quiz, repos.enrollment, repos.progress)
	s.learning = service.NewLearningService(repos.course, repos.progress, repos.enrollment, repos.user, s.progression, s.achievement, s.leaderboard, cfg, db)
	s.quiz = service.NewQuizService(repos.quiz, repos.enrollment, repos.user, s.progression, s.achievement, s.leaderboard, cfg, db)
	s.dashboard = service.NewDashboardService(repos.user, repos.course, repos.enrollment, repos.achievement, s.progression, s.leaderboard)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, s.user),
		user:         controller.NewUserController(s.user),
		course:       controller.NewCourseController(s.course, s.learning),
		learning:     controller.NewLearningController(s.learning, s.progression),
		quiz:         controller.NewQuizController(s.quiz),
		gamification: controller.NewGamificationController(s.leaderboard, s.achievement),
		dashboard:    controller.NewDashboardController(s.dashboard),
		content:      controller.NewContentController(s.course),
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
	logger.InitLogger(cfg.Server.Mode)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Migrations run automatically outside release mode; in release they
	// require the explicit -migrate flag.
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
		if err := database.SeedCatalogs(db); err != nil {
			logger.Log.Fatal("Failed to seed catalogs", zap.Error(err))
		}
		logger.Log.Info("Database migration completed")
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			// The leaderboard cache is the only Redis consumer and it
			// degrades to direct reads, so startup continues without it.
			logger.Log.Warn("Redis unavailable, leaderboard caching disabled", zap.Error(err))
			rdb = nil
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	gin.SetMode(resolveGinMode(cfg.Server.Mode))
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("ecolearn-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	// Point awards are tunable at runtime; a config file write updates the
	// shared config in place so services pick up new values immediately.
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		cfg.Gamification = newCfg.Gamification
		logger.Log.Info("Gamification config reloaded",
			zap.Int("points_per_quiz", newCfg.Gamification.PointsPerQuiz),
			zap.Int("points_per_lesson", newCfg.Gamification.PointsPerLesson),
		)
	})
	go configwatcher.WatchConfig("configs/config.yaml", app.notifyConfigChange)

	return app
}

func (a *App) notifyConfigChange(newCfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(newCfg)
	}
}

func resolveGinMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
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
