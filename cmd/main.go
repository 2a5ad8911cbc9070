package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/proctorexam/config"
	"github.com/lshigami/proctorexam/database"
	_ "github.com/lshigami/proctorexam/docs"
	adminctrl "github.com/lshigami/proctorexam/internal/controller/admin"
	proctorctrl "github.com/lshigami/proctorexam/internal/controller/proctor"
	userctrl "github.com/lshigami/proctorexam/internal/controller/user"
	"github.com/lshigami/proctorexam/internal/logger"
	"github.com/lshigami/proctorexam/internal/middleware"
	"github.com/lshigami/proctorexam/internal/model"
	"github.com/lshigami/proctorexam/internal/repository"
	"github.com/lshigami/proctorexam/internal/service"
	"github.com/lshigami/proctorexam/internal/ws"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Online Exam Proctoring API
// @version 1.0
// @description Exam delivery with webcam proctoring, violation logging and admin risk review.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	viper.AutomaticEnv()
	logger.Init(viper.GetString("LOG_LEVEL"))

	app := fx.New(
		fx.WithLogger(logger.NewFxLogger),

		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewRedisClient,
			NewFileSystem,
			NewGinEngine,
			ws.NewHub,
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewExamRepository,
			repository.NewQuestionRepository,
			repository.NewExamAttemptRepository,
			repository.NewExamSessionRepository,
			repository.NewViolationRepository,
			repository.NewHeartbeatRepository,
		),

		fx.Provide(
			service.NewSuspicionScorer,
			service.NewGeminiSignalExtractor,
			service.NewScreenshotStore,
			NewLivenessCache,
			func(hub *ws.Hub) service.ViolationNotifier { return hub },
			service.NewAuthService,
			service.NewAttemptService,
			service.NewViolationService,
			service.NewHeartbeatService,
			service.NewProctorService,
			service.NewRiskService,
			service.NewAdminService,
		),

		fx.Provide(
			userctrl.NewAuthController,
			userctrl.NewExamController,
			proctorctrl.NewProctorController,
			adminctrl.NewAdminController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(SeedAdmin),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop application cleanly")
	}
}

// NewRedisClient returns nil when REDIS_ADDR is not configured.
func NewRedisClient(lc fx.Lifecycle, cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis not reachable, liveness reads fall back to the database")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

func NewLivenessCache(client *redis.Client) service.LivenessCache {
	if client == nil {
		return nil
	}
	return service.NewRedisLivenessCache(client)
}

func NewFileSystem() afero.Fs {
	return afero.NewOsFs()
}

func NewGinEngine(cfg *config.Config, fs afero.Fs) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Screenshots are written through the same filesystem.
	r.StaticFS(cfg.Server.StaticPrefix, afero.NewHttpFs(fs).Dir(cfg.Server.StaticDir))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	hub *ws.Hub,
	authService service.AuthService,
	sessionRepo repository.ExamSessionRepository,
	authCtrl *userctrl.AuthController,
	examCtrl *userctrl.ExamController,
	proctorCtrl *proctorctrl.ProctorController,
	adminCtrl *adminctrl.AdminController,
) {
	authAPIGroup := router.Group("/api/v1/auth")
	{
		authAPIGroup.POST("/register", authCtrl.Register)
		authAPIGroup.POST("/login", authCtrl.Login)
		authAPIGroup.POST("/admin/login", authCtrl.AdminLogin)
	}

	studentAuth := middleware.Authenticate(authService, sessionRepo, middleware.Options{Role: model.RoleStudent})
	studentAPIGroup := router.Group("/api/v1/student", studentAuth)
	{
		studentAPIGroup.GET("/dashboard", examCtrl.Dashboard)
		studentAPIGroup.POST("/exams/select", examCtrl.SelectExam)
		studentAPIGroup.GET("/exams/readiness", examCtrl.Readiness)
		studentAPIGroup.POST("/exams/start", examCtrl.Start)
		studentAPIGroup.GET("/exams/current", examCtrl.CurrentExam)
		studentAPIGroup.POST("/exams/current/submit", examCtrl.Submit)
	}

	// The proctor endpoints answer 403 for every authentication failure.
	proctorAuth := func(deny middleware.DenyFunc) gin.HandlerFunc {
		return middleware.Authenticate(authService, sessionRepo, middleware.Options{
			Role:          model.RoleStudent,
			MissingStatus: http.StatusForbidden,
			Deny:          deny,
		})
	}
	proctorGroup := router.Group("/proctor")
	{
		proctorGroup.POST("/analyze", proctorAuth(proctorctrl.DenyAnalysis), proctorCtrl.Analyze)
		proctorGroup.POST("/violation", proctorAuth(proctorctrl.DenyStatus), proctorCtrl.ReportViolation)
		proctorGroup.POST("/heartbeat", proctorAuth(proctorctrl.DenyStatus), proctorCtrl.Heartbeat)
	}

	adminAuth := middleware.Authenticate(authService, sessionRepo, middleware.Options{Role: model.RoleAdmin})
	adminAPIGroup := router.Group("/api/v1/admin", adminAuth)
	{
		adminAPIGroup.GET("/exams", adminCtrl.ListExams)
		adminAPIGroup.POST("/exams", adminCtrl.CreateExam)
		adminAPIGroup.POST("/exams/:code/questions", adminCtrl.AddQuestion)
		adminAPIGroup.POST("/exams/:code/questions/import", adminCtrl.ImportQuestions)
		adminAPIGroup.GET("/students", adminCtrl.ListStudents)
		adminAPIGroup.GET("/students/:id", adminCtrl.StudentDetail)
		adminAPIGroup.GET("/students/:id/liveness", adminCtrl.StudentLiveness)
		adminAPIGroup.GET("/live", adminCtrl.LiveFeed)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Proctoring API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			hub.CloseAll()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Exam{},
		&model.Question{},
		&model.ExamAttempt{},
		&model.ExamSession{},
		&model.Violation{},
		&model.PhoneEvidenceClaim{},
		&model.Heartbeat{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

func SeedAdmin(authService service.AuthService, cfg *config.Config) error {
	return authService.EnsureAdmin(context.Background(), cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
}
