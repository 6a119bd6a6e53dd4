package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/tuitiondesk/internal/app/controllers"
	appMigrations "github.com/yigit/tuitiondesk/internal/app/migrations"
	appRepos "github.com/yigit/tuitiondesk/internal/app/repositories"
	appRoutes "github.com/yigit/tuitiondesk/internal/app/routes"
	appServices "github.com/yigit/tuitiondesk/internal/app/services"
	"github.com/yigit/tuitiondesk/internal/config"
	"github.com/yigit/tuitiondesk/internal/db"
	appMiddleware "github.com/yigit/tuitiondesk/internal/middleware"
	pkgAuth "github.com/yigit/tuitiondesk/internal/pkg/auth"
	"github.com/yigit/tuitiondesk/internal/pkg/email"
	"github.com/yigit/tuitiondesk/internal/pkg/helpers"
	"github.com/yigit/tuitiondesk/internal/pkg/logger"
	"github.com/yigit/tuitiondesk/internal/pkg/websocket"
	"github.com/yigit/tuitiondesk/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store               appRepos.Store
	AuthService         appServices.AuthService
	StudentService      appServices.StudentService
	FeeService          appServices.FeeService
	AttendanceService   appServices.AttendanceService
	AnnouncementService appServices.AnnouncementService
	Controllers         appRoutes.Controllers
	AuthMiddleware      *appMiddleware.AuthMiddleware
	JWTService          *pkgAuth.JWTService
	Hub                 *websocket.Hub
	Logger              zerolog.Logger
}

// ConfigPath returns the config file location, overridable with CONFIG_PATH
func ConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return filepath.Join("configs", "config.yaml")
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(ConfigPath())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the pool, applies migrations and seeds the admin account.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("dir", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.Migrate(ctx, os.DirFS(migrationsDir)); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	admin := seed.AdminAccount{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		FullName: cfg.Admin.FullName,
	}
	if err := seed.CreateDefaultAdmin(ctx, appRepos.NewUserRepository(database.Pool), pkgAuth.BcryptHasher{}, admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default admin, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes services, controllers and the announcement hub.
func BuildDependencies(cfg *config.Config, store appRepos.Store, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Store: store, Logger: lgr}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	hasher := pkgAuth.BcryptHasher{}
	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.Mail.Host,
		Port:      cfg.Mail.Port,
		Username:  cfg.Mail.Username,
		Password:  cfg.Mail.Password,
		FromName:  cfg.Mail.FromName,
		FromEmail: cfg.Mail.FromEmail,
	}, lgr)

	deps.Hub = websocket.NewHub(lgr)

	deps.AuthService = appServices.NewAuthService(store, hasher, deps.JWTService, mailer, lgr)
	deps.StudentService = appServices.NewStudentService(store, hasher, mailer, lgr)
	deps.FeeService = appServices.NewFeeService(store, lgr)
	deps.AttendanceService = appServices.NewAttendanceService(store, lgr)
	deps.AnnouncementService = appServices.NewAnnouncementService(store, deps.Hub, lgr)

	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.AuthService),
		Student:      appControllers.NewStudentController(deps.StudentService),
		Fee:          appControllers.NewFeeController(deps.FeeService),
		Attendance:   appControllers.NewAttendanceController(deps.AttendanceService),
		Announcement: appControllers.NewAnnouncementController(deps.AnnouncementService),
		Feed:         websocket.NewHandler(deps.Hub, lgr),
	}

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.CORS(cfg.Server.AllowedOrigins))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, cfg.JWT.RequireToken)

	return router
}
