package bootstrap

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/dkoval/postium/internal/app/controllers"
	appMigrations "github.com/dkoval/postium/internal/app/migrations"
	appRepos "github.com/dkoval/postium/internal/app/repositories"
	appRoutes "github.com/dkoval/postium/internal/app/routes"
	appServices "github.com/dkoval/postium/internal/app/services"
	"github.com/dkoval/postium/internal/config"
	"github.com/dkoval/postium/internal/db"
	appMiddleware "github.com/dkoval/postium/internal/middleware"
	pkgAuth "github.com/dkoval/postium/internal/pkg/auth"
	"github.com/dkoval/postium/internal/pkg/filestorage"
	"github.com/dkoval/postium/internal/pkg/helpers"
	"github.com/dkoval/postium/internal/pkg/logger"
	"github.com/dkoval/postium/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	AuthService       appServices.AuthService
	PostService       appServices.PostService
	GroupService      appServices.GroupService
	CommentService    appServices.CommentService
	FollowService     appServices.FollowService
	PostController    *appControllers.PostController
	GroupController   *appControllers.GroupController
	ProfileController *appControllers.ProfileController
	CommentController *appControllers.CommentController
	AuthController    *appControllers.AuthController
	ErrorController   *appControllers.ErrorController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	PageCache         *appMiddleware.PageCache
	SessionService    *pkgAuth.SessionService
	FileStorage       *filestorage.LocalStorage
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seeding is best-effort; the app runs fine without demo data.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, controllers and
// middleware.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, "/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.SessionService = pkgAuth.NewSessionService(pkgAuth.SessionConfig{
		SecretKey:   cfg.Session.Secret,
		TokenExp:    helpers.ParseDuration(cfg.Session.Expiration, 168*time.Hour),
		TokenIssuer: cfg.Session.Issuer,
	})

	pageSize := cfg.App.PageSize

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, lgr)
	deps.GroupService = appServices.NewGroupService(
		deps.Repos.GroupRepository,
		deps.Repos.PostRepository,
		pageSize,
		lgr,
	)
	deps.PostService = appServices.NewPostService(
		deps.Repos.PostRepository,
		deps.Repos.UserRepository,
		deps.Repos.CommentRepository,
		deps.Repos.FollowRepository,
		deps.FileStorage,
		pageSize,
		lgr,
	)
	deps.CommentService = appServices.NewCommentService(
		deps.Repos.CommentRepository,
		deps.Repos.PostRepository,
		deps.Repos.UserRepository,
		lgr,
	)
	deps.FollowService = appServices.NewFollowService(
		deps.Repos.FollowRepository,
		deps.Repos.UserRepository,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.SessionService, deps.Repos.UserRepository, cfg.Session.CookieName)
	deps.PageCache = appMiddleware.NewPageCache(helpers.ParseDuration(cfg.App.IndexCacheTTL, 20*time.Second))

	deps.PostController = appControllers.NewPostController(deps.PostService, deps.GroupService)
	deps.GroupController = appControllers.NewGroupController(deps.GroupService)
	deps.ProfileController = appControllers.NewProfileController(deps.PostService, deps.FollowService)
	deps.CommentController = appControllers.NewCommentController(deps.CommentService, deps.PostService)
	deps.AuthController = appControllers.NewAuthController(deps.AuthService, deps.SessionService, cfg.Session.CookieName)
	deps.ErrorController = appControllers.NewErrorController()

	return deps, nil
}

// SetupRouter configures the Gin engine with templates, middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()
	router.SetFuncMap(template.FuncMap{
		"inc": func(n int) int { return n + 1 },
		"dec": func(n int) int { return n - 1 },
	})
	router.LoadHTMLGlob(filepath.Join("web", "templates", "*.html"))
	router.Static("/uploads", cfg.Server.StoragePath)

	appRoutes.SetupRouter(router,
		deps.PostController,
		deps.GroupController,
		deps.ProfileController,
		deps.CommentController,
		deps.AuthController,
		deps.ErrorController,
		deps.AuthMiddleware,
		deps.PageCache,
	)

	return router
}
