package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/contacthub/contacts-api/internal/api/handler"
	"github.com/contacthub/contacts-api/internal/api/middleware"
	"github.com/contacthub/contacts-api/internal/core/domain"
	"github.com/contacthub/contacts-api/internal/core/service"
	"github.com/contacthub/contacts-api/internal/infrastructure/config"
	pgdb "github.com/contacthub/contacts-api/internal/infrastructure/db/postgres"
	redisdb "github.com/contacthub/contacts-api/internal/infrastructure/db/redis"
	"github.com/contacthub/contacts-api/internal/infrastructure/mail"
	"github.com/contacthub/contacts-api/internal/infrastructure/storage"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("contacts"))

	// --- Dependencies ---
	userRepo := pgdb.NewUserRepository(pool)
	userCache := redisdb.NewUserCache(rdb, cfg.Redis.UserTTL)
	tokens := service.NewTokenService(cfg.Auth.JWTSecret)
	hasher := service.NewPasswordHasher(0)
	mailer := mail.NewSMTPMailer(cfg.SMTP, cfg.BaseURL, log)
	avatars := storage.NewAvatarStorage(cfg.S3)

	authService := service.NewAuthService(userRepo, userCache, tokens, hasher, mailer, service.AuthOptions{
		AccessTokenTTL:   cfg.Auth.AccessTokenTTL,
		ConfirmTokenTTL:  cfg.Auth.ConfirmTokenTTL,
		ResetTokenTTL:    cfg.Auth.ResetTokenTTL,
		RequireConfirmed: cfg.Auth.RequireConfirmed,
	}, log)
	userService := service.NewUserService(userRepo, userCache, avatars, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	authMiddleware := middleware.Auth(tokens, userService)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/confirmed_email/:token", authHandler.ConfirmEmail)
	auth.POST("/request_email", authHandler.RequestEmail)
	auth.POST("/request-password-reset", authHandler.RequestPasswordReset)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// --- User routes (bearer token required) ---
	users := e.Group("/api/users", authMiddleware)
	users.GET("/me", userHandler.Me,
		echomiddleware.RateLimiter(echomiddleware.NewRateLimiterMemoryStore(10)))
	users.PATCH("/avatar", userHandler.UpdateAvatar, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler(pool, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
