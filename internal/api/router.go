package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/identware/user-service/docs"
	"github.com/identware/user-service/internal/api/handler"
	"github.com/identware/user-service/internal/api/middleware"
	"github.com/identware/user-service/internal/core/domain"
	"github.com/identware/user-service/internal/core/ports"
	"github.com/identware/user-service/internal/core/service"
	"github.com/identware/user-service/internal/infrastructure/config"
	mongodb "github.com/identware/user-service/internal/infrastructure/db/mongo"
	redisdb "github.com/identware/user-service/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb and audit may be nil; the corresponding concerns are then disabled.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, audit ports.AuditRecorder, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	hasher := service.NewPasswordHasher(cfg.Bcrypt.Cost, log)
	codec := service.NewTokenCodec(
		cfg.JWT.Secret,
		cfg.JWT.Audience,
		cfg.JWT.Issuer,
		time.Duration(cfg.JWT.ExpireMinutes)*time.Minute,
	)

	var throttle ports.LoginThrottle
	if rdb != nil {
		throttle = redisdb.NewLoginThrottle(rdb, 0)
	}

	authService := service.NewAuthService(userRepo, hasher, codec, throttle, audit, log)
	userService := service.NewUserService(userRepo, hasher, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	authenticate := middleware.Authenticate(codec, userRepo)

	// --- API v1 ---
	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/token", authHandler.Token)

	// Each route declares its own allow-set; an empty RequireRoles admits any
	// authenticated active user.
	users := v1.Group("/users", authenticate)
	users.GET("/me", userHandler.Me, middleware.RequireRoles(audit))
	users.GET("", userHandler.List, middleware.RequireRoles(audit, domain.RoleAdmin))
	users.GET("/by-email", userHandler.GetByEmail, middleware.RequireRoles(audit, domain.RoleUser))
	users.GET("/:id", userHandler.GetByID, middleware.RequireRoles(audit, domain.RoleUser, domain.RoleAdmin))
	users.PUT("/:id", userHandler.Update, middleware.RequireRoles(audit, domain.RoleAdmin))
	users.DELETE("/:id", userHandler.Delete, middleware.RequireRoles(audit, domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
