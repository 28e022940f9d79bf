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

	_ "github.com/glamora/backoffice-system/docs"
	"github.com/glamora/backoffice-system/internal/api/handler"
	"github.com/glamora/backoffice-system/internal/api/metrics"
	"github.com/glamora/backoffice-system/internal/api/middleware"
	"github.com/glamora/backoffice-system/internal/core/domain"
	"github.com/glamora/backoffice-system/internal/core/guard"
	"github.com/glamora/backoffice-system/internal/core/ports"
	"github.com/glamora/backoffice-system/internal/core/service"
	mongodb "github.com/glamora/backoffice-system/internal/infrastructure/db/mongo"
	redisdb "github.com/glamora/backoffice-system/internal/infrastructure/db/redis"
	"github.com/glamora/backoffice-system/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit sink is constructed and started by the caller so its workers
// outlive individual requests; auditLog is the read side of the same trail.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, audit ports.AuditSink, auditLog ports.AuditReader, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("backoffice"))

	// --- Dependencies ---
	hasher := service.NewPasswordHasher(0, log)
	userRepo := mongodb.NewUserRepository(db)
	sessions := redisdb.NewSessionCache(rdb)
	verifier := guard.New(guard.WithDecisionObserver(func(outcome guard.Outcome, elapsed time.Duration) {
		metrics.GuardDecisionsTotal.WithLabelValues(outcome.String()).Inc()
		metrics.GuardDecisionDuration.Observe(elapsed.Seconds())
	}))
	authService := service.NewAuthService(userRepo, hasher, sessions, audit, verifier, cfg.JWTSecret, cfg.TokenTTL, cfg.AdminEmail, log)
	userService := service.NewUserService(userRepo, hasher, audit, log)
	bootstrapService := service.NewBootstrapService(userRepo, hasher, audit, cfg.AdminEmail, cfg.AdminPassword, log)

	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService, bootstrapService, log)
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/change-password", authHandler.ChangePassword)
	e.POST("/auth/logout", authHandler.Logout)
	e.POST("/auth/verify", authHandler.Verify)

	// --- Directory routes (administrative tiers only) ---
	users := e.Group("/users", authMiddleware, middleware.RBAC(domain.RoleSuperAdmin, domain.RoleAdmin))
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PUT("/:id", userHandler.Update)
	users.POST("/:id/reset-password", userHandler.ResetPassword)
	users.DELETE("/:id", userHandler.Delete, middleware.RBAC(domain.RoleSuperAdmin))

	e.POST("/admin/bootstrap", userHandler.Bootstrap)

	auditHandler := handler.NewAuditHandler(auditLog)
	e.GET("/admin/audit", auditHandler.Recent, authMiddleware, middleware.RBAC(domain.RoleSuperAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
