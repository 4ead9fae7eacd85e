package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/relaycrm/crm-system/docs"
	"github.com/relaycrm/crm-system/internal/api/handler"
	"github.com/relaycrm/crm-system/internal/api/middleware"
	"github.com/relaycrm/crm-system/internal/core/domain"
	"github.com/relaycrm/crm-system/internal/core/ports"
	"github.com/relaycrm/crm-system/internal/core/service"
	mongodb "github.com/relaycrm/crm-system/internal/infrastructure/db/mongo"
	redisdb "github.com/relaycrm/crm-system/internal/infrastructure/db/redis"
	"github.com/relaycrm/crm-system/internal/infrastructure/http/handlers"
	"github.com/relaycrm/crm-system/pkg/jwtx"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, tokens *jwtx.Service, audit ports.AuditRecorder, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("crm"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	leadRepo := mongodb.NewLeadRepository(db)
	profileCache := redisdb.NewProfileCache(rdb)

	authService := service.NewAuthService(userRepo, tokens, audit, log)
	userService := service.NewUserService(userRepo, profileCache, log)
	leadService := service.NewLeadService(leadRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	leadHandler := handler.NewLeadHandler(leadService)
	requireAuth := middleware.Auth(tokens)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)

	// --- User routes ---
	user := e.Group("/user", requireAuth)
	user.GET("/me", userHandler.Me)
	user.GET("", userHandler.List, middleware.RequireRoles(domain.RoleAdmin))

	// --- Lead routes ---
	lead := e.Group("/lead", requireAuth)
	lead.POST("", leadHandler.Create)
	lead.GET("", leadHandler.List)
	lead.PATCH("/:id", leadHandler.Update)

	// --- Health probes (no auth required) ---
	health := handlers.NewHealthHandler(db, rdb)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
