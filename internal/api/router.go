package api

import (
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/bibliotek/library-system/internal/api/handler"
	"github.com/bibliotek/library-system/internal/api/middleware"
	"github.com/bibliotek/library-system/internal/core/domain"
	"github.com/bibliotek/library-system/internal/core/service"
	"github.com/bibliotek/library-system/internal/infrastructure/config"
	"github.com/bibliotek/library-system/internal/infrastructure/db/postgres"
	redisdb "github.com/bibliotek/library-system/internal/infrastructure/db/redis"
	"github.com/bibliotek/library-system/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil when running in token auth mode.
func NewRouter(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *echo.Echo {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.JSONSerializer = JSONSerializer{}
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("library"))

	// --- Dependencies ---
	store := postgres.NewStore(db)
	authService := service.NewAuthService(store.Users(), cfg.JWTSecret, cfg.TokenTTL)
	userService := service.NewUserService(store, log)
	bookService := service.NewBookService(store, log)
	reservationService := service.NewReservationService(store, log)

	var sessions handler.SessionManager
	var authn echo.MiddlewareFunc
	if cfg.AuthMode == config.AuthModeSession {
		sessionStore := redisdb.NewSessionStore(rdb, cfg.SessionTTL)
		sessions = sessionStore
		authn = middleware.Session(sessionStore)
	} else {
		authn = middleware.Auth(cfg.JWTSecret)
	}
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	authHandler := handler.NewAuthHandler(authService, sessions, cfg.AuthMode, cfg.SessionTTL)
	userHandler := handler.NewUserHandler(userService)
	bookHandler := handler.NewBookHandler(bookService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	// --- Open routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)

	e.GET("/health", healthHandler.Live)
	e.GET("/health/ready", healthHandler.Ready)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Authenticated routes ---
	users := e.Group("/users", authn)
	users.GET("", userHandler.List, adminOnly)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	users.GET("/:id/reservations", reservationHandler.List)
	users.POST("/:id/reservations/:bookId", reservationHandler.Create)
	users.DELETE("/:id/reservations/:bookId", reservationHandler.Cancel)

	books := e.Group("/books", authn)
	books.GET("", bookHandler.List)
	books.GET("/:id", bookHandler.Get)
	books.POST("", bookHandler.Create, adminOnly)
	books.PUT("/:id", bookHandler.Update, adminOnly)
	books.DELETE("/:id", bookHandler.Delete, adminOnly)

	return e
}
