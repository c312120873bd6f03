package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/macapp/admin-console/docs"
	"github.com/macapp/admin-console/internal/api/handler"
	"github.com/macapp/admin-console/internal/api/middleware"
	"github.com/macapp/admin-console/internal/core/ports"
	"github.com/macapp/admin-console/internal/infrastructure/http/handlers"
	"github.com/macapp/admin-console/internal/session"
	"github.com/macapp/admin-console/pkg/logger"
)

const (
	apiPrefix       = "/api"
	uploadBodyLimit = "11M"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Auth       ports.AuthService
	Categories ports.CategoryService
	Resources  ports.ResourceService
	Users      ports.UserService
	Uploads    ports.UploadService
	Codec      *session.Codec

	// Readiness probes. A nil Redis pinger reports redis as disabled.
	Postgres handlers.Pinger
	Redis    handlers.Pinger
	Settings map[string]bool

	SecureCookie       bool
	GuardCatalogWrites bool
	CORSAllowOrigins   []string
	RateLimitRPS       float64

	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(logger.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "admin_console",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		Skipper:          outsideAPI,
		AllowOrigins:     d.CORSAllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	if d.RateLimitRPS > 0 {
		e.Use(echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
			Skipper: outsideAPI,
			Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(d.RateLimitRPS),
				Burst:     int(d.RateLimitRPS * 2),
				ExpiresIn: 3 * time.Minute,
			}),
			IdentifierExtractor: func(c echo.Context) (string, error) {
				return c.RealIP(), nil
			},
		}))
	}

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(apiPrefix, middleware.Session(d.Codec))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Codec, d.SecureCookie)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/profile", authHandler.Profile)

	// --- Catalog routes ---
	var catalog []echo.MiddlewareFunc
	if d.GuardCatalogWrites {
		catalog = append(catalog, middleware.GuardWrites())
	}
	categoryHandler := handler.NewCategoryHandler(d.Categories)
	categories := api.Group("/categories", catalog...)
	categories.GET("", categoryHandler.List)
	categories.POST("", categoryHandler.Create)
	categories.PUT("", categoryHandler.Update)
	categories.DELETE("", categoryHandler.Delete)

	resourceHandler := handler.NewResourceHandler(d.Resources)
	resources := api.Group("/resources", catalog...)
	resources.GET("", resourceHandler.List)
	resources.POST("", resourceHandler.Create)
	resources.PUT("", resourceHandler.Update)
	resources.DELETE("", resourceHandler.Delete)

	uploadHandler := handler.NewUploadHandler(d.Uploads)
	uploads := api.Group("/uploads", append(catalog, echomiddleware.BodyLimit(uploadBodyLimit))...)
	uploads.POST("/resource-icon", uploadHandler.ResourceIcon)

	// --- User administration (always behind the auth gate) ---
	userHandler := handler.NewUserHandler(d.Users)
	users := api.Group("/users", middleware.RequireAuth())
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PUT("", userHandler.Update)
	users.DELETE("", userHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Postgres, d.Redis, d.Settings)
	api.GET("/health", healthHandler.Liveness)
	api.GET("/health/ready", healthDepsHandler.Readiness)

	return e
}

func outsideAPI(c echo.Context) bool {
	p := c.Request().URL.Path
	return p != apiPrefix && !strings.HasPrefix(p, apiPrefix+"/")
}
