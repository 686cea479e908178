package handler

import (
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/moementrabelsi/mma/internal/metrics"
	mid "github.com/moementrabelsi/mma/internal/middleware"
	"github.com/moementrabelsi/mma/internal/service"
	"github.com/moementrabelsi/mma/internal/store"
	"github.com/moementrabelsi/mma/pkg/jwtutil"
	"github.com/moementrabelsi/mma/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds what the router needs beyond the services
type RouterConfig struct {
	APIPrefix  string
	CORSOrigin string
	Store      store.Store
	JWT        *jwtutil.JWTUtil
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
}

// NewRouter builds the echo instance with middleware and every route
func NewRouter(cfg RouterConfig, svc *service.Services) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	// Middleware
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: strings.Split(cfg.CORSOrigin, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware(cfg.Metrics))
	e.Use(logger.Middleware())

	// Operational endpoints
	health := NewHealthHandler(cfg.Store)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/health", health.Health)

	prefix := "/" + strings.Trim(cfg.APIPrefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	api := e.Group(prefix)
	api.GET("", health.Banner)
	api.GET("/", health.Banner)

	categories := NewCategoryHandler(svc.Categories)
	subCategories := NewSubCategoryHandler(svc.SubCategories)
	products := NewProductHandler(svc.Products)
	auth := NewAuthHandler(svc.Auth)

	// Public catalog routes
	api.GET("/categories", categories.ListCategories)
	api.GET("/categories/:id", categories.GetCategory)
	api.GET("/subcategories", subCategories.ListSubCategories)
	api.GET("/subcategories/:id", subCategories.GetSubCategory)
	api.GET("/products", products.ListProducts)
	api.GET("/products/types", products.ListTypes)
	api.GET("/products/usages", products.ListUsages)
	api.GET("/products/:id", products.GetProduct)
	api.GET("/filters/types", products.ListTypes)
	api.GET("/filters/usages", products.ListUsages)

	// Auth routes
	authenticated := mid.AuthMiddleware(cfg.JWT, cfg.Metrics)
	authAPI := api.Group("/auth")
	authAPI.POST("/login", auth.Login)
	authAPI.GET("/me", auth.Me, authenticated)
	authAPI.PUT("/password", auth.ChangePassword, authenticated)

	// Admin routes - token and admin claim required
	admin := api.Group("/admin", authenticated, mid.RequireAdmin)
	admin.POST("/products", products.CreateProduct)
	admin.PUT("/products/:id", products.UpdateProduct)
	admin.DELETE("/products/:id", products.DeleteProduct)
	admin.POST("/categories", categories.CreateCategory)
	admin.PUT("/categories/:id", categories.UpdateCategory)
	admin.DELETE("/categories/:id", categories.DeleteCategory)
	admin.POST("/subcategories", subCategories.CreateSubCategory)
	admin.PUT("/subcategories/:id", subCategories.UpdateSubCategory)
	admin.DELETE("/subcategories/:id", subCategories.DeleteSubCategory)

	return e
}
