package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin/internal/middleware"
	"github.com/noah-isme/academy-admin/internal/service"
	"github.com/noah-isme/academy-admin/internal/session"
	"github.com/noah-isme/academy-admin/internal/validation"
	"github.com/noah-isme/academy-admin/pkg/logger"
	corsmiddleware "github.com/noah-isme/academy-admin/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academy-admin/pkg/middleware/requestid"
)

// RouterConfig carries the dependencies of the dashboard router. Exports and
// Testimonials are optional; their routes are only mounted when set.
type RouterConfig struct {
	Logger       *zap.Logger
	CORSOrigins  []string
	Visitor      middleware.VisitorConfig
	Registry     *session.Registry
	Metrics      *service.MetricsService
	Analytics    *service.AnalyticsService
	Exports      exportJobs
	Testimonials testimonialService
	Probes       map[string]Probe
	Validate     *validator.Validate
	Docs         gin.HandlerFunc
}

// NewRouter builds the dashboard HTTP router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Validate == nil {
		cfg.Validate = validation.NewValidator()
	}
	if cfg.Analytics == nil {
		cfg.Analytics = service.NewAnalyticsService(nil, 0, cfg.Logger)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(cfg.Logger))
	r.Use(corsmiddleware.New(cfg.CORSOrigins))
	r.Use(middleware.Metrics(cfg.Metrics, "/metrics"))

	metricsHandler := NewMetricsHandler(cfg.Metrics, cfg.Probes)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Docs != nil {
		r.GET("/docs/*any", cfg.Docs)
	}

	var exportHandler *ExportHandler
	if cfg.Exports != nil {
		exportHandler = NewExportHandler(cfg.Exports, cfg.Validate)
		r.GET("/exports/:token", exportHandler.Download)
	}

	visitor := r.Group("", middleware.Visitor(cfg.Registry, cfg.Visitor, cfg.Logger))

	authHandler := NewAuthHandler(cfg.Validate)
	auth := visitor.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/session", authHandler.Session)
	auth.POST("/profile/refresh", authHandler.RefreshProfile)

	guarded := visitor.Group("", middleware.Guard())
	guarded.GET("/login", authHandler.LoginPage)

	analyticsHandler := NewAnalyticsHandler(cfg.Analytics, cfg.Metrics)
	dashboard := guarded.Group("/dashboard")
	dashboard.GET("", analyticsHandler.Dashboard)
	dashboard.GET("/analytics", analyticsHandler.Overview)
	dashboard.GET("/analytics/system", analyticsHandler.System)

	leadHandler := NewLeadHandler(cfg.Validate, cfg.Analytics)
	dashboard.GET("/leads", leadHandler.List)
	dashboard.POST("/leads", leadHandler.Create)
	dashboard.PUT("/leads/:id", leadHandler.Update)
	dashboard.PATCH("/leads/:id/status", leadHandler.UpdateStatus)
	dashboard.DELETE("/leads/:id", leadHandler.Delete)

	courseHandler := NewCourseHandler(cfg.Validate, cfg.Analytics)
	dashboard.GET("/courses", courseHandler.List)
	dashboard.POST("/courses", courseHandler.Create)
	dashboard.PUT("/courses/:id", courseHandler.Update)
	dashboard.DELETE("/courses/:id", courseHandler.Delete)
	dashboard.GET("/categories", courseHandler.ListCategories)
	dashboard.POST("/categories", courseHandler.CreateCategory)
	dashboard.DELETE("/categories/:id", courseHandler.DeleteCategory)

	if exportHandler != nil {
		dashboard.POST("/leads/exports", exportHandler.Create)
		dashboard.GET("/exports/:id", exportHandler.Status)
	}

	if cfg.Testimonials != nil {
		testimonialHandler := NewTestimonialHandler(cfg.Testimonials, cfg.Validate)
		dashboard.GET("/testimonials", testimonialHandler.List)
		dashboard.POST("/testimonials", testimonialHandler.Create)
		dashboard.PUT("/testimonials/:id", testimonialHandler.Update)
		dashboard.PATCH("/testimonials/:id/status", testimonialHandler.UpdateStatus)
		dashboard.PATCH("/testimonials/:id/featured", testimonialHandler.SetFeatured)
		dashboard.DELETE("/testimonials/:id", testimonialHandler.Delete)
	}

	return r
}
