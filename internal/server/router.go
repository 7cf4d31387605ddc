package server

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/arqon-study-api/internal/handler"
	"github.com/noah-isme/arqon-study-api/internal/middleware"
	"github.com/noah-isme/arqon-study-api/internal/repository"
	"github.com/noah-isme/arqon-study-api/internal/service"
	"github.com/noah-isme/arqon-study-api/pkg/config"
	"github.com/noah-isme/arqon-study-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/arqon-study-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/arqon-study-api/pkg/middleware/requestid"
)

// New wires repositories, services and handlers onto a gin engine. A nil
// metrics service disables instrumentation and the /metrics endpoint.
func New(cfg *config.Config, store repository.BlobStore, logr *zap.Logger, metrics *service.MetricsService) *gin.Engine {
	if logr == nil {
		logr = zap.NewNop()
	}
	if metrics != nil {
		store = repository.Instrument(store, metrics)
	}

	validate := validator.New()

	assignmentRepo := repository.NewAssignmentRepository(store, logr)
	courseRepo := repository.NewCourseRepository(store, logr)
	userRepo := repository.NewUserRepository(store, logr)
	prefRepo := repository.NewPreferenceRepository(store, logr)

	if cfg.Auth.PasswordScheme == config.PasswordLegacy {
		logr.Warn("legacy password encoding enabled; stored passwords are reversible")
	}

	authSvc := service.NewAuthService(userRepo, prefRepo, service.NewPasswordHasher(cfg.Auth.PasswordScheme), validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		SessionTTL:        cfg.Auth.SessionTTL,
		Issuer:            cfg.JWT.Issuer,
	})
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, courseRepo, prefRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(courseSvc, assignmentSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc, handler.NewRememberCookie([]byte(cfg.Auth.CookieHashKey), cfg.Auth.CookieSecure), logr)
	courseHandler := handler.NewCourseHandler(courseSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc, authSvc)

	var metricsHandler *handler.MetricsHandler
	ready := func(ctx context.Context) error { return repository.Ping(ctx, store) }
	if metrics != nil {
		metricsHandler = handler.NewMetricsHandler(metrics.Handler(), ready)
	} else {
		metricsHandler = handler.NewMetricsHandler(nil, ready)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if metrics != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	requireSession := middleware.JWT(authSvc)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/remembered", authHandler.Remembered)
	auth.POST("/logout", requireSession, authHandler.Logout)
	auth.GET("/me", requireSession, authHandler.Me)

	protected := api.Group("")
	protected.Use(requireSession)

	protected.GET("/dashboard", dashboardHandler.Get)

	courses := protected.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.POST("", courseHandler.Create)
	courses.GET("/:id", courseHandler.Get)
	courses.PUT("/:id", courseHandler.Update)
	courses.DELETE("/:id", courseHandler.Delete)

	assignments := protected.Group("/assignments")
	assignments.GET("", assignmentHandler.List)
	assignments.POST("", assignmentHandler.Create)
	assignments.GET("/export", assignmentHandler.Export)
	assignments.GET("/view", assignmentHandler.View)
	assignments.PUT("/view/filter", assignmentHandler.ApplyFilter)
	assignments.POST("/view/sort", assignmentHandler.Sort)
	assignments.DELETE("/:id", assignmentHandler.Delete)
	assignments.PATCH("/:id/status", assignmentHandler.UpdateStatus)

	return r
}
