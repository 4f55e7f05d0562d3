// Package router sets up the HTTP routing for the application.
package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/finance-tracker/budget-api/config"
	"github.com/finance-tracker/budget-api/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/budget-api/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/budget-api/internal/integration/entrypoint/middleware"
)

// Options lists the controllers and middleware the router mounts.
type Options struct {
	Health       *controller.HealthController
	Auth         *controller.AuthController
	Profile      *controller.ProfileController
	Transactions *controller.TransactionController
	Budgets      *controller.BudgetController
	AuthMW       *middleware.AuthMiddleware
	Metrics      *middleware.Metrics
	Gatherer     prometheus.Gatherer
	Logger       *slog.Logger
}

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine *gin.Engine
	opts   Options
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(opts Options) *Router {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Router{opts: opts}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(server config.ServerConfig) *gin.Engine {
	switch server.Environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test", "e2e":
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.New()
	r.engine.HandleMethodNotAllowed = true
	_ = r.engine.SetTrustedProxies(nil)

	r.engine.Use(gin.Recovery())
	r.engine.Use(requestid.New())
	r.engine.Use(middleware.RequestLogger(r.opts.Logger))
	if r.opts.Metrics != nil {
		r.engine.Use(r.opts.Metrics.Handler())
	}
	if len(server.CORSAllowOrigins) > 0 {
		r.engine.Use(cors.New(cors.Config{
			AllowOrigins: server.CORSAllowOrigins,
			AllowMethods: []string{"OPTIONS", "GET", "POST", "PUT", "DELETE"},
			AllowHeaders: []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		}))
	}
	r.engine.Use(bodyLimit(server.MaxBodyBytes))

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Not found"})
	})
	r.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.ErrorResponse{Error: "Method not allowed"})
	})

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check and metrics endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.opts.Health.Check)
	if r.opts.Gatherer != nil {
		r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.opts.Gatherer, promhttp.HandlerOpts{})))
	}
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	api := r.engine.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", r.opts.Auth.Register)
		auth.POST("/login", r.opts.Auth.Login)
	}

	protected := api.Group("")
	protected.Use(r.opts.AuthMW.Authenticate())

	profile := protected.Group("/profile")
	{
		profile.GET("", r.opts.Profile.Get)
		profile.PUT("", r.opts.Profile.Update)
		profile.POST("/avatar", r.opts.Profile.UpdateAvatar)
	}

	transactions := protected.Group("/transactions")
	{
		transactions.GET("", r.opts.Transactions.List)
		transactions.POST("", r.opts.Transactions.Create)
		transactions.PUT("/:id", r.opts.Transactions.Update)
		transactions.DELETE("/:id", r.opts.Transactions.Delete)
	}

	budgets := protected.Group("/budgets")
	{
		budgets.GET("", r.opts.Budgets.List)
		budgets.POST("", r.opts.Budgets.Create)
		budgets.PUT("/:id", r.opts.Budgets.Update)
		budgets.DELETE("/:id", r.opts.Budgets.Delete)
	}
}

// bodyLimit caps request bodies; avatars travel as data URLs so the cap is generous.
func bodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
