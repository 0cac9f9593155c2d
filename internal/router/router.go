package router

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinicdesk/internal/handler"
	authhandler "github.com/jwalitptl/clinicdesk/internal/handler/auth"
	prometheushandler "github.com/jwalitptl/clinicdesk/internal/handler/prometheus"
	"github.com/jwalitptl/clinicdesk/internal/middleware"
	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// Handlers groups every route owner the router mounts.
type Handlers struct {
	Auth         *authhandler.Handler
	Users        Handler
	Patients     Handler
	Appointments Handler
	Medications  Handler
	Finance      Handler
	Calendar     Handler
	Reminders    Handler
	Preferences  Handler
	Health       Handler
	Metrics      *prometheushandler.Handler
}

type RouterConfig struct {
	Mode             string
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	AllowedOrigins   []string
	MaxBodySize      int64
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	limiter  gin.HandlerFunc
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, log *logger.Logger, m *metrics.Metrics, config RouterConfig) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}

	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		limiter:  func(c *gin.Context) { c.Next() },
	}

	// Add core middlewares
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(log, m),
		middleware.Recovery(log),
		middleware.ErrorHandler(log),
		middleware.SecurityHeaders(),
		middleware.SizeLimit(config.MaxBodySize),
	)

	engine.Use(middleware.CORS(config.AllowedOrigins))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	if config.RateLimitEnabled {
		r.limiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		}).RateLimit()
	}

	return r
}

// Setup mounts every route. Calendar and health are open; everything else
// needs a session, and clinic data needs a staff role.
func (r *Router) Setup() *gin.Engine {
	if r.handlers.Metrics != nil {
		r.engine.GET("/metrics", r.handlers.Metrics.Handler())
	}

	api := r.engine.Group("/api/v1")

	r.handlers.Health.RegisterRoutes(api)
	r.handlers.Calendar.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	r.handlers.Auth.RegisterRoutes(api, protected, r.limiter)
	r.handlers.Preferences.RegisterRoutes(protected)

	staff := protected.Group("")
	staff.Use(r.auth.RequireRole(model.UserTypeAdmin, model.UserTypeDoctor))
	r.handlers.Patients.RegisterRoutes(staff)
	r.handlers.Appointments.RegisterRoutes(staff)
	r.handlers.Medications.RegisterRoutes(staff)
	r.handlers.Reminders.RegisterRoutes(staff)

	admin := protected.Group("")
	admin.Use(r.auth.RequireRole(model.UserTypeAdmin))
	r.handlers.Users.RegisterRoutes(admin)
	r.handlers.Finance.RegisterRoutes(admin)

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("route not found"))
	})

	return r.engine
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
