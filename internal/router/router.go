package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/najma-se/Hospital-Appointment-sys/internal/handler"
	appointmentHandler "github.com/najma-se/Hospital-Appointment-sys/internal/handler/appointment"
	authHandler "github.com/najma-se/Hospital-Appointment-sys/internal/handler/auth"
	departmentHandler "github.com/najma-se/Hospital-Appointment-sys/internal/handler/department"
	doctorHandler "github.com/najma-se/Hospital-Appointment-sys/internal/handler/doctor"
	requestHandler "github.com/najma-se/Hospital-Appointment-sys/internal/handler/request"
	"github.com/najma-se/Hospital-Appointment-sys/internal/middleware"
	"github.com/najma-se/Hospital-Appointment-sys/internal/model"
)

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	authH        *authHandler.Handler
	departmentH  *departmentHandler.Handler
	doctorH      *doctorHandler.Handler
	appointmentH *appointmentHandler.Handler
	requestH     *requestHandler.Handler
	h            *handler.Handler
	metrics      *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type Config struct {
	RateLimit     middleware.RateLimiterConfig
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authHandler.Handler,
	departmentH *departmentHandler.Handler,
	doctorH *doctorHandler.Handler,
	appointmentH *appointmentHandler.Handler,
	requestH *requestHandler.Handler,
	h *handler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	metrics := initRouterMetrics(config.MetricsPrefix)

	r := &Router{
		engine:       engine,
		auth:         auth,
		authH:        authH,
		departmentH:  departmentH,
		doctorH:      doctorH,
		appointmentH: appointmentH,
		requestH:     requestH,
		h:            h,
		metrics:      metrics,
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
	)
	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(config.RateLimit)
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.setupHealthCheck(api)

	// Public routes
	r.authH.RegisterRoutes(api)

	// Any authenticated principal
	authenticated := api.Group("")
	authenticated.Use(r.auth.Authenticate())
	r.doctorH.RegisterLookupRoutes(authenticated)
	r.requestH.RegisterRoutes(authenticated)

	// Admin-only routes
	admin := api.Group("")
	admin.Use(r.auth.Authenticate(), r.auth.RequireRole(model.RoleAdmin))
	r.authH.RegisterAdminRoutes(admin)
	r.departmentH.RegisterRoutes(admin)
	r.doctorH.RegisterRoutes(admin)
	r.appointmentH.RegisterRoutes(admin)
	r.requestH.RegisterAdminRoutes(admin)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path"},
		),
	}
	prometheus.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)
	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		r.metrics.requestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(method, path, status).Inc()
		if c.Writer.Status() >= 500 {
			r.metrics.errorTotal.WithLabelValues(method, path).Inc()
		}
	}
}
