package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/push-api/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// GuardedHandler mounts routes of which some take extra middleware.
type GuardedHandler interface {
	RegisterRoutes(*gin.RouterGroup, ...gin.HandlerFunc)
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	healthH  Handler
	userH    Handler
	tokenH   Handler
	messageH GuardedHandler
	gatherer prometheus.Gatherer
	metrics  *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type RouterConfig struct {
	RateLimit     middleware.RateLimiterConfig
	CORSConfig    middleware.CORSConfig
	SizeLimit     middleware.SizeLimitConfig
	MetricsPrefix string
	Registerer    prometheus.Registerer
	Gatherer      prometheus.Gatherer
}

// NewRouter builds the engine. auth may be nil, in which case every route
// is public.
func NewRouter(
	auth *middleware.AuthMiddleware,
	healthH Handler,
	userH Handler,
	tokenH Handler,
	messageH GuardedHandler,
	config RouterConfig,
) *Router {
	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		healthH:  healthH,
		userH:    userH,
		tokenH:   tokenH,
		messageH: messageH,
		gatherer: config.Gatherer,
		metrics:  initRouterMetrics(config.Registerer, config.MetricsPrefix),
	}

	// Add core middlewares
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.CORS(config.CORSConfig),
		middleware.SizeLimit(config.SizeLimit),
	)

	rateLimiter := middleware.NewRateLimiter(config.RateLimit)
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	root := r.engine.Group("")

	r.healthH.RegisterRoutes(root)
	if r.gatherer != nil {
		root.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}

	r.userH.RegisterRoutes(root)
	r.tokenH.RegisterRoutes(root)

	var sendGuard []gin.HandlerFunc
	if r.auth != nil {
		sendGuard = append(sendGuard, r.auth.Authenticate())
	}
	r.messageH.RegisterRoutes(root, sendGuard...)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Metrics initialization and middleware
func initRouterMetrics(reg prometheus.Registerer, prefix string) *routerMetrics {
	factory := promauto.With(reg)
	return &routerMetrics{
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 500 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "server").Inc()
		} else if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "client").Inc()
		}
	}
}
