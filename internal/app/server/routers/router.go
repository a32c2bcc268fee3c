package routers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"freshmart/internal/app/pkg/ginx"
	"freshmart/internal/app/pkg/logger"
	"freshmart/internal/app/pkg/metrics"
	"freshmart/internal/app/server/handlers/order"
	"freshmart/internal/app/server/handlers/product"
	"freshmart/internal/app/server/middlewares"
)

// HealthChecker dependency probed by /health
type HealthChecker func(ctx context.Context) error

// Options router settings
type Options struct {
	ServiceName    string
	RequestTimeout time.Duration
	AllowedOrigins []string
	Gatherer       prometheus.Gatherer    // exposed on /metrics when set
	ServerMetrics  *metrics.ServerMetrics // per-route request metrics when set
	HealthChecks   map[string]HealthChecker
}

// SetupRoutes builds the engine. Every /api route except the tracking long-poll runs
// under the request timeout; tracking is bounded by its own wait cap.
func SetupRoutes(
	orderHandler *order.OrderHandler,
	productHandler *product.ProductHandler,
	log logger.Logger,
	opts Options,
) *gin.Engine {
	ginx.SetupValidator()

	r := gin.New()
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.ErrorHandler(log))
	r.Use(middlewares.CORS(opts.AllowedOrigins...))
	if opts.ServerMetrics != nil {
		r.Use(middlewares.Metrics(opts.ServerMetrics))
	}

	r.GET("/health", healthHandler(opts))
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(opts.Gatherer)))
	}

	api := r.Group("/api")
	api.GET("/orders/:id/track", orderHandler.Track)

	bounded := api.Group("", middlewares.RequestTimeout(opts.RequestTimeout))
	{
		orders := bounded.Group("/orders")
		{
			orders.POST("", orderHandler.Create)
			orders.GET("", orderHandler.List)
			orders.GET("/slot/:slot", orderHandler.ListBySlot)
			orders.GET("/status/:status", orderHandler.ListByStatus)
			orders.GET("/:id", orderHandler.Get)
			orders.PUT("/:id/status", orderHandler.UpdateStatus)
			orders.POST("/:id/items", orderHandler.AddItem)
			orders.DELETE("/:id", orderHandler.Cancel)
		}

		products := bounded.Group("/products")
		{
			products.POST("", productHandler.Create)
			products.GET("", productHandler.List)
			products.GET("/category/:category", productHandler.ListByCategory)
			products.GET("/:id", productHandler.Get)
			products.PUT("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Delete)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		ginx.NotFound(c, "Route not found")
	})

	return r
}

func healthHandler(opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := make(map[string]string, len(opts.HealthChecks))
		healthy := true
		for name, check := range opts.HealthChecks {
			if err := check(ctx); err != nil {
				checks[name] = err.Error()
				healthy = false
				continue
			}
			checks[name] = "ok"
		}

		status, code := "ok", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": opts.ServiceName,
			"checks":  checks,
			"time":    time.Now().UTC(),
		})
	}
}
