package routers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshmart/common/model"
	"freshmart/internal/app/domains/entity/etorder"
	"freshmart/internal/app/domains/entity/etproduct"
	"freshmart/internal/app/domains/services/svorder"
	"freshmart/internal/app/domains/services/svproduct"
	"freshmart/internal/app/pkg/errorx"
	"freshmart/internal/app/pkg/logger"
	"freshmart/internal/app/pkg/metrics"
	"freshmart/internal/app/server/handlers/order"
	"freshmart/internal/app/server/handlers/product"
)

// deadlineOrders records whether each call ran under a context deadline.
type deadlineOrders struct {
	getHadDeadline   bool
	trackHadDeadline bool
}

func (s *deadlineOrders) CreateOrder(context.Context, svorder.CreateOrderInput) (*etorder.Order, error) {
	return nil, errorx.ErrPersistence
}

func (s *deadlineOrders) GetOrder(ctx context.Context, id string) (*etorder.Order, error) {
	_, s.getHadDeadline = ctx.Deadline()
	return nil, errorx.ErrOrderNotFound
}

func (s *deadlineOrders) ListOrders(context.Context, string, string) ([]*etorder.Order, error) {
	return []*etorder.Order{}, nil
}

func (s *deadlineOrders) UpdateStatus(context.Context, string, string, string) (*etorder.Order, error) {
	return nil, errorx.ErrOrderNotFound
}

func (s *deadlineOrders) CancelOrder(context.Context, string, string) (*etorder.Order, error) {
	return nil, errorx.ErrOrderNotFound
}

func (s *deadlineOrders) AddItem(context.Context, string, etorder.Line) (*etorder.Order, error) {
	return nil, errorx.ErrOrderNotFound
}

func (s *deadlineOrders) TrackOrder(ctx context.Context, _ string, _ time.Duration) (*etorder.Order, *model.OrderEvent, error) {
	_, s.trackHadDeadline = ctx.Deadline()
	return nil, nil, errorx.ErrOrderNotFound
}

type emptyCatalog struct{}

func (emptyCatalog) CreateProduct(context.Context, svproduct.CreateProductInput) (*etproduct.Product, error) {
	return nil, errorx.ErrPersistence
}

func (emptyCatalog) GetProduct(context.Context, int64) (*etproduct.Product, error) {
	return nil, errorx.ErrProductNotFound
}

func (emptyCatalog) ListProducts(context.Context, string) ([]*etproduct.Product, error) {
	return []*etproduct.Product{}, nil
}

func (emptyCatalog) UpdateProduct(context.Context, int64, etproduct.Patch) (*etproduct.Product, error) {
	return nil, errorx.ErrProductNotFound
}

func (emptyCatalog) DeleteProduct(context.Context, int64) error {
	return errorx.ErrProductNotFound
}

func newEngine(orders order.OrderService, opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRoutes(order.NewOrderHandler(orders), product.NewProductHandler(emptyCatalog{}), logger.NewNop(), opts)
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSetupRoutes_TimeoutScope(t *testing.T) {
	orders := &deadlineOrders{}
	r := newEngine(orders, Options{RequestTimeout: 5 * time.Second})

	assert.Equal(t, http.StatusNotFound, get(r, "/api/orders/ORD1").Code)
	assert.True(t, orders.getHadDeadline)

	assert.Equal(t, http.StatusNotFound, get(r, "/api/orders/ORD1/track").Code)
	assert.False(t, orders.trackHadDeadline)
}

func TestSetupRoutes_StaticAndParamRoutes(t *testing.T) {
	r := newEngine(&deadlineOrders{}, Options{RequestTimeout: time.Second})

	assert.Equal(t, http.StatusOK, get(r, "/api/orders/slot/morning").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/orders/status/pending").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/products/category/fruits").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/products/12").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/nothing-here").Code)
}

func TestSetupRoutes_Health(t *testing.T) {
	r := newEngine(&deadlineOrders{}, Options{
		ServiceName: "freshmart-api",
		HealthChecks: map[string]HealthChecker{
			"mysql": func(context.Context) error { return nil },
		},
	})

	w := get(r, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "freshmart-api", body["service"])

	r = newEngine(&deadlineOrders{}, Options{
		HealthChecks: map[string]HealthChecker{
			"redis": func(context.Context) error { return errors.New("dial tcp: connection refused") },
		},
	})
	assert.Equal(t, http.StatusServiceUnavailable, get(r, "/health").Code)
}

func TestSetupRoutes_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := newEngine(&deadlineOrders{}, Options{
		Gatherer:      reg,
		ServerMetrics: metrics.NewServerMetrics(reg, "api"),
	})

	get(r, "/api/orders")
	w := get(r, "/metrics")

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `freshmart_api_http_requests_total{method="GET",route="/api/orders",status="200"} 1`))
}
