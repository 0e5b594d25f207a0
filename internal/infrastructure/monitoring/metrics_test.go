package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareRecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := NewMetrics()

	router := gin.New()
	router.Use(Middleware(metrics))
	router.GET("/conversations/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conversations/"+id, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	got := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("GET", "/conversations/:id", "200"))
	assert.Equal(t, float64(2), got)
}

func TestTimer(t *testing.T) {
	metrics := NewMetrics()

	NewTimer(metrics, "item").Stop("success")
	NewTimer(metrics, "item").Stop("error")
	NewTimer(metrics, "item").Stop("success")

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.CatalogQueries.WithLabelValues("item", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CatalogQueries.WithLabelValues("item", "error")))

	var nilTimer *Timer
	assert.NotPanics(t, func() { nilTimer.Stop("success") })
}

func TestHandlerExposesRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := NewMetrics()
	metrics.RecordMessage("created")

	router := gin.New()
	router.GET("/metrics", Handler(metrics))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `chatform_messages_created_total{status="created"} 1`)
	assert.Contains(t, w.Body.String(), "chatform_uptime_seconds")
}

func TestIndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}
