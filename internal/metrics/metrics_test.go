package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func scrape(t *testing.T, router http.Handler) string {
	t.Helper()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 from /metrics, got %d", w.Code)
	}
	return w.Body.String()
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := NewMetrics()

	router := chi.NewRouter()
	router.Use(metrics.Middleware())
	router.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	router.Get("/metrics", metrics.Handler().ServeHTTP)

	testReq := httptest.NewRequest("GET", "/ping", nil)
	testW := httptest.NewRecorder()
	router.ServeHTTP(testW, testReq)

	if testW.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", testW.Code)
	}
	if testW.Body.String() != "pong" {
		t.Errorf("Expected body 'pong', got '%s'", testW.Body.String())
	}

	body := scrape(t, router)
	for _, metric := range []string{"http_requests_total", "http_request_duration_seconds"} {
		if !strings.Contains(body, metric) {
			t.Errorf("Expected metric '%s' not found in response", metric)
		}
	}
	if !strings.Contains(body, `path="/ping"`) {
		t.Error("Expected metrics to contain path label for /ping endpoint")
	}
}

func TestMetricsWithChiRoutePatterns(t *testing.T) {
	metrics := NewMetrics()
	router := chi.NewRouter()
	router.Use(metrics.Middleware())
	router.Delete("/api/assets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	router.Get("/metrics", metrics.Handler().ServeHTTP)

	req := httptest.NewRequest("DELETE", "/api/assets/64f0c2", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	body := scrape(t, router)
	// Should contain the route pattern, not the actual path
	if !strings.Contains(body, `path="/api/assets/{id}"`) {
		t.Error("Expected metrics to contain Chi route pattern, not actual path")
	}
	if !strings.Contains(body, `status="No Content"`) {
		t.Error("Expected status label to carry the recorded status text")
	}
}

func TestObserveCall(t *testing.T) {
	metrics := NewMetrics()

	metrics.ObserveCall("list", 200, 20*time.Millisecond)
	metrics.ObserveCall("create", 409, 5*time.Millisecond)
	metrics.ObserveCall("create", 0, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.clientTotal.WithLabelValues("list", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.clientTotal.WithLabelValues("create", "409")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.clientTotal.WithLabelValues("create", "transport_error")))
}

func TestSetStoreSize(t *testing.T) {
	metrics := NewMetrics()
	metrics.SetStoreSize(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.storeAssets))
}
