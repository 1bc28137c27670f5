package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/risks/{marketId}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, id := range []string{"mock-port-strike", "mock-inflation"} {
		req := httptest.NewRequest("GET", "/api/risks/"+id, http.NoBody)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/risks/{marketId}", "200"))
	if val < 2 {
		t.Errorf("expected http_requests_total >= 2 for the route pattern, got %f", val)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
	if got := testutil.ToFloat64(httpRequestsInFlight); got != 0 {
		t.Errorf("in-flight gauge = %v after requests finished", got)
	}
}

func TestMetricsMiddleware_DifferentStatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())

	r.Post("/api/hedge", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Get("/api/analyze/summary", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	tests := []struct {
		method, path   string
		expectedStatus string
	}{
		{"POST", "/api/hedge", "400"},
		{"GET", "/api/analyze/summary", "500"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, http.NoBody)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, tc.path, tc.expectedStatus))
			if val < 1 {
				t.Errorf("expected requests_total for %s with status %s >= 1, got %f", tc.path, tc.expectedStatus, val)
			}
		})
	}
}

func TestMetricsMiddleware_SkipsPaths(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware("/metrics"))
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})

	req := httptest.NewRequest("GET", "/metrics", http.NoBody)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/metrics", "200")); val != 0 {
		t.Errorf("expected /metrics to be skipped, got %f", val)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unknown"},
		{"/*", "unknown"},
		{"/api/hedge/{transactionId}", "/api/hedge/{transactionId}"},
		{"/health", "/health"},
	}

	for _, tc := range tests {
		result := normalizePath(tc.input)
		if result != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, result, tc.expected)
		}
	}
}

func TestObserveProvider(t *testing.T) {
	ObserveProvider("polymarket", "markets", 0.2, nil)
	ObserveProvider("polymarket", "markets", 0.3, errors.New("boom"))

	if v := testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("polymarket", "markets", "ok")); v < 1 {
		t.Errorf("ok count = %v", v)
	}
	if v := testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("polymarket", "markets", "error")); v < 1 {
		t.Errorf("error count = %v", v)
	}
}

func TestRegisterProviderMetrics_Idempotent(t *testing.T) {
	RegisterProviderMetrics()
	RegisterProviderMetrics()
}
