package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romariotrain/video-catalog/internal/logging"
	"github.com/romariotrain/video-catalog/internal/videos/kafka"
	"github.com/romariotrain/video-catalog/internal/videos/repository"
	"github.com/romariotrain/video-catalog/internal/videos/service"
)

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	var seen string
	h := RequestID(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "caller-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "caller-id", seen)
	assert.Equal(t, "caller-id", rec.Header().Get(HeaderRequestID))
}

func TestAccessLog_LogsRouteAndStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := chi.NewRouter()
	r.Use(RequestID(logger))
	r.Use(AccessLog(logger))
	r.Get("/videos/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos/9", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "/videos/{id}", entry["route"])
	assert.Equal(t, "/videos/9", entry["path"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestRecoverer(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := RequestID(logger)(Recoverer(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal error")
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "boom")
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.create("t", "a")
	api.do(http.MethodGet, "/videos/555", nil)

	rec := api.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Regexp(t, `videos_http_requests_total\{method="POST",route="/videos/?",status="201"\} 1`, body)
	assert.Contains(t, body, `route="/videos/{id}",status="404"`)
	assert.Contains(t, body, "videos_http_requests_in_flight")
}

func TestRouter_RecoveredPanicIsObserved(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	metrics := NewMetrics()

	h := New(service.New(repository.NewMemoryRepository(), nil, logger), logger)
	router := NewRouter(h, RouterConfig{Metrics: metrics, Logger: logger})
	router.(*chi.Mux).Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), `"message":"http request"`)
	assert.Contains(t, buf.String(), `"status":500`)

	rec = httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `videos_http_requests_total{method="GET",route="/boom",status="500"} 1`)
}

type stubStats struct {
	m kafka.Metrics
}

func (s stubStats) GetMetrics() kafka.Metrics { return s.m }

func TestMetrics_ObserveProducer(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveProducer(stubStats{m: kafka.Metrics{
		MessagesPublished: 5,
		MessagesFailed:    2,
		RetriesTotal:      3,
		AvgPublishTime:    250 * time.Millisecond,
	}})

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "videos_events_published_total 5")
	assert.Contains(t, body, "videos_events_failed_total 2")
	assert.Contains(t, body, "videos_events_retries_total 3")
	assert.Contains(t, body, "videos_events_publish_avg_seconds 0.25")
}

type checkFunc func(ctx context.Context) error

func (f checkFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

func TestReady(t *testing.T) {
	newRouter := func(checks map[string]HealthChecker) http.Handler {
		h := New(service.New(repository.NewMemoryRepository(), nil, zerolog.Nop()), zerolog.Nop())
		for name, c := range checks {
			h.AddReadinessCheck(name, c)
		}
		return NewRouter(h, RouterConfig{Logger: zerolog.Nop()})
	}
	ready := func(router http.Handler) (int, map[string]any) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return rec.Code, body
	}

	code, body := ready(newRouter(nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, body = ready(newRouter(map[string]HealthChecker{
		"kafka": checkFunc(func(ctx context.Context) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return nil
		}),
	}))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"kafka": "ok"}, body["checks"])

	code, body = ready(newRouter(map[string]HealthChecker{
		"kafka": checkFunc(func(context.Context) error { return errors.New("dial tcp: connection refused") }),
	}))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", body["status"])
	assert.Equal(t, map[string]any{"kafka": "dial tcp: connection refused"}, body["checks"])
}
