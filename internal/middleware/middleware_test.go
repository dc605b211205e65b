package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	apperrors "examstats/internal/errors"
	"examstats/internal/infrastructure"
	"examstats/internal/shared/testutil"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequestID(t *testing.T) {
	var seen, traceID string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		traceID = infrastructure.GetTraceID(r.Context())
	}))

	t.Run("generates an id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
		assert.Equal(t, seen, traceID)
	})

	t.Run("reuses the client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "client-42")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "client-42", seen)
		assert.Equal(t, "client-42", rec.Header().Get("X-Request-ID"))
	})
}

func TestStructuredLogger(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	h := RequestID(StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/questions?ids=1", nil))

	assert.True(t, handler.ContainsMessage("request completed"))
	assert.True(t, handler.ContainsAttr("status", int64(http.StatusTeapot)))
	assert.True(t, handler.ContainsAttr("query", "ids=1"))
}

func TestRecoverer(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := Recoverer(apperrors.NewErrorHandler(logger, false))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperrors.TypeInternal, body["type"])
}

func TestRateLimiter(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	rl := NewRateLimiter(0.001, 1, logger, apperrors.NewErrorHandler(logger, false))
	h := rl.Handler(http.HandlerFunc(okHandler))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), apperrors.TypeRateLimit)
	assert.True(t, handler.ContainsMessage("rate limit exceeded"))
}

func TestTimeout(t *testing.T) {
	var deadline time.Time
	var ok bool
	h := Timeout(time.Second)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestOTelMiddleware_RecordsRoute(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	m, err := NewOTelMiddleware(provider.Meter("test"), nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/api/questions/{id}", okHandler)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/questions/7", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, mt := range sm.Metrics {
			if mt.Name != "examstats_http_requests_total" {
				continue
			}
			sum, ok := mt.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			require.Len(t, sum.DataPoints, 1)
			route, _ := sum.DataPoints[0].Attributes.Value("route")
			assert.Equal(t, "/api/questions/{id}", route.AsString())
			assert.Equal(t, int64(1), sum.DataPoints[0].Value)
			found = true
		}
	}
	assert.True(t, found)
}

func TestRequestValidator(t *testing.T) {
	type query struct {
		IDs   []int `query:"ids" validate:"required,min=1,dive,gte=0"`
		Limit int   `json:"limit" validate:"lte=10"`
	}
	v := NewRequestValidator()

	assert.Nil(t, v.Validate(query{IDs: []int{0, 3}}))

	apiErr := v.Validate(query{IDs: []int{1, -2}, Limit: 20})
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	details, ok := apiErr.Details.(apperrors.ValidationErrors)
	require.True(t, ok)
	require.Len(t, details.Errors, 2)
	assert.Equal(t, "ids[1]", details.Errors[0].Field)
	assert.Equal(t, "must be greater than or equal to 0", details.Errors[0].Message)
	assert.Equal(t, "limit", details.Errors[1].Field)

	apiErr = v.Validate(query{})
	require.NotNil(t, apiErr)
	details = apiErr.Details.(apperrors.ValidationErrors)
	assert.Equal(t, "is required", details.Errors[0].Message)
}
