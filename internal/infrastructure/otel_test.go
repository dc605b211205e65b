package infrastructure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"

	"examstats/internal/config"
)

func TestInitializeOTel_PrometheusMetrics(t *testing.T) {
	cfg := config.TelemetryConfig{
		Environment:    "test",
		TraceExporter:  "none",
		MetricExporter: "prometheus",
		SampleRatio:    1,
	}

	providers, err := InitializeOTel(cfg, nil)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.Meter)
	require.NotNil(t, providers.PrometheusHTTP)

	counter, err := providers.Meter.Int64Counter("examstats_test_total")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "examstats_test_total")
}

func TestInitializeOTel_Disabled(t *testing.T) {
	providers, err := InitializeOTel(config.TelemetryConfig{TraceExporter: "none", MetricExporter: "none"}, nil)
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)
	assert.NotNil(t, providers.Tracer)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_UnknownExporter(t *testing.T) {
	_, err := InitializeOTel(config.TelemetryConfig{TraceExporter: "jaeger", MetricExporter: "none"}, nil)
	assert.Error(t, err)
}

func TestNewResource(t *testing.T) {
	res := newResource(config.TelemetryConfig{Environment: "staging"})

	assert.Equal(t, semconv.SchemaURL, res.SchemaURL())

	attrs := map[string]string{}
	for _, kv := range res.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, ServiceName, attrs[string(semconv.ServiceNameKey)])
	assert.Equal(t, ServiceVersion, attrs[string(semconv.ServiceVersionKey)])
	assert.Equal(t, "staging", attrs[string(semconv.DeploymentEnvironmentNameKey)])
	assert.NotEmpty(t, attrs["service.instance.id"])
}

func TestInitializeOTel_StdoutTracing(t *testing.T) {
	providers, err := InitializeOTel(config.TelemetryConfig{
		Environment:    "test",
		TraceExporter:  "stdout",
		MetricExporter: "none",
		SampleRatio:    1,
	}, nil)
	require.NoError(t, err)

	require.NotNil(t, providers.TracerProvider)
	_, span := providers.Tracer.Start(context.Background(), "load")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, providers.Shutdown(context.Background()))
}
