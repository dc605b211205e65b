package analysis

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const (
	TracerName = "examstats.analysis"
)

// AnalysisTracer instruments entity construction with spans and metrics
type AnalysisTracer struct {
	tracer        trace.Tracer
	constructions metric.Int64Counter
	duration      metric.Float64Histogram
	responses     metric.Int64Histogram
}

// NewAnalysisTracer creates the tracer and its instruments on meter
func NewAnalysisTracer(meter metric.Meter) (*AnalysisTracer, error) {
	constructions, err := meter.Int64Counter("examstats_entity_constructions_total",
		metric.WithDescription("Question and response constructions by outcome"))
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("examstats_entity_construction_duration_seconds",
		metric.WithDescription("Time to construct a question or response"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	responses, err := meter.Int64Histogram("examstats_question_responses",
		metric.WithDescription("Number of responses linked to each constructed question"))
	if err != nil {
		return nil, err
	}

	return &AnalysisTracer{
		tracer:        otel.Tracer(TracerName),
		constructions: constructions,
		duration:      duration,
		responses:     responses,
	}, nil
}

func noopTracer() *AnalysisTracer {
	t, _ := NewAnalysisTracer(noop.NewMeterProvider().Meter(TracerName))
	return t
}

// Start opens a span for constructing one entity
func (at *AnalysisTracer) Start(ctx context.Context, entity string, id int, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append([]attribute.KeyValue{
		attribute.String("entity", entity),
		attribute.Int("entity.id", id),
	}, attrs...)
	return at.tracer.Start(ctx, "analysis.build."+entity,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// Finish ends span and records the outcome
func (at *AnalysisTracer) Finish(ctx context.Context, span trace.Span, entity string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	attrs := metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("status", status),
	)
	at.constructions.Add(ctx, 1, attrs)
	at.duration.Record(ctx, time.Since(start).Seconds(), attrs)
}

// RecordResponses records how many responses a question linked
func (at *AnalysisTracer) RecordResponses(ctx context.Context, n int) {
	at.responses.Record(ctx, int64(n))
}
