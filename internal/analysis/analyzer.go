package analysis

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"examstats/internal/records"
	"examstats/pkg/contracts/domain"
)

// Analyzer builds questions and responses from record sources.
// It holds no mutable state; concurrency safety depends on its Loader.
type Analyzer struct {
	loader records.Loader
	logger *slog.Logger
	tracer *AnalysisTracer
}

// New creates an analyzer reading sources through loader
func New(loader records.Loader, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "analysis"))

	tracer, err := NewAnalysisTracer(otel.Meter(TracerName))
	if err != nil {
		logger.Warn("analysis metrics disabled", slog.String("error", err.Error()))
		tracer = noopTracer()
	}

	return &Analyzer{loader: loader, logger: logger, tracer: tracer}
}

// Response builds the response at row rID of the response source
func (a *Analyzer) Response(ctx context.Context, rID int, responsesPath string) (resp *domain.Response, err error) {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "response", rID, attribute.String("source.responses", responsesPath))
	defer func() { a.tracer.Finish(ctx, span, "response", start, err) }()

	store, err := a.loader.Load(ctx, responsesPath)
	if err != nil {
		return nil, err
	}
	if err := store.RequireFields(domain.FieldDrawing, domain.FieldRedrawing); err != nil {
		return nil, err
	}

	rec, err := store.Get(rID)
	if err != nil {
		return nil, err
	}

	resp = newResponse(rID, responsesPath, rec)
	a.logger.DebugContext(ctx, "response built",
		slog.Int("r_id", rID),
		slog.String("source", responsesPath))
	return resp, nil
}

// newResponse copies a response row; fields other than the named ones go to Attributes
func newResponse(rID int, source string, rec domain.Record) *domain.Response {
	resp := &domain.Response{
		ID:         rID,
		Source:     source,
		Exam:       rec[domain.FieldExam],
		QNumber:    rec[domain.FieldQNumber],
		Drawing:    domain.Truthy(rec[domain.FieldDrawing]),
		Redrawing:  domain.Truthy(rec[domain.FieldRedrawing]),
		Attributes: make(domain.Record, len(rec)),
	}
	for name, v := range rec {
		switch name {
		case domain.FieldExam, domain.FieldQNumber, domain.FieldDrawing, domain.FieldRedrawing:
			continue
		}
		resp.Attributes[name] = v
	}
	return resp
}
