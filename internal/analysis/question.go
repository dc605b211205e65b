package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "examstats/internal/errors"
	"examstats/internal/records"
	"examstats/pkg/contracts/domain"
)

// Question builds the question at row qID of the question source and links
// every response row with the same exam and q_number.
func (a *Analyzer) Question(ctx context.Context, qID int, questionsPath, responsesPath string) (q *domain.Question, err error) {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "question", qID,
		attribute.String("source.questions", questionsPath),
		attribute.String("source.responses", responsesPath))
	defer func() { a.tracer.Finish(ctx, span, "question", start, err) }()

	questions, err := a.loader.Load(ctx, questionsPath)
	if err != nil {
		return nil, err
	}
	if err := questions.RequireFields(domain.FieldExam, domain.FieldQNumber); err != nil {
		return nil, err
	}

	rec, err := questions.Get(qID)
	if err != nil {
		return nil, err
	}
	q = newQuestion(qID, rec)

	responses, err := a.loader.Load(ctx, responsesPath)
	if err != nil {
		return nil, err
	}
	if err := responses.RequireFields(domain.FieldExam, domain.FieldQNumber); err != nil {
		return nil, err
	}

	matches := responses.Filter(records.And(
		records.FieldEquals(domain.FieldExam, q.Exam),
		records.FieldEquals(domain.FieldQNumber, q.QNumber),
	))
	if len(matches) == 0 {
		return nil, apperrors.NewEmptySetError(
			fmt.Sprintf("no responses for exam %v question %v in %s", q.Exam, q.QNumber, responsesPath)).
			WithContext("q_id", qID).
			WithContext("exam", q.Exam).
			WithContext("q_number", q.QNumber).
			WithContext("source", responsesPath)
	}
	// flags are only read once there is something to count
	if err := responses.RequireFields(domain.FieldDrawing, domain.FieldRedrawing); err != nil {
		return nil, err
	}

	q.Responses = make([]*domain.Response, len(matches))
	for i, row := range matches {
		q.Responses[i] = newResponse(row.Index, responsesPath, row.Record)
	}
	aggregate(q, responses.HasField(domain.FieldCorrect))

	a.tracer.RecordResponses(ctx, q.NumberResponses)
	a.logger.DebugContext(ctx, "question built",
		slog.Int("q_id", qID),
		slog.Any("exam", q.Exam),
		slog.Any("q_number", q.QNumber),
		slog.Int("responses", q.NumberResponses))
	return q, nil
}

func newQuestion(qID int, rec domain.Record) *domain.Question {
	q := &domain.Question{
		ID:         qID,
		Exam:       rec[domain.FieldExam],
		QNumber:    rec[domain.FieldQNumber],
		Attributes: make(domain.Record, len(rec)),
	}
	for name, v := range rec {
		if name == domain.FieldExam || name == domain.FieldQNumber {
			continue
		}
		q.Attributes[name] = v
	}
	return q
}

// aggregate fills the response count and fractions. q.Responses must be non-empty.
func aggregate(q *domain.Question, hasCorrect bool) {
	var drawing, redrawing, correct int
	for _, r := range q.Responses {
		if r.Drawing {
			drawing++
		}
		if r.Redrawing {
			redrawing++
		}
		if domain.Truthy(r.Attributes[domain.FieldCorrect]) {
			correct++
		}
	}

	n := len(q.Responses)
	q.NumberResponses = n
	q.FractionWithDrawing = float64(drawing) / float64(n)
	q.FractionWithRedrawing = float64(redrawing) / float64(n)
	if hasCorrect {
		f := float64(correct) / float64(n)
		q.FractionCorrect = &f
	}
}
