package exporter

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"examstats/internal/config"
	"examstats/pkg/contracts/domain"
)

// QuestionHeaders are the fixed leading columns of the question report
var QuestionHeaders = []string{
	"q_id",
	"exam",
	"q_number",
	"number_responses",
	"fraction_with_drawing",
	"fraction_with_redrawing",
	"fraction_correct",
}

// ResponseHeaders are the columns of the response report
var ResponseHeaders = []string{
	"q_id",
	"r_id",
	"exam",
	"q_number",
	"drawing",
	"redrawing",
	"source",
}

// ReportExporter writes question statistics reports
type ReportExporter struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewReportExporter creates an exporter writing into the reports directory.
// A nil logger falls back to slog.Default().
func NewReportExporter(paths *config.Paths, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{
		writer: NewCSVWriter(paths),
		logger: logger.With(slog.String("component", "report_exporter")),
	}
}

// ExportQuestions writes one row per question. Question attributes follow
// the fixed columns, sorted by name. Returns the path written.
func (e *ReportExporter) ExportQuestions(questions []*domain.Question, filePath string) (string, error) {
	extra := attributeColumns(questions)
	headers := append(append([]string(nil), QuestionHeaders...), extra...)

	rows := make([][]string, 0, len(questions))
	for _, q := range questions {
		row := []string{
			strconv.Itoa(q.ID),
			formatValue(q.Exam),
			formatValue(q.QNumber),
			strconv.Itoa(q.NumberResponses),
			formatFloat(q.FractionWithDrawing),
			formatFloat(q.FractionWithRedrawing),
			formatOptionalFloat(q.FractionCorrect),
		}
		for _, name := range extra {
			row = append(row, formatValue(q.Attributes[name]))
		}
		rows = append(rows, row)
	}

	path, err := e.writer.WriteCSV(filePath, WriteOptions{Headers: headers, Records: rows, BOMPrefix: true})
	if err != nil {
		return "", fmt.Errorf("failed to export questions: %w", err)
	}

	e.logger.Info("Question report exported",
		slog.String("path", path),
		slog.Int("questions", len(questions)))
	return path, nil
}

// ExportResponses streams one row per response linked to each question
func (e *ReportExporter) ExportResponses(questions []*domain.Question, filePath string) (string, error) {
	stream, err := e.writer.CreateStreamWriter(filePath, ResponseHeaders)
	if err != nil {
		return "", fmt.Errorf("failed to export responses: %w", err)
	}

	count := 0
	for _, q := range questions {
		for _, r := range q.Responses {
			record := []string{
				strconv.Itoa(q.ID),
				strconv.Itoa(r.ID),
				formatValue(r.Exam),
				formatValue(r.QNumber),
				formatBool(r.Drawing),
				formatBool(r.Redrawing),
				r.Source,
			}
			if err := stream.WriteRecord(record); err != nil {
				stream.Close()
				return "", fmt.Errorf("failed to write response %d: %w", r.ID, err)
			}
			count++
		}
	}

	if err := stream.Close(); err != nil {
		return "", fmt.Errorf("failed to export responses: %w", err)
	}

	e.logger.Info("Response report exported",
		slog.String("path", stream.Path()),
		slog.Int("responses", count))
	return stream.Path(), nil
}

func attributeColumns(questions []*domain.Question) []string {
	seen := make(map[string]struct{})
	for _, q := range questions {
		for name := range q.Attributes {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
