// Package exporter writes question statistics as CSV reports.
//
// CSVWriter handles the file mechanics (report directory resolution, UTF-8
// BOM for spreadsheet compatibility, streaming). ReportExporter turns built
// questions into two reports: one row per question with its aggregates, and
// one row per linked response.
//
//	paths, _ := cfg.GetPaths()
//	reports := exporter.NewReportExporter(paths, logger)
//	path, err := reports.ExportQuestions(questions, "question_stats.csv")
package exporter
