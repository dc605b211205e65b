// Package services sits between the HTTP handlers and the analysis core.
//
// ExamService binds an Analyzer to the configured question and response
// sources and owns the optional source cache. HealthService reports whether
// those sources are reachable.
package services
