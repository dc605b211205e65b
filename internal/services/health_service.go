package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"examstats/internal/validation"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	sources   Sources
	validator *validation.FileValidator
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Uptime    string                   `json:"uptime"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Sources   map[string]ServiceHealth `json:"sources"`
}

// ServiceHealth represents individual source health
type ServiceHealth struct {
	Status   string `json:"status"`
	Location string `json:"location"`
	Message  string `json:"message,omitempty"`
}

// NewHealthService creates a health service for the given sources
func NewHealthService(version string, sources Sources, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		sources:   sources,
		validator: validation.NewFileValidator(logger),
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// HealthCheck reports "ok" when every source passes validation, "degraded" otherwise
func (s *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Runtime: map[string]interface{}{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
		Sources: map[string]ServiceHealth{
			"questions": s.checkSource(s.sources.Questions),
			"responses": s.checkSource(s.sources.Responses),
		},
	}

	for name, h := range status.Sources {
		if h.Status != "ok" {
			status.Status = "degraded"
			s.logger.WarnContext(ctx, "source unhealthy",
				slog.String("source", name),
				slog.String("message", h.Message))
		}
	}
	return status
}

// LivenessCheck reports that the process is serving requests
func (s *HealthService) LivenessCheck(_ context.Context) map[string]interface{} {
	return map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now(),
	}
}

func (s *HealthService) checkSource(location string) ServiceHealth {
	if err := s.validator.ValidateSource(location); err != nil {
		return ServiceHealth{Status: "unavailable", Location: location, Message: err.Error()}
	}
	return ServiceHealth{Status: "ok", Location: location}
}
