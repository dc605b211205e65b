package http

import (
	"context"

	"examstats/internal/services"
	"examstats/pkg/contracts/domain"
)

// ExamServiceInterface is the service surface the exam handler depends on
type ExamServiceInterface interface {
	Sources() services.Sources
	Question(ctx context.Context, qID int) (*domain.Question, error)
	Questions(ctx context.Context, ids []int) ([]*domain.Question, error)
	Response(ctx context.Context, rID int) (*domain.Response, error)
	CacheEnabled() bool
	InvalidateSources(ctx context.Context) int
}

var _ ExamServiceInterface = (*services.ExamService)(nil)
