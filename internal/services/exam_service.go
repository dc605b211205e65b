package services

import (
	"context"
	"log/slog"

	"examstats/internal/analysis"
	"examstats/internal/records"
	"examstats/pkg/contracts/domain"
)

// Sources names the question and response locations a service reads
type Sources struct {
	Questions string `json:"questions"`
	Responses string `json:"responses"`
}

// ExamService answers question and response lookups against fixed sources
type ExamService struct {
	analyzer *analysis.Analyzer
	cache    *records.CachedLoader
	sources  Sources
	logger   *slog.Logger
}

// NewExamService builds the service. With cacheEnabled, each source is read
// once and served from memory until InvalidateSources is called.
func NewExamService(loader records.Loader, sources Sources, cacheEnabled bool, logger *slog.Logger) *ExamService {
	if logger == nil {
		logger = slog.Default()
	}

	var cache *records.CachedLoader
	if cacheEnabled {
		cache = records.NewCachedLoader(loader)
		loader = cache
	}

	return &ExamService{
		analyzer: analysis.New(loader, logger),
		cache:    cache,
		sources:  sources,
		logger:   logger.With(slog.String("service", "exam")),
	}
}

// Sources returns the configured source locations
func (s *ExamService) Sources() Sources {
	return s.sources
}

// Question builds one question with its responses
func (s *ExamService) Question(ctx context.Context, qID int) (*domain.Question, error) {
	return s.analyzer.Question(ctx, qID, s.sources.Questions, s.sources.Responses)
}

// Questions builds questions for ids in order
func (s *ExamService) Questions(ctx context.Context, ids []int) ([]*domain.Question, error) {
	return s.analyzer.QuestionsFromIDs(ctx, ids, s.sources.Questions, s.sources.Responses)
}

// AllQuestions builds every question in the question source
func (s *ExamService) AllQuestions(ctx context.Context) ([]*domain.Question, error) {
	ids, err := s.analyzer.AllQuestionIDs(ctx, s.sources.Questions)
	if err != nil {
		return nil, err
	}
	return s.Questions(ctx, ids)
}

// Response builds one response
func (s *ExamService) Response(ctx context.Context, rID int) (*domain.Response, error) {
	return s.analyzer.Response(ctx, rID, s.sources.Responses)
}

// CacheEnabled reports whether sources are cached
func (s *ExamService) CacheEnabled() bool {
	return s.cache != nil
}

// InvalidateSources drops every cached source and returns how many were dropped
func (s *ExamService) InvalidateSources(ctx context.Context) int {
	if s.cache == nil {
		return 0
	}
	n := s.cache.InvalidateAll()
	s.logger.InfoContext(ctx, "source cache invalidated", slog.Int("dropped", n))
	return n
}
