package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"examstats/internal/records"
	"examstats/pkg/contracts/domain"
)

// QuestionsFromIDs builds one question per id, in the order given.
// The first failure aborts the batch and is returned wrapped with its id.
func (a *Analyzer) QuestionsFromIDs(ctx context.Context, ids []int, questionsPath, responsesPath string) ([]*domain.Question, error) {
	questions := make([]*domain.Question, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		q, err := a.Question(ctx, id, questionsPath, responsesPath)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", id, err)
		}
		questions = append(questions, q)
	}

	a.logger.InfoContext(ctx, "questions built",
		slog.Int("count", len(questions)),
		slog.String("questions", questionsPath),
		slog.String("responses", responsesPath))
	return questions, nil
}

// QuestionsFromIDs builds questions with an uncached loader reading CSV
// sources that carry a leading index column.
func QuestionsFromIDs(ctx context.Context, ids []int, questionsPath, responsesPath string) ([]*domain.Question, error) {
	loader := records.NewSourceLoader(records.Options{IndexColumn: true}, slog.Default())
	return New(loader, slog.Default()).QuestionsFromIDs(ctx, ids, questionsPath, responsesPath)
}

// AllQuestionIDs returns every row position of the question source
func (a *Analyzer) AllQuestionIDs(ctx context.Context, questionsPath string) ([]int, error) {
	store, err := a.loader.Load(ctx, questionsPath)
	if err != nil {
		return nil, err
	}
	ids := make([]int, store.Len())
	for i := range ids {
		ids[i] = i
	}
	return ids, nil
}
