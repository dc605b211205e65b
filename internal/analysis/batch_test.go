package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "examstats/internal/errors"
	"examstats/internal/shared/testutil"
)

func TestAnalyzer_QuestionsFromIDs(t *testing.T) {
	a, questions, responses := fixtureAnalyzer(t)

	t.Run("preserves order", func(t *testing.T) {
		qs, err := a.QuestionsFromIDs(context.Background(), []int{3, 1, 2}, questions, responses)
		require.NoError(t, err)
		require.Len(t, qs, 3)
		assert.Equal(t, []int{3, 1, 2}, []int{qs[0].ID, qs[1].ID, qs[2].ID})
	})

	t.Run("repeated ids", func(t *testing.T) {
		qs, err := a.QuestionsFromIDs(context.Background(), []int{0, 0}, questions, responses)
		require.NoError(t, err)
		require.Len(t, qs, 2)
		assert.Equal(t, qs[0], qs[1])
	})

	t.Run("empty input", func(t *testing.T) {
		qs, err := a.QuestionsFromIDs(context.Background(), nil, questions, responses)
		require.NoError(t, err)
		assert.Empty(t, qs)
	})

	t.Run("fails on the first bad id", func(t *testing.T) {
		qs, err := a.QuestionsFromIDs(context.Background(), []int{1, 42, -1}, questions, responses)
		assert.Nil(t, qs)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
		assert.Contains(t, err.Error(), "question 42")
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := a.QuestionsFromIDs(ctx, []int{0}, questions, responses)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestQuestionsFromIDs_Default(t *testing.T) {
	f := testutil.NewExamFixtures(t)
	questions, responses := f.StandardSources()

	qs, err := QuestionsFromIDs(context.Background(), []int{2, 0}, questions, responses)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "B", qs[0].Exam)
	assert.Equal(t, 1, qs[0].NumberResponses)
	assert.Equal(t, 2, qs[1].NumberResponses)
}

func TestAnalyzer_AllQuestionIDs(t *testing.T) {
	a, questions, _ := fixtureAnalyzer(t)

	ids, err := a.AllQuestionIDs(context.Background(), questions)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, ids)
}
