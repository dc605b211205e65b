package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "examstats/internal/errors"
	"examstats/internal/records"
	"examstats/internal/shared/testutil"
	"examstats/pkg/contracts/domain"
)

// storeLoader serves in-memory stores and counts loads per source
type storeLoader struct {
	stores map[string]*records.Store
	loads  map[string]int
}

func newStoreLoader() *storeLoader {
	return &storeLoader{stores: map[string]*records.Store{}, loads: map[string]int{}}
}

func (l *storeLoader) add(t *testing.T, source string, fields []string, rows ...domain.Record) {
	t.Helper()
	store, err := records.New(source, fields, rows, nil)
	require.NoError(t, err)
	l.stores[source] = store
}

func (l *storeLoader) Load(_ context.Context, source string) (*records.Store, error) {
	l.loads[source]++
	store, ok := l.stores[source]
	if !ok {
		return nil, apperrors.NewStorageError("no such source "+source, nil)
	}
	return store, nil
}

func fixtureAnalyzer(t *testing.T) (*Analyzer, string, string) {
	t.Helper()
	f := testutil.NewExamFixtures(t)
	questions, responses := f.StandardSources()
	logger, _ := testutil.NewTestLogger(t)
	return New(records.NewSourceLoader(records.Options{IndexColumn: true}, logger), logger), questions, responses
}

func TestAnalyzer_Response(t *testing.T) {
	a, _, responses := fixtureAnalyzer(t)

	resp, err := a.Response(context.Background(), 2, responses)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.ID)
	assert.Equal(t, responses, resp.Source)
	assert.Equal(t, "A", resp.Exam)
	assert.Equal(t, int64(2), resp.QNumber)
	assert.True(t, resp.Drawing)
	assert.True(t, resp.Redrawing)

	correct, ok := resp.Field("correct")
	assert.True(t, ok)
	assert.Equal(t, true, correct)
}

func TestAnalyzer_ResponseErrors(t *testing.T) {
	loader := newStoreLoader()
	loader.add(t, "no_redrawing", []string{"exam", "q_number", "drawing"},
		domain.Record{"exam": "A", "q_number": int64(1), "drawing": true})
	loader.add(t, "ok", []string{"drawing", "redrawing"},
		domain.Record{"drawing": 1.0, "redrawing": nil})
	a := New(loader, nil)

	t.Run("schema checked before the row", func(t *testing.T) {
		_, err := a.Response(context.Background(), 99, "no_redrawing")
		assert.True(t, errors.Is(err, apperrors.ErrSchema))
		assert.Contains(t, err.Error(), "redrawing")
	})

	t.Run("row out of range", func(t *testing.T) {
		for _, id := range []int{-1, 1} {
			_, err := a.Response(context.Background(), id, "ok")
			assert.True(t, errors.Is(err, apperrors.ErrNotFound), "id %d", id)
		}
	})

	t.Run("missing values are falsy", func(t *testing.T) {
		resp, err := a.Response(context.Background(), 0, "ok")
		require.NoError(t, err)
		assert.True(t, resp.Drawing)
		assert.False(t, resp.Redrawing)
		assert.Nil(t, resp.Exam)
	})

	t.Run("source failure propagates", func(t *testing.T) {
		_, err := a.Response(context.Background(), 0, "missing")
		assert.True(t, errors.Is(err, apperrors.ErrStorage))
	})
}

func TestAnalyzer_Question(t *testing.T) {
	a, questions, responses := fixtureAnalyzer(t)

	tests := []struct {
		name      string
		qID       int
		exam      string
		responses []int
		drawing   float64
		redrawing float64
		correct   float64
	}{
		{"two responses", 0, "A", []int{0, 1}, 0.5, 0.0, 0.5},
		{"single response", 1, "A", []int{2}, 1.0, 1.0, 1.0},
		{"same q_number in another exam", 2, "B", []int{3}, 1.0, 0.0, 0.0},
		{"last question", 3, "B", []int{4, 5}, 0.5, 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := a.Question(context.Background(), tt.qID, questions, responses)
			require.NoError(t, err)

			assert.Equal(t, tt.qID, q.ID)
			assert.Equal(t, tt.exam, q.Exam)
			assert.Equal(t, len(tt.responses), q.NumberResponses)
			require.Len(t, q.Responses, len(tt.responses))
			for i, r := range q.Responses {
				assert.Equal(t, tt.responses[i], r.ID)
				assert.Equal(t, q.Exam, r.Exam)
				assert.True(t, domain.ValuesEqual(q.QNumber, r.QNumber))
			}
			assert.InDelta(t, tt.drawing, q.FractionWithDrawing, 1e-9)
			assert.InDelta(t, tt.redrawing, q.FractionWithRedrawing, 1e-9)
			require.NotNil(t, q.FractionCorrect)
			assert.InDelta(t, tt.correct, *q.FractionCorrect, 1e-9)

			topic, ok := q.Field("topic")
			assert.True(t, ok)
			assert.NotEmpty(t, topic)
		})
	}
}

func TestAnalyzer_QuestionWithoutCorrectColumn(t *testing.T) {
	loader := newStoreLoader()
	loader.add(t, "q", []string{"exam", "q_number"}, domain.Record{"exam": "A", "q_number": int64(1)})
	loader.add(t, "r", []string{"exam", "q_number", "drawing", "redrawing"},
		domain.Record{"exam": "A", "q_number": 1.0, "drawing": true, "redrawing": false},
		domain.Record{"exam": "A", "q_number": int64(2), "drawing": true, "redrawing": true},
	)

	q, err := New(loader, nil).Question(context.Background(), 0, "q", "r")
	require.NoError(t, err)

	assert.Equal(t, 1, q.NumberResponses)
	assert.Nil(t, q.FractionCorrect)
	assert.Equal(t, 1, loader.loads["q"])
	assert.Equal(t, 1, loader.loads["r"], "responses are loaded once per question")
}

func TestAnalyzer_QuestionErrors(t *testing.T) {
	loader := newStoreLoader()
	loader.add(t, "q", []string{"exam", "q_number"},
		domain.Record{"exam": "B", "q_number": int64(9)},
		domain.Record{"exam": nil, "q_number": int64(1)},
	)
	loader.add(t, "q_no_exam", []string{"q_number"}, domain.Record{"q_number": int64(1)})
	loader.add(t, "r", []string{"exam", "q_number", "drawing", "redrawing"},
		domain.Record{"exam": "A", "q_number": int64(9), "drawing": true, "redrawing": false},
		domain.Record{"exam": "B", "q_number": int64(1), "drawing": true, "redrawing": false},
	)
	loader.add(t, "r_no_exam", []string{"q_number", "drawing", "redrawing"},
		domain.Record{"q_number": int64(9), "drawing": true, "redrawing": false})
	loader.add(t, "r_no_flags", []string{"exam", "q_number"},
		domain.Record{"exam": "B", "q_number": int64(9)})
	loader.add(t, "r_no_redrawing", []string{"exam", "q_number", "drawing"},
		domain.Record{"exam": "B", "q_number": int64(9), "drawing": true})
	a := New(loader, nil)

	tests := []struct {
		name      string
		qID       int
		questions string
		responses string
		sentinel  error
	}{
		{"no matching responses", 0, "q", "r", apperrors.ErrEmptySet},
		{"missing exam matches nothing", 1, "q", "r", apperrors.ErrEmptySet},
		{"question index too large", 2, "q", "r", apperrors.ErrNotFound},
		{"negative question index", -1, "q", "r", apperrors.ErrNotFound},
		{"questions lack exam", 0, "q_no_exam", "r", apperrors.ErrSchema},
		{"responses lack exam", 0, "q", "r_no_exam", apperrors.ErrSchema},
		{"response source unavailable", 0, "q", "missing", apperrors.ErrStorage},
		{"no matches without flag columns", 1, "q", "r_no_flags", apperrors.ErrEmptySet},
		{"matches without flag columns", 0, "q", "r_no_flags", apperrors.ErrSchema},
		{"matches without redrawing", 0, "q", "r_no_redrawing", apperrors.ErrSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := a.Question(context.Background(), tt.qID, tt.questions, tt.responses)
			assert.Nil(t, q)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
		})
	}

	t.Run("empty set carries the link key", func(t *testing.T) {
		_, err := a.Question(context.Background(), 0, "q", "r")
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "B", appErr.Context["exam"])
		assert.Equal(t, int64(9), appErr.Context["q_number"])
	})
}

func TestAnalyzer_QuestionIsIdempotent(t *testing.T) {
	a, questions, responses := fixtureAnalyzer(t)

	first, err := a.Question(context.Background(), 0, questions, responses)
	require.NoError(t, err)
	second, err := a.Question(context.Background(), 0, questions, responses)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
