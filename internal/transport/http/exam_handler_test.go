package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "examstats/internal/errors"
	"examstats/internal/records"
	"examstats/internal/services"
	"examstats/internal/shared/testutil"
)

func newTestRouter(t *testing.T, cacheEnabled bool) chi.Router {
	t.Helper()
	f := testutil.NewExamFixtures(t)
	questions := f.WriteCSV("question_config.csv", append(append([][]string{}, testutil.QuestionRows...),
		[]string{"4", "B", "9", "orphan"}))
	responses := f.WriteCSV("response_config.csv", testutil.ResponseRows)

	logger, _ := testutil.NewTestLogger(t)
	loader := records.NewSourceLoader(records.Options{IndexColumn: true}, logger)
	svc := services.NewExamService(loader, services.Sources{Questions: questions, Responses: responses}, cacheEnabled, logger)

	r := chi.NewRouter()
	r.Mount("/api", NewExamHandler(svc, logger, apperrors.NewErrorHandler(logger, false)).Routes())
	return r
}

func do(t *testing.T, r http.Handler, method, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestExamHandler_GetQuestions(t *testing.T) {
	r := newTestRouter(t, false)

	t.Run("batch preserves order without responses", func(t *testing.T) {
		rec, body := do(t, r, http.MethodGet, "/api/questions?ids=3,1,2")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(3), body["count"])

		questions := body["questions"].([]interface{})
		ids := make([]float64, len(questions))
		for i, q := range questions {
			qm := q.(map[string]interface{})
			ids[i] = qm["q_id"].(float64)
			assert.NotContains(t, qm, "responses")
		}
		assert.Equal(t, []float64{3, 1, 2}, ids)
	})

	t.Run("include responses", func(t *testing.T) {
		rec, body := do(t, r, http.MethodGet, "/api/questions?ids=0&include_responses=true")
		require.Equal(t, http.StatusOK, rec.Code)

		q := body["questions"].([]interface{})[0].(map[string]interface{})
		assert.Len(t, q["responses"], 2)
		assert.Equal(t, 0.5, q["fraction_with_drawing"])
		assert.Equal(t, 0.0, q["fraction_with_redrawing"])
		assert.Equal(t, 0.5, q["fraction_correct"])
	})

	tests := []struct {
		name      string
		target    string
		status    int
		errorType string
	}{
		{"missing ids", "/api/questions", http.StatusBadRequest, apperrors.TypeValidation},
		{"non-integer id", "/api/questions?ids=1,x", http.StatusBadRequest, apperrors.TypeValidation},
		{"bad include flag", "/api/questions?ids=1&include_responses=maybe", http.StatusBadRequest, apperrors.TypeValidation},
		{"out of range id", "/api/questions?ids=1,99", http.StatusNotFound, apperrors.TypeRowNotFound},
		{"negative id", "/api/questions?ids=-1", http.StatusNotFound, apperrors.TypeRowNotFound},
		{"question without responses", "/api/questions?ids=4", http.StatusUnprocessableEntity, apperrors.TypeNoResponses},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, r, http.MethodGet, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.errorType, body["type"])
		})
	}
}

func TestExamHandler_GetQuestion(t *testing.T) {
	r := newTestRouter(t, false)

	rec, body := do(t, r, http.MethodGet, "/api/questions/2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "B", body["exam"])
	assert.Equal(t, float64(1), body["number_responses"])
	assert.Equal(t, "aromaticity", body["attributes"].(map[string]interface{})["topic"])

	rec, body = do(t, r, http.MethodGet, "/api/questions/abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperrors.TypeValidation, body["type"])

	rec, body = do(t, r, http.MethodGet, "/api/questions/4")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "B", body["exam"])
	assert.Equal(t, float64(9), body["q_number"])
}

func TestExamHandler_GetResponse(t *testing.T) {
	r := newTestRouter(t, false)

	rec, body := do(t, r, http.MethodGet, "/api/responses/4")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(4), body["r_id"])
	assert.Equal(t, false, body["drawing"])
	assert.Equal(t, true, body["redrawing"])

	rec, body = do(t, r, http.MethodGet, "/api/responses/6")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, float64(6), body["index"])
	assert.Equal(t, string(apperrors.ErrTypeNotFound), body["error_type"])
}

func TestExamHandler_InvalidateSources(t *testing.T) {
	t.Run("cache enabled", func(t *testing.T) {
		r := newTestRouter(t, true)
		rec, _ := do(t, r, http.MethodGet, "/api/questions/0")
		require.Equal(t, http.StatusOK, rec.Code)

		rec, body := do(t, r, http.MethodPost, "/api/sources/invalidate")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["cache_enabled"])
		assert.Equal(t, float64(2), body["dropped"])
	})

	t.Run("cache disabled", func(t *testing.T) {
		r := newTestRouter(t, false)
		rec, body := do(t, r, http.MethodPost, "/api/sources/invalidate")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, body["cache_enabled"])
		assert.Equal(t, float64(0), body["dropped"])
	})
}
