package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examstats/internal/infrastructure"
)

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "row not found",
			err:        fmt.Errorf("question 9: %w", NewRowNotFoundError("questions.csv", 9, 3)),
			wantStatus: http.StatusNotFound,
			wantType:   TypeRowNotFound,
		},
		{
			name:       "schema",
			err:        NewSchemaError("responses.csv", []string{"redrawing"}),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeSchema,
		},
		{
			name:       "empty set",
			err:        NewEmptySetError("question 1 has no responses"),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeNoResponses,
		},
		{
			name:       "storage",
			err:        NewStorageError("open", errors.New("gone")),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeSourceFailure,
		},
		{
			name:       "api validation",
			err:        ErrValidation("ids", "must be integers"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	h := NewErrorHandler(nil, false)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/questions/9", nil)
			req = req.WithContext(infrastructure.WithTraceID(req.Context(), "trace-123"))
			rec := httptest.NewRecorder()

			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, "trace-123", body["trace_id"])
			assert.Equal(t, "/api/questions/9", body["instance"])
		})
	}
}

func TestErrorHandler_AppErrorContextBecomesExtensions(t *testing.T) {
	h := NewErrorHandler(nil, false)
	req := httptest.NewRequest(http.MethodGet, "/api/responses/5", nil)

	problem := h.ErrorToProblem(NewRowNotFoundError("responses.csv", 5, 2), req)

	assert.Equal(t, "responses.csv", problem.Extensions["source"])
	assert.Equal(t, 5, problem.Extensions["index"])
	assert.Equal(t, string(ErrTypeNotFound), problem.Extensions["error_type"])
}

func TestErrorHandler_HandleNilIsNoop(t *testing.T) {
	h := NewErrorHandler(nil, false)
	rec := httptest.NewRecorder()

	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, rec.Body.Len())
}

func TestErrorHandler_NotFound(t *testing.T) {
	h := NewErrorHandler(nil, false)
	rec := httptest.NewRecorder()

	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), TypeNotFound)
}

func TestProblemDetails_MarshalJSONFlattensExtensions(t *testing.T) {
	pd := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", "", "").
		WithExtension("field", "ids")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "ids", body["field"])
	assert.NotContains(t, body, "detail")
	assert.EqualValues(t, http.StatusBadRequest, body["status"])
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, NotFoundError("question"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "question not found")
}
