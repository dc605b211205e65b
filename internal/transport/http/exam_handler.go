package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "examstats/internal/errors"
	"examstats/internal/middleware"
	"examstats/internal/services"
	"examstats/pkg/contracts/domain"
)

// QuestionsQuery holds the parsed query of GET /questions
type QuestionsQuery struct {
	IDs              []int `query:"ids" validate:"required,min=1,max=500"`
	IncludeResponses bool  `query:"include_responses"`
}

// QuestionsResponse is the body of a batch lookup
type QuestionsResponse struct {
	Questions []*domain.Question `json:"questions"`
	Count     int                `json:"count"`
	Sources   services.Sources   `json:"sources"`
}

// InvalidateResponse is the body of POST /sources/invalidate
type InvalidateResponse struct {
	CacheEnabled bool `json:"cache_enabled"`
	Dropped      int  `json:"dropped"`
}

// ExamHandler serves question and response lookups
type ExamHandler struct {
	service      ExamServiceInterface
	validator    *middleware.RequestValidator
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewExamHandler creates a new exam handler
func NewExamHandler(service ExamServiceInterface, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *ExamHandler {
	return &ExamHandler{
		service:      service,
		validator:    middleware.NewRequestValidator(),
		logger:       logger.With(slog.String("component", "exam_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the exam routes
func (h *ExamHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/questions", h.GetQuestions)
	r.Get("/questions/{id}", h.GetQuestion)
	r.Get("/responses/{id}", h.GetResponse)
	r.Post("/sources/invalidate", h.InvalidateSources)

	return r
}

// GetQuestions handles GET /questions?ids=3,1,2
func (h *ExamHandler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	query, apiErr := h.parseQuestionsQuery(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	questions, err := h.service.Questions(r.Context(), query.IDs)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if !query.IncludeResponses {
		for i, q := range questions {
			questions[i] = q.Summary()
		}
	}

	render.JSON(w, r, QuestionsResponse{
		Questions: questions,
		Count:     len(questions),
		Sources:   h.service.Sources(),
	})
}

// GetQuestion handles GET /questions/{id}
func (h *ExamHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	q, err := h.service.Question(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, q)
}

// GetResponse handles GET /responses/{id}
func (h *ExamHandler) GetResponse(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	resp, err := h.service.Response(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// InvalidateSources handles POST /sources/invalidate
func (h *ExamHandler) InvalidateSources(w http.ResponseWriter, r *http.Request) {
	dropped := h.service.InvalidateSources(r.Context())
	render.JSON(w, r, InvalidateResponse{
		CacheEnabled: h.service.CacheEnabled(),
		Dropped:      dropped,
	})
}

func (h *ExamHandler) parseQuestionsQuery(r *http.Request) (*QuestionsQuery, *apperrors.APIError) {
	values := r.URL.Query()
	query := &QuestionsQuery{}

	if raw := strings.TrimSpace(values.Get("ids")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, apperrors.ErrValidation("ids", "must be a comma separated list of integers")
			}
			query.IDs = append(query.IDs, id)
		}
	}

	if raw := values.Get("include_responses"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, apperrors.ErrValidation("include_responses", "must be true or false")
		}
		query.IncludeResponses = include
	}

	if apiErr := h.validator.Validate(query); apiErr != nil {
		return nil, apiErr
	}
	return query, nil
}

func pathID(r *http.Request) (int, *apperrors.APIError) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, apperrors.ErrValidation("id", "must be an integer")
	}
	return id, nil
}
