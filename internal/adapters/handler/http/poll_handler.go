package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kupolls/api/internal/core/domain"
	"github.com/kupolls/api/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
}

func NewPollHandler(service ports.PollService) *PollHandler {
	return &PollHandler{
		service: service,
	}
}

type createQuestionRequest struct {
	QuestionText string     `json:"question_text"`
	Choices      []string   `json:"choices"`
	PubDate      *time.Time `json:"pub_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

// CreateQuestion godoc
// @Summary      Creates a poll question
// @Description  Creates a question with its choices. pub_date defaults to now; a null end_date keeps voting open forever.
// @Tags         polls
// @Accept       json
// @Produce      json
// @Success      201  {object}  domain.Question
// @Failure      400
// @Failure      401
// @Router       /polls [post]
func (h *PollHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, _ := r.Context().Value(UserIDKey).(uuid.UUID)

	input := ports.CreateQuestionInput{
		QuestionText: req.QuestionText,
		Choices:      req.Choices,
		PubDate:      req.PubDate,
		EndDate:      req.EndDate,
	}

	question, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAuthRequired):
			http.Error(w, err.Error(), http.StatusUnauthorized)
		case errors.Is(err, domain.ErrNoQuestionText),
			errors.Is(err, domain.ErrQuestionTextTooLong),
			errors.Is(err, domain.ErrNotEnoughChoices):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(question); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// GetQuestion godoc
// @Summary      Question detail
// @Description  Returns the question with its choices, the derived state, and the caller's current choice when authenticated. Unpublished questions look like missing ones.
// @Tags         polls
// @Produce      json
// @Success      200  {object}  ports.QuestionDetail
// @Failure      404
// @Router       /polls/{id} [get]
func (h *PollHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "missing question id", http.StatusBadRequest)
		return
	}

	userID, _ := r.Context().Value(UserIDKey).(uuid.UUID)

	detail, err := h.service.ViewDetail(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuestionID) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, domain.ErrQuestionNotFound) {
			http.Error(w, "question not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(detail); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// ListQuestions godoc
// @Summary      Published questions
// @Description  Lists published questions newest first. Use ?limit=N for the latest N.
// @Tags         polls
// @Produce      json
// @Success      200  {array}  domain.Question
// @Router       /polls [get]
func (h *PollHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	questions, err := h.service.ListPublished(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if questions == nil {
		questions = []*domain.Question{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(questions); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// DeleteQuestion godoc
// @Summary      Deletes a poll question
// @Description  Removes the question together with its choices and all votes cast on it.
// @Tags         polls
// @Success      200
// @Failure      401
// @Failure      404
// @Router       /polls/{id} [delete]
func (h *PollHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrAuthRequired):
			http.Error(w, err.Error(), http.StatusUnauthorized)
		case errors.Is(err, domain.ErrInvalidQuestionID):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrQuestionNotFound):
			http.Error(w, "question not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"Question deleted."}`))
}

// GetResults godoc
// @Summary      Question results
// @Description  Per-choice vote counts aggregated from the vote rows.
// @Tags         polls
// @Produce      json
// @Success      200  {array}  ports.ChoiceResult
// @Failure      404
// @Router       /polls/{id}/results [get]
func (h *PollHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	results, err := h.service.Results(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuestionID) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, domain.ErrQuestionNotFound) {
			http.Error(w, "question not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(results); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
