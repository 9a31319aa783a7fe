package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kupolls/api/internal/core/domain"
	"github.com/kupolls/api/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type castVoteRequest struct {
	ChoiceID uuid.UUID `json:"choice_id"`
}

type castVoteResponse struct {
	Receipt *domain.VoteReceipt `json:"receipt"`
	Message string              `json:"message"`
}

// CastVote godoc
// @Summary      Cast or change a vote
// @Description  Records the caller's vote for a choice. Voting again rewrites the existing vote in place; the message distinguishes a first vote from a change.
// @Tags         votes
// @Accept       json
// @Produce      json
// @Success      201  {object}  castVoteResponse
// @Failure      400
// @Failure      401
// @Failure      403
// @Failure      404
// @Router       /polls/{id}/votes [post]
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	questionIDStr := chi.URLParam(r, "id")
	questionID, err := uuid.Parse(questionIDStr)
	if err != nil {
		http.Error(w, "invalid question id", http.StatusBadRequest)
		return
	}

	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	input := ports.CastVoteInput{
		QuestionID: questionID,
		ChoiceID:   req.ChoiceID,
		UserID:     userID,
	}

	receipt, err := h.service.Cast(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAuthRequired):
			http.Error(w, err.Error(), http.StatusUnauthorized)
		case errors.Is(err, domain.ErrVotingClosed):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, domain.ErrNoChoiceSelected), errors.Is(err, domain.ErrChoiceMismatch):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrQuestionNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	message := fmt.Sprintf("You voted for %s", receipt.Choice.ChoiceText)
	if !receipt.Created {
		message = fmt.Sprintf("Your vote was changed to %s", receipt.Choice.ChoiceText)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(castVoteResponse{Receipt: receipt, Message: message})
}

// WithdrawVote godoc
// @Summary      Withdraw a vote
// @Description  Deletes the caller's vote for the question. Allowed even after voting closes.
// @Tags         votes
// @Success      200
// @Failure      401
// @Failure      404
// @Router       /polls/{id}/votes [delete]
func (h *VoteHandler) WithdrawVote(w http.ResponseWriter, r *http.Request) {
	questionIDStr := chi.URLParam(r, "id")
	questionID, err := uuid.Parse(questionIDStr)
	if err != nil {
		http.Error(w, "invalid question id", http.StatusBadRequest)
		return
	}

	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	if err := h.service.Withdraw(r.Context(), questionID, userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrAuthRequired):
			http.Error(w, err.Error(), http.StatusUnauthorized)
		case errors.Is(err, domain.ErrDidNotVote), errors.Is(err, domain.ErrQuestionNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"Your vote was deleted."}`))
}

// GetMyVote godoc
// @Summary      Current vote
// @Description  Returns the choice the caller currently voted for on this question.
// @Tags         votes
// @Produce      json
// @Success      200
// @Failure      401
// @Failure      404
// @Router       /polls/{id}/my-vote [get]
func (h *VoteHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	questionIDStr := chi.URLParam(r, "id")
	questionID, err := uuid.Parse(questionIDStr)
	if err != nil {
		http.Error(w, "invalid question id", http.StatusBadRequest)
		return
	}

	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	choice, err := h.service.CurrentChoice(r.Context(), questionID, userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if choice == nil {
		http.Error(w, "no vote for this question", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"choice_id":   choice.ID.String(),
		"choice_text": choice.ChoiceText,
	})
}
