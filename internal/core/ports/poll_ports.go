package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kupolls/api/internal/core/domain"
)

type QuestionRepository interface {
	Save(ctx context.Context, question *domain.Question) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	// ListPublished returns questions with pub_date <= now, newest first.
	// limit <= 0 means no limit.
	ListPublished(ctx context.Context, now time.Time, limit int) ([]*domain.Question, error)
	// GetChoice looks a choice up regardless of which question owns it, or
	// (nil, nil) when no such choice exists. Callers check ownership.
	GetChoice(ctx context.Context, choiceID uuid.UUID) (*domain.Choice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateQuestionInput struct {
	QuestionText string
	Choices      []string
	PubDate      *time.Time
	EndDate      *time.Time
}

// QuestionDetail is the view_detail payload: the question, whether the
// caller may vote right now, and the caller's current choice for UI
// pre-selection (nil when anonymous or not yet voted).
type QuestionDetail struct {
	Question       *domain.Question `json:"question"`
	State          string           `json:"state"`
	CanVote        bool             `json:"can_vote"`
	SelectedChoice *domain.Choice   `json:"selected_choice,omitempty"`
}

type ChoiceResult struct {
	Choice    domain.Choice `json:"choice"`
	VoteCount int64         `json:"vote_count"`
}

type PollService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateQuestionInput) (*domain.Question, error)
	ViewDetail(ctx context.Context, questionID string, userID uuid.UUID) (*QuestionDetail, error)
	ListPublished(ctx context.Context, limit int) ([]*domain.Question, error)
	Results(ctx context.Context, questionID string) ([]ChoiceResult, error)
	// Delete removes a question with its choices and votes.
	Delete(ctx context.Context, questionID string, userID uuid.UUID) error
}

// Clock supplies "now" to every eligibility decision so tests can fix it.
type Clock interface {
	Now() time.Time
}
