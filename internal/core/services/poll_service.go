package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/kupolls/api/internal/core/domain"
	"github.com/kupolls/api/internal/core/ports"
)

const maxQuestionTextLen = 200

type pollService struct {
	questionRepo ports.QuestionRepository
	voteRepo     ports.VoteRepository
	clock        ports.Clock
}

func NewPollService(questionRepo ports.QuestionRepository, voteRepo ports.VoteRepository, clock ports.Clock) ports.PollService {
	return &pollService{
		questionRepo: questionRepo,
		voteRepo:     voteRepo,
		clock:        clock,
	}
}

func (s *pollService) Create(ctx context.Context, userID uuid.UUID, input ports.CreateQuestionInput) (*domain.Question, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrAuthRequired
	}
	if input.QuestionText == "" {
		return nil, domain.ErrNoQuestionText
	}
	if len(input.QuestionText) > maxQuestionTextLen {
		return nil, domain.ErrQuestionTextTooLong
	}

	questionID := uuid.New()
	now := s.clock.Now()

	pubDate := now
	if input.PubDate != nil {
		pubDate = *input.PubDate
	}

	question := &domain.Question{
		ID:           questionID,
		QuestionText: input.QuestionText,
		PubDate:      pubDate,
		EndDate:      input.EndDate,
		CreatedAt:    now,
	}

	for _, choiceText := range input.Choices {
		if choiceText == "" {
			continue
		}
		question.Choices = append(question.Choices, domain.Choice{
			ID:         uuid.New(),
			QuestionID: questionID,
			ChoiceText: choiceText,
			CreatedAt:  now,
		})
	}

	if len(question.Choices) < 2 {
		return nil, domain.ErrNotEnoughChoices
	}

	if err := s.questionRepo.Save(ctx, question); err != nil {
		return nil, err
	}

	return question, nil
}

// ViewDetail returns the detail payload for a question. An unpublished
// question is reported as not found so it cannot be told apart from a
// nonexistent one by probing. A closed question stays viewable read-only
// with CanVote false.
func (s *pollService) ViewDetail(ctx context.Context, questionID string, userID uuid.UUID) (*ports.QuestionDetail, error) {
	question, err := s.getQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !question.IsPublished(now) {
		return nil, domain.ErrQuestionNotFound
	}

	detail := &ports.QuestionDetail{
		Question: question,
		State:    question.State(now).String(),
		CanVote:  question.CanVote(now),
	}

	if userID != uuid.Nil {
		choice, err := s.voteRepo.FindChoice(ctx, question.ID, userID)
		if err != nil {
			return nil, err
		}
		detail.SelectedChoice = choice
	}

	return detail, nil
}

func (s *pollService) ListPublished(ctx context.Context, limit int) ([]*domain.Question, error) {
	return s.questionRepo.ListPublished(ctx, s.clock.Now(), limit)
}

// Results reports per-choice counts derived from the votes table. Counts are
// never read from a stored counter on the choice row.
func (s *pollService) Results(ctx context.Context, questionID string) ([]ports.ChoiceResult, error) {
	question, err := s.getQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	if !question.IsPublished(s.clock.Now()) {
		return nil, domain.ErrQuestionNotFound
	}

	counts, err := s.voteRepo.CountByChoice(ctx, question.ID)
	if err != nil {
		return nil, err
	}

	results := make([]ports.ChoiceResult, 0, len(question.Choices))
	for _, choice := range question.Choices {
		results = append(results, ports.ChoiceResult{
			Choice:    choice,
			VoteCount: counts[choice.ID],
		})
	}
	return results, nil
}

// Delete removes the question; choices and votes go with it via the FK
// cascades.
func (s *pollService) Delete(ctx context.Context, questionID string, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return domain.ErrAuthRequired
	}

	question, err := s.getQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	return s.questionRepo.Delete(ctx, question.ID)
}

func (s *pollService) getQuestion(ctx context.Context, id string) (*domain.Question, error) {
	questionID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidQuestionID
	}
	return s.questionRepo.GetByID(ctx, questionID)
}
