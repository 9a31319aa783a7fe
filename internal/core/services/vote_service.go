package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/kupolls/api/internal/core/domain"
	"github.com/kupolls/api/internal/core/ports"
)

type voteService struct {
	questionRepo ports.QuestionRepository
	voteRepo     ports.VoteRepository
	clock        ports.Clock
}

func NewVoteService(questionRepo ports.QuestionRepository, voteRepo ports.VoteRepository, clock ports.Clock) ports.VoteService {
	return &voteService{
		questionRepo: questionRepo,
		voteRepo:     voteRepo,
		clock:        clock,
	}
}

// Cast records a first vote or changes an existing one. Changing is an
// update of the existing row, not an insert+delete, so the one-vote-per-user
// invariant holds at every point in time.
func (s *voteService) Cast(ctx context.Context, input ports.CastVoteInput) (*domain.VoteReceipt, error) {
	if input.UserID == uuid.Nil {
		return nil, domain.ErrAuthRequired
	}

	question, err := s.questionRepo.GetByID(ctx, input.QuestionID)
	if err != nil {
		return nil, err
	}

	if !question.CanVote(s.clock.Now()) {
		return nil, domain.ErrVotingClosed
	}

	choice := question.Choice(input.ChoiceID)
	if choice == nil {
		// Distinguish a choice that belongs to another question from one
		// that does not exist at all.
		other, err := s.questionRepo.GetChoice(ctx, input.ChoiceID)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrChoiceMismatch
		}
		return nil, domain.ErrNoChoiceSelected
	}

	vote := &domain.Vote{
		ID:         uuid.New(),
		QuestionID: question.ID,
		ChoiceID:   choice.ID,
		UserID:     input.UserID,
	}

	created, err := s.voteRepo.Upsert(ctx, vote)
	if err != nil {
		return nil, err
	}

	return &domain.VoteReceipt{
		Vote:    *vote,
		Choice:  *choice,
		Created: created,
	}, nil
}

// Withdraw deletes the user's vote. There is deliberately no time-window
// check: a user may withdraw their vote even after voting has closed.
func (s *voteService) Withdraw(ctx context.Context, questionID, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return domain.ErrAuthRequired
	}

	if _, err := s.questionRepo.GetByID(ctx, questionID); err != nil {
		return err
	}

	deleted, err := s.voteRepo.Delete(ctx, questionID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrDidNotVote
	}
	return nil
}

func (s *voteService) CurrentChoice(ctx context.Context, questionID, userID uuid.UUID) (*domain.Choice, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	return s.voteRepo.FindChoice(ctx, questionID, userID)
}
