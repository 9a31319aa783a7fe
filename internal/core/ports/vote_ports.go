package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/kupolls/api/internal/core/domain"
)

type VoteRepository interface {
	// Upsert records the user's vote for a question, overwriting the
	// existing row's choice in place when one exists. Implementations must
	// guarantee at most one row per (question, user) even under concurrent
	// calls; a unique-index conflict is resolved as the update, never
	// returned. The created result distinguishes insert from overwrite.
	Upsert(ctx context.Context, vote *domain.Vote) (created bool, err error)
	// FindChoice returns the choice the user currently voted for on this
	// question, or (nil, nil) when there is no vote.
	FindChoice(ctx context.Context, questionID, userID uuid.UUID) (*domain.Choice, error)
	// Delete removes the user's vote. deleted is false when none existed.
	Delete(ctx context.Context, questionID, userID uuid.UUID) (deleted bool, err error)
	// CountByChoice aggregates live vote counts for a question's choices.
	// Choices nobody voted for are absent from the map.
	CountByChoice(ctx context.Context, questionID uuid.UUID) (map[uuid.UUID]int64, error)
}

type CastVoteInput struct {
	QuestionID uuid.UUID
	ChoiceID   uuid.UUID
	UserID     uuid.UUID
}

type VoteService interface {
	Cast(ctx context.Context, input CastVoteInput) (*domain.VoteReceipt, error)
	Withdraw(ctx context.Context, questionID, userID uuid.UUID) error
	CurrentChoice(ctx context.Context, questionID, userID uuid.UUID) (*domain.Choice, error)
}
