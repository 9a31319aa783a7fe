package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is a user's single current selection for a question. At most one row
// exists per (question, user); changing a vote rewrites ChoiceID in place
// rather than inserting a second row.
type Vote struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	ChoiceID   uuid.UUID `json:"choice_id"`
	UserID     uuid.UUID `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// VoteReceipt reports the outcome of casting a vote. Created distinguishes a
// first vote from a changed one for user-facing messaging.
type VoteReceipt struct {
	Vote    Vote   `json:"vote"`
	Choice  Choice `json:"choice"`
	Created bool   `json:"created"`
}
