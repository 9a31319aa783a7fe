package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuestionState is derived from the question's timestamps on every call.
// It is never stored: a stored status field could go stale relative to the
// clock between requests.
type QuestionState int

const (
	StateUnpublished QuestionState = iota
	StateOpen
	StateClosed
)

func (s QuestionState) String() string {
	switch s {
	case StateUnpublished:
		return "unpublished"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

type Question struct {
	ID           uuid.UUID  `json:"id"`
	QuestionText string     `json:"question_text"`
	PubDate      time.Time  `json:"pub_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	Choices      []Choice   `json:"choices"`
}

type Choice struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	ChoiceText string    `json:"choice_text"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsPublished reports whether the question is visible at the given instant.
// Inclusive at the boundary: a question publishing exactly now is published.
func (q *Question) IsPublished(now time.Time) bool {
	return !now.Before(q.PubDate)
}

// WasPublishedRecently reports whether pub_date falls within the 24 hours
// ending at now, inclusive on both ends. Future questions are not recent.
func (q *Question) WasPublishedRecently(now time.Time) bool {
	dayAgo := now.Add(-24 * time.Hour)
	return !q.PubDate.Before(dayAgo) && !q.PubDate.After(now)
}

// CanVote reports whether voting is permitted at the given instant: the
// interval [pub_date, end_date], or [pub_date, +inf) when end_date is nil.
func (q *Question) CanVote(now time.Time) bool {
	if now.Before(q.PubDate) {
		return false
	}
	if q.EndDate == nil {
		return true
	}
	return !q.EndDate.Before(now)
}

func (q *Question) State(now time.Time) QuestionState {
	if now.Before(q.PubDate) {
		return StateUnpublished
	}
	if q.EndDate != nil && q.EndDate.Before(now) {
		return StateClosed
	}
	return StateOpen
}

// Choice returns the question's choice with the given id, or nil when the
// id does not belong to this question.
func (q *Question) Choice(choiceID uuid.UUID) *Choice {
	for i := range q.Choices {
		if q.Choices[i].ID == choiceID {
			return &q.Choices[i]
		}
	}
	return nil
}
