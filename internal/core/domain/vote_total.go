package domain

import (
	"time"

	"github.com/google/uuid"
)

// VoteTotal is a materialized per-choice count refreshed from the votes table
// by the summarization job. Live results always aggregate the votes table
// directly; totals are a batch read model only.
type VoteTotal struct {
	QuestionID    uuid.UUID
	ChoiceID      uuid.UUID
	VoteCount     int64
	LastUpdatedAt time.Time
}

type ChoiceStats struct {
	VoteCount  int64
	Percentage float64
}
