package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/kupolls/api/internal/core/domain"
)

type VoteTotalRepository interface {
	// RefreshTotals recomputes the materialized counts for one question from
	// the votes table inside a single statement.
	RefreshTotals(ctx context.Context, questionID uuid.UUID) error
	GetChoiceStats(ctx context.Context, questionID uuid.UUID) (map[uuid.UUID]domain.ChoiceStats, error)
}

type SummaryService interface {
	SummarizeAllVotes(ctx context.Context) error
}
