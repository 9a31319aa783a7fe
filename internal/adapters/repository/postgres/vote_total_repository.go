package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/kupolls/api/internal/core/domain"
	"github.com/kupolls/api/internal/core/ports"
)

type voteTotalRepository struct {
	db *sql.DB
}

func NewVoteTotalRepository(db *sql.DB) ports.VoteTotalRepository {
	return &voteTotalRepository{
		db: db,
	}
}

// RefreshTotals recomputes the question's materialized counts from the votes
// table in one statement, so the totals never drift from the ledger between
// two refreshes of the same choice.
func (r *voteTotalRepository) RefreshTotals(ctx context.Context, questionID uuid.UUID) error {
	query := `
		INSERT INTO vote_totals (question_id, choice_id, vote_count, last_updated_at)
		SELECT question_id, choice_id, COUNT(*), NOW()
		FROM votes
		WHERE question_id = $1
		GROUP BY question_id, choice_id
		ON CONFLICT (question_id, choice_id) DO UPDATE
		SET vote_count = EXCLUDED.vote_count,
		    last_updated_at = NOW();
	`

	_, err := r.db.ExecContext(ctx, query, questionID)
	if err != nil {
		return fmt.Errorf("failed to refresh totals for question %s: %w", questionID, err)
	}

	// Withdrawn votes can leave stale rows behind; zero them out.
	cleanup := `
		UPDATE vote_totals vt
		SET vote_count = 0, last_updated_at = NOW()
		WHERE vt.question_id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM votes v
			WHERE v.question_id = vt.question_id AND v.choice_id = vt.choice_id
		  )
	`
	if _, err := r.db.ExecContext(ctx, cleanup, questionID); err != nil {
		return fmt.Errorf("failed to clear stale totals for question %s: %w", questionID, err)
	}

	return nil
}

func (r *voteTotalRepository) GetChoiceStats(ctx context.Context, questionID uuid.UUID) (map[uuid.UUID]domain.ChoiceStats, error) {
	query := `
		SELECT question_id, choice_id, vote_count
		FROM vote_totals
		WHERE question_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats batch: %w", err)
	}
	defer rows.Close()

	type rawStat struct {
		QuestionID uuid.UUID
		ChoiceID   uuid.UUID
		Count      int64
	}
	var rawStats []rawStat
	questionTotals := make(map[uuid.UUID]int64)

	for rows.Next() {
		var s rawStat
		if err := rows.Scan(&s.QuestionID, &s.ChoiceID, &s.Count); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		rawStats = append(rawStats, s)
		questionTotals[s.QuestionID] += s.Count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats: %w", err)
	}

	result := make(map[uuid.UUID]domain.ChoiceStats)
	for _, s := range rawStats {
		total := questionTotals[s.QuestionID]
		percentage := 0.0
		if total > 0 {
			percentage = (float64(s.Count) / float64(total)) * 100
		}

		result[s.ChoiceID] = domain.ChoiceStats{
			VoteCount:  s.Count,
			Percentage: percentage,
		}
	}

	return result, nil
}
