package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kupolls/api/internal/core/domain"
	"github.com/kupolls/api/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// Upsert inserts the vote or, when the user already voted on this question,
// overwrites the existing row's choice in place. The unique index on
// (question_id, user_id) plus ON CONFLICT DO UPDATE makes two concurrent
// first votes collapse into a single row inside one statement; the conflict
// never reaches the caller. xmax = 0 is true only for a freshly inserted row,
// which distinguishes a first vote from a changed one.
func (r *voteRepository) Upsert(ctx context.Context, vote *domain.Vote) (bool, error) {
	query := `
		INSERT INTO votes (id, question_id, choice_id, user_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (question_id, user_id)
		DO UPDATE SET choice_id = EXCLUDED.choice_id
		RETURNING id, created_at, (xmax = 0) AS inserted
	`
	var created bool
	err := r.db.QueryRowContext(ctx, query, vote.ID, vote.QuestionID, vote.ChoiceID, vote.UserID).
		Scan(&vote.ID, &vote.CreatedAt, &created)
	if err != nil {
		return false, fmt.Errorf("failed to upsert vote: %w", err)
	}
	return created, nil
}

func (r *voteRepository) FindChoice(ctx context.Context, questionID, userID uuid.UUID) (*domain.Choice, error) {
	query := `
		SELECT c.id, c.question_id, c.choice_text, c.created_at
		FROM votes v
		JOIN choices c ON c.id = v.choice_id
		WHERE v.question_id = $1 AND v.user_id = $2
	`
	var choice domain.Choice
	err := r.db.QueryRowContext(ctx, query, questionID, userID).Scan(
		&choice.ID, &choice.QuestionID, &choice.ChoiceText, &choice.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find current choice: %w", err)
	}
	return &choice, nil
}

func (r *voteRepository) Delete(ctx context.Context, questionID, userID uuid.UUID) (bool, error) {
	query := `DELETE FROM votes WHERE question_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, questionID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete vote: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *voteRepository) CountByChoice(ctx context.Context, questionID uuid.UUID) (map[uuid.UUID]int64, error) {
	query := `
		SELECT choice_id, COUNT(*)
		FROM votes
		WHERE question_id = $1
		GROUP BY choice_id
	`
	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int64)
	for rows.Next() {
		var choiceID uuid.UUID
		var count int64
		if err := rows.Scan(&choiceID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[choiceID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote counts: %w", err)
	}
	return counts, nil
}
