package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kupolls/api/internal/core/domain"
	"github.com/kupolls/api/internal/core/ports"
)

type questionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) ports.QuestionRepository {
	return &questionRepository{
		db: db,
	}
}

func (r *questionRepository) Save(ctx context.Context, question *domain.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryQuestion := `
		INSERT INTO questions (id, question_text, pub_date, end_date)
		VALUES ($1, $2, $3, $4)
	`
	_, err = tx.ExecContext(ctx, queryQuestion, question.ID, question.QuestionText, question.PubDate, question.EndDate)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}

	queryChoice := `
		INSERT INTO choices (id, question_id, choice_text)
		VALUES ($1, $2, $3)
	`
	stmt, err := tx.PrepareContext(ctx, queryChoice)
	if err != nil {
		return fmt.Errorf("failed to prepare choice statement: %w", err)
	}
	defer stmt.Close()

	for _, choice := range question.Choices {
		_, err = stmt.ExecContext(ctx, choice.ID, choice.QuestionID, choice.ChoiceText)
		if err != nil {
			return fmt.Errorf("failed to insert choice: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	queryQuestion := `
		SELECT id, question_text, pub_date, end_date, created_at
		FROM questions
		WHERE id = $1
	`

	var question domain.Question
	err := r.db.QueryRowContext(ctx, queryQuestion, id).Scan(
		&question.ID, &question.QuestionText, &question.PubDate, &question.EndDate, &question.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	choices, err := r.fetchChoices(ctx, question.ID)
	if err != nil {
		return nil, err
	}
	question.Choices = choices

	return &question, nil
}

func (r *questionRepository) ListPublished(ctx context.Context, now time.Time, limit int) ([]*domain.Question, error) {
	query := `
		SELECT id, question_text, pub_date, end_date, created_at
		FROM questions
		WHERE pub_date <= $1
		ORDER BY pub_date DESC
	`
	args := []any{now}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list published questions: %w", err)
	}
	defer rows.Close()

	return r.scanQuestions(ctx, rows)
}

func (r *questionRepository) GetChoice(ctx context.Context, choiceID uuid.UUID) (*domain.Choice, error) {
	query := `
		SELECT id, question_id, choice_text, created_at
		FROM choices
		WHERE id = $1
	`
	var choice domain.Choice
	err := r.db.QueryRowContext(ctx, query, choiceID).Scan(
		&choice.ID, &choice.QuestionID, &choice.ChoiceText, &choice.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get choice: %w", err)
	}
	return &choice, nil
}

// Delete removes the question. Choices cascade via FK, and votes cascade
// from choices.
func (r *questionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *questionRepository) scanQuestions(ctx context.Context, rows *sql.Rows) ([]*domain.Question, error) {
	var questions []*domain.Question
	for rows.Next() {
		var question domain.Question
		if err := rows.Scan(&question.ID, &question.QuestionText, &question.PubDate, &question.EndDate, &question.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}

		choices, err := r.fetchChoices(ctx, question.ID)
		if err != nil {
			return nil, err
		}
		question.Choices = choices

		questions = append(questions, &question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return questions, nil
}

func (r *questionRepository) fetchChoices(ctx context.Context, questionID uuid.UUID) ([]domain.Choice, error) {
	queryChoices := `
		SELECT id, question_id, choice_text, created_at
		FROM choices
		WHERE question_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, queryChoices, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get choices: %w", err)
	}
	defer rows.Close()

	var choices []domain.Choice
	for rows.Next() {
		var choice domain.Choice
		if err := rows.Scan(&choice.ID, &choice.QuestionID, &choice.ChoiceText, &choice.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		choices = append(choices, choice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating choices: %w", err)
	}
	return choices, nil
}
