package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/kupolls/api/internal/core/ports"
)

type summaryService struct {
	questionRepo  ports.QuestionRepository
	voteTotalRepo ports.VoteTotalRepository
	clock         ports.Clock
}

func NewSummaryService(questionRepo ports.QuestionRepository, voteTotalRepo ports.VoteTotalRepository, clock ports.Clock) ports.SummaryService {
	return &summaryService{
		questionRepo:  questionRepo,
		voteTotalRepo: voteTotalRepo,
		clock:         clock,
	}
}

// SummarizeAllVotes refreshes the materialized totals of every published
// question. Unpublished questions are skipped; nobody can have voted on them.
func (s *summaryService) SummarizeAllVotes(ctx context.Context) error {
	questions, err := s.questionRepo.ListPublished(ctx, s.clock.Now(), 0)
	if err != nil {
		return fmt.Errorf("failed to fetch published questions: %w", err)
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(questions))

	for _, question := range questions {
		wg.Add(1)
		go func(qID [16]byte) { // passing ID by value (uuid.UUID is [16]byte) to avoid closure issues
			defer wg.Done()
			if err := s.voteTotalRepo.RefreshTotals(ctx, qID); err != nil {
				errChan <- fmt.Errorf("failed to summarize question %s: %w", qID, err)
			}
		}(question.ID)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return err
		}
	}

	return nil
}
