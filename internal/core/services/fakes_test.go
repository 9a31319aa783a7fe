package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kupolls/api/internal/core/domain"
	"github.com/kupolls/api/internal/core/ports"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions map[uuid.UUID]*domain.Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: make(map[uuid.UUID]*domain.Question)}
}

func (r *fakeQuestionRepo) Save(ctx context.Context, question *domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *question
	r.questions[question.ID] = &copied
	return nil
}

func (r *fakeQuestionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	question, ok := r.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	copied := *question
	return &copied, nil
}

func (r *fakeQuestionRepo) ListPublished(ctx context.Context, now time.Time, limit int) ([]*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var published []*domain.Question
	for _, question := range r.questions {
		if !question.PubDate.After(now) {
			copied := *question
			published = append(published, &copied)
		}
	}
	sort.Slice(published, func(i, j int) bool {
		return published[i].PubDate.After(published[j].PubDate)
	})
	if limit > 0 && len(published) > limit {
		published = published[:limit]
	}
	return published, nil
}

func (r *fakeQuestionRepo) GetChoice(ctx context.Context, choiceID uuid.UUID) (*domain.Choice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, question := range r.questions {
		for i := range question.Choices {
			if question.Choices[i].ID == choiceID {
				copied := question.Choices[i]
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeQuestionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(r.questions, id)
	return nil
}

type voteKey struct {
	questionID uuid.UUID
	userID     uuid.UUID
}

// fakeVoteRepo mimics the postgres upsert: one row per (question, user),
// concurrent inserts collapse into an update under the mutex.
type fakeVoteRepo struct {
	mu    sync.Mutex
	votes map[voteKey]*domain.Vote
	// choices lets FindChoice resolve the voted-for choice like the SQL join.
	choices map[uuid.UUID]domain.Choice
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{
		votes:   make(map[voteKey]*domain.Vote),
		choices: make(map[uuid.UUID]domain.Choice),
	}
}

func (r *fakeVoteRepo) registerChoices(question *domain.Question) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, choice := range question.Choices {
		r.choices[choice.ID] = choice
	}
}

func (r *fakeVoteRepo) Upsert(ctx context.Context, vote *domain.Vote) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := voteKey{questionID: vote.QuestionID, userID: vote.UserID}
	if existing, ok := r.votes[key]; ok {
		existing.ChoiceID = vote.ChoiceID
		*vote = *existing
		return false, nil
	}
	vote.CreatedAt = time.Now()
	copied := *vote
	r.votes[key] = &copied
	return true, nil
}

func (r *fakeVoteRepo) FindChoice(ctx context.Context, questionID, userID uuid.UUID) (*domain.Choice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vote, ok := r.votes[voteKey{questionID: questionID, userID: userID}]
	if !ok {
		return nil, nil
	}
	choice, ok := r.choices[vote.ChoiceID]
	if !ok {
		return nil, nil
	}
	copied := choice
	return &copied, nil
}

func (r *fakeVoteRepo) Delete(ctx context.Context, questionID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := voteKey{questionID: questionID, userID: userID}
	if _, ok := r.votes[key]; !ok {
		return false, nil
	}
	delete(r.votes, key)
	return true, nil
}

func (r *fakeVoteRepo) CountByChoice(ctx context.Context, questionID uuid.UUID) (map[uuid.UUID]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[uuid.UUID]int64)
	for key, vote := range r.votes {
		if key.questionID == questionID {
			counts[vote.ChoiceID]++
		}
	}
	return counts, nil
}

// rowCount reports how many vote rows exist for (question, user). The
// invariant under test is that it never exceeds 1.
func (r *fakeVoteRepo) rowCount(questionID, userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for key := range r.votes {
		if key.questionID == questionID && key.userID == userID {
			n++
		}
	}
	return n
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.Username] = &copied
	return nil
}

type fakeAuthRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.RefreshToken
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{tokens: make(map[string]*domain.RefreshToken)}
}

func (r *fakeAuthRepo) StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = uuid.New()
	token.CreatedAt = time.Now()
	copied := *token
	r.tokens[token.TokenHash] = &copied
	return nil
}

func (r *fakeAuthRepo) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenHash]
	if !ok {
		return nil, nil
	}
	copied := *token
	return &copied, nil
}

func (r *fakeAuthRepo) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.ID == id {
			token.Revoked = true
		}
	}
	return nil
}

func (r *fakeAuthRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for hash, token := range r.tokens {
		if token.ExpiresAt.Before(now) {
			delete(r.tokens, hash)
			deleted++
		}
	}
	return deleted, nil
}

type fakeVerifier struct {
	payload *ports.TokenPayload
	err     error
}

func (v *fakeVerifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.payload, nil
}

type authEvent struct {
	kind     string
	username string
	clientIP string
}

type recordingSink struct {
	mu     sync.Mutex
	events []authEvent
}

func (s *recordingSink) record(kind, username, clientIP string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, authEvent{kind: kind, username: username, clientIP: clientIP})
}

func (s *recordingSink) LoggedIn(ctx context.Context, username, clientIP string) {
	s.record("login", username, clientIP)
}

func (s *recordingSink) LoggedOut(ctx context.Context, username, clientIP string) {
	s.record("logout", username, clientIP)
}

func (s *recordingSink) LoginFailed(ctx context.Context, username, clientIP string) {
	s.record("login_failed", username, clientIP)
}

func (s *recordingSink) Registered(ctx context.Context, username, clientIP string) {
	s.record("registered", username, clientIP)
}

func (s *recordingSink) kinds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.kind)
	}
	return out
}
