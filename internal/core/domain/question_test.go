package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func questionPublishedAt(pubDate time.Time) *Question {
	return &Question{QuestionText: "test question", PubDate: pubDate}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestIsPublished(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		pubDate time.Time
		want    bool
	}{
		{"future question", now.Add(3 * time.Minute), false},
		{"far future question", now.Add(30 * 24 * time.Hour), false},
		{"published exactly now", now, true},
		{"old question", now.Add(-48 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := questionPublishedAt(tt.pubDate)
			assert.Equal(t, tt.want, q.IsPublished(now))
		})
	}
}

func TestIsPublishedMonotonicInNow(t *testing.T) {
	pubDate := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	q := questionPublishedAt(pubDate)

	now := pubDate
	for i := 0; i < 10; i++ {
		assert.True(t, q.IsPublished(now), "published must stay published at %s", now)
		now = now.Add(time.Duration(i+1) * time.Hour)
	}
}

func TestWasPublishedRecently(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		pubDate time.Time
		want    bool
	}{
		{"future question", now.Add(30 * 24 * time.Hour), false},
		{"older than one day", now.Add(-(24*time.Hour + time.Second)), false},
		{"within last day", now.Add(-(23*time.Hour + 59*time.Minute + 59*time.Second)), true},
		{"exactly one day ago", now.Add(-24 * time.Hour), true},
		{"exactly now", now, true},
		{"one second in the future", now.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := questionPublishedAt(tt.pubDate)
			assert.Equal(t, tt.want, q.WasPublishedRecently(now))
		})
	}
}

func TestCanVote(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		pubDate time.Time
		endDate *time.Time
		want    bool
	}{
		{"unpublished question", now.Add(24 * time.Hour), nil, false},
		{"closed question", now.Add(-48 * time.Hour), timePtr(now.Add(-time.Second)), false},
		{"open question with end date", now.Add(-time.Hour), timePtr(now.Add(24 * time.Hour)), true},
		{"open forever", now.Add(-1234 * 24 * time.Hour), nil, true},
		{"published an hour ago, no end date", now.Add(-time.Hour), nil, true},
		{"opens exactly now", now, nil, true},
		{"closes exactly now", now.Add(-time.Hour), timePtr(now), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &Question{PubDate: tt.pubDate, EndDate: tt.endDate}
			assert.Equal(t, tt.want, q.CanVote(now))
		})
	}
}

func TestState(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		pubDate time.Time
		endDate *time.Time
		want    QuestionState
	}{
		{"before pub date", now.Add(time.Minute), nil, StateUnpublished},
		{"open without end date", now.Add(-time.Minute), nil, StateOpen},
		{"open within window", now.Add(-time.Hour), timePtr(now.Add(time.Hour)), StateOpen},
		{"end date in the past", now.Add(-2 * time.Hour), timePtr(now.Add(-time.Hour)), StateClosed},
		{"end date exactly now is still open", now.Add(-time.Hour), timePtr(now), StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &Question{PubDate: tt.pubDate, EndDate: tt.endDate}
			assert.Equal(t, tt.want, q.State(now))
		})
	}
}

func TestQuestionChoiceLookup(t *testing.T) {
	q := &Question{}
	q.Choices = []Choice{
		{ChoiceText: "first"},
		{ChoiceText: "second"},
	}
	for i := range q.Choices {
		q.Choices[i].ID = uuid.New()
	}

	found := q.Choice(q.Choices[1].ID)
	assert.NotNil(t, found)
	assert.Equal(t, "second", found.ChoiceText)

	assert.Nil(t, q.Choice(uuid.New()))
}
