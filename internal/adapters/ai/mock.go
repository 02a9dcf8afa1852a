package ai

import (
	"context"
	"fmt"

	"github.com/the-articles/articles-api/internal/domain"
)

// MockAI is the local stand-in for the Gemini client. Deterministic,
// offline, useful for dev mode and tests.
type MockAI struct{}

func NewMockAI() *MockAI {
	return &MockAI{}
}

func (m *MockAI) AnalyzeDraft(_ context.Context, draft domain.ArticleDraft) (*domain.DraftAnalysis, error) {
	score := 50
	if len(draft.Body) > 600 {
		score = 74
	}
	return &domain.DraftAnalysis{
		Score: score,
		Tone:  "neutral",
		Strengths: []string{
			fmt.Sprintf("Headline %q states the subject plainly", draft.Title),
			"Body length suits the category",
		},
		Suggestions: []string{
			"Name at least one primary source",
			"Lead with the newest fact",
		},
	}, nil
}

func (m *MockAI) TrendingTopics(_ context.Context, headlines []string) ([]domain.Topic, error) {
	n := len(headlines)
	if n > 6 {
		n = 6
	}
	topics := make([]domain.Topic, 0, n)
	for i := 0; i < n; i++ {
		topics = append(topics, domain.Topic{
			Tag:      fmt.Sprintf("#desk-%d", i+1),
			Summary:  headlines[i],
			Momentum: "steady",
		})
	}
	return topics, nil
}
