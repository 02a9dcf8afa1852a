package domain

import "time"

// ArticleDraft is an in-progress piece submitted for editorial analysis.
type ArticleDraft struct {
	Title    string
	Body     string
	Category Category
}

// DraftAnalysis is the structured editorial feedback for a draft.
type DraftAnalysis struct {
	Score       int      `json:"score"`
	Tone        string   `json:"tone"`
	Strengths   []string `json:"strengths"`
	Suggestions []string `json:"suggestions"`

	// Simulated marks placeholder content substituted after an AI failure.
	Simulated bool `json:"simulated"`
}

// Topic is one generated trending-topic summary.
type Topic struct {
	Tag      string `json:"tag"`
	Summary  string `json:"summary"`
	Momentum string `json:"momentum"`
}

// TrendReport is the client-cached trending view.
type TrendReport struct {
	Topics      []Topic   `json:"topics"`
	Simulated   bool      `json:"simulated"`
	GeneratedAt time.Time `json:"generated_at"`
}
