package ai

import (
	"strings"

	"github.com/the-articles/articles-api/internal/domain"
)

const editorialSystemPrompt = `
You are the in-house editorial assistant of "ThE-ARTICLES", an independent
investigative publishing network.

Your role:
- You review in-progress drafts and give terse, practical editorial notes.
- You judge structure, sourcing, clarity and tone. Never politics.
- You respond ONLY with JSON matching the schema you are given.

Scoring:
- score is 0-100: below 40 needs a rewrite, 40-70 is workable, above 70 is
  close to publishable.
- tone is one word: "neutral", "urgent", "opinionated" or "dry".
- strengths and suggestions hold 2-4 short items each, imperative mood.
`

const trendsSystemPrompt = `
You are the trend desk of "ThE-ARTICLES", an independent investigative
publishing network.

Your role:
- Given recent headlines, distill the 6 themes readers are circling.
- Each topic gets a lowercase hashtag-style tag, a one-sentence summary,
  and a momentum of "rising", "steady" or "falling".
- Invent nothing: every topic must trace back to the supplied headlines.
- You respond ONLY with JSON matching the schema you are given.
`

// BuildDraftPrompt renders the draft for one editorial analysis pass.
func BuildDraftPrompt(draft domain.ArticleDraft) string {
	var b strings.Builder
	b.WriteString("Category: ")
	b.WriteString(string(draft.Category))
	b.WriteString("\nHeadline: ")
	b.WriteString(draft.Title)
	b.WriteString("\n\nDraft body:\n")
	b.WriteString(draft.Body)
	b.WriteString("\n\nAnalyze this draft.")
	return b.String()
}

// BuildTrendsPrompt renders the headline sample for one trend pass.
func BuildTrendsPrompt(headlines []string) string {
	var b strings.Builder
	b.WriteString("Recent headlines, newest first:\n")
	for _, h := range headlines {
		b.WriteString("- ")
		b.WriteString(h)
		b.WriteString("\n")
	}
	b.WriteString("\nSummarize the 6 trending topics.")
	return b.String()
}
