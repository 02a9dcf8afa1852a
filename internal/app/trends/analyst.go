package trends

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/the-articles/articles-api/internal/domain"
	"github.com/the-articles/articles-api/internal/observability"
)

// Editorial analysis triggers: a draft becomes eligible once the headline
// exceeds titleThreshold and the body exceeds bodyThreshold; the call arms
// armingDelay after the threshold is crossed and runs at most once per
// perDraftInterval per draft.
const (
	titleThreshold   = 20
	bodyThreshold    = 200
	armingDelay      = 8 * time.Second
	perDraftInterval = 30 * time.Second
)

// FallbackAnalysis is substituted when the AI endpoint fails.
var FallbackAnalysis = domain.DraftAnalysis{
	Score: 62,
	Tone:  "neutral",
	Strengths: []string{
		"Clear subject established early",
		"Concrete, verifiable framing",
	},
	Suggestions: []string{
		"Add a second independent source",
		"Tighten the closing paragraph",
	},
	Simulated: true,
}

type draftState struct {
	limiter *rate.Limiter
	armedAt time.Time
	last    *domain.DraftAnalysis
}

// Analyst gates editorial analysis of in-progress drafts. Callers poll it
// as the draft changes; it decides when a generation pass actually runs.
type Analyst struct {
	ai  domain.AIClient
	now func() time.Time

	mu     sync.Mutex
	drafts map[string]*draftState
}

func NewAnalyst(ai domain.AIClient) *Analyst {
	return &Analyst{
		ai:     ai,
		now:    time.Now,
		drafts: make(map[string]*draftState),
	}
}

// Analyze returns the current analysis for the draft, or nil when the
// draft is below threshold or still inside the arming delay. While the
// per-draft rate limit holds, the previous analysis is returned. AI
// failure yields the fixed fallback, marked Simulated, never an error.
func (a *Analyst) Analyze(ctx context.Context, draftID string, draft domain.ArticleDraft) *domain.DraftAnalysis {
	now := a.now()

	a.mu.Lock()
	st, ok := a.drafts[draftID]
	if !ok {
		st = &draftState{
			limiter: rate.NewLimiter(rate.Every(perDraftInterval), 1),
		}
		a.drafts[draftID] = st
	}

	if len(draft.Title) <= titleThreshold || len(draft.Body) <= bodyThreshold {
		// Below threshold: disarm so the delay restarts when the draft
		// grows back past it.
		st.armedAt = time.Time{}
		last := st.last
		a.mu.Unlock()
		return last
	}

	if st.armedAt.IsZero() {
		st.armedAt = now
	}
	if now.Sub(st.armedAt) < armingDelay {
		last := st.last
		a.mu.Unlock()
		return last
	}

	if !st.limiter.AllowN(now, 1) {
		last := st.last
		a.mu.Unlock()
		return last
	}
	a.mu.Unlock()

	analysis, err := a.ai.AnalyzeDraft(ctx, draft)
	if err != nil || analysis == nil {
		observability.LoggerFromContext(ctx).Warn("draft analysis degraded, substituting simulation",
			"draft_id", draftID, "error", err)
		fb := FallbackAnalysis
		analysis = &fb
	}

	a.mu.Lock()
	st.last = analysis
	a.mu.Unlock()
	return analysis
}
