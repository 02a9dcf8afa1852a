package trends

import (
	"context"
	"sync"
	"time"

	"github.com/the-articles/articles-api/internal/app/datacache"
	"github.com/the-articles/articles-api/internal/domain"
	"github.com/the-articles/articles-api/internal/observability"
)

// FallbackTopics is the fixed placeholder set substituted whenever the AI
// endpoint is unavailable. The report is then marked Simulated, which the
// caller renders as the subdued "simulation mode" indicator.
var FallbackTopics = []domain.Topic{
	{Tag: "#shadow-budgets", Summary: "Questions mount over untraceable municipal spending lines.", Momentum: "rising"},
	{Tag: "#port-authority", Summary: "Regional freight corridors face a second week of slowdowns.", Momentum: "steady"},
	{Tag: "#grid-failures", Summary: "Rolling outages revive the debate on grid maintenance debt.", Momentum: "rising"},
	{Tag: "#water-rights", Summary: "Upstream permits collide with decades-old irrigation claims.", Momentum: "steady"},
	{Tag: "#rate-watch", Summary: "Lenders hold their breath ahead of the quarterly rate decision.", Momentum: "falling"},
	{Tag: "#paper-trail", Summary: "Leaked procurement memos point to a wider records gap.", Momentum: "rising"},
}

// How many cached headlines feed one generation pass.
const headlineSample = 20

// Service generates trending-topic summaries from the cached feed and
// keeps the result for a fixed window. AI failure is never surfaced: the
// fallback list is substituted and the report marked Simulated.
type Service struct {
	ai    domain.AIClient
	cache *datacache.Cache
	ttl   time.Duration
	now   func() time.Time

	mu     sync.Mutex
	report *domain.TrendReport
}

func NewService(ai domain.AIClient, cache *datacache.Cache, ttl time.Duration) *Service {
	return &Service{
		ai:    ai,
		cache: cache,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Trending returns the current report, regenerating it when the cached
// one is older than the configured window. Never fails.
func (s *Service) Trending(ctx context.Context) *domain.TrendReport {
	now := s.now()

	s.mu.Lock()
	if s.report != nil && now.Sub(s.report.GeneratedAt) < s.ttl {
		cp := *s.report
		s.mu.Unlock()
		return &cp
	}
	s.mu.Unlock()

	report := s.generate(ctx, now)

	s.mu.Lock()
	s.report = report
	cp := *report
	s.mu.Unlock()
	return &cp
}

func (s *Service) generate(ctx context.Context, now time.Time) *domain.TrendReport {
	log := observability.LoggerFromContext(ctx)

	var headlines []string
	for _, a := range s.cache.Articles() {
		if a.Hidden {
			continue
		}
		headlines = append(headlines, a.Title)
		if len(headlines) >= headlineSample {
			break
		}
	}

	topics, err := s.ai.TrendingTopics(ctx, headlines)
	if err != nil || len(topics) == 0 {
		log.Warn("trend generation degraded, substituting simulation", "error", err)
		return &domain.TrendReport{
			Topics:      append([]domain.Topic(nil), FallbackTopics...),
			Simulated:   true,
			GeneratedAt: now,
		}
	}

	return &domain.TrendReport{
		Topics:      topics,
		GeneratedAt: now,
	}
}
