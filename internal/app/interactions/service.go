package interactions

import (
	"context"

	"github.com/the-articles/articles-api/internal/app/datacache"
	"github.com/the-articles/articles-api/internal/domain"
	"github.com/the-articles/articles-api/internal/observability"
)

// Service applies optimistic, read-then-increment article counters.
// Counters are monotonic: there is no undo and no toggle-off, repeated
// calls keep incrementing.
type Service struct {
	articles domain.ArticleStore
	cache    *datacache.Cache
}

func NewService(articles domain.ArticleStore, cache *datacache.Cache) *Service {
	return &Service{articles: articles, cache: cache}
}

// ApplyInteraction increments the like or dislike counter of an article.
// The current value is read from the cached row, not a fresh fetch. On
// success the cached row is patched in place, deliberately bypassing the
// full-reload rule for latency. On write failure there is no rollback and
// no retry; the caller sees success either way (the interaction is
// non-critical and can simply be clicked again).
func (s *Service) ApplyInteraction(ctx context.Context, actor *domain.Profile, kind domain.InteractionKind, articleID domain.ArticleID) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}

	log := observability.LoggerFromContext(ctx).With(
		"actor_id", actor.ID,
		"article_id", articleID,
		"kind", kind,
	)

	cached := s.cache.Article(articleID)
	if cached == nil {
		log.Warn("article not cached, interaction dropped")
		return domain.ErrLookupFailure
	}

	var field domain.CounterField
	var value int
	switch kind {
	case domain.InteractionLike:
		field = domain.CounterLikes
		value = cached.Likes + 1
	case domain.InteractionDislike:
		field = domain.CounterDislikes
		value = cached.Dislikes + 1
	default:
		log.Warn("unknown interaction kind, dropped")
		return domain.ErrLookupFailure
	}

	if err := s.articles.UpdateCounter(ctx, articleID, field, value); err != nil {
		log.Warn("counter write failed, no rollback", "error", err)
		return nil
	}

	s.cache.PatchArticle(articleID, func(a *domain.Article) {
		switch field {
		case domain.CounterLikes:
			a.Likes = value
		case domain.CounterDislikes:
			a.Dislikes = value
		}
	})
	return nil
}
