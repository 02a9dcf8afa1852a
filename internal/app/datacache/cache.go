package datacache

import (
	"context"
	"sync"

	"github.com/the-articles/articles-api/internal/domain"
	"github.com/the-articles/articles-api/internal/observability"
)

// Presentational "active node" statistic: a fixed baseline plus the
// profile count, with a fixed stand-in while the cache is empty.
const (
	nodeBaseline = 120
	nodeDefault  = 121
)

// Cache is the process-wide snapshot of articles and profiles. It is
// refreshed on demand and after every mutation that could invalidate it;
// there is no incremental update model, always a full reload.
//
// Refresh calls are not deduplicated: overlapping refreshes race and the
// last completion wins. Each list keeps its previous value when its fetch
// fails, so readers never observe an empty interim list.
type Cache struct {
	articleStore domain.ArticleStore
	profileStore domain.ProfileStore

	mu       sync.RWMutex
	articles []*domain.Article
	profiles []*domain.Profile
}

func New(articleStore domain.ArticleStore, profileStore domain.ProfileStore) *Cache {
	return &Cache{
		articleStore: articleStore,
		profileStore: profileStore,
	}
}

// Refresh re-fetches both lists in full. Fetch failures are logged and the
// affected list keeps its previous value; Refresh itself never fails.
func (c *Cache) Refresh(ctx context.Context) {
	log := observability.LoggerFromContext(ctx)

	articles, artErr := c.articleStore.ListArticles(ctx)
	profiles, profErr := c.profileStore.ListProfiles(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if artErr != nil {
		log.Warn("article refresh failed, keeping previous list", "error", artErr)
	} else {
		c.articles = articles
	}

	if profErr != nil {
		log.Warn("profile refresh failed, keeping previous list", "error", profErr)
	} else {
		c.profiles = profiles
	}
}

// Articles returns the cached article list, newest first.
func (c *Cache) Articles() []*domain.Article {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*domain.Article(nil), c.articles...)
}

// Profiles returns the cached profile list (order unspecified).
func (c *Cache) Profiles() []*domain.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*domain.Profile(nil), c.profiles...)
}

// Article returns the cached row for id, or nil when absent.
func (c *Cache) Article(id domain.ArticleID) *domain.Article {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.articles {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Profile returns the cached row for id, or nil when absent.
func (c *Cache) Profile(id domain.ProfileID) *domain.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.profiles {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PatchArticle applies fn to a clone of the cached row and swaps it in,
// without touching the backend. This is the counter fast path that
// bypasses the full-reload rule. Returns false when id is not cached.
func (c *Cache) PatchArticle(id domain.ArticleID, fn func(*domain.Article)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, a := range c.articles {
		if a.ID == id {
			patched := a.Clone()
			fn(patched)
			c.articles[i] = patched
			return true
		}
	}
	return false
}

// ActiveNodeCount derives the presentational node statistic from the
// profile list length.
func (c *Cache) ActiveNodeCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.profiles) == 0 {
		return nodeDefault
	}
	return nodeBaseline + len(c.profiles)
}
