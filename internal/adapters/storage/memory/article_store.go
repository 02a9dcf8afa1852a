package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/the-articles/articles-api/internal/domain"
)

// ArticleStore is the in-memory implementation of domain.ArticleStore.
type ArticleStore struct {
	mu       sync.RWMutex
	articles map[domain.ArticleID]*domain.Article
}

func NewArticleStore() *ArticleStore {
	return &ArticleStore{
		articles: make(map[domain.ArticleID]*domain.Article),
	}
}

func (s *ArticleStore) CreateArticle(_ context.Context, a *domain.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.articles[a.ID]; exists {
		return domain.ErrAlreadyExists
	}

	s.articles[a.ID] = a.Clone()
	return nil
}

func (s *ArticleStore) GetArticle(_ context.Context, id domain.ArticleID) (*domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a.Clone(), nil
}

// ListArticles returns all articles ordered by creation time, newest first.
func (s *ArticleStore) ListArticles(_ context.Context) ([]*domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Article, 0, len(s.articles))
	for _, a := range s.articles {
		out = append(out, a.Clone())
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *ArticleStore) UpdateArticle(_ context.Context, a *domain.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.articles[a.ID]; !exists {
		return domain.ErrNotFound
	}

	s.articles[a.ID] = a.Clone()
	return nil
}

// UpdateCounter writes a single counter field, leaving the rest of the row
// untouched.
func (s *ArticleStore) UpdateCounter(_ context.Context, id domain.ArticleID, field domain.CounterField, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return domain.ErrNotFound
	}

	updated := a.Clone()
	switch field {
	case domain.CounterLikes:
		updated.Likes = value
	case domain.CounterDislikes:
		updated.Dislikes = value
	case domain.CounterComments:
		updated.Comments = value
	default:
		return domain.ErrLookupFailure
	}

	s.articles[id] = updated
	return nil
}

func (s *ArticleStore) DeleteArticle(_ context.Context, id domain.ArticleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[id]; !ok {
		return domain.ErrNotFound
	}

	delete(s.articles, id)
	return nil
}
