package memory

import (
	"context"
	"sync"

	"github.com/the-articles/articles-api/internal/domain"
)

// CommentStore is the in-memory implementation of domain.CommentStore.
// Comments are append-only; deletion happens only implicitly when the
// parent article row goes away, which this store does not track.
type CommentStore struct {
	mu        sync.RWMutex
	comments  map[domain.CommentID]*domain.Comment
	byArticle map[domain.ArticleID][]domain.CommentID
}

func NewCommentStore() *CommentStore {
	return &CommentStore{
		comments:  make(map[domain.CommentID]*domain.Comment),
		byArticle: make(map[domain.ArticleID][]domain.CommentID),
	}
}

func (s *CommentStore) AppendComment(_ context.Context, c *domain.Comment) error {
	if c == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	s.comments[c.ID] = &cp
	s.byArticle[c.ArticleID] = append(s.byArticle[c.ArticleID], c.ID)
	return nil
}

// ListCommentsByArticle returns comments in append order.
func (s *CommentStore) ListCommentsByArticle(_ context.Context, articleID domain.ArticleID) ([]*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byArticle[articleID]
	out := make([]*domain.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.comments[id]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}
