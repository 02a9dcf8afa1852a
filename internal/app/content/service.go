package content

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/the-articles/articles-api/internal/app/datacache"
	"github.com/the-articles/articles-api/internal/domain"
	"github.com/the-articles/articles-api/internal/observability"
)

// Service owns article publishing and comments. Every article mutation
// triggers a full cache refresh; the comment counter rides the same
// cached-read-then-increment fast path the reaction counters use.
type Service struct {
	articles domain.ArticleStore
	comments domain.CommentStore
	cache    *datacache.Cache
	now      func() time.Time
}

func NewService(articles domain.ArticleStore, comments domain.CommentStore, cache *datacache.Cache) *Service {
	return &Service{
		articles: articles,
		comments: comments,
		cache:    cache,
		now:      time.Now,
	}
}

type PublishInput struct {
	Title    string
	Body     string
	Category domain.Category
	ImageURL string
	Hidden   bool
	Hashtags []string
}

// Publish creates an article authored by acting, denormalizing the author
// name and serial into the row.
func (s *Service) Publish(ctx context.Context, acting *domain.Profile, in PublishInput) (*domain.Article, error) {
	if acting == nil {
		return nil, domain.ErrUnauthenticated
	}

	log := observability.LoggerFromContext(ctx).With("author_id", acting.ID)

	a := &domain.Article{
		ID:           domain.ArticleID(uuid.NewString()),
		Title:        strings.TrimSpace(in.Title),
		Body:         in.Body,
		Category:     normalizeCategory(in.Category),
		AuthorID:     acting.ID,
		AuthorName:   acting.DisplayName,
		AuthorSerial: acting.Serial,
		ImageURL:     in.ImageURL,
		Hidden:       in.Hidden,
		Hashtags:     in.Hashtags,
		CreatedAt:    s.now(),
	}

	if err := s.articles.CreateArticle(ctx, a); err != nil {
		log.Error("article create failed", "error", err)
		return nil, err
	}

	log.Info("article published", "article_id", a.ID, "category", a.Category)
	s.cache.Refresh(ctx)
	return a, nil
}

type EditInput struct {
	Title    *string
	Body     *string
	Category *domain.Category
	ImageURL *string
	Hidden   *bool
	Hashtags []string
}

// Edit applies an author-only update to an article.
func (s *Service) Edit(ctx context.Context, acting *domain.Profile, id domain.ArticleID, in EditInput) (*domain.Article, error) {
	if acting == nil {
		return nil, domain.ErrUnauthenticated
	}

	a, err := s.articles.GetArticle(ctx, id)
	if err != nil {
		return nil, domain.ErrLookupFailure
	}
	if a.AuthorID != acting.ID {
		return nil, domain.ErrForbidden
	}

	if in.Title != nil {
		a.Title = strings.TrimSpace(*in.Title)
	}
	if in.Body != nil {
		a.Body = *in.Body
	}
	if in.Category != nil {
		a.Category = normalizeCategory(*in.Category)
	}
	if in.ImageURL != nil {
		a.ImageURL = *in.ImageURL
	}
	if in.Hidden != nil {
		a.Hidden = *in.Hidden
	}
	if in.Hashtags != nil {
		a.Hashtags = in.Hashtags
	}

	if err := s.articles.UpdateArticle(ctx, a); err != nil {
		observability.LoggerFromContext(ctx).Error("article update failed", "article_id", id, "error", err)
		return nil, err
	}

	s.cache.Refresh(ctx)
	return a, nil
}

// Delete removes an article. Allowed for the author or an administrator.
func (s *Service) Delete(ctx context.Context, acting *domain.Profile, id domain.ArticleID) error {
	if acting == nil {
		return domain.ErrUnauthenticated
	}

	a, err := s.articles.GetArticle(ctx, id)
	if err != nil {
		return domain.ErrLookupFailure
	}
	if a.AuthorID != acting.ID && acting.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	if err := s.articles.DeleteArticle(ctx, id); err != nil {
		return err
	}

	s.cache.Refresh(ctx)
	return nil
}

// AddComment appends a comment and bumps the article's comment counter
// from the cached value. The counter write is best-effort: its failure
// does not undo the append.
func (s *Service) AddComment(ctx context.Context, acting *domain.Profile, articleID domain.ArticleID, text string) (*domain.Comment, error) {
	if acting == nil {
		return nil, domain.ErrUnauthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrLookupFailure
	}

	log := observability.LoggerFromContext(ctx).With(
		"author_id", acting.ID,
		"article_id", articleID,
	)

	c := &domain.Comment{
		ID:         domain.CommentID(uuid.NewString()),
		ArticleID:  articleID,
		AuthorID:   acting.ID,
		AuthorName: acting.DisplayName,
		Text:       text,
		CreatedAt:  s.now(),
	}

	if err := s.comments.AppendComment(ctx, c); err != nil {
		log.Error("comment append failed", "error", err)
		return nil, err
	}

	if cached := s.cache.Article(articleID); cached != nil {
		value := cached.Comments + 1
		if err := s.articles.UpdateCounter(ctx, articleID, domain.CounterComments, value); err != nil {
			log.Warn("comment counter write failed, no rollback", "error", err)
		} else {
			s.cache.PatchArticle(articleID, func(a *domain.Article) {
				a.Comments = value
			})
		}
	}

	return c, nil
}

// ListComments returns an article's comments in append order. Failures
// are logged and read as "no comments".
func (s *Service) ListComments(ctx context.Context, articleID domain.ArticleID) []*domain.Comment {
	out, err := s.comments.ListCommentsByArticle(ctx, articleID)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("comment list failed", "article_id", articleID, "error", err)
		return nil
	}
	return out
}

func normalizeCategory(c domain.Category) domain.Category {
	switch c {
	case domain.CategoryInvestigative, domain.CategoryEconomic, domain.CategoryRegional:
		return c
	default:
		return domain.CategoryRegional
	}
}
