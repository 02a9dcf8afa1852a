package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/the-articles/articles-api/internal/domain"
)

// Store implements the four row-store ports (profiles, articles,
// comments, chat_requests) on Firestore. One store, four interfaces.
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for the given project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// Close releases the underlying Firestore client.
func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) profilesCol() *firestore.CollectionRef {
	return s.client.Collection("profiles")
}

func (s *Store) articlesCol() *firestore.CollectionRef {
	return s.client.Collection("articles")
}

func (s *Store) commentsCol() *firestore.CollectionRef {
	return s.client.Collection("comments")
}

func (s *Store) chatRequestsCol() *firestore.CollectionRef {
	return s.client.Collection("chat_requests")
}

func notFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type profileDoc struct {
	DisplayName    string    `firestore:"display_name"`
	Handle         string    `firestore:"handle"`
	Serial         string    `firestore:"serial"`
	Role           string    `firestore:"role"`
	Following      []string  `firestore:"following"`
	FollowingCount int       `firestore:"following_count"`
	FollowersCount int       `firestore:"followers_count"`
	Reputation     int       `firestore:"reputation"`
	Bio            string    `firestore:"bio"`
	AvatarURL      string    `firestore:"avatar_url"`
	CoverURL       string    `firestore:"cover_url"`
	Private        bool      `firestore:"private"`
	CreatedAt      time.Time `firestore:"created_at"`
	UpdatedAt      time.Time `firestore:"updated_at"`
}

type articleDoc struct {
	Title        string    `firestore:"title"`
	Body         string    `firestore:"body"`
	Category     string    `firestore:"category"`
	AuthorID     string    `firestore:"author_id"`
	AuthorName   string    `firestore:"author_name"`
	AuthorSerial string    `firestore:"author_serial"`
	Likes        int       `firestore:"likes"`
	Dislikes     int       `firestore:"dislikes"`
	Comments     int       `firestore:"comments"`
	ImageURL     string    `firestore:"image_url"`
	Hidden       bool      `firestore:"hidden"`
	Hashtags     []string  `firestore:"hashtags"`
	CreatedAt    time.Time `firestore:"created_at"`
}

type commentDoc struct {
	ArticleID  string    `firestore:"article_id"`
	AuthorID   string    `firestore:"author_id"`
	AuthorName string    `firestore:"author_name"`
	Text       string    `firestore:"text"`
	CreatedAt  time.Time `firestore:"created_at"`
}

type chatRequestDoc struct {
	FromID    string    `firestore:"from_id"`
	ToID      string    `firestore:"to_id"`
	Status    string    `firestore:"status"`
	CreatedAt time.Time `firestore:"created_at"`
}

func toProfileDoc(p *domain.Profile) profileDoc {
	following := make([]string, 0, len(p.Following))
	for _, id := range p.Following {
		following = append(following, string(id))
	}
	return profileDoc{
		DisplayName:    p.DisplayName,
		Handle:         p.Handle,
		Serial:         p.Serial,
		Role:           string(p.Role),
		Following:      following,
		FollowingCount: p.FollowingCount,
		FollowersCount: p.FollowersCount,
		Reputation:     p.Reputation,
		Bio:            p.Bio,
		AvatarURL:      p.AvatarURL,
		CoverURL:       p.CoverURL,
		Private:        p.Private,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func fromProfileDoc(id string, doc profileDoc) *domain.Profile {
	following := make([]domain.ProfileID, 0, len(doc.Following))
	for _, f := range doc.Following {
		following = append(following, domain.ProfileID(f))
	}
	return &domain.Profile{
		ID:             domain.ProfileID(id),
		DisplayName:    doc.DisplayName,
		Handle:         doc.Handle,
		Serial:         doc.Serial,
		Role:           domain.Role(doc.Role),
		Following:      following,
		FollowingCount: doc.FollowingCount,
		FollowersCount: doc.FollowersCount,
		Reputation:     doc.Reputation,
		Bio:            doc.Bio,
		AvatarURL:      doc.AvatarURL,
		CoverURL:       doc.CoverURL,
		Private:        doc.Private,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}

func toArticleDoc(a *domain.Article) articleDoc {
	return articleDoc{
		Title:        a.Title,
		Body:         a.Body,
		Category:     string(a.Category),
		AuthorID:     string(a.AuthorID),
		AuthorName:   a.AuthorName,
		AuthorSerial: a.AuthorSerial,
		Likes:        a.Likes,
		Dislikes:     a.Dislikes,
		Comments:     a.Comments,
		ImageURL:     a.ImageURL,
		Hidden:       a.Hidden,
		Hashtags:     a.Hashtags,
		CreatedAt:    a.CreatedAt,
	}
}

func fromArticleDoc(id string, doc articleDoc) *domain.Article {
	return &domain.Article{
		ID:           domain.ArticleID(id),
		Title:        doc.Title,
		Body:         doc.Body,
		Category:     domain.Category(doc.Category),
		AuthorID:     domain.ProfileID(doc.AuthorID),
		AuthorName:   doc.AuthorName,
		AuthorSerial: doc.AuthorSerial,
		Likes:        doc.Likes,
		Dislikes:     doc.Dislikes,
		Comments:     doc.Comments,
		ImageURL:     doc.ImageURL,
		Hidden:       doc.Hidden,
		Hashtags:     doc.Hashtags,
		CreatedAt:    doc.CreatedAt,
	}
}

// ─────────────────────────────────────────
// ProfileStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateProfile(ctx context.Context, p *domain.Profile) error {
	_, err := s.profilesCol().Doc(string(p.ID)).Create(ctx, toProfileDoc(p))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("firestore CreateProfile: %w", err)
	}
	return nil
}

func (s *Store) GetProfile(ctx context.Context, id domain.ProfileID) (*domain.Profile, error) {
	snap, err := s.profilesCol().Doc(string(id)).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetProfile: %w", err)
	}

	var doc profileDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetProfile decode: %w", err)
	}
	return fromProfileDoc(snap.Ref.ID, doc), nil
}

func (s *Store) ListProfiles(ctx context.Context) ([]*domain.Profile, error) {
	iter := s.profilesCol().Documents(ctx)
	defer iter.Stop()

	var out []*domain.Profile
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListProfiles: %w", err)
		}

		var doc profileDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode profileDoc: %w", err)
		}
		out = append(out, fromProfileDoc(snap.Ref.ID, doc))
	}
	return out, nil
}

func (s *Store) UpdateProfile(ctx context.Context, p *domain.Profile) error {
	_, err := s.profilesCol().Doc(string(p.ID)).Set(ctx, toProfileDoc(p))
	if err != nil {
		return fmt.Errorf("firestore UpdateProfile: %w", err)
	}
	return nil
}

// UpdateFollowing writes only the following list and its count.
func (s *Store) UpdateFollowing(ctx context.Context, id domain.ProfileID, following []domain.ProfileID, count int) error {
	list := make([]string, 0, len(following))
	for _, f := range following {
		list = append(list, string(f))
	}

	_, err := s.profilesCol().Doc(string(id)).Set(ctx, map[string]interface{}{
		"following":       list,
		"following_count": count,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("firestore UpdateFollowing: %w", err)
	}
	return nil
}

// UpdateFollowersCount writes only followers_count.
func (s *Store) UpdateFollowersCount(ctx context.Context, id domain.ProfileID, count int) error {
	_, err := s.profilesCol().Doc(string(id)).Set(ctx, map[string]interface{}{
		"followers_count": count,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("firestore UpdateFollowersCount: %w", err)
	}
	return nil
}

func (s *Store) DeleteProfile(ctx context.Context, id domain.ProfileID) error {
	_, err := s.profilesCol().Doc(string(id)).Delete(ctx)
	if err != nil {
		return fmt.Errorf("firestore DeleteProfile: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────
// ArticleStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateArticle(ctx context.Context, a *domain.Article) error {
	_, err := s.articlesCol().Doc(string(a.ID)).Create(ctx, toArticleDoc(a))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("firestore CreateArticle: %w", err)
	}
	return nil
}

func (s *Store) GetArticle(ctx context.Context, id domain.ArticleID) (*domain.Article, error) {
	snap, err := s.articlesCol().Doc(string(id)).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetArticle: %w", err)
	}

	var doc articleDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetArticle decode: %w", err)
	}
	return fromArticleDoc(snap.Ref.ID, doc), nil
}

func (s *Store) ListArticles(ctx context.Context) ([]*domain.Article, error) {
	iter := s.articlesCol().OrderBy("created_at", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var out []*domain.Article
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListArticles: %w", err)
		}

		var doc articleDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode articleDoc: %w", err)
		}
		out = append(out, fromArticleDoc(snap.Ref.ID, doc))
	}
	return out, nil
}

func (s *Store) UpdateArticle(ctx context.Context, a *domain.Article) error {
	_, err := s.articlesCol().Doc(string(a.ID)).Set(ctx, toArticleDoc(a))
	if err != nil {
		return fmt.Errorf("firestore UpdateArticle: %w", err)
	}
	return nil
}

// UpdateCounter writes a single counter field and nothing else.
func (s *Store) UpdateCounter(ctx context.Context, id domain.ArticleID, field domain.CounterField, value int) error {
	_, err := s.articlesCol().Doc(string(id)).Set(ctx, map[string]interface{}{
		string(field): value,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("firestore UpdateCounter: %w", err)
	}
	return nil
}

func (s *Store) DeleteArticle(ctx context.Context, id domain.ArticleID) error {
	_, err := s.articlesCol().Doc(string(id)).Delete(ctx)
	if err != nil {
		return fmt.Errorf("firestore DeleteArticle: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────
// CommentStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendComment(ctx context.Context, c *domain.Comment) error {
	doc := commentDoc{
		ArticleID:  string(c.ArticleID),
		AuthorID:   string(c.AuthorID),
		AuthorName: c.AuthorName,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
	}

	_, err := s.commentsCol().Doc(string(c.ID)).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore AppendComment: %w", err)
	}
	return nil
}

func (s *Store) ListCommentsByArticle(ctx context.Context, articleID domain.ArticleID) ([]*domain.Comment, error) {
	q := s.commentsCol().
		Where("article_id", "==", string(articleID)).
		OrderBy("created_at", firestore.Asc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Comment
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListCommentsByArticle: %w", err)
		}

		var doc commentDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode commentDoc: %w", err)
		}

		out = append(out, &domain.Comment{
			ID:         domain.CommentID(snap.Ref.ID),
			ArticleID:  articleID,
			AuthorID:   domain.ProfileID(doc.AuthorID),
			AuthorName: doc.AuthorName,
			Text:       doc.Text,
			CreatedAt:  doc.CreatedAt,
		})
	}
	return out, nil
}

// ─────────────────────────────────────────
// ChatRequestStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateRequest(ctx context.Context, r *domain.ChatRequest) error {
	doc := chatRequestDoc{
		FromID:    string(r.FromID),
		ToID:      string(r.ToID),
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}

	_, err := s.chatRequestsCol().Doc(string(r.ID)).Create(ctx, doc)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("firestore CreateRequest: %w", err)
	}
	return nil
}

func (s *Store) GetRequest(ctx context.Context, id domain.ChatRequestID) (*domain.ChatRequest, error) {
	snap, err := s.chatRequestsCol().Doc(string(id)).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetRequest: %w", err)
	}

	var doc chatRequestDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetRequest decode: %w", err)
	}

	return &domain.ChatRequest{
		ID:        id,
		FromID:    domain.ProfileID(doc.FromID),
		ToID:      domain.ProfileID(doc.ToID),
		Status:    domain.ChatRequestStatus(doc.Status),
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (s *Store) UpdateRequestStatus(ctx context.Context, id domain.ChatRequestID, st domain.ChatRequestStatus) error {
	_, err := s.chatRequestsCol().Doc(string(id)).Set(ctx, map[string]interface{}{
		"status": string(st),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("firestore UpdateRequestStatus: %w", err)
	}
	return nil
}

func (s *Store) ListRequestsByParticipant(ctx context.Context, id domain.ProfileID) ([]*domain.ChatRequest, error) {
	// Firestore has no OR query across two fields in this client; run the
	// from/to sides separately and merge.
	var out []*domain.ChatRequest
	for _, field := range []string{"from_id", "to_id"} {
		q := s.chatRequestsCol().Where(field, "==", string(id))
		iter := q.Documents(ctx)

		for {
			snap, err := iter.Next()
			if err != nil {
				if err == iterator.Done {
					break
				}
				iter.Stop()
				return nil, fmt.Errorf("firestore ListRequestsByParticipant: %w", err)
			}

			var doc chatRequestDoc
			if err := snap.DataTo(&doc); err != nil {
				iter.Stop()
				return nil, fmt.Errorf("decode chatRequestDoc: %w", err)
			}

			out = append(out, &domain.ChatRequest{
				ID:        domain.ChatRequestID(snap.Ref.ID),
				FromID:    domain.ProfileID(doc.FromID),
				ToID:      domain.ProfileID(doc.ToID),
				Status:    domain.ChatRequestStatus(doc.Status),
				CreatedAt: doc.CreatedAt,
			})
		}
		iter.Stop()
	}
	return out, nil
}
