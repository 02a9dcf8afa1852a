package domain

import "context"

// AuthGateway is the backend's session mechanism. Sign-up/sign-in return
// the session plus its opaque bearer token.
type AuthGateway interface {
	SignUp(ctx context.Context, email, password string) (*Session, string, error)
	SignIn(ctx context.Context, email, password string) (*Session, string, error)
	SignOut(ctx context.Context, token string) error
	CurrentSession(ctx context.Context, token string) (*Session, error)
}

// ProfileStore defines profile row persistence. UpdateFollowing and
// UpdateFollowersCount are deliberately separate single-purpose writes:
// they are the two independent failure domains of the follow saga.
type ProfileStore interface {
	CreateProfile(ctx context.Context, p *Profile) error
	GetProfile(ctx context.Context, id ProfileID) (*Profile, error)
	ListProfiles(ctx context.Context) ([]*Profile, error)
	UpdateProfile(ctx context.Context, p *Profile) error
	UpdateFollowing(ctx context.Context, id ProfileID, following []ProfileID, count int) error
	UpdateFollowersCount(ctx context.Context, id ProfileID, count int) error
	DeleteProfile(ctx context.Context, id ProfileID) error
}

// ArticleStore defines article row persistence. ListArticles returns rows
// ordered by creation time, newest first. UpdateCounter writes a single
// counter field and nothing else.
type ArticleStore interface {
	CreateArticle(ctx context.Context, a *Article) error
	GetArticle(ctx context.Context, id ArticleID) (*Article, error)
	ListArticles(ctx context.Context) ([]*Article, error)
	UpdateArticle(ctx context.Context, a *Article) error
	UpdateCounter(ctx context.Context, id ArticleID, field CounterField, value int) error
	DeleteArticle(ctx context.Context, id ArticleID) error
}

// CommentStore defines comment persistence. Comments are append-only.
type CommentStore interface {
	AppendComment(ctx context.Context, c *Comment) error
	ListCommentsByArticle(ctx context.Context, articleID ArticleID) ([]*Comment, error)
}

// ChatRequestStore defines handshake persistence.
type ChatRequestStore interface {
	CreateRequest(ctx context.Context, r *ChatRequest) error
	GetRequest(ctx context.Context, id ChatRequestID) (*ChatRequest, error)
	UpdateRequestStatus(ctx context.Context, id ChatRequestID, status ChatRequestStatus) error
	ListRequestsByParticipant(ctx context.Context, id ProfileID) ([]*ChatRequest, error)
}

// ChatRequestWatcher is the change-notification subscription over the
// chat_requests table, filtered by recipient. Optional: not every store
// backend supports it.
type ChatRequestWatcher interface {
	WatchRequests(ctx context.Context, recipient ProfileID) (<-chan *ChatRequest, func(), error)
}

// SubscribeOptions configures a broadcast subscription. EchoSelf makes the
// channel deliver the subscriber's own publishes back to it, so every
// party renders messages from the same event path in the same order.
type SubscribeOptions struct {
	EchoSelf bool
}

// Subscription is one attachment to a broadcast channel. Events delivers
// messages in channel arrival order; the channel is closed on Close.
type Subscription interface {
	Events() <-chan LiveMessage
	Publish(ctx context.Context, msg LiveMessage) error
	Close() error
}

// BroadcastBroker is the named publish/subscribe channel primitive.
// Authorization is by handle possession alone: anyone who derives the same
// handle receives every broadcast.
type BroadcastBroker interface {
	Subscribe(ctx context.Context, handle string, opts SubscribeOptions) (Subscription, error)
}

// AIClient is the generative text endpoint, use-case typed. Adapters
// request JSON output against an explicit schema and decode it.
type AIClient interface {
	AnalyzeDraft(ctx context.Context, draft ArticleDraft) (*DraftAnalysis, error)
	TrendingTopics(ctx context.Context, headlines []string) ([]Topic, error)
}
