package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/the-articles/articles-api/internal/domain"
	"github.com/the-articles/articles-api/internal/observability"
)

// HandleFor derives the broadcast channel handle for one conversation.
// Deterministic and collision-free per handshake. The broker authorizes by
// handle possession alone, so any holder of this string can subscribe to
// the conversation; that is how the admin intercept flow attaches.
func HandleFor(id domain.ChatRequestID) string {
	return "intercom:" + string(id)
}

// HandshakeService manages chat_requests: the invitation records that,
// once accepted, let both parties open a realtime channel.
type HandshakeService struct {
	requests domain.ChatRequestStore
	now      func() time.Time
}

func NewHandshakeService(requests domain.ChatRequestStore) *HandshakeService {
	return &HandshakeService{
		requests: requests,
		now:      time.Now,
	}
}

// Request creates a pending handshake from acting to target. There is no
// expiry; an ignored request stays pending indefinitely.
func (s *HandshakeService) Request(ctx context.Context, acting *domain.Profile, target domain.ProfileID) (*domain.ChatRequest, error) {
	if acting == nil {
		return nil, domain.ErrUnauthenticated
	}

	log := observability.LoggerFromContext(ctx).With(
		"from_id", acting.ID,
		"to_id", target,
	)

	r := &domain.ChatRequest{
		ID:        domain.ChatRequestID(uuid.NewString()),
		FromID:    acting.ID,
		ToID:      target,
		Status:    domain.ChatRequestPending,
		CreatedAt: s.now(),
	}

	if err := s.requests.CreateRequest(ctx, r); err != nil {
		log.Error("chat request create failed", "error", err)
		return nil, err
	}

	log.Info("chat request created", "request_id", r.ID)
	return r, nil
}

// Accept transitions a handshake pending -> accepted. Only the recipient
// may accept.
func (s *HandshakeService) Accept(ctx context.Context, acting *domain.Profile, id domain.ChatRequestID) (*domain.ChatRequest, error) {
	if acting == nil {
		return nil, domain.ErrUnauthenticated
	}

	r, err := s.requests.GetRequest(ctx, id)
	if err != nil {
		return nil, domain.ErrLookupFailure
	}
	if r.ToID != acting.ID {
		return nil, domain.ErrForbidden
	}

	if err := s.requests.UpdateRequestStatus(ctx, id, domain.ChatRequestAccepted); err != nil {
		return nil, err
	}

	r.Status = domain.ChatRequestAccepted
	return r, nil
}

// ListForProfile returns every handshake the profile participates in.
func (s *HandshakeService) ListForProfile(ctx context.Context, acting *domain.Profile) ([]*domain.ChatRequest, error) {
	if acting == nil {
		return nil, domain.ErrUnauthenticated
	}
	reqs, err := s.requests.ListRequestsByParticipant(ctx, acting.ID)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("chat request list failed", "error", err)
		return nil, domain.ErrLookupFailure
	}
	return reqs, nil
}

// Watch opens the incoming-request change feed for acting, when the
// underlying store supports change notifications.
func (s *HandshakeService) Watch(ctx context.Context, acting *domain.Profile) (<-chan *domain.ChatRequest, func(), error) {
	if acting == nil {
		return nil, nil, domain.ErrUnauthenticated
	}
	w, ok := s.requests.(domain.ChatRequestWatcher)
	if !ok {
		return nil, nil, domain.ErrLookupFailure
	}
	return w.WatchRequests(ctx, acting.ID)
}
