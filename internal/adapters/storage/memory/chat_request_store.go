package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/the-articles/articles-api/internal/domain"
)

// ChatRequestStore is the in-memory implementation of
// domain.ChatRequestStore plus the change-notification feed
// (domain.ChatRequestWatcher): watchers registered for a recipient get
// every request created for that recipient while the watch is open.
type ChatRequestStore struct {
	mu       sync.RWMutex
	requests map[domain.ChatRequestID]*domain.ChatRequest
	watchers map[domain.ProfileID][]chan *domain.ChatRequest
}

func NewChatRequestStore() *ChatRequestStore {
	return &ChatRequestStore{
		requests: make(map[domain.ChatRequestID]*domain.ChatRequest),
		watchers: make(map[domain.ProfileID][]chan *domain.ChatRequest),
	}
}

func (s *ChatRequestStore) CreateRequest(_ context.Context, r *domain.ChatRequest) error {
	s.mu.Lock()

	if _, exists := s.requests[r.ID]; exists {
		s.mu.Unlock()
		return domain.ErrAlreadyExists
	}

	cp := *r
	s.requests[r.ID] = &cp

	// Snapshot watchers under the lock, notify outside it.
	targets := append([]chan *domain.ChatRequest(nil), s.watchers[r.ToID]...)
	s.mu.Unlock()

	for _, ch := range targets {
		notify := cp
		select {
		case ch <- &notify:
		default:
			// slow watcher, drop the event
		}
	}
	return nil
}

func (s *ChatRequestStore) GetRequest(_ context.Context, id domain.ChatRequestID) (*domain.ChatRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *ChatRequestStore) UpdateRequestStatus(_ context.Context, id domain.ChatRequestID, status domain.ChatRequestStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok {
		return domain.ErrNotFound
	}

	r.Status = status
	return nil
}

func (s *ChatRequestStore) ListRequestsByParticipant(_ context.Context, id domain.ProfileID) ([]*domain.ChatRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.ChatRequest
	for _, r := range s.requests {
		if r.Participant(id) {
			cp := *r
			out = append(out, &cp)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// WatchRequests registers a change feed for requests addressed to
// recipient. The returned cancel func unregisters and closes the channel.
func (s *ChatRequestStore) WatchRequests(_ context.Context, recipient domain.ProfileID) (<-chan *domain.ChatRequest, func(), error) {
	ch := make(chan *domain.ChatRequest, 16)

	s.mu.Lock()
	s.watchers[recipient] = append(s.watchers[recipient], ch)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		watchers := s.watchers[recipient]
		for i, w := range watchers {
			if w == ch {
				s.watchers[recipient] = append(watchers[:i], watchers[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel, nil
}
