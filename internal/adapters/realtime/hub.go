package realtime

import (
	"context"
	"sync"

	"github.com/the-articles/articles-api/internal/domain"
)

const subscriptionBuffer = 64

// Hub is the in-process implementation of domain.BroadcastBroker: named,
// ephemeral broadcast channels with no persistence and no delivery
// guarantee. All subscribers of one handle observe broadcasts in the same
// relative order (events fan out under one lock, in acceptance order).
// Possession of the handle is the only authorization.
type Hub struct {
	mu       sync.Mutex
	channels map[string][]*subscription
}

func NewHub() *Hub {
	return &Hub{
		channels: make(map[string][]*subscription),
	}
}

type subscription struct {
	hub    *Hub
	handle string
	echo   bool
	events chan domain.LiveMessage
	closed bool
}

// Subscribe attaches to the channel named by handle.
func (h *Hub) Subscribe(_ context.Context, handle string, opts domain.SubscribeOptions) (domain.Subscription, error) {
	sub := &subscription{
		hub:    h,
		handle: handle,
		echo:   opts.EchoSelf,
		events: make(chan domain.LiveMessage, subscriptionBuffer),
	}

	h.mu.Lock()
	h.channels[handle] = append(h.channels[handle], sub)
	h.mu.Unlock()

	return sub, nil
}

func (s *subscription) Events() <-chan domain.LiveMessage {
	return s.events
}

// Publish broadcasts to every subscriber of the handle, including the
// publisher itself when it subscribed with EchoSelf.
func (s *subscription) Publish(_ context.Context, msg domain.LiveMessage) error {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()

	if s.closed {
		return domain.ErrChannelClosed
	}

	for _, sub := range s.hub.channels[s.handle] {
		if sub == s && !sub.echo {
			continue
		}
		select {
		case sub.events <- msg:
		default:
			// slow subscriber, drop; the channel guarantees nothing
		}
	}
	return nil
}

func (s *subscription) Close() error {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	subs := s.hub.channels[s.handle]
	for i, sub := range subs {
		if sub == s {
			s.hub.channels[s.handle] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(s.hub.channels[s.handle]) == 0 {
		delete(s.hub.channels, s.handle)
	}

	close(s.events)
	return nil
}
