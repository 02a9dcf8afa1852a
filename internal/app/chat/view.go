package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/the-articles/articles-api/internal/domain"
	"github.com/the-articles/articles-api/internal/observability"
)

type ViewState string

const (
	StateClosed  ViewState = "closed"
	StateOpening ViewState = "opening"
	StateOpen    ViewState = "open"
)

// View is one open conversation: an ephemeral, append-only, in-memory
// message sequence fed by a broadcast subscription. Messages arrive in
// channel delivery order, not composition or timestamp order, and are
// never mutated or removed once appended. Closing the view
// discards everything; there is no history reload on reopen.
type View struct {
	broker domain.BroadcastBroker
	handle string
	self   domain.ProfileID
	now    func() time.Time

	mu    sync.Mutex
	state ViewState
	sub   domain.Subscription
	msgs  []domain.LiveMessage
}

// NewView opens a participant's view of the conversation behind request.
// Subscriptions are made with echo-own-messages enabled so the sender's
// bubbles render from the same event path as the recipient's, in the
// order the channel accepted them.
func NewView(broker domain.BroadcastBroker, request *domain.ChatRequest, self domain.ProfileID) *View {
	return &View{
		broker: broker,
		handle: HandleFor(request.ID),
		self:   self,
		now:    time.Now,
		state:  StateClosed,
	}
}

// NewInterceptView attaches a silent third party to the same
// per-conversation handle the participants use. The channel primitive
// notifies nobody; possession of the handle is the whole capability.
func NewInterceptView(broker domain.BroadcastBroker, conversation domain.ChatRequestID) *View {
	return &View{
		broker: broker,
		handle: HandleFor(conversation),
		now:    time.Now,
		state:  StateClosed,
	}
}

// Handle returns the channel handle this view is bound to.
func (v *View) Handle() string {
	return v.handle
}

// Open subscribes and starts appending incoming events. Valid only from
// the closed state.
func (v *View) Open(ctx context.Context) error {
	v.mu.Lock()
	if v.state != StateClosed {
		v.mu.Unlock()
		return fmt.Errorf("open: view is %s", v.state)
	}
	v.state = StateOpening
	v.mu.Unlock()

	sub, err := v.broker.Subscribe(ctx, v.handle, domain.SubscribeOptions{EchoSelf: true})
	if err != nil {
		v.mu.Lock()
		v.state = StateClosed
		v.mu.Unlock()
		observability.LoggerFromContext(ctx).Warn("channel subscribe failed", "handle", v.handle, "error", err)
		return err
	}

	v.mu.Lock()
	v.state = StateOpen
	v.sub = sub
	v.mu.Unlock()

	go v.drain(sub)
	return nil
}

// drain appends events in arrival order until the subscription closes.
func (v *View) drain(sub domain.Subscription) {
	for msg := range sub.Events() {
		v.mu.Lock()
		if v.state == StateOpen {
			v.msgs = append(v.msgs, msg)
		}
		v.mu.Unlock()
	}
}

// Send publishes a message, fire-and-forget: no acknowledgement, no retry
// on failure, no queueing while disconnected. Requires an open channel and
// non-empty trimmed text.
func (v *View) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	v.mu.Lock()
	sub := v.sub
	open := v.state == StateOpen
	v.mu.Unlock()

	if !open || sub == nil {
		return domain.ErrChannelClosed
	}

	msg := domain.LiveMessage{
		SenderID: v.self,
		Text:     text,
		SentAt:   v.now().UTC(),
	}

	if err := sub.Publish(ctx, msg); err != nil {
		// The channel makes no delivery guarantee and neither do we: the
		// message simply does not appear.
		observability.LoggerFromContext(ctx).Warn("publish failed", "handle", v.handle, "error", err)
	}
	return nil
}

// Messages returns the sequence appended so far, in arrival order.
func (v *View) Messages() []domain.LiveMessage {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.LiveMessage(nil), v.msgs...)
}

// State returns the current lifecycle state.
func (v *View) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Close tears the subscription down and discards the message sequence.
func (v *View) Close() {
	v.mu.Lock()
	sub := v.sub
	v.sub = nil
	v.msgs = nil
	v.state = StateClosed
	v.mu.Unlock()

	if sub != nil {
		_ = sub.Close()
	}
}
