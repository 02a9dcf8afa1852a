package realtime

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/the-articles/articles-api/internal/domain"
	"github.com/the-articles/articles-api/internal/observability"
)

const wsWriteTimeout = 5 * time.Second

// ChannelHandler bridges websocket connections onto broker channels. A
// client that connects with a handle receives every broadcast on it and
// may publish its own; there is no participant check here, which is what
// makes the intercept flow possible.
type ChannelHandler struct {
	broker   domain.BroadcastBroker
	upgrader websocket.Upgrader
}

func NewChannelHandler(broker domain.BroadcastBroker) *ChannelHandler {
	return &ChannelHandler{
		broker: broker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// same open policy as the CORS middleware
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Serve upgrades the request and pumps messages both ways until either
// side goes away. Messages are JSON-encoded domain.LiveMessage values.
func (h *ChannelHandler) Serve(w http.ResponseWriter, r *http.Request, handle string) {
	log := observability.LoggerFromContext(r.Context()).With("handle", handle)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sub, err := h.broker.Subscribe(r.Context(), handle, domain.SubscribeOptions{EchoSelf: true})
	if err != nil {
		log.Warn("channel subscribe failed", "error", err)
		return
	}
	defer sub.Close()

	// write pump: broker -> socket
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range sub.Events() {
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}()

	// read pump: socket -> broker
	for {
		var msg domain.LiveMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		if err := sub.Publish(r.Context(), msg); err != nil {
			break
		}
	}

	_ = sub.Close()
	<-done
}
