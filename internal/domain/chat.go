package domain

import "time"

type ChatRequestStatus string

const (
	ChatRequestPending  ChatRequestStatus = "pending"
	ChatRequestAccepted ChatRequestStatus = "accepted"
)

// ChatRequest is the handshake that, once accepted, lets both parties open
// a realtime channel for the conversation. Ignored requests stay pending
// indefinitely; there is no expiry.
type ChatRequest struct {
	ID        ChatRequestID
	FromID    ProfileID
	ToID      ProfileID
	Status    ChatRequestStatus
	CreatedAt Timestamp
}

// Participant reports whether id is one of the two legitimate parties.
func (r *ChatRequest) Participant(id ProfileID) bool {
	return r.FromID == id || r.ToID == id
}

// LiveMessage is a transient value object. It is never persisted: it exists
// only in the memory of currently open channel subscribers and vanishes
// when the view closes.
type LiveMessage struct {
	SenderID ProfileID `json:"sender_id"`
	Text     string    `json:"text"`
	SentAt   time.Time `json:"sent_at"`
}
