package model

import (
	"time"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	// RoleSystem is reserved for backend-to-UI signaling. Nothing in the
	// conversation pipeline produces it and the proxy drops it before forwarding.
	RoleSystem Role = "system"
)

// Conversational reports whether the role takes part in the model dialogue.
func (r Role) Conversational() bool {
	return r == RoleUser || r == RoleModel
}

// Message is a single entry in a conversation.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// HistoryEntry is the wire form of a prior message sent to the proxy.
type HistoryEntry struct {
	ID      string `json:"id,omitempty"`
	Role    Role   `json:"role" validate:"required,oneof=user model system"`
	Content string `json:"content"`
}

// TurnRequest is the body of POST /api/chat.
type TurnRequest struct {
	History  []HistoryEntry `json:"history" validate:"dive"`
	Message  string         `json:"message" validate:"required,max=8000" example:"My landlord won't return my deposit."`
	Language string         `json:"language" validate:"omitempty,language" example:"es"`
}

// StreamChunk is a single piece of a streamed model answer on the server side.
// Err is set on the final chunk when the stream failed.
type StreamChunk struct {
	Content string
	Done    bool
	Err     error
}

// Turn statuses recorded in the ledger.
const (
	TurnStatusCompleted = "completed"
	TurnStatusFailed    = "failed"
	TurnStatusCancelled = "cancelled"
)

// TurnRecord is the metadata kept for one proxied turn. Message text is never stored.
type TurnRecord struct {
	ID            string    `json:"id"`
	Language      string    `json:"language"`
	Provider      string    `json:"provider"`
	HistoryLen    int       `json:"history_len"`
	MessageLen    int       `json:"message_len"`
	BytesStreamed int64     `json:"bytes_streamed"`
	Status        string    `json:"status"`
	Error         string    `json:"error,omitempty"`
	StartedAt     time.Time `json:"started_at"`
	DurationMS    int64     `json:"duration_ms"`
}
