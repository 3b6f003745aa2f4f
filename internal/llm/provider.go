// Package llm holds the hosted-model providers the proxy streams answers from.
package llm

import "context"

// Roles understood by every provider. Providers translate them to their own
// vocabulary.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one prior turn of the dialogue.
type Message struct {
	Role    string
	Content string
}

// ChatRequest is everything a provider needs for one answer.
type ChatRequest struct {
	SystemInstruction string
	History           []Message
	Message           string
}

// StreamResponse is one piece of an answer. The last one has Done set.
type StreamResponse struct {
	Content string
	Done    bool
}

// Provider streams a model answer into ch and closes ch when it returns.
// A non-nil error means the answer is incomplete.
type Provider interface {
	Name() string
	StreamChat(ctx context.Context, req *ChatRequest, ch chan<- StreamResponse) error
}
