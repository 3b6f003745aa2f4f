package interfaces

import (
	"context"

	"legalaid/internal/model"
)

// ChatService is what the API layer needs from the service layer.
type ChatService interface {
	HandleTurn(ctx context.Context, req *model.TurnRequest, out chan<- model.StreamChunk)
	GetTurn(ctx context.Context, id string) (*model.TurnRecord, error)
	ListTurns(ctx context.Context, limit int) ([]model.TurnRecord, error)
}
