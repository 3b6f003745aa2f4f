package repository

import (
	"context"

	"legalaid/internal/model"
)

// TurnRepository stores the metadata ledger of proxied turns.
type TurnRepository interface {
	RecordTurn(ctx context.Context, turn *model.TurnRecord) error
	GetTurn(ctx context.Context, id string) (*model.TurnRecord, error)
	ListTurns(ctx context.Context, limit int) ([]model.TurnRecord, error)
}
