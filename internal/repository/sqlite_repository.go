package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"legalaid/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) TurnRepository {
	return &sqliteRepository{db: db}
}

const turnColumns = "id, language, provider, history_len, message_len, bytes_streamed, status, error, started_at, duration_ms"

func (r *sqliteRepository) RecordTurn(ctx context.Context, turn *model.TurnRecord) error {
	var errText sql.NullString
	if turn.Error != "" {
		errText = sql.NullString{String: turn.Error, Valid: true}
	}

	query := "INSERT INTO turns (" + turnColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query,
		turn.ID,
		turn.Language,
		turn.Provider,
		turn.HistoryLen,
		turn.MessageLen,
		turn.BytesStreamed,
		turn.Status,
		errText,
		turn.StartedAt,
		turn.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("could not insert turn: %w", err)
	}
	return nil
}

func (r *sqliteRepository) GetTurn(ctx context.Context, id string) (*model.TurnRecord, error) {
	query := "SELECT " + turnColumns + " FROM turns WHERE id = ?"
	turn, err := scanTurn(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not get turn: %w", err)
	}
	return turn, nil
}

func (r *sqliteRepository) ListTurns(ctx context.Context, limit int) ([]model.TurnRecord, error) {
	query := "SELECT " + turnColumns + " FROM turns ORDER BY started_at DESC LIMIT ?"
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("could not list turns: %w", err)
	}
	defer rows.Close()

	turns := []model.TurnRecord{}
	for rows.Next() {
		turn, err := scanTurn(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan turn: %w", err)
		}
		turns = append(turns, *turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate turns: %w", err)
	}
	return turns, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTurn(row rowScanner) (*model.TurnRecord, error) {
	var turn model.TurnRecord
	var errText sql.NullString
	err := row.Scan(
		&turn.ID,
		&turn.Language,
		&turn.Provider,
		&turn.HistoryLen,
		&turn.MessageLen,
		&turn.BytesStreamed,
		&turn.Status,
		&errText,
		&turn.StartedAt,
		&turn.DurationMS,
	)
	if err != nil {
		return nil, err
	}
	turn.Error = errText.String
	return &turn, nil
}
