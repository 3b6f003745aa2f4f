package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	app_errors "legalaid/internal/errors"
	"legalaid/internal/i18n"
	"legalaid/internal/llm"
	"legalaid/internal/model"
	"legalaid/internal/repository"
)

// DefaultTurnLimit and MaxTurnLimit bound ListTurns.
const (
	DefaultTurnLimit = 50
	MaxTurnLimit     = 500
)

// ChatService proxies turns to the model provider and keeps the turn ledger.
type ChatService struct {
	repo         repository.TurnRepository
	llm          llm.Provider
	systemPrompt string
}

func NewChatService(repo repository.TurnRepository, provider llm.Provider) *ChatService {
	return &ChatService{repo: repo, llm: provider, systemPrompt: SystemPrompt}
}

// HandleTurn streams the model's answer for req into out and closes out. The
// last chunk has Done set and carries the stream's error, if any. Only the
// turn's metadata is recorded.
func (s *ChatService) HandleTurn(ctx context.Context, req *model.TurnRequest, out chan<- model.StreamChunk) {
	defer close(out)

	lang, err := i18n.Parse(req.Language)
	if err != nil {
		lang = i18n.Default
	}

	llmReq := &llm.ChatRequest{
		SystemInstruction: BuildSystemInstruction(s.systemPrompt, lang),
		History:           filterHistory(req.History),
		Message:           req.Message,
	}

	started := time.Now()
	record := &model.TurnRecord{
		ID:         newTurnID(),
		Language:   string(lang),
		Provider:   s.llm.Name(),
		HistoryLen: len(llmReq.History),
		MessageLen: utf8.RuneCountInString(req.Message),
		StartedAt:  started.UTC(),
	}

	llmChan := make(chan llm.StreamResponse)
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.llm.StreamChat(ctx, llmReq, llmChan)
	}()

	gone := false
	for resp := range llmChan {
		if resp.Content == "" || gone {
			continue
		}
		select {
		case out <- model.StreamChunk{Content: resp.Content}:
			record.BytesStreamed += int64(len(resp.Content))
		case <-ctx.Done():
			gone = true
		}
	}
	streamErr := <-errChan

	record.DurationMS = time.Since(started).Milliseconds()
	switch {
	case ctx.Err() != nil:
		record.Status = model.TurnStatusCancelled
		streamErr = ctx.Err()
	case streamErr != nil:
		record.Status = model.TurnStatusFailed
		record.Error = streamErr.Error()
	default:
		record.Status = model.TurnStatusCompleted
	}
	s.recordTurn(ctx, record)

	if streamErr != nil {
		slog.Warn("Turn ended with error", "turn_id", record.ID, "provider", record.Provider, "error", streamErr)
	} else {
		slog.Info("Turn completed", "turn_id", record.ID, "language", record.Language, "bytes", record.BytesStreamed, "duration_ms", record.DurationMS)
	}

	select {
	case out <- model.StreamChunk{Done: true, Err: streamErr}:
	case <-ctx.Done():
	}
}

// GetTurn returns one ledger entry.
func (s *ChatService) GetTurn(ctx context.Context, id string) (*model.TurnRecord, error) {
	turn, err := s.repo.GetTurn(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: turn %s", app_errors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", app_errors.ErrInternal, err)
	}
	return turn, nil
}

// ListTurns returns the most recent ledger entries, newest first. A limit of
// zero means DefaultTurnLimit.
func (s *ChatService) ListTurns(ctx context.Context, limit int) ([]model.TurnRecord, error) {
	if limit == 0 {
		limit = DefaultTurnLimit
	}
	if limit < 0 || limit > MaxTurnLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", app_errors.ErrValidation, MaxTurnLimit)
	}
	turns, err := s.repo.ListTurns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", app_errors.ErrInternal, err)
	}
	return turns, nil
}

// recordTurn writes the ledger row even when the request context is gone.
func (s *ChatService) recordTurn(ctx context.Context, record *model.TurnRecord) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.repo.RecordTurn(writeCtx, record); err != nil {
		slog.Error("Failed to record turn", "turn_id", record.ID, "error", err)
	}
}

// filterHistory keeps user and model turns only. System entries are dropped.
func filterHistory(history []model.HistoryEntry) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, h := range history {
		switch h.Role {
		case model.RoleUser:
			out = append(out, llm.Message{Role: llm.RoleUser, Content: h.Content})
		case model.RoleModel:
			out = append(out, llm.Message{Role: llm.RoleModel, Content: h.Content})
		}
	}
	return out
}

func newTurnID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
