package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	app_errors "legalaid/internal/errors"
)

const (
	// maxErrorBody caps how much of a failed response is read into the error.
	maxErrorBody = 64 << 10
	// maxStreamLine is the longest NDJSON line accepted from the stream.
	maxStreamLine = 1 << 20
)

// OllamaProvider streams answers from a local Ollama server's /api/chat.
type OllamaProvider struct {
	client *http.Client
	url    string
	model  string
}

// NewOllamaProvider returns a provider for model served at url.
func NewOllamaProvider(url, model string) *OllamaProvider {
	return &OllamaProvider{
		client: &http.Client{},
		url:    strings.TrimRight(url, "/"),
		model:  model,
	}
}

func (p *OllamaProvider) Name() string { return "ollama" }

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaStreamChunk struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
	Error   string        `json:"error"`
}

// StreamChat implements Provider. Ollama answers with one JSON object per line.
func (p *OllamaProvider) StreamChat(ctx context.Context, req *ChatRequest, ch chan<- StreamResponse) error {
	defer close(ch)

	body, err := json.Marshal(ollamaChatRequest{Model: p.model, Messages: ollamaMessages(req), Stream: true})
	if err != nil {
		return fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: request failed: %v", app_errors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			slog.Warn("Could not read Ollama error response body", "status", resp.StatusCode, "error", readErr)
		}
		return fmt.Errorf("%w: api returned non-200 status %d: %s", app_errors.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStreamLine)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var chunk ollamaStreamChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			return fmt.Errorf("%w: could not decode stream chunk: %v", app_errors.ErrUpstream, err)
		}
		if chunk.Error != "" {
			return fmt.Errorf("%w: %s", app_errors.ErrUpstream, chunk.Error)
		}

		select {
		case ch <- StreamResponse{Content: chunk.Message.Content, Done: chunk.Done}:
		case <-ctx.Done():
			return ctx.Err()
		}
		if chunk.Done {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: could not read stream: %v", app_errors.ErrUpstream, err)
	}
	return nil
}

// Ping reports whether the server answers at its root URL.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return nil
}

// ollamaMessages maps the dialogue onto Ollama's roles, where the model
// speaks as "assistant".
func ollamaMessages(req *ChatRequest) []ollamaMessage {
	out := make([]ollamaMessage, 0, len(req.History)+2)
	if req.SystemInstruction != "" {
		out = append(out, ollamaMessage{Role: "system", Content: req.SystemInstruction})
	}
	for _, m := range req.History {
		role := m.Role
		if role == RoleModel {
			role = "assistant"
		}
		out = append(out, ollamaMessage{Role: role, Content: m.Content})
	}
	return append(out, ollamaMessage{Role: RoleUser, Content: req.Message})
}
