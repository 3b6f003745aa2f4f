// Package transport sends a conversation turn to the backend proxy and hands
// back the live response body.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"legalaid/internal/i18n"
	"legalaid/internal/model"
)

// maxErrorBody caps how much of a failed response is read into the error.
const maxErrorBody = 64 << 10

// Client talks to the proxy's chat endpoint. The *http.Client is owned by the
// caller, so tests and the application each pass their own.
type Client struct {
	http     *http.Client
	endpoint string
}

// NewClient returns a Client posting to endpoint. A nil httpClient means
// http.DefaultClient.
func NewClient(httpClient *http.Client, endpoint string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient, endpoint: endpoint}
}

// StreamTurn posts the turn and returns the response body as soon as headers
// arrive. The caller must close it. There is no automatic retry.
func (c *Client) StreamTurn(ctx context.Context, history []model.Message, message string, lang i18n.Language) (io.ReadCloser, error) {
	body, err := json.Marshal(model.TurnRequest{
		History:  historyEntries(history),
		Message:  message,
		Language: string(lang),
	})
	if err != nil {
		return nil, &Error{Kind: KindEncode, Message: fmt.Sprintf("could not encode request: %v", err), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindEncode, Message: fmt.Sprintf("could not create request: %v", err), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("Accept-Language", string(lang))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: fmt.Sprintf("could not reach the assistant: %v", err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		bodyBytes, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			slog.Warn("Could not read error response body", "status", resp.StatusCode, "error", readErr)
		}
		msg := strings.TrimSpace(string(bodyBytes))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &Error{Kind: KindStatus, StatusCode: resp.StatusCode, Message: msg}
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
		return nil, &Error{Kind: KindEmptyBody, StatusCode: resp.StatusCode, Message: ErrEmptyBody.Error(), Err: ErrEmptyBody}
	}

	return resp.Body, nil
}

// historyEntries keeps only user and model turns, in order.
func historyEntries(history []model.Message) []model.HistoryEntry {
	out := make([]model.HistoryEntry, 0, len(history))
	for _, m := range history {
		if !m.Role.Conversational() {
			continue
		}
		out = append(out, model.HistoryEntry{ID: m.ID, Role: m.Role, Content: m.Content})
	}
	return out
}
