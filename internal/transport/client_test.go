package transport_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalaid/internal/i18n"
	"legalaid/internal/model"
	"legalaid/internal/transport"
)

// TestClient_StreamTurn exercises the client against an httptest server that
// stands in for the backend proxy.
func TestClient_StreamTurn(t *testing.T) {
	ctx := context.Background()
	history := []model.Message{
		{ID: "1", Role: model.RoleUser, Content: "A"},
		{ID: "2", Role: model.RoleSystem, Content: "internal"},
		{ID: "3", Role: model.RoleModel, Content: "B"},
	}

	t.Run("Success - request body and streamed response", func(t *testing.T) {
		var captured model.TurnRequest
		var contentType string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType = r.Header.Get("Content-Type")
			assert.Equal(t, http.MethodPost, r.Method)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte("hello"))
		}))
		defer server.Close()

		client := transport.NewClient(server.Client(), server.URL)
		body, err := client.StreamTurn(ctx, history, "C", i18n.Spanish)
		require.NoError(t, err)
		defer body.Close()

		got, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(got))

		assert.Equal(t, "application/json", contentType)
		assert.Equal(t, "C", captured.Message)
		assert.Equal(t, "es", captured.Language)
		require.Len(t, captured.History, 2)
		assert.Equal(t, model.HistoryEntry{ID: "1", Role: model.RoleUser, Content: "A"}, captured.History[0])
		assert.Equal(t, model.HistoryEntry{ID: "3", Role: model.RoleModel, Content: "B"}, captured.History[1])
	})

	t.Run("Success - zero-byte streamed body is not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			w.(http.Flusher).Flush()
		}))
		defer server.Close()

		body, err := transport.NewClient(server.Client(), server.URL).StreamTurn(ctx, nil, "hi", i18n.English)
		require.NoError(t, err)
		defer body.Close()
		got, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Failure - non-success status carries body text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := transport.NewClient(server.Client(), server.URL).StreamTurn(ctx, nil, "hi", i18n.English)
		require.Error(t, err)

		var terr *transport.Error
		require.True(t, errors.As(err, &terr))
		assert.Equal(t, transport.KindStatus, terr.Kind)
		assert.Equal(t, http.StatusTooManyRequests, terr.StatusCode)
		assert.Equal(t, "rate limited", err.Error())
	})

	t.Run("Failure - non-success status without body uses status text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := transport.NewClient(server.Client(), server.URL).StreamTurn(ctx, nil, "hi", i18n.English)
		assert.EqualError(t, err, "Bad Gateway")
	})

	t.Run("Failure - success status without a body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		_, err := transport.NewClient(server.Client(), server.URL).StreamTurn(ctx, nil, "hi", i18n.English)
		require.Error(t, err)
		assert.ErrorIs(t, err, transport.ErrEmptyBody)
	})

	t.Run("Failure - network error", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, err := transport.NewClient(nil, url).StreamTurn(ctx, nil, "hi", i18n.English)
		require.Error(t, err)
		var terr *transport.Error
		require.True(t, errors.As(err, &terr))
		assert.Equal(t, transport.KindNetwork, terr.Kind)
	})
}
