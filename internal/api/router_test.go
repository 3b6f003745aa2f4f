package api_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"legalaid/internal/api"
)

func preflight(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	return req
}

func TestRouter(t *testing.T) {
	t.Run("Preflight is answered with CORS headers", func(t *testing.T) {
		handler, _ := setupChatHandler(t)
		router := api.NewRouter(handler, api.RouterOptions{})

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, preflight("https://client.example.org"))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.MethodPost, rr.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type", rr.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("Bare OPTIONS still gets 204", func(t *testing.T) {
		handler, _ := setupChatHandler(t)
		router := api.NewRouter(handler, api.RouterOptions{})

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/chat", nil))

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("Configured origin is echoed", func(t *testing.T) {
		handler, _ := setupChatHandler(t)
		router := api.NewRouter(handler, api.RouterOptions{AllowedOrigin: "https://help.example.org"})

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "https://help.example.org")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "https://help.example.org", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Other origins are not allowed", func(t *testing.T) {
		handler, _ := setupChatHandler(t)
		router := api.NewRouter(handler, api.RouterOptions{AllowedOrigin: "https://help.example.org"})

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, preflight("https://evil.example.com"))

		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Wrong method on the chat endpoint", func(t *testing.T) {
		handler, _ := setupChatHandler(t)
		router := api.NewRouter(handler, api.RouterOptions{})

		req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
		req.Header.Set("Origin", "https://client.example.org")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
		assert.Equal(t, "Method Not Allowed", rr.Body.String())
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Rate limit applies per client", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t)
		mockChatSvc.On("HandleTurn", mock.Anything, mock.Anything, mock.Anything).Run(streams(nil, "ok")).Twice()
		router := api.NewRouter(handler, api.RouterOptions{Limiter: api.NewRateLimiter(0.001, 2)})

		send := func(remote string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
			req.RemoteAddr = remote
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			return rr
		}

		assert.Equal(t, http.StatusOK, send("203.0.113.7:5000").Code)
		assert.Equal(t, http.StatusOK, send("203.0.113.7:5001").Code)

		limited := send("203.0.113.7:5002")
		assert.Equal(t, http.StatusTooManyRequests, limited.Code)
		assert.Equal(t, "rate limited", limited.Body.String())
	})

	t.Run("Forwarding headers do not escape the limit", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t)
		mockChatSvc.On("HandleTurn", mock.Anything, mock.Anything, mock.Anything).Run(streams(nil, "ok")).Once()
		router := api.NewRouter(handler, api.RouterOptions{Limiter: api.NewRateLimiter(0.001, 1)})

		passed := 0
		for i := 0; i < 5; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
			req.RemoteAddr = "203.0.113.7:5000"
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))
			req.Header.Set("X-Real-IP", fmt.Sprintf("192.0.2.%d", i+1))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code == http.StatusOK {
				passed++
			}
		}
		assert.Equal(t, 1, passed)
	})

	t.Run("Trusted proxy supplies the client address", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t)
		mockChatSvc.On("HandleTurn", mock.Anything, mock.Anything, mock.Anything).Run(streams(nil, "ok")).Twice()
		router := api.NewRouter(handler, api.RouterOptions{Limiter: api.NewRateLimiter(0.001, 1), TrustProxy: true})

		send := func(client string) int {
			req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
			req.RemoteAddr = "10.0.0.2:443"
			req.Header.Set("X-Real-IP", client)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			return rr.Code
		}

		assert.Equal(t, http.StatusOK, send("198.51.100.1"))
		assert.Equal(t, http.StatusOK, send("198.51.100.2"))
		assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.1"))
	})
}

func TestRateLimiter_Allow(t *testing.T) {
	l := api.NewRateLimiter(0.001, 1)
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))

	unlimited := api.NewRateLimiter(0, 1)
	for i := 0; i < 10; i++ {
		assert.True(t, unlimited.Allow("a"))
	}
}
