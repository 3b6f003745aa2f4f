package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	app_errors "legalaid/internal/errors"
	"legalaid/internal/i18n"
	"legalaid/internal/interfaces"
	"legalaid/internal/model"
)

// maxRequestBody caps the JSON body of POST /api/chat.
const maxRequestBody = 1 << 20

type ChatHandler struct {
	service interfaces.ChatService
}

func NewChatHandler(svc interfaces.ChatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// HandleChat godoc
// @Summary      Stream an answer
// @Description  Proxies one turn to the model and streams the answer back as plain text.
// @Description  A failure after the first byte aborts the connection.
// @Tags         Chat
// @Accept       json
// @Produce      plain
// @Param        turn  body      model.TurnRequest  true  "Conversation turn"
// @Success      200   {string}  string  "answer text, streamed"
// @Failure      400   {string}  string
// @Failure      429   {string}  string
// @Failure      500   {string}  string
// @Router       /chat [post]
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req model.TurnRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		slog.Warn("Error decoding request body", "error", err)
		respondWithText(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		code, msg := turnErrorResponse(err)
		respondWithText(w, code, msg)
		return
	}
	if req.Language == "" {
		req.Language = string(i18n.Negotiate(r.Header.Get("Accept-Language")))
	}

	ctx := r.Context()
	out := make(chan model.StreamChunk)
	go h.service.HandleTurn(ctx, &req, out)

	flusher, _ := w.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}

	started := false
	start := func() {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusOK)
		started = true
	}

	var streamErr error
	writeFailed := false
	for chunk := range out {
		if chunk.Done {
			streamErr = chunk.Err
			continue
		}
		if writeFailed {
			continue
		}
		if !started {
			start()
		}
		if _, err := io.WriteString(w, chunk.Content); err != nil {
			slog.Warn("Failed to write answer, client might have disconnected", "error", err)
			writeFailed = true
			continue
		}
		flush()
	}

	switch {
	case ctx.Err() != nil || writeFailed:
		slog.Info("Client disconnected during turn")
	case streamErr != nil && !started:
		code, msg := turnErrorResponse(streamErr)
		respondWithText(w, code, msg)
	case streamErr != nil:
		// The status line is gone; dropping the connection is the only way
		// left to tell the client the answer is incomplete.
		slog.Warn("Aborting response after partial answer", "error", streamErr)
		panic(http.ErrAbortHandler)
	case !started:
		// A zero-byte answer still goes out as a streamed, chunked body.
		start()
		flush()
	}
}

// ListLanguages godoc
// @Summary      List supported languages
// @Tags         Languages
// @Produce      json
// @Success      200  {array}  LanguageResponse
// @Router       /v1/languages [get]
func (h *ChatHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	langs := i18n.All()
	resp := make([]LanguageResponse, 0, len(langs))
	for _, l := range langs {
		resp = append(resp, LanguageResponse{
			Code:        string(l),
			NativeName:  l.NativeName(),
			EnglishName: l.EnglishName(),
			Greeting:    i18n.For(l).InitialMessage,
		})
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// ListTurns godoc
// @Summary      List recent turns
// @Description  Returns turn metadata, newest first. Message text is never stored.
// @Tags         Turns
// @Produce      json
// @Param        limit  query     int  false  "Maximum rows (1-500, default 50)"
// @Success      200    {array}   model.TurnRecord
// @Failure      400    {object}  ErrorResponse
// @Failure      500    {object}  ErrorResponse
// @Router       /v1/turns [get]
func (h *ChatHandler) ListTurns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, fmt.Errorf("%w: limit must be an integer", app_errors.ErrValidation))
			return
		}
		limit = n
	}

	turns, err := h.service.ListTurns(r.Context(), limit)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, turns)
}

// GetTurn godoc
// @Summary      Get one turn
// @Tags         Turns
// @Produce      json
// @Param        turnID  path      string  true  "Turn ID"
// @Success      200     {object}  model.TurnRecord
// @Failure      404     {object}  ErrorResponse
// @Router       /v1/turns/{turnID} [get]
func (h *ChatHandler) GetTurn(w http.ResponseWriter, r *http.Request) {
	turn, err := h.service.GetTurn(r.Context(), chi.URLParam(r, "turnID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, turn)
}
