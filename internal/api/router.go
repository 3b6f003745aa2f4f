package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "legalaid/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterOptions configures cross-cutting behavior of the router.
type RouterOptions struct {
	AllowedOrigin string
	Limiter       *RateLimiter
	// TrustProxy lets X-Forwarded-For and X-Real-IP replace the peer address.
	// Enable it only behind a proxy that overwrites those headers.
	TrustProxy bool
}

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(chatHandler *ChatHandler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID)
	if opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(opts.AllowedOrigin))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondWithText(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	// --- Public Routes ---
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// Preflights carry Access-Control-Request-Method and are answered by the
	// CORS middleware; a bare OPTIONS still gets 204.
	r.Options("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// --- Streaming chat ---
	// No timeout here: the connection stays open for as long as the model talks.
	r.Group(func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Middleware)
		}
		r.Post("/api/chat", chatHandler.HandleChat)
	})

	// --- API Version 1 Routes ---
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/languages", chatHandler.ListLanguages)
		r.Get("/turns", chatHandler.ListTurns)
		r.Get("/turns/{turnID}", chatHandler.GetTurn)
	})

	return r
}
