// Package router assembles the HTTP API.
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ckante203-dev/chat-backend/internal/transport/http/handlers"
	"github.com/ckante203-dev/chat-backend/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Deps struct {
	Auth          *handlers.AuthHandler
	Conversations *handlers.ConversationHandler
	Messages      *handlers.MessageHandler
	Tokens        middleware.TokenVerifier

	// WS serves the real-time stream; nil disables the route.
	WS http.Handler

	// Ping checks the database for /health.
	Ping func(ctx context.Context) error

	AllowedOrigins []string
	Logger         *slog.Logger
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", health(d.Ping))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", d.Auth.Register)
		r.Post("/auth/login", d.Auth.Login)
		r.With(middleware.Auth(d.Tokens)).Get("/auth/me", d.Auth.Me)

		r.Get("/users", d.Auth.ListUsers)

		r.Post("/conversations", d.Conversations.GetOrCreate)
		r.Get("/conversations/{id}", d.Conversations.Get)
		r.Get("/conversations/{id}/messages", d.Messages.List)
		r.Put("/conversations/{id}/read/{userId}", d.Messages.MarkRead)

		r.Post("/messages", d.Messages.Send)

		if d.WS != nil {
			r.Handle("/ws", d.WS)
		}
	})

	return r
}

func health(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status": "unavailable"}`))
				return
			}
		}

		w.Write([]byte(`{"status": "ok"}`))
	}
}
