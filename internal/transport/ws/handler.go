package ws

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// TokenVerifier resolves a session token to its user.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// ServeWS returns an HTTP handler that upgrades to WebSocket.
// Auth is done via ?token=xxx query param (WebSocket can't send headers).
func ServeWS(hub *Hub, tokens TokenVerifier, checker ParticipantChecker, allowedOrigins []string) http.HandlerFunc {
	opts := acceptOptions(allowedOrigins)

	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		userID, err := tokens.Verify(tokenStr)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, opts)
		if err != nil {
			hub.logger.Debug("accept failed", "error", err)
			return
		}

		client := NewClient(hub, conn, userID, checker)
		if !hub.Register(client) {
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}

		ctx := r.Context()
		go client.WritePump(ctx)
		client.ReadPump(ctx)
	}
}

// acceptOptions turns the CORS origin list into websocket origin patterns,
// which match on host only.
func acceptOptions(allowedOrigins []string) *websocket.AcceptOptions {
	opts := &websocket.AcceptOptions{}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			opts.InsecureSkipVerify = true
			return opts
		}
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			opts.OriginPatterns = append(opts.OriginPatterns, u.Host)
		} else {
			opts.OriginPatterns = append(opts.OriginPatterns, origin)
		}
	}
	return opts
}
