package handlers

import (
	"fmt"
	"html"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/tastebook/v1/internal/infrastructure/auth"
)

// AuthHandlers serves the login callback and logout endpoints
type AuthHandlers struct {
	flow     *auth.Flow
	sessions *SessionManager
	logger   *zap.Logger
}

// NewAuthHandlers creates the auth handlers
func NewAuthHandlers(flow *auth.Flow, sessions *SessionManager, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		flow:     flow,
		sessions: sessions,
		logger:   logger,
	}
}

// HandleLoginCallback finishes the provider login. The state token
// arrives as a query parameter and the one-time code is the request body.
func (h *AuthHandlers) HandleLoginCallback(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.LoadOrCreate(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	code, err := io.ReadAll(io.LimitReader(r.Body, 4096))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	u, err := h.flow.Connect(r.Context(), sess, r.URL.Query().Get("state"), string(code))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.sessions.Save(r, sess); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<h1>Welcome, %s!</h1>", html.EscapeString(sess.Username))
	h.logger.Debug("Login completed", zap.Uint("user_id", u.ID))
}

// HandleLogout revokes the token, clears the session identity and sends
// the browser home. An anonymous request gets 401.
func (h *AuthHandlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.LoadOrCreate(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.flow.Disconnect(r.Context(), sess); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.sessions.Save(r, sess); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
