// Package handlers contains the HTTP handlers for the frontend pages,
// the JSON endpoints and the login flow.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	appcatalog "github.com/tastebook/v1/internal/application/catalog"
	"github.com/tastebook/v1/internal/domain/catalog"
	"github.com/tastebook/v1/internal/infrastructure/session"
	apperrors "github.com/tastebook/v1/pkg/errors"
)

// SessionManager binds sessions to browsers via a cookie
type SessionManager struct {
	store      session.Store
	cookieName string
	secure     bool
}

// NewSessionManager creates a session manager over the given store
func NewSessionManager(store session.Store, cookieName string, secure bool) *SessionManager {
	return &SessionManager{
		store:      store,
		cookieName: cookieName,
		secure:     secure,
	}
}

// CookieName returns the name of the session cookie
func (m *SessionManager) CookieName() string {
	return m.cookieName
}

// LoadOrCreate returns the request's session, creating one and setting
// the cookie when the browser has none.
func (m *SessionManager) LoadOrCreate(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	if cookie, err := r.Cookie(m.cookieName); err == nil {
		sess, err := m.store.Get(r.Context(), cookie.Value)
		if err == nil {
			return sess, nil
		}
		if err != session.ErrNotFound {
			return nil, err
		}
	}

	sess := session.New()
	if err := m.store.Save(r.Context(), sess); err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return sess, nil
}

// Save persists session changes
func (m *SessionManager) Save(r *http.Request, sess *session.Session) error {
	return m.store.Save(r.Context(), sess)
}

// actorFrom converts a session into a catalog actor
func actorFrom(sess *session.Session) appcatalog.Actor {
	return appcatalog.Actor{
		Email:    sess.Email,
		LoggedIn: sess.LoggedIn(),
	}
}

// difficultyParam parses the {level} chi URL parameter
func difficultyParam(r *http.Request) (catalog.Difficulty, error) {
	level, err := catalog.ParseDifficulty(chi.URLParam(r, "level"))
	if err != nil {
		return "", apperrors.NewValidationError(err.Error())
	}
	return level, nil
}

// groupPath builds the canonical URL of a group's difficulty view
func groupPath(groupID uint, level catalog.Difficulty) string {
	return fmt.Sprintf("/food-groups/%d/difficulty/%s", groupID, level)
}

// itemPath builds the canonical URL of a single item page
func itemPath(groupID uint, level catalog.Difficulty, itemID uint) string {
	return fmt.Sprintf("%s/item-id/%d", groupPath(groupID, level), itemID)
}

// urlParamUint parses a numeric chi URL parameter
func urlParamUint(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apperrors.NewAppError(apperrors.CodeBadRequest, "Invalid "+name, raw)
	}
	return uint(v), nil
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps an error to the taxonomy status and writes the
// standard error envelope.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	appErr := apperrors.Wrap(err, "request failed")
	status := appErr.StatusCode()
	requestID := chimiddleware.GetReqID(r.Context())

	if status >= 500 {
		logger.Error("Request error",
			zap.String("request_id", requestID),
			zap.String("code", string(appErr.Code)),
			zap.Error(err),
		)
	}

	writeJSON(w, status, apperrors.ToErrorResponse(appErr, requestID))
}
