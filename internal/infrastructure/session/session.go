// Package session provides cookie-backed server-side sessions with
// pluggable memory and Redis stores.
package session

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

const stateAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Session holds the per-browser state: the anti-forgery token for the
// login flow and, once connected, the provider identity.
type Session struct {
	ID          string `json:"id"`
	State       string `json:"state,omitempty"`
	Subject     string `json:"subject,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
	Email       string `json:"email,omitempty"`
	Username    string `json:"username,omitempty"`
	UserID      uint   `json:"user_id,omitempty"`
}

// New creates an empty session with a fresh ID
func New() *Session {
	return &Session{ID: uuid.New().String()}
}

// LoggedIn reports whether the session carries a connected identity
func (s *Session) LoggedIn() bool {
	return s.AccessToken != "" && s.Email != ""
}

// ClearAuth removes all identity fields, keeping the session itself
func (s *Session) ClearAuth() {
	s.State = ""
	s.Subject = ""
	s.AccessToken = ""
	s.Email = ""
	s.Username = ""
	s.UserID = 0
}

// NewStateToken returns a 32-character random token for forgery protection
func NewStateToken() (string, error) {
	buf := make([]byte, 32)
	max := big.NewInt(int64(len(stateAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = stateAlphabet[n.Int64()]
	}
	return string(buf), nil
}
