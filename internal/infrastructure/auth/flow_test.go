package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tastebook/v1/internal/domain/user"
	"github.com/tastebook/v1/internal/infrastructure/auth"
	"github.com/tastebook/v1/internal/infrastructure/config"
	"github.com/tastebook/v1/internal/infrastructure/session"
	apperrors "github.com/tastebook/v1/pkg/errors"
)

const (
	testClientID = "test-client-id"
	testSubject  = "provider-subject-1"
)

// fakeProvider is a configurable stand-in for the identity provider
type fakeProvider struct {
	exchangeStatus int
	tokenInfo      auth.TokenInfo
	userInfo       auth.UserInfo
	revokeStatus   int
	revoked        []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		exchangeStatus: http.StatusOK,
		tokenInfo: auth.TokenInfo{
			UserID:    testSubject,
			IssuedTo:  testClientID,
			ExpiresIn: 3600,
		},
		userInfo:     auth.UserInfo{Name: "Remy", Email: "remy@example.com"},
		revokeStatus: http.StatusOK,
	}
}

func (p *fakeProvider) server(t *testing.T) *httptest.Server {
	t.Helper()

	idToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": testSubject,
		"aud": testClientID,
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if p.exchangeStatus != http.StatusOK {
			w.WriteHeader(p.exchangeStatus)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "access-token-1",
			"id_token":     idToken,
		})
	})
	mux.HandleFunc("/tokeninfo", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(p.tokenInfo)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(p.userInfo)
	})
	mux.HandleFunc("/revoke", func(w http.ResponseWriter, r *http.Request) {
		p.revoked = append(p.revoked, r.URL.Query().Get("token"))
		w.WriteHeader(p.revokeStatus)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// stubAccounts records FindOrCreate calls and hands out fixed IDs
type stubAccounts struct {
	users  map[string]*user.User
	nextID uint
}

func newStubAccounts() *stubAccounts {
	return &stubAccounts{users: make(map[string]*user.User), nextID: 1}
}

func (s *stubAccounts) FindOrCreate(ctx context.Context, name, email string) (*user.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	u := &user.User{ID: s.nextID, Name: name, Email: email}
	s.nextID++
	s.users[email] = u
	return u, nil
}

func newFlow(t *testing.T, p *fakeProvider) (*auth.Flow, *stubAccounts) {
	t.Helper()
	base := p.server(t).URL
	cfg := config.AuthConfig{
		ClientID:     testClientID,
		ClientSecret: "test-secret",
		TokenURL:     base + "/token",
		TokenInfoURL: base + "/tokeninfo",
		UserInfoURL:  base + "/userinfo",
		RevokeURL:    base + "/revoke",
		RedirectURI:  "postmessage",
	}
	accounts := newStubAccounts()
	return auth.NewFlow(auth.NewClient(cfg), accounts, zap.NewNop()), accounts
}

func sessionWithState(state string) *session.Session {
	s := session.New()
	s.State = state
	return s
}

func TestConnectSuccess(t *testing.T) {
	flow, accounts := newFlow(t, newFakeProvider())
	sess := sessionWithState("state-1")

	u, err := flow.Connect(context.Background(), sess, "state-1", "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "remy@example.com", u.Email)
	assert.Equal(t, "remy@example.com", sess.Email)
	assert.Equal(t, "Remy", sess.Username)
	assert.Equal(t, "access-token-1", sess.AccessToken)
	assert.Equal(t, testSubject, sess.Subject)
	assert.Equal(t, u.ID, sess.UserID)
	assert.Empty(t, sess.State, "state token is single use")
	assert.True(t, sess.LoggedIn())
	assert.Len(t, accounts.users, 1)
}

func TestConnectReturnsExistingUser(t *testing.T) {
	flow, accounts := newFlow(t, newFakeProvider())
	existing, err := accounts.FindOrCreate(context.Background(), "Old Name", "remy@example.com")
	require.NoError(t, err)

	sess := sessionWithState("state-1")
	u, err := flow.Connect(context.Background(), sess, "state-1", "auth-code")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, u.ID)
	assert.Len(t, accounts.users, 1)
}

func TestConnectInvalidState(t *testing.T) {
	flow, _ := newFlow(t, newFakeProvider())

	tests := []struct {
		name  string
		state string
	}{
		{"mismatched", "wrong-state"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := sessionWithState("state-1")
			_, err := flow.Connect(context.Background(), sess, tt.state, "auth-code")
			assert.True(t, apperrors.Is(err, apperrors.CodeInvalidState))
			assert.False(t, sess.LoggedIn())
		})
	}
}

func TestConnectExchangeFailure(t *testing.T) {
	p := newFakeProvider()
	p.exchangeStatus = http.StatusUnauthorized
	flow, _ := newFlow(t, p)

	sess := sessionWithState("state-1")
	_, err := flow.Connect(context.Background(), sess, "state-1", "bad-code")
	assert.True(t, apperrors.Is(err, apperrors.CodeCodeExchangeFailed))
}

func TestConnectProviderErrorPassthrough(t *testing.T) {
	p := newFakeProvider()
	p.tokenInfo.Error = "invalid_token"
	flow, _ := newFlow(t, p)

	sess := sessionWithState("state-1")
	_, err := flow.Connect(context.Background(), sess, "state-1", "auth-code")
	assert.True(t, apperrors.Is(err, apperrors.CodeProviderError))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details, "invalid_token")
}

func TestConnectSubjectMismatch(t *testing.T) {
	p := newFakeProvider()
	p.tokenInfo.UserID = "someone-else"
	flow, _ := newFlow(t, p)

	sess := sessionWithState("state-1")
	_, err := flow.Connect(context.Background(), sess, "state-1", "auth-code")
	assert.True(t, apperrors.Is(err, apperrors.CodeSubjectMismatch))
}

func TestConnectAudienceMismatch(t *testing.T) {
	p := newFakeProvider()
	p.tokenInfo.IssuedTo = "other-client-id"
	flow, _ := newFlow(t, p)

	sess := sessionWithState("state-1")
	_, err := flow.Connect(context.Background(), sess, "state-1", "auth-code")
	assert.True(t, apperrors.Is(err, apperrors.CodeAudienceMismatch))
}

func TestConnectAlreadyConnected(t *testing.T) {
	flow, _ := newFlow(t, newFakeProvider())

	sess := sessionWithState("state-1")
	_, err := flow.Connect(context.Background(), sess, "state-1", "auth-code")
	require.NoError(t, err)

	sess.State = "state-2"
	_, err = flow.Connect(context.Background(), sess, "state-2", "auth-code")
	assert.True(t, apperrors.Is(err, apperrors.CodeAlreadyConnected))
	assert.True(t, sess.LoggedIn(), "identity stays intact")
}

func TestConnectFallbackUsername(t *testing.T) {
	p := newFakeProvider()
	p.userInfo.Name = ""
	flow, _ := newFlow(t, p)

	sess := sessionWithState("state-1")
	u, err := flow.Connect(context.Background(), sess, "state-1", "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "Unnamed cook", u.Name)
	assert.Equal(t, "Unnamed cook", sess.Username)
}

func TestDisconnect(t *testing.T) {
	p := newFakeProvider()
	flow, _ := newFlow(t, p)

	sess := sessionWithState("state-1")
	_, err := flow.Connect(context.Background(), sess, "state-1", "auth-code")
	require.NoError(t, err)

	require.NoError(t, flow.Disconnect(context.Background(), sess))
	assert.False(t, sess.LoggedIn())
	assert.Equal(t, []string{"access-token-1"}, p.revoked)
}

func TestDisconnectNotLoggedIn(t *testing.T) {
	flow, _ := newFlow(t, newFakeProvider())

	err := flow.Disconnect(context.Background(), session.New())
	assert.True(t, apperrors.Is(err, apperrors.CodeNotLoggedIn))
}

func TestDisconnectRevokeFailureStillLogsOut(t *testing.T) {
	p := newFakeProvider()
	flow, _ := newFlow(t, p)

	sess := sessionWithState("state-1")
	_, err := flow.Connect(context.Background(), sess, "state-1", "auth-code")
	require.NoError(t, err)

	p.revokeStatus = http.StatusBadRequest
	require.NoError(t, flow.Disconnect(context.Background(), sess))
	assert.False(t, sess.LoggedIn())
}
