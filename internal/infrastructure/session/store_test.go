package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastebook/v1/internal/infrastructure/session"
)

func TestNewSession(t *testing.T) {
	s1 := session.New()
	s2 := session.New()
	assert.NotEmpty(t, s1.ID)
	assert.NotEqual(t, s1.ID, s2.ID)
	assert.False(t, s1.LoggedIn())
}

func TestNewStateToken(t *testing.T) {
	t1, err := session.NewStateToken()
	require.NoError(t, err)
	t2, err := session.NewStateToken()
	require.NoError(t, err)

	assert.Len(t, t1, 32)
	assert.NotEqual(t, t1, t2)
}

func TestSessionLoggedInAndClear(t *testing.T) {
	s := session.New()
	s.AccessToken = "token"
	s.Email = "cook@example.com"
	s.Username = "Cook"
	s.Subject = "123"
	s.UserID = 7
	assert.True(t, s.LoggedIn())

	s.ClearAuth()
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.AccessToken)
	assert.Empty(t, s.Email)
	assert.Empty(t, s.Username)
	assert.Empty(t, s.Subject)
	assert.Zero(t, s.UserID)
	assert.NotEmpty(t, s.ID)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	ctx := context.Background()

	s := session.New()
	s.State = "abc"
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc", got.State)

	// returned copy is detached from the stored one
	got.State = "changed"
	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc", again.State)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := session.NewMemoryStore(10 * time.Millisecond)
	ctx := context.Background()

	s := session.New()
	require.NoError(t, store.Save(ctx, s))

	time.Sleep(30 * time.Millisecond)
	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStoreSweepsAbandonedSessions(t *testing.T) {
	store := session.NewMemoryStore(10 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	// anonymous visitors that never come back
	for i := 0; i < 100; i++ {
		require.NoError(t, store.Save(ctx, session.New()))
	}
	require.Equal(t, 100, store.Len())

	assert.Eventually(t, func() bool { return store.Len() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestMemoryStoreMissing(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, session.ErrNotFound)
}
