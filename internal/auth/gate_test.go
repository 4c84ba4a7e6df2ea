package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/budgetwise/internal/models"
	"github.com/mmynk/budgetwise/internal/storage"
)

type stubUsers struct {
	users map[string]*models.User
	err   error
}

func (s *stubUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return user, nil
}

func TestGateResolve(t *testing.T) {
	codec := NewCodec("gate-secret")
	users := &stubUsers{users: map[string]*models.User{
		"user-1": {ID: "user-1", Email: "alice@example.com", DisplayName: "Alice Smith"},
	}}
	gate := NewGate(codec, users)
	ctx := context.Background()

	t.Run("registered user", func(t *testing.T) {
		token, _, err := codec.Issue(testClaims(), time.Hour)
		require.NoError(t, err)

		id, err := gate.Resolve(ctx, token)
		require.NoError(t, err)
		assert.True(t, id.Authenticated())
		assert.False(t, id.IsGuest())
		assert.Equal(t, "user-1", id.UserID())
		// Display name comes from the stored record, not the token.
		assert.Equal(t, "Alice Smith", id.DisplayName())
	})

	t.Run("guest", func(t *testing.T) {
		token, _, err := codec.Issue(NewGuestClaims(), time.Hour)
		require.NoError(t, err)

		id, err := gate.Resolve(ctx, token)
		require.NoError(t, err)
		assert.True(t, id.IsGuest())
		assert.True(t, IsGuestID(id.UserID()))
	})

	t.Run("empty token", func(t *testing.T) {
		id, err := gate.Resolve(ctx, "")
		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.False(t, id.Authenticated())
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := gate.Resolve(ctx, "garbage")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("deleted user", func(t *testing.T) {
		token, _, err := codec.Issue(Claims{UserID: "user-9", Email: "gone@example.com"}, time.Hour)
		require.NoError(t, err)

		_, err = gate.Resolve(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("store failure fails closed", func(t *testing.T) {
		broken := NewGate(codec, &stubUsers{err: errors.New("disk I/O error")})
		token, _, err := codec.Issue(testClaims(), time.Hour)
		require.NoError(t, err)

		_, err = broken.Resolve(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IdentityFromContext(ctx).Authenticated())

	codec := NewCodec("gate-secret")
	token, _, err := codec.Issue(testClaims(), time.Hour)
	require.NoError(t, err)
	id, err := NewGate(codec, nil).Resolve(ctx, token)
	require.NoError(t, err)

	got := IdentityFromContext(ContextWithIdentity(ctx, id))
	assert.Equal(t, id, got)
	assert.Equal(t, "alice@example.com", got.Email())
}
