package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verifyEndpoint(codec *Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		claims, err := codec.Verify(TokenFromHeader(r.Header))
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(VerifyResponse{Error: "invalid session"})
			return
		}
		json.NewEncoder(w).Encode(VerifyResponse{User: claims})
	}
}

func TestRemoteVerifier(t *testing.T) {
	codec := NewCodec("remote-secret")
	server := httptest.NewServer(verifyEndpoint(codec))
	defer server.Close()

	verifier := NewRemoteVerifier(server.URL, time.Second, nil)
	ctx := context.Background()

	t.Run("valid session", func(t *testing.T) {
		token, _, err := codec.Issue(testClaims(), time.Hour)
		require.NoError(t, err)

		claims, err := verifier.VerifySession(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "alice@example.com", claims.Email)
	})

	t.Run("rejected session", func(t *testing.T) {
		_, err := verifier.VerifySession(ctx, "bogus")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := verifier.VerifySession(ctx, "")
		assert.ErrorIs(t, err, ErrMissingToken)
	})
}

func TestRemoteVerifierFailsClosed(t *testing.T) {
	ctx := context.Background()

	t.Run("timeout", func(t *testing.T) {
		done := make(chan struct{})
		slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-done:
			case <-r.Context().Done():
			}
		}))
		defer slow.Close()
		defer close(done)

		verifier := NewRemoteVerifier(slow.URL, 50*time.Millisecond, nil)
		_, err := verifier.VerifySession(ctx, "any-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>oops</html>"))
		}))
		defer server.Close()

		_, err := NewRemoteVerifier(server.URL, time.Second, nil).VerifySession(ctx, "any-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired claims", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := testClaims()
			claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
			json.NewEncoder(w).Encode(VerifyResponse{User: &claims})
		}))
		defer server.Close()

		_, err := NewRemoteVerifier(server.URL, time.Second, nil).VerifySession(ctx, "any-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, err := NewRemoteVerifier(url, time.Second, nil).VerifySession(ctx, "any-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
