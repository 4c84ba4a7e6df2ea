package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/budgetwise/internal/models"
	"github.com/mmynk/budgetwise/internal/storage"
)

// Verifier turns a session token into verified claims.
// Implementations must fail closed: any doubt is an error.
type Verifier interface {
	VerifySession(ctx context.Context, token string) (*Claims, error)
}

// UserLookup is the subset of the user store the gate needs.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Identity is a fully resolved caller. It can only be produced by Gate, so
// holding a non-zero Identity proves the session was verified.
type Identity struct {
	userID      string
	email       string
	displayName string
	guest       bool
}

// UserID returns the caller's user ID, empty for the zero Identity.
func (i Identity) UserID() string { return i.userID }

// Email returns the caller's email.
func (i Identity) Email() string { return i.email }

// DisplayName returns the caller's display name.
func (i Identity) DisplayName() string { return i.displayName }

// IsGuest reports whether the caller is a trial identity.
func (i Identity) IsGuest() bool { return i.guest }

// Authenticated reports whether the identity was resolved from a session.
func (i Identity) Authenticated() bool { return i.userID != "" }

// Gate is the single choke point that resolves a session token into an Identity.
type Gate struct {
	verifier Verifier
	users    UserLookup
}

// NewGate creates a gate. users may be nil, in which case registered users
// are trusted from their claims alone.
func NewGate(verifier Verifier, users UserLookup) *Gate {
	return &Gate{
		verifier: verifier,
		users:    users,
	}
}

// Resolve verifies the token and returns the caller's identity, or
// ErrUnauthenticated. Guest tokens are accepted from their claims without
// touching persistence; registered users must still exist.
func (g *Gate) Resolve(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrUnauthenticated
	}

	claims, err := g.verifier.VerifySession(ctx, token)
	if err != nil {
		slog.Debug("Session verification failed", "error", err)
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	if claims.Guest {
		return Identity{
			userID:      claims.UserID,
			email:       claims.Email,
			displayName: claims.DisplayName,
			guest:       true,
		}, nil
	}

	if g.users == nil {
		return Identity{
			userID:      claims.UserID,
			email:       claims.Email,
			displayName: claims.DisplayName,
		}, nil
	}

	user, err := g.users.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return Identity{}, fmt.Errorf("%w: user no longer exists", ErrUnauthenticated)
	}
	if err != nil {
		// Fail closed when the store cannot confirm the user.
		slog.Error("User lookup during session resolution failed", "user_id", claims.UserID, "error", err)
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	return Identity{
		userID:      user.ID,
		email:       user.Email,
		displayName: user.DisplayName,
	}, nil
}

type identityKey struct{}

// ContextWithIdentity stores a resolved identity in ctx.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by ContextWithIdentity.
// The zero Identity (not authenticated) is returned when none is present.
func IdentityFromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}
