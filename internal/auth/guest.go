package auth

import (
	"strings"

	"github.com/google/uuid"
)

// GuestIDPrefix marks user IDs that belong to trial sessions.
// Such IDs never exist in the user store.
const GuestIDPrefix = "guest:"

// GuestEmail is the placeholder email carried by guest sessions.
const GuestEmail = "guest@budgetwise.local"

// IsGuestID reports whether id follows the guest identifier pattern.
func IsGuestID(id string) bool {
	return strings.HasPrefix(id, GuestIDPrefix)
}

// NewGuestClaims returns claims for a fresh, never-persisted trial identity.
func NewGuestClaims() Claims {
	return Claims{
		UserID:      GuestIDPrefix + uuid.New().String(),
		Email:       GuestEmail,
		DisplayName: "Guest",
		Guest:       true,
	}
}
