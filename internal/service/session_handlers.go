package service

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mmynk/budgetwise/internal/auth"
)

// Cookie endpoint paths.
const (
	VerifySessionPath = "/api/verify-session"
	LogoutPath        = "/api/logout"
)

// SessionHandlers serves the plain HTTP cookie endpoints used by pages and
// by remote verifiers.
type SessionHandlers struct {
	verifier auth.Verifier
	cookies  auth.CookieSettings
}

// NewSessionHandlers creates the cookie endpoints. verifier must verify
// in-process; pointing it at a RemoteVerifier would call itself.
func NewSessionHandlers(verifier auth.Verifier, cookies auth.CookieSettings) *SessionHandlers {
	return &SessionHandlers{verifier: verifier, cookies: cookies}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

// VerifySession answers 200 with the session claims, or 401.
func (h *SessionHandlers) VerifySession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := h.verifier.VerifySession(r.Context(), auth.TokenFromHeader(r.Header))
	if err != nil {
		slog.Debug("verify-session rejected", "error", err)
		writeJSON(w, http.StatusUnauthorized, auth.VerifyResponse{Error: auth.ErrInvalidToken.Error()})
		return
	}

	writeJSON(w, http.StatusOK, auth.VerifyResponse{User: claims})
}

// Logout clears the session cookie. Browsers following a link (GET) are
// sent to the login page.
func (h *SessionHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearSession(w.Header())

	if r.Method == http.MethodGet {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Register mounts the cookie endpoints on mux.
func (h *SessionHandlers) Register(mux *http.ServeMux) {
	mux.HandleFunc(VerifySessionPath, h.VerifySession)
	mux.HandleFunc(LogoutPath, h.Logout)
}
