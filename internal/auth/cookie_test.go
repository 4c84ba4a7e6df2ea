package auth

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestSessionCookieAttributes(t *testing.T) {
	settings := CookieSettings{Secure: true}
	expiresAt := time.Now().Add(time.Hour)

	cookie := settings.SessionCookie("token-value", expiresAt)
	if cookie.Name != CookieName {
		t.Errorf("Name = %q, want %q", cookie.Name, CookieName)
	}
	if cookie.Value != "token-value" {
		t.Errorf("Value = %q, want token-value", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly")
	}
	if !cookie.Secure {
		t.Error("expected Secure")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", cookie.SameSite)
	}
	if cookie.Path != "/" {
		t.Errorf("Path = %q, want /", cookie.Path)
	}
	if cookie.MaxAge <= 0 || cookie.MaxAge > 3600 {
		t.Errorf("MaxAge = %d, want within (0, 3600]", cookie.MaxAge)
	}
}

func TestExpiredCookie(t *testing.T) {
	cookie := CookieSettings{}.ExpiredCookie()
	if cookie.Value != "" {
		t.Errorf("Value = %q, want empty", cookie.Value)
	}
	if cookie.MaxAge >= 0 {
		t.Errorf("MaxAge = %d, want negative", cookie.MaxAge)
	}
	if !cookie.Expires.Before(time.Now()) {
		t.Errorf("Expires = %v, want in the past", cookie.Expires)
	}
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly")
	}
}

func TestSetAndReadSession(t *testing.T) {
	h := http.Header{}
	CookieSettings{}.SetSession(h, "abc123", time.Now().Add(time.Hour))

	setCookie := h.Get("Set-Cookie")
	if !strings.HasPrefix(setCookie, "session=abc123") {
		t.Fatalf("Set-Cookie = %q", setCookie)
	}
	if !strings.Contains(setCookie, "HttpOnly") {
		t.Errorf("Set-Cookie missing HttpOnly: %q", setCookie)
	}

	req := http.Header{}
	req.Set("Cookie", "theme=dark; session=abc123")
	if got := TokenFromHeader(req); got != "abc123" {
		t.Errorf("TokenFromHeader = %q, want abc123", got)
	}

	if got := TokenFromHeader(http.Header{}); got != "" {
		t.Errorf("TokenFromHeader on empty header = %q, want empty", got)
	}
}

func TestClearSession(t *testing.T) {
	h := http.Header{}
	CookieSettings{}.ClearSession(h)

	setCookie := h.Get("Set-Cookie")
	if !strings.HasPrefix(setCookie, "session=;") {
		t.Errorf("Set-Cookie = %q, want empty session value", setCookie)
	}
	if !strings.Contains(setCookie, "Max-Age=0") {
		t.Errorf("Set-Cookie = %q, want Max-Age=0", setCookie)
	}
}
