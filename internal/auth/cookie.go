package auth

import (
	"net/http"
	"time"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// CookieSettings holds the security attributes written on the session cookie.
type CookieSettings struct {
	// Secure should be true in production (HTTPS only).
	Secure bool
	// Domain for the cookie; empty means the current host.
	Domain string
	// Path defaults to "/".
	Path string
}

func (s CookieSettings) path() string {
	if s.Path == "" {
		return "/"
	}
	return s.Path
}

// SessionCookie builds the cookie carrying token until expiresAt.
func (s CookieSettings) SessionCookie(token string, expiresAt time.Time) *http.Cookie {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     s.path(),
		Domain:   s.Domain,
		Expires:  expiresAt.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie builds the logout cookie: same name, empty value, expiry in the past.
func (s CookieSettings) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     s.path(),
		Domain:   s.Domain,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetSession appends a session Set-Cookie header.
func (s CookieSettings) SetSession(h http.Header, token string, expiresAt time.Time) {
	h.Add("Set-Cookie", s.SessionCookie(token, expiresAt).String())
}

// ClearSession appends the logout Set-Cookie header.
func (s CookieSettings) ClearSession(h http.Header) {
	h.Add("Set-Cookie", s.ExpiredCookie().String())
}

// TokenFromHeader reads the session token from a request's Cookie header.
// Returns an empty string if the cookie is absent.
func TokenFromHeader(h http.Header) string {
	r := http.Request{Header: h}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
