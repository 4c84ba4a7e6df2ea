package middleware

import (
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/mmynk/budgetwise/internal/auth"
)

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/login"

var publicPages = map[string]bool{
	"/login":  true,
	"/signup": true,
	"/guest":  true,
}

// anonymousOnly pages bounce signed-in users to the dashboard.
var anonymousOnly = map[string]bool{
	"/login":  true,
	"/signup": true,
}

// isPage reports whether p names an HTML page rather than an asset.
func isPage(p string) bool {
	ext := path.Ext(p)
	return ext == "" || ext == ".html"
}

// PageGate redirects page requests without a valid session to the login
// page, and signed-in users away from login and sign-up. Assets and API
// paths (those under apiPrefixes) pass through untouched.
func PageGate(gate *auth.Gate, apiPrefixes []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, prefix := range apiPrefixes {
			if strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}
		}
		if !isPage(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		page := strings.TrimSuffix(r.URL.Path, ".html")
		_, err := gate.Resolve(r.Context(), auth.TokenFromHeader(r.Header))
		signedIn := err == nil

		switch {
		case signedIn && anonymousOnly[page]:
			http.Redirect(w, r, "/", http.StatusSeeOther)
		case !signedIn && !publicPages[page]:
			slog.Debug("Redirecting to login", "path", r.URL.Path)
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		default:
			next.ServeHTTP(w, r)
		}
	})
}
