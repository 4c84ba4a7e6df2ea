package service

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mmynk/budgetwise/internal/assist"
	"github.com/mmynk/budgetwise/internal/auth"
	"github.com/mmynk/budgetwise/internal/guest"
	"github.com/mmynk/budgetwise/internal/ledger"
	"github.com/mmynk/budgetwise/internal/metrics"
	"github.com/mmynk/budgetwise/internal/storage"
)

// Deps are the collaborators the API needs.
type Deps struct {
	Store storage.Store
	// Codec issues sessions and backs the verify-session endpoint.
	Codec *auth.Codec
	// Verifier resolves sessions on RPCs. Nil means Codec.
	Verifier  auth.Verifier
	Guests    *guest.Provider
	Assistant assist.Assistant
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	Cookies   auth.CookieSettings
	TTL       time.Duration
	// BcryptCost overrides the password hashing cost when non-zero.
	BcryptCost int
}

// NewMux builds the RPC procedures and cookie endpoints on a fresh mux.
func NewMux(d Deps) *http.ServeMux {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	verifier := d.Verifier
	if verifier == nil {
		verifier = d.Codec
	}

	authenticator := auth.NewPasswordAuthenticator(d.Store)
	if d.BcryptCost != 0 {
		authenticator = authenticator.WithCost(d.BcryptCost)
	}
	l := ledger.New(d.Store, d.Guests, ledger.WithMetrics(d.Metrics), ledger.WithLogger(logger))
	gate := auth.NewGate(verifier, d.Store)

	svcs := Services{
		Auth:   NewAuthService(authenticator, d.Codec, d.Store, AuthConfig{Cookies: d.Cookies, TTL: d.TTL}, d.Metrics, logger),
		Ledger: NewLedgerService(l, logger),
		Assist: NewAssistService(assist.NewAdvisor(d.Assistant, d.Metrics, logger), l, logger),
	}

	mux := http.NewServeMux()
	Register(mux, svcs, HandlerOptions(gate, d.Metrics, logger))
	NewSessionHandlers(d.Codec, d.Cookies).Register(mux)
	return mux
}
