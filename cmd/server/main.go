package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/budgetwise/internal/assist"
	"github.com/mmynk/budgetwise/internal/auth"
	"github.com/mmynk/budgetwise/internal/config"
	"github.com/mmynk/budgetwise/internal/guest"
	"github.com/mmynk/budgetwise/internal/metrics"
	"github.com/mmynk/budgetwise/internal/middleware"
	"github.com/mmynk/budgetwise/internal/service"
	"github.com/mmynk/budgetwise/internal/storage/sqlite"
	"github.com/mmynk/budgetwise/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Configure(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.Database.Path)

	secret := cfg.Session.Secret
	if secret == "" {
		// Development only; Validate refuses this in production.
		secret = "budgetwise-development-secret-change-me"
		logger.Warn("No session secret configured, using the development secret")
	}
	codec := auth.NewCodec(secret)

	var verifier auth.Verifier = codec
	if cfg.Session.VerifyURL != "" {
		verifier = auth.NewRemoteVerifier(cfg.Session.VerifyURL, cfg.Session.VerifyTimeout, nil)
		logger.Info("Verifying sessions remotely", "url", cfg.Session.VerifyURL)
	}
	gate := auth.NewGate(verifier, store)

	var assistant assist.Assistant = assist.Disabled{}
	if cfg.AI.APIKey != "" {
		gemini, err := assist.NewGemini(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout)
		if err != nil {
			logger.Warn("AI assistance unavailable", "error", err)
		} else {
			assistant = gemini
			logger.Info("AI assistance enabled", "model", cfg.AI.Model)
		}
	}

	m := metrics.New()
	cookies := auth.CookieSettings{Secure: cfg.Cookie.Secure, Domain: cfg.Cookie.Domain}

	mux := service.NewMux(service.Deps{
		Store:     store,
		Codec:     codec,
		Verifier:  verifier,
		Guests:    guest.NewProvider(nil),
		Assistant: assistant,
		Metrics:   m,
		Logger:    logger,
		Cookies:   cookies,
		TTL:       cfg.Session.TTL,
	})
	mux.Handle("/metrics", m.Handler())

	staticDir, err := filepath.Abs(cfg.App.StaticPath)
	if err != nil {
		return fmt.Errorf("failed to resolve static path: %w", err)
	}
	logger.Info("Serving static files", "path", staticDir)
	mux.Handle("/", middleware.PageGate(gate, []string{"/api/", "/budgetwise.v1.", "/metrics"}, staticHandler(staticDir)))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(middleware.RequestLogger(mux), &http2.Server{})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", srv.Addr, "env", cfg.App.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// staticHandler serves pages from dir. "/" maps to index.html and
// extensionless paths such as /login map to login.html.
func staticHandler(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(dir, filepath.Clean("/"+strings.TrimPrefix(urlPath, "/")))
		if filepath.Ext(filePath) == "" {
			filePath += ".html"
		}

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, filePath)
	})
}
