package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultVerifyTimeout bounds a remote verification round trip.
const DefaultVerifyTimeout = 2 * time.Second

// VerifyResponse is the body returned by the verify-session endpoint.
type VerifyResponse struct {
	User  *Claims `json:"user,omitempty"`
	Error string  `json:"error,omitempty"`
}

// RemoteVerifier verifies sessions by calling a verify-session endpoint
// over HTTP. Timeouts, transport errors, non-200 statuses and malformed
// bodies are all treated as unauthenticated.
type RemoteVerifier struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// NewRemoteVerifier creates a verifier for the endpoint at url.
func NewRemoteVerifier(url string, timeout time.Duration, client *http.Client) *RemoteVerifier {
	if timeout <= 0 {
		timeout = DefaultVerifyTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &RemoteVerifier{
		url:     url,
		client:  client,
		timeout: timeout,
	}
}

// VerifySession implements Verifier.
func (v *RemoteVerifier) VerifySession(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrInvalidToken, err)
	}
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: verify request: %v", ErrInvalidToken, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: verify endpoint returned %d", ErrInvalidToken, resp.StatusCode)
	}

	var body VerifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrInvalidToken, err)
	}
	if body.User == nil {
		return nil, fmt.Errorf("%w: response carried no claims", ErrInvalidToken)
	}
	if err := body.User.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	// The endpoint's own expiry check is trusted only if it agrees with ours.
	if exp := body.User.ExpiresAtTime(); exp.IsZero() || !time.Now().Before(exp) {
		return nil, fmt.Errorf("%w: claims expired", ErrInvalidToken)
	}

	return body.User, nil
}
