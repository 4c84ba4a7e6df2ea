package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/budgetwise/internal/auth"
	"github.com/mmynk/budgetwise/internal/ledger"
	"github.com/mmynk/budgetwise/internal/metrics"
	"github.com/mmynk/budgetwise/internal/models"
	"github.com/mmynk/budgetwise/internal/storage"
	"github.com/mmynk/budgetwise/pkg/api"
)

// ProfileStore is the user persistence the auth service needs beyond the authenticator.
type ProfileStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id string, profile models.Profile) (*models.User, error)
}

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	codec         *auth.Codec
	users         ProfileStore
	cookies       auth.CookieSettings
	ttl           time.Duration
	validate      *validator.Validate
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// AuthConfig groups the session parameters of the auth service.
type AuthConfig struct {
	Cookies auth.CookieSettings
	TTL     time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, codec *auth.Codec, users ProfileStore, cfg AuthConfig, m *metrics.Metrics, logger *slog.Logger) *AuthService {
	if cfg.TTL <= 0 {
		cfg.TTL = auth.DefaultSessionTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		authenticator: authenticator,
		codec:         codec,
		users:         users,
		cookies:       cfg.Cookies,
		ttl:           cfg.TTL,
		validate:      validator.New(),
		metrics:       m,
		logger:        logger,
	}
}

// issue signs claims and writes the session cookie on h.
func (s *AuthService) issue(h http.Header, claims auth.Claims) (api.Session, error) {
	token, expiresAt, err := s.codec.Issue(claims, s.ttl)
	if err != nil {
		s.logger.Error("Failed to issue session", "user_id", claims.UserID, "error", err)
		return api.Session{}, connect.NewError(connect.CodeInternal, errors.New("failed to create session"))
	}
	s.cookies.SetSession(h, token, expiresAt)
	s.metrics.SessionIssued(claims.Guest)
	return api.Session{User: claimsToAPI(claims), ExpiresAt: expiresAt.Unix()}, nil
}

// SignUp creates a new user account and signs it in.
func (s *AuthService) SignUp(ctx context.Context, req *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error) {
	s.logger.Info("SignUp request", "email", req.Msg.Email)

	displayName := strings.TrimSpace(req.Msg.DisplayName)
	if displayName == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("display name is required"))
	}

	user, err := s.authenticator.Register(ctx, req.Msg.Email, displayName, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, toConnectError(err)
	}

	resp := connect.NewResponse(&api.SignUpResponse{})
	session, err := s.issue(resp.Header(), auth.ClaimsForUser(user))
	if err != nil {
		return nil, err
	}
	session.User = userToAPI(user)
	resp.Msg.Session = session

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return resp, nil
}

// SignIn authenticates a user and sets the session cookie.
func (s *AuthService) SignIn(ctx context.Context, req *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error) {
	s.logger.Info("SignIn request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, models.NormalizeEmail(req.Msg.Email), req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, toConnectError(err)
	}

	resp := connect.NewResponse(&api.SignInResponse{})
	session, err := s.issue(resp.Header(), auth.ClaimsForUser(user))
	if err != nil {
		return nil, err
	}
	session.User = userToAPI(user)
	resp.Msg.Session = session

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return resp, nil
}

// SignInGuest starts a trial session. Nothing is written to the user store.
func (s *AuthService) SignInGuest(ctx context.Context, req *connect.Request[api.SignInGuestRequest]) (*connect.Response[api.SignInGuestResponse], error) {
	claims := auth.NewGuestClaims()

	resp := connect.NewResponse(&api.SignInGuestResponse{})
	session, err := s.issue(resp.Header(), claims)
	if err != nil {
		return nil, err
	}
	resp.Msg.Session = session

	s.logger.Info("Guest session started", "user_id", claims.UserID)
	return resp, nil
}

// SignOut clears the session cookie. It succeeds with or without a session.
func (s *AuthService) SignOut(ctx context.Context, req *connect.Request[api.SignOutRequest]) (*connect.Response[api.SignOutResponse], error) {
	resp := connect.NewResponse(&api.SignOutResponse{})
	s.cookies.ClearSession(resp.Header())
	s.logger.Info("Logout request", "user_id", auth.IdentityFromContext(ctx).UserID())
	return resp, nil
}

// GetCurrentUser returns the caller's account, re-read from storage.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	id := auth.IdentityFromContext(ctx)
	if !id.Authenticated() {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrUnauthenticated)
	}

	if id.IsGuest() {
		return connect.NewResponse(&api.GetCurrentUserResponse{
			User: &api.User{
				ID:          id.UserID(),
				Email:       id.Email(),
				DisplayName: id.DisplayName(),
				Guest:       true,
			},
		}), nil
	}

	user, err := s.users.GetUserByID(ctx, id.UserID())
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrUnauthenticated)
	}
	if err != nil {
		s.logger.Error("GetCurrentUser failed", "user_id", id.UserID(), "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetCurrentUserResponse{User: userToAPI(user)}), nil
}

type profileInput struct {
	DisplayName string `validate:"required,max=100"`
	Phone       string `validate:"omitempty,max=32"`
	PhotoURL    string `validate:"omitempty,url,max=2048"`
}

// UpdateProfile changes the caller's display name, phone and photo URL and
// reissues the session so the cookie carries the new profile.
func (s *AuthService) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	id := auth.IdentityFromContext(ctx)
	if !id.Authenticated() {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrUnauthenticated)
	}
	if id.IsGuest() {
		s.metrics.LockedMutation("update_profile")
		return nil, toConnectError(ledger.ErrFeatureLocked)
	}

	in := profileInput{
		DisplayName: strings.TrimSpace(req.Msg.DisplayName),
		Phone:       strings.TrimSpace(req.Msg.Phone),
		PhotoURL:    strings.TrimSpace(req.Msg.PhotoURL),
	}
	if err := s.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, connect.NewError(connect.CodeInvalidArgument, &ledger.ValidationError{
				Field:   fieldErrs[0].Field(),
				Message: "is not valid",
			})
		}
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	user, err := s.users.UpdateUserProfile(ctx, id.UserID(), models.Profile(in))
	if err != nil {
		s.logger.Error("UpdateProfile failed", "user_id", id.UserID(), "error", err)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrUnauthenticated)
		}
		return nil, toConnectError(err)
	}

	resp := connect.NewResponse(&api.UpdateProfileResponse{User: userToAPI(user)})
	if _, err := s.issue(resp.Header(), auth.ClaimsForUser(user)); err != nil {
		return nil, err
	}

	s.logger.Info("Profile updated", "user_id", user.ID)
	return resp, nil
}
