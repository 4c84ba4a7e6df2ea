package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/budgetwise/internal/auth"
	"github.com/mmynk/budgetwise/internal/metrics"
	"github.com/mmynk/budgetwise/pkg/api"
)

// whoami echoes the resolved caller as the current user.
func whoami(ctx context.Context, _ *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	id := auth.IdentityFromContext(ctx)
	return connect.NewResponse(&api.GetCurrentUserResponse{
		User: &api.User{ID: id.UserID(), Guest: id.IsGuest()},
	}), nil
}

func TestInterceptors(t *testing.T) {
	codec := auth.NewCodec("interceptor-secret")
	gate := auth.NewGate(codec, nil)
	m := metrics.New()

	opts := []connect.HandlerOption{
		connect.WithCodec(api.Codec()),
		connect.WithInterceptors(
			MetricsInterceptor(m),
			RequireSession(gate, api.PublicProcedures),
			LoggingInterceptor(nil),
		),
	}

	mux := http.NewServeMux()
	mux.Handle(api.AuthServiceGetCurrentUserProcedure, connect.NewUnaryHandler(api.AuthServiceGetCurrentUserProcedure, whoami, opts...))
	// SignOut is public, so the handler runs with or without a session.
	mux.Handle(api.AuthServiceSignOutProcedure, connect.NewUnaryHandler(api.AuthServiceSignOutProcedure, whoami, opts...))
	server := httptest.NewServer(mux)
	defer server.Close()

	callAs := func(procedure, token string) (*connect.Response[api.GetCurrentUserResponse], error) {
		client := connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](
			server.Client(), server.URL+procedure, connect.WithCodec(api.Codec()),
		)
		req := connect.NewRequest(&api.GetCurrentUserRequest{})
		if token != "" {
			req.Header().Set("Cookie", (&http.Cookie{Name: auth.CookieName, Value: token}).String())
		}
		return client.CallUnary(context.Background(), req)
	}

	token, _, err := codec.Issue(auth.Claims{UserID: "u1", Email: "u1@example.com"}, time.Hour)
	require.NoError(t, err)
	guestToken, _, err := codec.Issue(auth.NewGuestClaims(), time.Hour)
	require.NoError(t, err)

	t.Run("protected without session", func(t *testing.T) {
		_, err := callAs(api.AuthServiceGetCurrentUserProcedure, "")
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("protected with session", func(t *testing.T) {
		resp, err := callAs(api.AuthServiceGetCurrentUserProcedure, token)
		require.NoError(t, err)
		assert.Equal(t, "u1", resp.Msg.User.ID)
	})

	t.Run("protected with guest session", func(t *testing.T) {
		resp, err := callAs(api.AuthServiceGetCurrentUserProcedure, guestToken)
		require.NoError(t, err)
		assert.True(t, resp.Msg.User.Guest)
	})

	t.Run("public without session", func(t *testing.T) {
		resp, err := callAs(api.AuthServiceSignOutProcedure, "")
		require.NoError(t, err)
		assert.Empty(t, resp.Msg.User.ID)
	})

	t.Run("public with session resolves identity", func(t *testing.T) {
		resp, err := callAs(api.AuthServiceSignOutProcedure, token)
		require.NoError(t, err)
		assert.Equal(t, "u1", resp.Msg.User.ID)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `budgetwise_rpc_requests_total{code="unauthenticated",procedure="/budgetwise.v1.AuthService/GetCurrentUser"} 1`)
	assert.Contains(t, body, `budgetwise_rpc_requests_total{code="ok",procedure="/budgetwise.v1.AuthService/GetCurrentUser"} 2`)
	assert.Contains(t, body, `budgetwise_rpc_requests_total{code="ok",procedure="/budgetwise.v1.AuthService/SignOut"} 2`)
}

func TestRPCLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, rpcLevel(nil))
	assert.Equal(t, slog.LevelWarn, rpcLevel(connect.NewError(connect.CodePermissionDenied, nil)))
	assert.Equal(t, slog.LevelWarn, rpcLevel(connect.NewError(connect.CodeInvalidArgument, nil)))
	assert.Equal(t, slog.LevelError, rpcLevel(connect.NewError(connect.CodeUnavailable, nil)))
	assert.Equal(t, slog.LevelError, rpcLevel(context.DeadlineExceeded))
}
