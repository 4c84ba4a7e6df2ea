package middleware

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetwise/internal/auth"
)

// RequireSession returns an interceptor that resolves the session cookie
// through the gate and stores the identity in the request context. Calls to
// procedures in public are let through without a session; a valid cookie
// on such calls is still resolved.
func RequireSession(gate *auth.Gate, public map[string]bool) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			procedure := req.Spec().Procedure
			token := auth.TokenFromHeader(req.Header())

			id, err := gate.Resolve(ctx, token)
			if err != nil {
				if public[procedure] {
					return next(ctx, req)
				}
				slog.Debug("Unauthenticated RPC rejected", "procedure", procedure, "error", err)
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrUnauthenticated)
			}

			return next(auth.ContextWithIdentity(ctx, id), req)
		}
	}
}
