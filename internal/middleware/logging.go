package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetwise/internal/auth"
)

// rpcLevel picks the log level for a finished call. Caller mistakes and
// policy refusals are warnings; anything the server could not handle is an
// error.
func rpcLevel(err error) slog.Level {
	if err == nil {
		return slog.LevelInfo
	}
	switch connect.CodeOf(err) {
	case connect.CodeInvalidArgument, connect.CodeNotFound, connect.CodeAlreadyExists,
		connect.CodeUnauthenticated, connect.CodePermissionDenied, connect.CodeCanceled:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// LoggingInterceptor logs every RPC with its caller, outcome and duration.
// It must run inside RequireSession to see the caller.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			id := auth.IdentityFromContext(ctx)
			attrs := []slog.Attr{
				slog.String("procedure", req.Spec().Procedure),
				slog.String("user_id", id.UserID()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			if id.IsGuest() {
				attrs = append(attrs, slog.Bool("guest", true))
			}

			msg := "RPC ok"
			if err != nil {
				msg = "RPC error"
				attrs = append(attrs,
					slog.String("code", connect.CodeOf(err).String()),
					slog.String("error", err.Error()),
				)
			}
			logger.LogAttrs(ctx, rpcLevel(err), msg, attrs...)

			return resp, err
		}
	}
}
