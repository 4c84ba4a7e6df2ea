package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetwise/internal/auth"
	"github.com/mmynk/budgetwise/internal/csvio"
	"github.com/mmynk/budgetwise/internal/ledger"
	"github.com/mmynk/budgetwise/pkg/api"
)

// errUnavailable replaces persistence failures on the wire; the cause is
// logged by the ledger and never shown to callers.
var errUnavailable = errors.New("the service is temporarily unavailable, please try again")

// toConnectError maps domain errors onto Connect codes.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	var validation *ledger.ValidationError
	var lineErr *csvio.LineError
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return connect.NewError(connect.CodeUnauthenticated, auth.ErrUnauthenticated)
	case errors.Is(err, ledger.ErrFeatureLocked):
		locked := connect.NewError(connect.CodePermissionDenied, ledger.ErrFeatureLocked)
		locked.Meta().Set(api.FeatureLockedKey, api.FeatureLockedGuest)
		return locked
	case errors.Is(err, ledger.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, ledger.ErrNotFound)
	case errors.As(err, &validation):
		return connect.NewError(connect.CodeInvalidArgument, validation)
	case errors.As(err, &lineErr), errors.Is(err, csvio.ErrEmpty):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	default:
		return connect.NewError(connect.CodeUnavailable, errUnavailable)
	}
}
