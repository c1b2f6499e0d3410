package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/lessmo/internal/calculator"
	"github.com/mmynk/lessmo/internal/storage"
)

var (
	errAuthRequired     = errors.New("authentication required")
	errNotMember        = errors.New("you must be a participant of this event")
	errParticipantInUse = errors.New("participant still has expenses or payments")
	errRecompute        = errors.New("couldn't compute balances, please retry")
)

// toConnectError maps domain and storage errors to Connect codes.
// Validation errors keep their message; anything unexpected is Internal.
func toConnectError(err error) error {
	var (
		connectErr   *connect.Error
		inconsistent *calculator.BalanceInconsistencyError
	)
	switch {
	case errors.As(err, &connectErr):
		return err
	case calculator.IsValidationError(err):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.As(err, &inconsistent):
		return connect.NewError(connect.CodeInternal, errRecompute)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, errParticipantInUse):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}
