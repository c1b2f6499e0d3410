package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/lessmo/internal/models"
)

// InvalidSplitError reports custom, percentage or item splits that do not
// add up to the expense amount (or reference unknown participants).
// Splits are never rescaled to make them fit.
type InvalidSplitError struct {
	ExpenseID string
	SplitType models.SplitType
	Reason    string
}

func (e *InvalidSplitError) Error() string {
	if e.ExpenseID == "" {
		return fmt.Sprintf("invalid %s split: %s", e.SplitType, e.Reason)
	}
	return fmt.Sprintf("invalid %s split for expense %s: %s", e.SplitType, e.ExpenseID, e.Reason)
}

// EmptyParticipantSetError reports an expense with nobody to split among.
type EmptyParticipantSetError struct {
	ExpenseID string
}

func (e *EmptyParticipantSetError) Error() string {
	if e.ExpenseID == "" {
		return "expense has no participants to split among"
	}
	return fmt.Sprintf("expense %s has no participants to split among", e.ExpenseID)
}

// InvalidExpenseError reports an expense that cannot enter the ledger for a
// reason other than its split: non-positive amount, missing payer, or ids
// that are not participants of the event.
type InvalidExpenseError struct {
	ExpenseID string
	Reason    string
}

func (e *InvalidExpenseError) Error() string {
	if e.ExpenseID == "" {
		return "invalid expense: " + e.Reason
	}
	return fmt.Sprintf("invalid expense %s: %s", e.ExpenseID, e.Reason)
}

// InvalidPaymentError reports a recorded payment that cannot be applied.
type InvalidPaymentError struct {
	PaymentID string
	Reason    string
}

func (e *InvalidPaymentError) Error() string {
	if e.PaymentID == "" {
		return "invalid payment: " + e.Reason
	}
	return fmt.Sprintf("invalid payment %s: %s", e.PaymentID, e.Reason)
}

// BalanceInconsistencyError means the balances handed to the settlement
// optimizer do not sum to zero. It signals an upstream bug or stale data.
type BalanceInconsistencyError struct {
	Sum          decimal.Decimal
	Participants int
}

func (e *BalanceInconsistencyError) Error() string {
	return fmt.Sprintf("balances of %d participants sum to %s instead of 0", e.Participants, e.Sum.StringFixed(2))
}

// IsValidationError reports whether err is a caller input error
// (as opposed to a system error such as BalanceInconsistencyError).
func IsValidationError(err error) bool {
	var (
		splitErr   *InvalidSplitError
		emptyErr   *EmptyParticipantSetError
		expenseErr *InvalidExpenseError
		paymentErr *InvalidPaymentError
	)
	return errors.As(err, &splitErr) ||
		errors.As(err, &emptyErr) ||
		errors.As(err, &expenseErr) ||
		errors.As(err, &paymentErr)
}
