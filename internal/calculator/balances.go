package calculator

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/lessmo/internal/models"
	"github.com/mmynk/lessmo/internal/money"
)

// Balance is one participant's net position across an event's ledger.
type Balance struct {
	ParticipantID string
	Name          string
	TotalPaid     decimal.Decimal // Sum of the expenses this participant paid
	TotalOwed     decimal.Decimal // Sum of this participant's shares
	Balance       decimal.Decimal // Positive = owed money, Negative = owes money
}

// account accumulates one participant's position in cents.
type account struct {
	name string
	paid money.Cents
	owed money.Cents
}

// ledger folds expenses into per-participant accounts.
type ledger struct {
	accounts map[string]*account
}

func newLedger(participants []models.Participant) (*ledger, error) {
	l := &ledger{accounts: make(map[string]*account, len(participants))}
	for _, p := range participants {
		if p.ID == "" {
			return nil, fmt.Errorf("participant %q has no id", p.Name)
		}
		if _, exists := l.accounts[p.ID]; exists {
			return nil, fmt.Errorf("participant %s listed twice", p.ID)
		}
		l.accounts[p.ID] = &account{name: p.Name}
	}
	return l, nil
}

// apply adds one expense to the ledger. On error the ledger is left untouched.
func (l *ledger) apply(expense models.Expense) error {
	shares, err := ExpenseShares(expense)
	if err != nil {
		return err
	}

	payer, ok := l.accounts[expense.PaidBy]
	if !ok {
		return &InvalidExpenseError{ExpenseID: expense.ID, Reason: fmt.Sprintf("payer %s is not a participant of the event", expense.PaidBy)}
	}
	for id := range shares {
		if _, ok := l.accounts[id]; !ok {
			return &InvalidExpenseError{ExpenseID: expense.ID, Reason: fmt.Sprintf("%s is not a participant of the event", id)}
		}
	}

	payer.paid += shares.Total()
	for id, owed := range shares {
		l.accounts[id].owed += owed
	}
	return nil
}

// balances returns the accounts as Balance values sorted by participant id.
func (l *ledger) balances() []Balance {
	ids := make([]string, 0, len(l.accounts))
	for id := range l.accounts {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]Balance, 0, len(ids))
	for _, id := range ids {
		acc := l.accounts[id]
		out = append(out, Balance{
			ParticipantID: id,
			Name:          acc.name,
			TotalPaid:     acc.paid.Decimal(),
			TotalOwed:     acc.owed.Decimal(),
			Balance:       (acc.paid - acc.owed).Decimal(),
		})
	}
	return out
}

// ComputeBalances derives every participant's net balance from the full
// expense ledger of an event.
//
// Algorithm:
//   - For each expense, in order: the payer's TotalPaid grows by the amount
//     and every participant's TotalOwed grows by their share (see Policy)
//   - Balance = TotalPaid - TotalOwed
//
// All arithmetic runs on integer cents and every expense's shares sum
// exactly to its amount, so the balances always sum to exactly zero.
// Deleting or editing an expense is handled by calling ComputeBalances again
// on the updated ledger; there is no incremental undo.
//
// Every participant appears in the result, even with no expenses. Expenses
// that reference ids outside participants fail with *InvalidExpenseError.
// On any error no balances are returned.
func ComputeBalances(expenses []models.Expense, participants []models.Participant) ([]Balance, error) {
	l, err := newLedger(participants)
	if err != nil {
		return nil, err
	}
	for _, expense := range expenses {
		if err := l.apply(expense); err != nil {
			return nil, err
		}
	}
	return l.balances(), nil
}

// ApplyPayments folds recorded payments into balances and returns the
// outstanding positions. A payment from A to B counts as A paying (A moves
// towards zero) and B being owed less (B moves towards zero). The input
// slice is not modified.
func ApplyPayments(balances []Balance, payments []models.Payment) ([]Balance, error) {
	l := &ledger{accounts: make(map[string]*account, len(balances))}
	for _, b := range balances {
		l.accounts[b.ParticipantID] = &account{
			name: b.Name,
			paid: money.FromDecimal(b.TotalPaid),
			owed: money.FromDecimal(b.TotalOwed),
		}
	}

	for _, p := range payments {
		if !money.InRange(p.Amount) {
			return nil, &InvalidPaymentError{PaymentID: p.ID, Reason: fmt.Sprintf("amount exceeds %s", money.MaxAmount)}
		}
		amount := money.FromDecimal(p.Amount)
		switch {
		case amount <= 0:
			return nil, &InvalidPaymentError{PaymentID: p.ID, Reason: "amount must be positive"}
		case p.FromID == p.ToID:
			return nil, &InvalidPaymentError{PaymentID: p.ID, Reason: "payer and payee must differ"}
		}
		from, ok := l.accounts[p.FromID]
		if !ok {
			return nil, &InvalidPaymentError{PaymentID: p.ID, Reason: fmt.Sprintf("%s is not a participant of the event", p.FromID)}
		}
		to, ok := l.accounts[p.ToID]
		if !ok {
			return nil, &InvalidPaymentError{PaymentID: p.ID, Reason: fmt.Sprintf("%s is not a participant of the event", p.ToID)}
		}
		from.paid += amount
		to.owed += amount
	}
	return l.balances(), nil
}

// SumBalances returns the sum of all balances, rounded to cents.
func SumBalances(balances []Balance) decimal.Decimal {
	var sum money.Cents
	for _, b := range balances {
		sum += money.FromDecimal(b.Balance)
	}
	return sum.Decimal()
}
