package calculator

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/lessmo/internal/models"
	"github.com/mmynk/lessmo/internal/money"
)

// Settlement is a suggested payment from a debtor to a creditor.
type Settlement struct {
	From   string // Participant who owes (balance < 0)
	To     string // Participant who is owed (balance > 0)
	Amount decimal.Decimal
}

// party is one side of the matching, holding the magnitude still to settle.
type party struct {
	id     string
	amount money.Cents
}

// byLargest orders parties by amount descending, then id ascending.
func byLargest(a, b party) int {
	if c := cmp.Compare(b.amount, a.amount); c != 0 {
		return c
	}
	return cmp.Compare(a.id, b.id)
}

// ComputeSettlements returns a short list of payments that brings every
// balance to zero.
//
// Algorithm (greedy largest-first):
//   - Balances within one cent of zero are already settled and dropped
//   - Each round matches the largest creditor with the largest debtor
//     (ties broken by ascending participant id) for min(credit, debt)
//   - Parties left within one cent of zero leave the matching
//
// Every round discharges at least one party, so the result never has more
// than (non-zero participants - 1) entries. The output is deterministic for
// a given input.
//
// Balances that do not sum to zero (beyond one cent per participant) fail
// with *BalanceInconsistencyError; no settlements are returned.
func ComputeSettlements(balances []Balance) ([]Settlement, error) {
	var (
		sum       money.Cents
		creditors []party
		debtors   []party
	)
	for _, b := range balances {
		c := money.FromDecimal(b.Balance)
		sum += c
		switch {
		case c > money.Tolerance:
			creditors = append(creditors, party{id: b.ParticipantID, amount: c})
		case c < -money.Tolerance:
			debtors = append(debtors, party{id: b.ParticipantID, amount: -c})
		}
	}
	if sum.Abs() > money.Tolerance*money.Cents(len(balances)) {
		return nil, &BalanceInconsistencyError{Sum: sum.Decimal(), Participants: len(balances)}
	}

	slices.SortFunc(creditors, byLargest)
	slices.SortFunc(debtors, byLargest)

	settlements := make([]Settlement, 0, max(len(creditors), len(debtors)))
	for len(creditors) > 0 && len(debtors) > 0 {
		creditor, debtor := &creditors[0], &debtors[0]

		transfer := min(creditor.amount, debtor.amount)
		settlements = append(settlements, Settlement{
			From:   debtor.id,
			To:     creditor.id,
			Amount: transfer.Decimal(),
		})

		creditor.amount -= transfer
		debtor.amount -= transfer
		creditors = settleFront(creditors)
		debtors = settleFront(debtors)
	}
	return settlements, nil
}

// settleFront drops the front party once it is settled and restores the
// largest-first order after its amount changed.
func settleFront(parties []party) []party {
	if parties[0].amount <= money.Tolerance {
		return parties[1:]
	}
	slices.SortFunc(parties, byLargest)
	return parties
}

// Comparison contrasts paying every debt expense by expense with the
// optimized settlement plan.
type Comparison struct {
	// Direct are the per-pair debts straight from each expense's shares:
	// every participant pays each payer what they owe them.
	Direct []Settlement
	// Optimized is the output of ComputeSettlements.
	Optimized []Settlement
	// TransactionsSaved is len(Direct) - len(Optimized).
	TransactionsSaved int
	// PercentageReduction is TransactionsSaved as a percentage of len(Direct),
	// rounded to two decimals. Zero when there are no direct debts.
	PercentageReduction decimal.Decimal
}

// CompareSettlements computes both the direct and the optimized settlement
// plans for a ledger.
func CompareSettlements(expenses []models.Expense, participants []models.Participant) (Comparison, error) {
	balances, err := ComputeBalances(expenses, participants)
	if err != nil {
		return Comparison{}, err
	}
	optimized, err := ComputeSettlements(balances)
	if err != nil {
		return Comparison{}, err
	}

	type pair struct{ from, to string }
	debts := make(map[pair]money.Cents)
	for _, expense := range expenses {
		shares, err := ExpenseShares(expense)
		if err != nil {
			return Comparison{}, err
		}
		for id, owed := range shares {
			if id == expense.PaidBy {
				continue
			}
			debts[pair{from: id, to: expense.PaidBy}] += owed
		}
	}

	pairs := make([]pair, 0, len(debts))
	for p, amount := range debts {
		if amount > money.Tolerance {
			pairs = append(pairs, p)
		}
	}
	slices.SortFunc(pairs, func(a, b pair) int {
		if c := cmp.Compare(a.from, b.from); c != 0 {
			return c
		}
		return cmp.Compare(a.to, b.to)
	})

	direct := make([]Settlement, 0, len(pairs))
	for _, p := range pairs {
		direct = append(direct, Settlement{From: p.from, To: p.to, Amount: debts[p].Decimal()})
	}

	saved := len(direct) - len(optimized)
	reduction := decimal.Zero
	if len(direct) > 0 {
		reduction = decimal.NewFromInt(int64(saved)).
			Mul(money.Hundred()).
			Div(decimal.NewFromInt(int64(len(direct)))).
			Round(2)
	}

	return Comparison{
		Direct:              direct,
		Optimized:           optimized,
		TransactionsSaved:   saved,
		PercentageReduction: reduction,
	}, nil
}
