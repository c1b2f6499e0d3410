package calculator

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mmynk/lessmo/internal/models"
	"github.com/mmynk/lessmo/internal/money"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func people(ids ...string) []models.Participant {
	out := make([]models.Participant, len(ids))
	for i, id := range ids {
		out[i] = models.Participant{ID: id, Name: "User " + id}
	}
	return out
}

func equalExpense(id, payer, amount string, participants ...string) models.Expense {
	return models.Expense{
		ID:             id,
		PaidBy:         payer,
		Amount:         dec(amount),
		ParticipantIDs: participants,
		SplitType:      models.SplitEqual,
	}
}

func balanceOf(t *testing.T, balances []Balance, id string) Balance {
	t.Helper()
	for _, b := range balances {
		if b.ParticipantID == id {
			return b
		}
	}
	t.Fatalf("no balance for %s", id)
	return Balance{}
}

// randomParts cuts total into n non-negative parts that sum to total.
func randomParts(r *rand.Rand, total int64, n int) []int64 {
	parts := make([]int64, n)
	remaining := total
	for i := 0; i < n-1; i++ {
		parts[i] = r.Int64N(remaining + 1)
		remaining -= parts[i]
	}
	parts[n-1] = remaining
	return parts
}

// randomLedger builds a valid ledger mixing all split policies.
func randomLedger(r *rand.Rand) ([]models.Participant, []models.Expense) {
	n := 2 + r.IntN(8)
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%02d", i)
	}

	var expenses []models.Expense
	for e := 0; e < 1+r.IntN(15); e++ {
		amount := 1 + r.Int64N(100_000)
		shuffled := append([]string(nil), ids...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		members := shuffled[:1+r.IntN(n)]

		expense := models.Expense{
			ID:             fmt.Sprintf("e%02d", e),
			PaidBy:         ids[r.IntN(n)],
			Amount:         money.Cents(amount).Decimal(),
			ParticipantIDs: members,
		}
		switch r.IntN(3) {
		case 0:
			expense.SplitType = models.SplitEqual
		case 1:
			expense.SplitType = models.SplitCustom
			expense.CustomSplits = make(map[string]decimal.Decimal)
			for i, part := range randomParts(r, amount, len(members)) {
				expense.CustomSplits[members[i]] = money.Cents(part).Decimal()
			}
		case 2:
			expense.SplitType = models.SplitPercentage
			expense.PercentageSplits = make(map[string]decimal.Decimal)
			// basis points: 10000 = 100.00%
			for i, bp := range randomParts(r, 10_000, len(members)) {
				expense.PercentageSplits[members[i]] = money.Cents(bp).Decimal()
			}
		}
		expenses = append(expenses, expense)
	}
	return people(ids...), expenses
}
