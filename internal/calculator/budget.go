package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/lessmo/internal/models"
	"github.com/mmynk/lessmo/internal/money"
)

// BudgetSummary compares what an event spent against its budgets.
// Budgets are informational; they never change balances or settlements.
type BudgetSummary struct {
	Budget         decimal.Decimal
	TotalSpent     decimal.Decimal
	Remaining      decimal.Decimal // Budget - TotalSpent, negative when over
	PercentageUsed decimal.Decimal // Zero when the event has no budget
	OverBudget     bool
	Participants   []ParticipantBudget
}

// ParticipantBudget is one participant's spending against their own budget.
type ParticipantBudget struct {
	ParticipantID string
	Name          string
	Budget        decimal.Decimal
	Spent         decimal.Decimal // The participant's total share of expenses
	Remaining     decimal.Decimal
	OverBudget    bool
}

// SummarizeBudget totals an event's spending. A participant's spending is
// their share of the expenses (TotalOwed), not what they happened to pay.
func SummarizeBudget(budget decimal.Decimal, expenses []models.Expense, participants []models.Participant) (BudgetSummary, error) {
	balances, err := ComputeBalances(expenses, participants)
	if err != nil {
		return BudgetSummary{}, err
	}

	var spent money.Cents
	for _, b := range balances {
		spent += money.FromDecimal(b.TotalOwed)
	}
	limit := money.FromDecimal(budget)

	summary := BudgetSummary{
		Budget:         limit.Decimal(),
		TotalSpent:     spent.Decimal(),
		Remaining:      (limit - spent).Decimal(),
		PercentageUsed: decimal.Zero,
		OverBudget:     limit > 0 && spent > limit,
	}
	if limit > 0 {
		summary.PercentageUsed = spent.Decimal().Mul(money.Hundred()).Div(limit.Decimal()).Round(2)
	}

	budgets := make(map[string]money.Cents, len(participants))
	for _, p := range participants {
		budgets[p.ID] = money.FromDecimal(p.IndividualBudget)
	}
	for _, b := range balances {
		own := budgets[b.ParticipantID]
		owed := money.FromDecimal(b.TotalOwed)
		summary.Participants = append(summary.Participants, ParticipantBudget{
			ParticipantID: b.ParticipantID,
			Name:          b.Name,
			Budget:        own.Decimal(),
			Spent:         owed.Decimal(),
			Remaining:     (own - owed).Decimal(),
			OverBudget:    own > 0 && owed > own,
		})
	}
	return summary, nil
}
