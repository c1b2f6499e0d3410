package calculator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/lessmo/internal/models"
	"github.com/mmynk/lessmo/internal/money"
)

// Shares maps participant ID to the part of an expense that participant owes.
// The values of a Shares produced by a Policy always sum to the expense amount.
type Shares map[string]money.Cents

// Total returns the sum of all shares.
func (s Shares) Total() money.Cents {
	var total money.Cents
	for _, c := range s {
		total += c
	}
	return total
}

// Policy divides an expense amount among participants.
// The set of policies is closed: EqualSplit, CustomSplit, PercentageSplit
// and ItemSplit are the only implementations.
type Policy interface {
	Shares(amount money.Cents) (Shares, error)
	policy()
}

// EqualSplit divides the amount equally. When the amount does not divide
// evenly, the leftover cents go one each to the first participants in
// ascending id order.
type EqualSplit struct {
	ParticipantIDs []string
}

// CustomSplit assigns explicit amounts. Participants without an entry owe
// nothing.
type CustomSplit struct {
	ParticipantIDs []string
	Amounts        map[string]decimal.Decimal
}

// PercentageSplit assigns a percentage (0-100) of the amount.
type PercentageSplit struct {
	ParticipantIDs []string
	Percentages    map[string]decimal.Decimal
}

// ItemSplit divides every item equally among its assignees.
type ItemSplit struct {
	ParticipantIDs []string
	Items          []models.ExpenseItem
}

func (EqualSplit) policy()      {}
func (CustomSplit) policy()     {}
func (PercentageSplit) policy() {}
func (ItemSplit) policy()       {}

// percentTolerance is how far percentages may drift from 100 in total.
var percentTolerance = decimal.RequireFromString("0.01")

// PolicyFor returns the split policy selected by the expense's SplitType.
// An empty SplitType means an equal split.
func PolicyFor(expense models.Expense) (Policy, error) {
	switch expense.SplitType {
	case models.SplitEqual, "":
		return EqualSplit{ParticipantIDs: expense.ParticipantIDs}, nil
	case models.SplitCustom, models.SplitAmount:
		return CustomSplit{ParticipantIDs: expense.ParticipantIDs, Amounts: expense.CustomSplits}, nil
	case models.SplitPercentage:
		return PercentageSplit{ParticipantIDs: expense.ParticipantIDs, Percentages: expense.PercentageSplits}, nil
	case models.SplitItems:
		return ItemSplit{ParticipantIDs: expense.ParticipantIDs, Items: expense.Items}, nil
	default:
		return nil, &InvalidSplitError{
			ExpenseID: expense.ID,
			SplitType: expense.SplitType,
			Reason:    "unknown split type",
		}
	}
}

// ExpenseShares validates an expense and returns what each of its
// participants owes. It does not check the ids against an event roster;
// ComputeBalances does that.
func ExpenseShares(expense models.Expense) (Shares, error) {
	if len(expense.ParticipantIDs) == 0 {
		return nil, &EmptyParticipantSetError{ExpenseID: expense.ID}
	}
	if expense.PaidBy == "" {
		return nil, &InvalidExpenseError{ExpenseID: expense.ID, Reason: "payer is required"}
	}
	if !money.InRange(expense.Amount) {
		return nil, &InvalidExpenseError{ExpenseID: expense.ID, Reason: fmt.Sprintf("amount exceeds %s", money.MaxAmount)}
	}
	amount := money.FromDecimal(expense.Amount)
	if amount <= 0 {
		return nil, &InvalidExpenseError{ExpenseID: expense.ID, Reason: "amount must be positive"}
	}
	seen := make(map[string]bool, len(expense.ParticipantIDs))
	for _, id := range expense.ParticipantIDs {
		if id == "" {
			return nil, &InvalidExpenseError{ExpenseID: expense.ID, Reason: "participant id cannot be empty"}
		}
		if seen[id] {
			return nil, &InvalidExpenseError{ExpenseID: expense.ID, Reason: fmt.Sprintf("participant %s listed twice", id)}
		}
		seen[id] = true
	}

	policy, err := PolicyFor(expense)
	if err != nil {
		return nil, err
	}
	shares, err := policy.Shares(amount)
	if err != nil {
		var splitErr *InvalidSplitError
		if errors.As(err, &splitErr) {
			splitErr.ExpenseID = expense.ID
			splitErr.SplitType = expense.SplitType
		}
		return nil, err
	}
	return shares, nil
}

// ValidateExpense reports whether an expense could enter a ledger.
func ValidateExpense(expense models.Expense) error {
	_, err := ExpenseShares(expense)
	return err
}

// Shares implements Policy.
func (p EqualSplit) Shares(amount money.Cents) (Shares, error) {
	if len(p.ParticipantIDs) == 0 {
		return nil, &EmptyParticipantSetError{}
	}
	ids := sortedIDs(p.ParticipantIDs)
	parts := money.SplitEvenly(amount, len(ids))

	shares := make(Shares, len(ids))
	for i, id := range ids {
		shares[id] = parts[i]
	}
	return shares, nil
}

// Shares implements Policy.
func (p CustomSplit) Shares(amount money.Cents) (Shares, error) {
	if len(p.Amounts) == 0 {
		return nil, splitError(models.SplitCustom, "custom amounts are required")
	}
	members := idSet(p.ParticipantIDs)

	shares := make(Shares, len(p.Amounts))
	for _, id := range sortedKeys(p.Amounts) {
		if !members[id] {
			return nil, splitError(models.SplitCustom, "%s is not a participant of the expense", id)
		}
		if !money.InRange(p.Amounts[id]) {
			return nil, splitError(models.SplitCustom, "amount for %s is out of range", id)
		}
		owed := money.FromDecimal(p.Amounts[id])
		if owed < 0 {
			return nil, splitError(models.SplitCustom, "amount for %s cannot be negative", id)
		}
		shares[id] = owed
	}

	tolerance := money.Tolerance * money.Cents(len(shares))
	if diff := amount - shares.Total(); diff.Abs() > tolerance {
		return nil, splitError(models.SplitCustom, "amounts sum to %s, expected %s", shares.Total(), amount)
	}
	if err := absorbResidual(shares, amount); err != nil {
		return nil, err
	}
	return shares, nil
}

// Shares implements Policy.
func (p PercentageSplit) Shares(amount money.Cents) (Shares, error) {
	if len(p.Percentages) == 0 {
		return nil, splitError(models.SplitPercentage, "percentages are required")
	}
	members := idSet(p.ParticipantIDs)

	totalPct := decimal.Zero
	shares := make(Shares, len(p.Percentages))
	for _, id := range sortedKeys(p.Percentages) {
		pct := p.Percentages[id]
		if !members[id] {
			return nil, splitError(models.SplitPercentage, "%s is not a participant of the expense", id)
		}
		if pct.IsNegative() || pct.GreaterThan(money.Hundred()) {
			return nil, splitError(models.SplitPercentage, "percentage for %s must be between 0 and 100", id)
		}
		totalPct = totalPct.Add(pct)
		shares[id] = money.FromDecimal(amount.Decimal().Mul(pct).Div(money.Hundred()))
	}

	if totalPct.Sub(money.Hundred()).Abs().GreaterThan(percentTolerance) {
		return nil, splitError(models.SplitPercentage, "percentages sum to %s, expected 100", totalPct.String())
	}
	if err := absorbResidual(shares, amount); err != nil {
		return nil, err
	}
	return shares, nil
}

// Shares implements Policy.
func (p ItemSplit) Shares(amount money.Cents) (Shares, error) {
	if len(p.Items) == 0 {
		return nil, splitError(models.SplitItems, "items are required")
	}
	members := idSet(p.ParticipantIDs)

	shares := make(Shares)
	var itemsTotal money.Cents
	for _, item := range p.Items {
		if !money.InRange(item.Price) {
			return nil, splitError(models.SplitItems, "item %q has a price out of range", item.Name)
		}
		price := money.FromDecimal(item.Price)
		if price < 0 {
			return nil, splitError(models.SplitItems, "item %q has a negative price", item.Name)
		}
		if len(item.AssignedTo) == 0 {
			return nil, splitError(models.SplitItems, "item %q is not assigned to anyone", item.Name)
		}
		assignees := sortedIDs(item.AssignedTo)
		for _, id := range assignees {
			if !members[id] {
				return nil, splitError(models.SplitItems, "item %q is assigned to %s who is not a participant", item.Name, id)
			}
		}
		for i, part := range money.SplitEvenly(price, len(assignees)) {
			shares[assignees[i]] += part
		}
		itemsTotal += price
	}

	tolerance := money.Tolerance * money.Cents(len(p.Items))
	if diff := amount - itemsTotal; diff.Abs() > tolerance {
		return nil, splitError(models.SplitItems, "items sum to %s, expected %s", itemsTotal, amount)
	}
	if err := absorbResidual(shares, amount); err != nil {
		return nil, err
	}
	return shares, nil
}

// absorbResidual puts whatever the shares are missing (or have in excess)
// on the last participant in id order, so the shares sum exactly to amount.
// An excess larger than that share spills over to the previous ids; shares
// never go negative.
func absorbResidual(shares Shares, amount money.Cents) error {
	diff := amount - shares.Total()
	if diff == 0 {
		return nil
	}
	ids := sortedKeys(shares)
	if diff > 0 {
		shares[ids[len(ids)-1]] += diff
		return nil
	}
	for i := len(ids) - 1; i >= 0 && diff < 0; i-- {
		take := min(shares[ids[i]], -diff)
		shares[ids[i]] -= take
		diff += take
	}
	if diff != 0 {
		return splitError("", "rounding residual %s cannot be absorbed", diff)
	}
	return nil
}

func splitError(splitType models.SplitType, format string, args ...any) *InvalidSplitError {
	return &InvalidSplitError{SplitType: splitType, Reason: fmt.Sprintf(format, args...)}
}

func sortedIDs(ids []string) []string {
	out := slices.Clone(ids)
	slices.Sort(out)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
