package models

import "github.com/shopspring/decimal"

// SplitType names the policy used to divide an expense among its participants.
type SplitType string

const (
	// SplitEqual divides the amount equally among all participants.
	SplitEqual SplitType = "equal"
	// SplitCustom assigns an explicit amount to each participant.
	SplitCustom SplitType = "custom"
	// SplitAmount is the legacy name of SplitCustom.
	SplitAmount SplitType = "amount"
	// SplitPercentage assigns a percentage of the amount to each participant.
	SplitPercentage SplitType = "percentage"
	// SplitItems divides each line item among the people it was assigned to.
	SplitItems SplitType = "items"
)

// Expense is a shared cost paid by one participant.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// EventID is the event this expense belongs to.
	EventID string

	// Description is a free-form label (e.g., "Dinner", "Taxi").
	Description string

	// Category is a free-form grouping used by reports (e.g., "food").
	Category string

	// PaidBy is the participant ID who paid the full amount.
	PaidBy string

	// Amount is the positive total, in the event currency.
	Amount decimal.Decimal

	// ParticipantIDs is the set of participants sharing the expense.
	// It includes PaidBy only if the payer benefits from the expense.
	ParticipantIDs []string

	// SplitType selects how Amount is divided.
	SplitType SplitType

	// CustomSplits maps participant ID to owed amount (custom/amount only).
	// The values must sum to Amount.
	CustomSplits map[string]decimal.Decimal

	// PercentageSplits maps participant ID to a percentage (percentage only).
	// The values must sum to 100.
	PercentageSplits map[string]decimal.Decimal

	// Items are the line items of an itemised expense (items only).
	Items []ExpenseItem

	// CreatedBy is the user ID who logged the expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last edit.
	UpdatedAt int64
}

// ExpenseItem is one line of an itemised expense.
type ExpenseItem struct {
	ID         string
	Name       string
	Price      decimal.Decimal
	AssignedTo []string // participant IDs sharing this item equally
}

// Payment records money actually transferred between two participants,
// usually to execute a suggested settlement.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// EventID is the event this payment belongs to.
	EventID string

	// FromID is the participant who paid (debtor settling up).
	FromID string

	// ToID is the participant who received the money (creditor).
	ToID string

	// Amount is the positive amount transferred.
	Amount decimal.Decimal

	// Note is an optional description.
	Note string

	// CreatedBy is the user ID who recorded the payment.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}
