package models

import "github.com/shopspring/decimal"

// Event groups the participants, expenses and payments of one shared budget.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// Name is the display name of the event (e.g., "Ibiza 2025", "Flat").
	Name string

	// Currency is the ISO 4217 code every amount of the event is expressed in.
	Currency string

	// Budget is the optional soft ceiling for the whole event. Zero means none.
	Budget decimal.Decimal

	// CreatedBy is the user ID who created the event.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64
}

// Participant is a person sharing costs within an event.
type Participant struct {
	// ID is stable for the lifetime of the event.
	ID string

	// EventID is the event this participant belongs to.
	EventID string

	// UserID links the participant to a registered user. Empty for guests.
	UserID string

	// Name is the display name.
	Name string

	// IndividualBudget is informational only; it never affects settlement math.
	IndividualBudget decimal.Decimal

	// CurrentBalance is the cached net balance (positive = owed money).
	// NOT authoritative: recompute from the ledger when consistency matters.
	CurrentBalance decimal.Decimal

	// JoinedAt is the Unix timestamp when the participant was added.
	JoinedAt int64
}
