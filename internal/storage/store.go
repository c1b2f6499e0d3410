// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mmynk/lessmo/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a unique field (e.g. a user's email)
	// is already taken.
	ErrAlreadyExists = errors.New("already exists")
)

// Ledger is a consistent snapshot of everything that determines an event's
// balances. Stores must read all of it from a single transaction.
type Ledger struct {
	Event        *models.Event
	Participants []models.Participant // Ordered by join time
	Expenses     []models.Expense     // Ordered by creation
	Payments     []models.Payment     // Ordered by creation
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateEvent persists a new event. ID and CreatedAt are assigned when empty.
	CreateEvent(ctx context.Context, event *models.Event) error

	// GetEvent retrieves an event by ID. Returns ErrNotFound if missing.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// AddParticipant adds a participant to an existing event.
	AddParticipant(ctx context.Context, participant *models.Participant) error

	// GetParticipant retrieves a participant by ID. Returns ErrNotFound if missing.
	GetParticipant(ctx context.Context, participantID string) (*models.Participant, error)

	// ListParticipants returns the participants of an event in join order.
	ListParticipants(ctx context.Context, eventID string) ([]models.Participant, error)

	// DeleteParticipant removes a participant. Returns ErrNotFound if missing.
	// Callers must make sure no expense or payment still references it.
	DeleteParticipant(ctx context.Context, participantID string) error

	// UpdateParticipantBalance overwrites the cached balance of one
	// participant in a single-row write.
	UpdateParticipantBalance(ctx context.Context, participantID string, balance decimal.Decimal) error

	// CreateExpense persists a new expense. ID and timestamps are assigned when empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID. Returns ErrNotFound if missing.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense replaces an existing expense. Returns ErrNotFound if missing.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense. Returns ErrNotFound if missing.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpenses returns the expenses of an event in creation order.
	ListExpenses(ctx context.Context, eventID string) ([]models.Expense, error)

	// CreatePayment persists a recorded payment.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// GetPayment retrieves a payment by ID. Returns ErrNotFound if missing.
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)

	// ListPayments returns the payments of an event in creation order.
	ListPayments(ctx context.Context, eventID string) ([]models.Payment, error)

	// DeletePayment removes a payment. Returns ErrNotFound if missing.
	DeletePayment(ctx context.Context, paymentID string) error

	// LoadLedger reads an event with all its participants, expenses and
	// payments in one transaction. Returns ErrNotFound if the event is missing.
	LoadLedger(ctx context.Context, eventID string) (*Ledger, error)

	// CreateUser persists a new user. Returns ErrAlreadyExists if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns ErrNotFound if missing.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if missing.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
