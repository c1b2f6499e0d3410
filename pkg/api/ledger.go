// Package api defines the wire messages of the lessmo.v1 services.
//
// Messages travel as JSON over Connect (see package apiconnect). Field names
// are snake_case; amounts are numbers with at most two decimals, in the
// currency of the event.
package api

// Event is a shared budget (a trip, a flat, a dinner).
type Event struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Currency  string  `json:"currency"`
	Budget    float64 `json:"budget,omitempty"`
	CreatedBy string  `json:"created_by"`
	CreatedAt int64   `json:"created_at"`
}

// Participant is a person sharing the costs of an event.
type Participant struct {
	ID               string  `json:"id"`
	EventID          string  `json:"event_id"`
	UserID           string  `json:"user_id,omitempty"`
	Name             string  `json:"name"`
	IndividualBudget float64 `json:"individual_budget,omitempty"`
	// CurrentBalance is the cached outstanding balance (payments included).
	CurrentBalance float64 `json:"current_balance"`
	JoinedAt       int64   `json:"joined_at"`
}

// ExpenseItem is one line of an itemised expense.
type ExpenseItem struct {
	ID         string   `json:"id,omitempty"`
	Name       string   `json:"name"`
	Price      float64  `json:"price"`
	AssignedTo []string `json:"assigned_to"`
}

// Expense is a cost paid by one participant and split among several.
type Expense struct {
	ID               string             `json:"id,omitempty"`
	EventID          string             `json:"event_id"`
	Description      string             `json:"description"`
	Category         string             `json:"category,omitempty"`
	PaidBy           string             `json:"paid_by"`
	Amount           float64            `json:"amount"`
	ParticipantIDs   []string           `json:"participant_ids"`
	SplitType        string             `json:"split_type,omitempty"` // equal, custom, amount, percentage, items
	CustomSplits     map[string]float64 `json:"custom_splits,omitempty"`
	PercentageSplits map[string]float64 `json:"percentage_splits,omitempty"`
	Items            []ExpenseItem      `json:"items,omitempty"`
	CreatedBy        string             `json:"created_by,omitempty"`
	CreatedAt        int64              `json:"created_at,omitempty"`
	UpdatedAt        int64              `json:"updated_at,omitempty"`
}

// Payment is money actually transferred between two participants.
type Payment struct {
	ID        string  `json:"id"`
	EventID   string  `json:"event_id"`
	FromID    string  `json:"from_id"`
	ToID      string  `json:"to_id"`
	Amount    float64 `json:"amount"`
	Note      string  `json:"note,omitempty"`
	CreatedBy string  `json:"created_by"`
	CreatedAt int64   `json:"created_at"`
}

// Balance is a participant's net position. Positive means they are owed money.
type Balance struct {
	ParticipantID string  `json:"participant_id"`
	Name          string  `json:"name"`
	TotalPaid     float64 `json:"total_paid"`
	TotalOwed     float64 `json:"total_owed"`
	Balance       float64 `json:"balance"`
}

// Settlement is a suggested payment from a debtor to a creditor.
type Settlement struct {
	FromID   string  `json:"from_id"`
	FromName string  `json:"from_name"`
	ToID     string  `json:"to_id"`
	ToName   string  `json:"to_name"`
	Amount   float64 `json:"amount"`
}

// SettlementComparison contrasts expense-by-expense repayment with the
// optimized plan.
type SettlementComparison struct {
	Direct              []*Settlement `json:"direct"`
	Optimized           []*Settlement `json:"optimized"`
	TransactionsSaved   int           `json:"transactions_saved"`
	PercentageReduction float64       `json:"percentage_reduction"`
}

type CreateEventRequest struct {
	Name     string  `json:"name"`
	Currency string  `json:"currency"`
	Budget   float64 `json:"budget,omitempty"`
	// CreatorName is the creator's participant name; defaults to their display name.
	CreatorName string `json:"creator_name,omitempty"`
}

type CreateEventResponse struct {
	Event       *Event       `json:"event"`
	Participant *Participant `json:"participant"`
}

type GetEventRequest struct {
	EventID string `json:"event_id"`
}

type GetEventResponse struct {
	Event        *Event         `json:"event"`
	Participants []*Participant `json:"participants"`
}

type AddParticipantRequest struct {
	EventID          string  `json:"event_id"`
	Name             string  `json:"name"`
	UserID           string  `json:"user_id,omitempty"`
	IndividualBudget float64 `json:"individual_budget,omitempty"`
}

type AddParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type ListParticipantsRequest struct {
	EventID string `json:"event_id"`
}

type ListParticipantsResponse struct {
	Participants []*Participant `json:"participants"`
}

type RemoveParticipantRequest struct {
	EventID       string `json:"event_id"`
	ParticipantID string `json:"participant_id"`
}

type RemoveParticipantResponse struct{}

type CreateExpenseRequest struct {
	Expense *Expense `json:"expense"`
}

// ExpenseResponse is returned by every expense mutation together with the
// recomputed balances.
type ExpenseResponse struct {
	Expense  *Expense   `json:"expense,omitempty"`
	Balances []*Balance `json:"balances"`
}

type UpdateExpenseRequest struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	EventID   string `json:"event_id"`
	ExpenseID string `json:"expense_id"`
}

type ListExpensesRequest struct {
	EventID string `json:"event_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type GetBalancesRequest struct {
	EventID string `json:"event_id"`
}

type GetBalancesResponse struct {
	// Balances come from the expenses alone.
	Balances []*Balance `json:"balances"`
	// Outstanding are the balances after recorded payments.
	Outstanding []*Balance `json:"outstanding"`
}

type GetSettlementsRequest struct {
	EventID string `json:"event_id"`
	Compare bool   `json:"compare,omitempty"`
}

type GetSettlementsResponse struct {
	// Settlements settle the outstanding balances.
	Settlements []*Settlement `json:"settlements"`
	// Comparison is set when requested; it ignores recorded payments.
	Comparison *SettlementComparison `json:"comparison,omitempty"`
}

type RecordPaymentRequest struct {
	EventID string  `json:"event_id"`
	FromID  string  `json:"from_id"`
	ToID    string  `json:"to_id"`
	Amount  float64 `json:"amount"`
	Note    string  `json:"note,omitempty"`
}

// PaymentResponse is returned by every payment mutation together with the
// outstanding balances.
type PaymentResponse struct {
	Payment     *Payment   `json:"payment,omitempty"`
	Outstanding []*Balance `json:"outstanding"`
}

type ListPaymentsRequest struct {
	EventID string `json:"event_id"`
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

type DeletePaymentRequest struct {
	EventID   string `json:"event_id"`
	PaymentID string `json:"payment_id"`
}

type GetBudgetSummaryRequest struct {
	EventID string `json:"event_id"`
}

type ParticipantBudget struct {
	ParticipantID string  `json:"participant_id"`
	Name          string  `json:"name"`
	Budget        float64 `json:"budget"`
	Spent         float64 `json:"spent"`
	Remaining     float64 `json:"remaining"`
	OverBudget    bool    `json:"over_budget"`
}

type GetBudgetSummaryResponse struct {
	Budget         float64              `json:"budget"`
	TotalSpent     float64              `json:"total_spent"`
	Remaining      float64              `json:"remaining"`
	PercentageUsed float64              `json:"percentage_used"`
	OverBudget     bool                 `json:"over_budget"`
	Participants   []*ParticipantBudget `json:"participants"`
}
