package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/lessmo/internal/calculator"
	"github.com/mmynk/lessmo/internal/metrics"
	"github.com/mmynk/lessmo/internal/middleware"
	"github.com/mmynk/lessmo/internal/models"
	"github.com/mmynk/lessmo/internal/storage"
	"github.com/mmynk/lessmo/pkg/api"
	"github.com/mmynk/lessmo/pkg/api/apiconnect"
)

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService.
//
// The stored expenses and payments are the source of truth. Every mutation
// reloads the event's ledger, recomputes all balances from scratch and then
// rewrites the cached Participant.CurrentBalance values that changed.
// Mutations of one event are serialized so write-backs never interleave.
type LedgerService struct {
	store  storage.Store
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*eventLock
}

// eventLock is a per-event mutex shared by every request holding or waiting
// for it. It is dropped from the map once refs reaches zero.
type eventLock struct {
	mu   sync.Mutex
	refs int // guarded by LedgerService.mu
}

// NewLedgerService creates a LedgerService with the given storage backend.
func NewLedgerService(store storage.Store, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		store:  store,
		logger: logger,
		locks:  make(map[string]*eventLock),
	}
}

// lockEvent serializes mutations of one event. Call the returned func to unlock.
func (s *LedgerService) lockEvent(eventID string) func() {
	s.mu.Lock()
	l, ok := s.locks[eventID]
	if !ok {
		l = &eventLock{}
		s.locks[eventID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, eventID)
		}
		s.mu.Unlock()
	}
}

// ledgerState is a ledger snapshot with its derived balances.
type ledgerState struct {
	*storage.Ledger
	balances    []calculator.Balance // from expenses alone
	outstanding []calculator.Balance // after recorded payments
}

func (st *ledgerState) names() map[string]string {
	names := make(map[string]string, len(st.Participants))
	for _, p := range st.Participants {
		names[p.ID] = p.Name
	}
	return names
}

func (st *ledgerState) participant(id string) (models.Participant, bool) {
	i := slices.IndexFunc(st.Participants, func(p models.Participant) bool { return p.ID == id })
	if i < 0 {
		return models.Participant{}, false
	}
	return st.Participants[i], true
}

// compute derives balances from a ledger snapshot.
func compute(ledger *storage.Ledger) (*ledgerState, error) {
	balances, err := calculator.ComputeBalances(ledger.Expenses, ledger.Participants)
	if err != nil {
		metrics.BalanceRecomputations.WithLabelValues(recomputeResult(err)).Inc()
		return nil, err
	}
	outstanding, err := calculator.ApplyPayments(balances, ledger.Payments)
	if err != nil {
		metrics.BalanceRecomputations.WithLabelValues(recomputeResult(err)).Inc()
		return nil, err
	}
	if sum := calculator.SumBalances(outstanding); !sum.IsZero() {
		err := &calculator.BalanceInconsistencyError{Sum: sum, Participants: len(outstanding)}
		metrics.BalanceRecomputations.WithLabelValues(metrics.ResultInconsistent).Inc()
		return nil, err
	}
	metrics.BalanceRecomputations.WithLabelValues(metrics.ResultOK).Inc()
	return &ledgerState{Ledger: ledger, balances: balances, outstanding: outstanding}, nil
}

func recomputeResult(err error) string {
	var inconsistent *calculator.BalanceInconsistencyError
	switch {
	case calculator.IsValidationError(err):
		return metrics.ResultInvalid
	case errors.As(err, &inconsistent):
		return metrics.ResultInconsistent
	default:
		return metrics.ResultError
	}
}

// load reads the event's ledger and checks that the caller may access it.
func (s *LedgerService) load(ctx context.Context, eventID string) (*ledgerState, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}
	if eventID == "" {
		return nil, invalidArgument("event_id is required")
	}

	ledger, err := s.store.LoadLedger(ctx, eventID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !canAccess(ledger, userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}

	state, err := compute(ledger)
	if err != nil {
		s.logger.ErrorContext(ctx, "Ledger recomputation failed", "event_id", eventID, "error", err)
		return nil, toConnectError(err)
	}
	return state, nil
}

// canAccess reports whether the user created the event or is linked to one
// of its participants.
func canAccess(ledger *storage.Ledger, userID string) bool {
	if ledger.Event.CreatedBy == userID {
		return true
	}
	return slices.ContainsFunc(ledger.Participants, func(p models.Participant) bool {
		return p.UserID == userID
	})
}

// refresh recomputes the balances of an event after a mutation and rewrites
// the cached balances that drifted. The mutation itself is already
// committed, so a failed write-back is logged and the fresh values are still
// returned; the next refresh repairs the cache.
func (s *LedgerService) refresh(ctx context.Context, eventID string) (*ledgerState, error) {
	ledger, err := s.store.LoadLedger(ctx, eventID)
	if err != nil {
		return nil, toConnectError(err)
	}
	state, err := compute(ledger)
	if err != nil {
		s.logger.ErrorContext(ctx, "Ledger recomputation failed", "event_id", eventID, "error", err)
		return nil, toConnectError(err)
	}

	for _, b := range state.outstanding {
		p, _ := state.participant(b.ParticipantID)
		if p.CurrentBalance.Equal(b.Balance) {
			continue
		}
		if err := s.store.UpdateParticipantBalance(ctx, p.ID, b.Balance); err != nil {
			s.logger.ErrorContext(ctx, "Failed to cache balance",
				"event_id", eventID, "participant_id", p.ID, "error", err)
			continue
		}
		metrics.CachedBalanceDrift.Inc()
	}

	s.syncCache(state)
	return state, nil
}

// syncCache mirrors the recomputed balances into the snapshot's participants
// so responses show the values just written.
func (s *LedgerService) syncCache(state *ledgerState) {
	current := make(map[string]decimal.Decimal, len(state.outstanding))
	for _, b := range state.outstanding {
		current[b.ParticipantID] = b.Balance
	}
	for i := range state.Participants {
		state.Participants[i].CurrentBalance = current[state.Participants[i].ID]
	}
}

// CreateEvent creates an event and adds the caller as its first participant.
func (s *LedgerService) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("event name is required")
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Msg.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	if !validCurrency(currency) {
		return nil, invalidArgument("currency %q is not an ISO 4217 code", req.Msg.Currency)
	}
	if req.Msg.Budget < 0 {
		return nil, invalidArgument("budget cannot be negative")
	}

	creatorName := strings.TrimSpace(req.Msg.CreatorName)
	if creatorName == "" {
		user, err := s.store.GetUserByID(ctx, userID)
		if err != nil {
			return nil, toConnectError(err)
		}
		creatorName = user.DisplayName
	}

	event := &models.Event{
		Name:      name,
		Currency:  currency,
		Budget:    toDecimal(req.Msg.Budget),
		CreatedBy: userID,
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "CreateEvent failed", "error", err)
		return nil, toConnectError(err)
	}

	creator := &models.Participant{EventID: event.ID, UserID: userID, Name: creatorName}
	if err := s.store.AddParticipant(ctx, creator); err != nil {
		s.logger.ErrorContext(ctx, "CreateEvent: failed to add creator", "event_id", event.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Event created", "event_id", event.ID, "user_id", userID)
	return connect.NewResponse(&api.CreateEventResponse{
		Event:       toAPIEvent(event),
		Participant: toAPIParticipant(*creator),
	}), nil
}

const defaultCurrency = "USD"

func validCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// GetEvent returns an event with its participants.
func (s *LedgerService) GetEvent(ctx context.Context, req *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	state, err := s.load(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetEventResponse{
		Event:        toAPIEvent(state.Event),
		Participants: toAPIParticipants(state.Participants),
	}), nil
}

// AddParticipant adds a person to an event. Linking a registered user gives
// them access to the event.
func (s *LedgerService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	if _, err := s.load(ctx, req.Msg.EventID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("participant name is required")
	}
	if req.Msg.IndividualBudget < 0 {
		return nil, invalidArgument("individual budget cannot be negative")
	}
	if req.Msg.UserID != "" {
		if _, err := s.store.GetUserByID(ctx, req.Msg.UserID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, invalidArgument("user %s does not exist", req.Msg.UserID)
			}
			return nil, toConnectError(err)
		}
	}

	participant := &models.Participant{
		EventID:          req.Msg.EventID,
		UserID:           req.Msg.UserID,
		Name:             name,
		IndividualBudget: toDecimal(req.Msg.IndividualBudget),
	}
	if err := s.store.AddParticipant(ctx, participant); err != nil {
		s.logger.ErrorContext(ctx, "AddParticipant failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Participant added", "event_id", req.Msg.EventID, "participant_id", participant.ID)
	return connect.NewResponse(&api.AddParticipantResponse{Participant: toAPIParticipant(*participant)}), nil
}

// ListParticipants returns the participants of an event in join order.
func (s *LedgerService) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	state, err := s.load(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ListParticipantsResponse{
		Participants: toAPIParticipants(state.Participants),
	}), nil
}

// RemoveParticipant removes a participant that no expense or payment
// references.
func (s *LedgerService) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	unlock := s.lockEvent(req.Msg.EventID)
	defer unlock()

	state, err := s.load(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}
	if _, ok := state.participant(req.Msg.ParticipantID); !ok {
		return nil, connect.NewError(connect.CodeNotFound,
			fmt.Errorf("participant %s is not part of event %s", req.Msg.ParticipantID, req.Msg.EventID))
	}
	if isReferenced(state.Ledger, req.Msg.ParticipantID) {
		return nil, toConnectError(errParticipantInUse)
	}

	if err := s.store.DeleteParticipant(ctx, req.Msg.ParticipantID); err != nil {
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Participant removed", "event_id", req.Msg.EventID, "participant_id", req.Msg.ParticipantID)
	return connect.NewResponse(&api.RemoveParticipantResponse{}), nil
}

// isReferenced reports whether any expense or payment mentions the participant.
func isReferenced(ledger *storage.Ledger, id string) bool {
	for _, e := range ledger.Expenses {
		if e.PaidBy == id || slices.Contains(e.ParticipantIDs, id) {
			return true
		}
		if _, ok := e.CustomSplits[id]; ok {
			return true
		}
		if _, ok := e.PercentageSplits[id]; ok {
			return true
		}
		for _, item := range e.Items {
			if slices.Contains(item.AssignedTo, id) {
				return true
			}
		}
	}
	for _, p := range ledger.Payments {
		if p.FromID == id || p.ToID == id {
			return true
		}
	}
	return false
}
