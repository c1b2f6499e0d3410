package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/lessmo/internal/calculator"
	"github.com/mmynk/lessmo/internal/middleware"
	"github.com/mmynk/lessmo/internal/models"
	"github.com/mmynk/lessmo/pkg/api"
)

// checkExpense makes sure the ledger stays computable with the expense in it:
// valid split, positive amount and every referenced id a participant of the
// event.
func checkExpense(state *ledgerState, expense models.Expense) error {
	if strings.TrimSpace(expense.Description) == "" {
		return &calculator.InvalidExpenseError{ExpenseID: expense.ID, Reason: "description is required"}
	}
	candidate := slices.DeleteFunc(slices.Clone(state.Expenses), func(e models.Expense) bool {
		return e.ID != "" && e.ID == expense.ID
	})
	candidate = append(candidate, expense)
	_, err := calculator.ComputeBalances(candidate, state.Participants)
	return err
}

// findExpense returns the stored expense if it belongs to the event.
func findExpense(state *ledgerState, expenseID string) (models.Expense, error) {
	i := slices.IndexFunc(state.Expenses, func(e models.Expense) bool { return e.ID == expenseID })
	if i < 0 {
		return models.Expense{}, connect.NewError(connect.CodeNotFound,
			fmt.Errorf("expense %s is not part of event %s", expenseID, state.Event.ID))
	}
	return state.Expenses[i], nil
}

// CreateExpense logs an expense and returns the recomputed balances.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	if req.Msg.Expense == nil {
		return nil, invalidArgument("expense is required")
	}
	eventID := req.Msg.Expense.EventID

	unlock := s.lockEvent(eventID)
	defer unlock()

	state, err := s.load(ctx, eventID)
	if err != nil {
		return nil, err
	}

	expense := fromAPIExpense(req.Msg.Expense)
	expense.CreatedBy = middleware.GetUserID(ctx)
	if err := checkExpense(state, expense); err != nil {
		s.logger.WarnContext(ctx, "CreateExpense rejected", "event_id", eventID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.CreateExpense(ctx, &expense); err != nil {
		s.logger.ErrorContext(ctx, "CreateExpense failed", "event_id", eventID, "error", err)
		return nil, toConnectError(err)
	}
	s.logger.InfoContext(ctx, "Expense created",
		"event_id", eventID,
		"expense_id", expense.ID,
		"amount", expense.Amount.String(),
		"split_type", expense.SplitType,
	)

	fresh, err := s.refresh(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ExpenseResponse{
		Expense:  toAPIExpense(expense),
		Balances: toAPIBalances(fresh.balances),
	}), nil
}

// UpdateExpense replaces an expense. The balances are recomputed from the
// whole ledger, so the old version leaves no trace.
func (s *LedgerService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	if req.Msg.Expense == nil || req.Msg.Expense.ID == "" {
		return nil, invalidArgument("expense with id is required")
	}
	eventID := req.Msg.Expense.EventID

	unlock := s.lockEvent(eventID)
	defer unlock()

	state, err := s.load(ctx, eventID)
	if err != nil {
		return nil, err
	}
	existing, err := findExpense(state, req.Msg.Expense.ID)
	if err != nil {
		return nil, err
	}

	expense := fromAPIExpense(req.Msg.Expense)
	expense.ID = existing.ID
	expense.CreatedBy = existing.CreatedBy
	expense.CreatedAt = existing.CreatedAt
	if err := checkExpense(state, expense); err != nil {
		s.logger.WarnContext(ctx, "UpdateExpense rejected", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.UpdateExpense(ctx, &expense); err != nil {
		s.logger.ErrorContext(ctx, "UpdateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.logger.InfoContext(ctx, "Expense updated", "event_id", eventID, "expense_id", expense.ID)

	fresh, err := s.refresh(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ExpenseResponse{
		Expense:  toAPIExpense(expense),
		Balances: toAPIBalances(fresh.balances),
	}), nil
}

// DeleteExpense removes an expense and returns the recomputed balances.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	unlock := s.lockEvent(req.Msg.EventID)
	defer unlock()

	state, err := s.load(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}
	if _, err := findExpense(state, req.Msg.ExpenseID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		s.logger.ErrorContext(ctx, "DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}
	s.logger.InfoContext(ctx, "Expense deleted", "event_id", req.Msg.EventID, "expense_id", req.Msg.ExpenseID)

	fresh, err := s.refresh(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ExpenseResponse{Balances: toAPIBalances(fresh.balances)}), nil
}

// ListExpenses returns the expenses of an event in creation order.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	state, err := s.load(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}
	expenses := make([]*api.Expense, len(state.Expenses))
	for i, e := range state.Expenses {
		expenses[i] = toAPIExpense(e)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: expenses}), nil
}
